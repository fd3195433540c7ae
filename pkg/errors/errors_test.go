package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationErrorIs(t *testing.T) {
	err := &ValidationError{Field: "output", Message: "unknown format"}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
	if !strings.Contains(err.Error(), "output") {
		t.Errorf("Error message should name the field, got %q", err.Error())
	}
}

func TestCredentialErrorIs(t *testing.T) {
	err := &CredentialError{Field: "api_key", Source: "op://datadog/datadog-api", Message: "field not present"}

	if !errors.Is(err, ErrAPIKeyRequired) {
		t.Error("CredentialError should match ErrAPIKeyRequired")
	}
	if !strings.Contains(err.Error(), "api_key") {
		t.Errorf("Error message should name the credential field, got %q", err.Error())
	}
}

func TestAPIErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "with status code",
			err:  &APIError{Endpoint: "/api/v1/query", StatusCode: 403, Message: "forbidden"},
			want: "API error from /api/v1/query (status 403): forbidden",
		},
		{
			name: "without status code",
			err:  &APIError{Endpoint: "/api/v2/services", Message: "connection refused"},
			want: "API error from /api/v2/services: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &APIError{Endpoint: "/api/v1/query", Message: "request failed", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("APIError should unwrap to the underlying error")
	}
}

func TestDependencyErrorListsAllTools(t *testing.T) {
	err := &DependencyError{Tools: []string{"op", "git"}}

	msg := err.Error()
	for _, tool := range []string{"op", "git"} {
		if !strings.Contains(msg, tool) {
			t.Errorf("DependencyError message should list %q, got %q", tool, msg)
		}
	}
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	if WrapParse("json", "metrics response", nil) != nil {
		t.Error("WrapParse(nil) should return nil")
	}
	if WrapAPI("/api/v1/query", 500, nil) != nil {
		t.Error("WrapAPI(nil) should return nil")
	}
	if WrapResource("create", "request", "", nil) != nil {
		t.Error("WrapResource(nil) should return nil")
	}
}

func TestWrapParse(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := WrapParse("json", "logs response", inner)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Format != "json" {
		t.Errorf("Format = %q, want json", parseErr.Format)
	}
	if !errors.Is(err, inner) {
		t.Error("wrapped error should unwrap to the original")
	}
}

func TestIsMissingServices(t *testing.T) {
	wrapped := fmt.Errorf("gaps: %w", ErrMissingServices)
	if !IsMissingServices(wrapped) {
		t.Error("IsMissingServices should see through wrapping")
	}
	if IsMissingServices(errors.New("other")) {
		t.Error("IsMissingServices should be false for unrelated errors")
	}
}
