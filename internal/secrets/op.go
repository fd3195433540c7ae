// Package secrets resolves telemetry platform credentials from the
// 1Password CLI. Credentials are fetched once at startup and held in
// memory; they are never written to any output stream.
package secrets

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/opsatlas/svcmap/pkg/errors"
)

// DefaultSite is the platform domain used when the secret item has no
// site field.
const DefaultSite = "datadoghq.com"

// Default vault and item names for the platform credentials.
const (
	DefaultVault = "datadog"
	DefaultItem  = "datadog-api"
)

// Credentials is the three-field bundle required to call the platform
// APIs. APIKey and AppKey are always non-empty; Site is defaulted when
// the secret store omits it.
type Credentials struct {
	APIKey string
	AppKey string
	Site   string
}

// commandRunner abstracts process execution so tests can stub the op CLI.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Provider reads credentials from a named vault item via the op CLI.
type Provider struct {
	Vault string
	Item  string

	run commandRunner
}

// NewProvider creates a Provider for the given vault and item.
func NewProvider(vault, item string) *Provider {
	return &Provider{
		Vault: vault,
		Item:  item,
		run:   runCommand,
	}
}

// opField is one entry of `op item get --format json --fields ...` output.
type opField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Resolve fetches the credential bundle from the secret store. A missing
// api_key or app_key field is an error; a missing site falls back to
// DefaultSite.
func (p *Provider) Resolve(ctx context.Context) (Credentials, error) {
	args := []string{
		"item", "get", p.Item,
		"--vault", p.Vault,
		"--format", "json",
		"--fields", "label=api_key,label=app_key,label=site",
	}

	output, err := p.run(ctx, "op", args...)
	if err != nil {
		return Credentials{}, &errors.ProcessError{
			Operation: "read secret item",
			Command:   "op " + strings.Join(args, " "),
			Output:    strings.TrimSpace(string(output)),
			Err:       err,
		}
	}

	fields, err := parseFields(output)
	if err != nil {
		return Credentials{}, err
	}

	source := "op://" + p.Vault + "/" + p.Item
	creds := Credentials{
		APIKey: fields["api_key"],
		AppKey: fields["app_key"],
		Site:   fields["site"],
	}

	if creds.APIKey == "" {
		return Credentials{}, &errors.CredentialError{
			Field:   "api_key",
			Source:  source,
			Message: "field missing or empty",
		}
	}
	if creds.AppKey == "" {
		return Credentials{}, &errors.CredentialError{
			Field:   "app_key",
			Source:  source,
			Message: "field missing or empty",
		}
	}
	if creds.Site == "" {
		creds.Site = DefaultSite
	}

	return creds, nil
}

// parseFields decodes the op field listing. A single requested field comes
// back as one object rather than an array, so both shapes are accepted.
func parseFields(output []byte) (map[string]string, error) {
	fields := make(map[string]string)

	var list []opField
	if err := json.Unmarshal(output, &list); err != nil {
		var single opField
		if err := json.Unmarshal(output, &single); err != nil {
			return nil, errors.WrapParse("json", "op item output", err)
		}
		list = []opField{single}
	}

	for _, f := range list {
		if f.Label != "" {
			fields[f.Label] = f.Value
		}
	}
	return fields, nil
}

// FromEnv returns credentials from DD_API_KEY/DD_APP_KEY/DD_SITE when both
// keys are set, bypassing the secrets CLI entirely.
func FromEnv() (Credentials, bool) {
	apiKey := os.Getenv("DD_API_KEY")
	appKey := os.Getenv("DD_APP_KEY")
	if apiKey == "" || appKey == "" {
		return Credentials{}, false
	}

	site := os.Getenv("DD_SITE")
	if site == "" {
		site = DefaultSite
	}
	return Credentials{APIKey: apiKey, AppKey: appKey, Site: site}, true
}

// runCommand executes a command and returns its combined output.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	//nolint:gosec // name and args are built from static templates above
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
