// Package deps verifies the external executables svcmap shells out to.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/opsatlas/svcmap/pkg/errors"
)

// Tool describes one external executable requirement.
type Tool struct {
	// Name is the executable looked up on PATH.
	Name string `json:"name" yaml:"name"`

	// DisplayName is the human-readable tool name.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// InstallHint tells the user how to install the tool when missing.
	InstallHint string `json:"install_hint" yaml:"install_hint"`
}

// Status is the result of checking one tool.
type Status struct {
	Available bool   `json:"available" yaml:"available"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Required lists the tools the credential pipeline needs. HTTP and JSON
// handling are native, so only the secrets CLI remains a hard requirement.
func Required() []Tool {
	return []Tool{
		{
			Name:        "op",
			DisplayName: "1Password CLI",
			InstallHint: "https://developer.1password.com/docs/cli/get-started/",
		},
	}
}

// Check verifies one tool is available on PATH and best-effort detects
// its version.
func Check(ctx context.Context, tool Tool) Status {
	path, err := exec.LookPath(tool.Name)
	if err != nil {
		return Status{Available: false}
	}

	status := Status{Available: true, Path: path}
	if version, err := getVersion(ctx, tool.Name); err == nil {
		status.Version = version
	}
	return status
}

// CheckAll checks every tool and returns the statuses keyed by tool name.
func CheckAll(ctx context.Context, tools []Tool) map[string]Status {
	results := make(map[string]Status, len(tools))
	for _, tool := range tools {
		results[tool.Name] = Check(ctx, tool)
	}
	return results
}

// Verify checks all required tools and returns a single error naming every
// missing one at once, or nil when all are present.
func Verify(ctx context.Context, tools []Tool) error {
	statuses := CheckAll(ctx, tools)

	var missing []string
	for _, tool := range tools {
		if !statuses[tool.Name].Available {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) > 0 {
		return &errors.DependencyError{Tools: missing}
	}
	return nil
}

// getVersion attempts to get the version of a command.
// This is a best-effort attempt - different tools have different version flags.
func getVersion(ctx context.Context, cmdName string) (string, error) {
	versionFlags := []string{"--version", "-v", "version"}

	for _, flag := range versionFlags {
		//nolint:gosec // cmdName comes from the static Required list
		cmd := exec.CommandContext(ctx, cmdName, flag)
		output, err := cmd.CombinedOutput()
		if err != nil {
			continue // Try next flag
		}

		if version := extractVersion(string(output)); version != "" {
			return version, nil
		}
	}

	return "", fmt.Errorf("could not determine version")
}

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)

// extractVersion pulls a semantic-looking version number from command output.
func extractVersion(output string) string {
	matches := versionPattern.FindStringSubmatch(output)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}
