// Package deps provides the command for checking external tool
// availability.
package deps

import (
	"github.com/spf13/cobra"

	"github.com/opsatlas/svcmap/cmd/application"
	"github.com/opsatlas/svcmap/internal/cmd/output"
	"github.com/opsatlas/svcmap/internal/deps"
	"github.com/opsatlas/svcmap/pkg/errors"
)

// ToolStatus combines a tool definition with its check result.
type ToolStatus struct {
	Tool        string `json:"tool" yaml:"tool"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Available   bool   `json:"available" yaml:"available"`
	Path        string `json:"path" yaml:"path"`
	Version     string `json:"version" yaml:"version"`
	InstallHint string `json:"install_hint" yaml:"install_hint"`
}

// NewCommand creates the deps command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external tools",
		Long: `Deps verifies that the external tools svcmap shells out to (the
1Password CLI) are installed and on PATH. For each tool it shows the
installation path, the detected version, and install instructions when
missing.`,
		Example: `  svcmap deps            # table status
  svcmap deps -o json    # JSON status
  svcmap deps -o yaml    # YAML status`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, app)
		},
	}
}

// runCheck executes the dependency check command.
func runCheck(cmd *cobra.Command, app application.Application) error {
	tools := deps.Required()
	statuses := deps.CheckAll(cmd.Context(), tools)

	results := make([]ToolStatus, 0, len(tools))
	var missing []string
	for _, tool := range tools {
		status := statuses[tool.Name]
		row := ToolStatus{
			Tool:        tool.Name,
			DisplayName: tool.DisplayName,
			Available:   status.Available,
			Path:        status.Path,
			Version:     status.Version,
		}
		if !status.Available {
			row.InstallHint = tool.InstallHint
			missing = append(missing, tool.Name)
		}
		results = append(results, row)
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return &errors.ValidationError{Field: "output", Message: err.Error()}
	}
	if format == "" {
		format = output.DetectFormat("")
	}

	formatter := output.NewFormatter(format)
	if err := formatter.Format(cmd.OutOrStdout(), results); err != nil {
		return errors.WrapResource("render", "report", string(format), err)
	}

	if len(missing) > 0 {
		return &errors.DependencyError{Tools: missing}
	}
	return nil
}
