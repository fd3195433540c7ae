// Package teams implements the enrichment command: catalog services with
// their ownership metadata.
package teams

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/opsatlas/svcmap/cmd/application"
	"github.com/opsatlas/svcmap/internal/cmd/cmdutil"
	"github.com/opsatlas/svcmap/internal/extract"
	"github.com/opsatlas/svcmap/internal/platform"
	"github.com/opsatlas/svcmap/internal/report"
	"github.com/opsatlas/svcmap/internal/secrets"
	"github.com/opsatlas/svcmap/pkg/errors"
)

// Options holds the teams command flags.
type Options struct {
	OPVault string
	OPItem  string
}

// platformAPI is the slice of the platform client the pipeline consumes.
type platformAPI interface {
	ListServiceCatalog(ctx context.Context) ([]byte, error)
}

// NewCommand creates the teams command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:     "teams",
		GroupID: "core",
		Short:   "Report catalog services with their owning teams",
		Long: `Teams fetches the service catalog and reports each declared service
with its owning team, org unit, description, and links.

A catalog with zero services is a valid result and still produces a
complete (empty) document. Only a failed catalog fetch is an error.`,
		Example: `  svcmap teams            # JSON ownership report
  svcmap teams -o table   # human-readable table
  svcmap teams -o csv     # CSV without links`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), app, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.OPVault, "op-vault", secrets.DefaultVault, "1Password vault holding the API credentials")
	cmd.Flags().StringVar(&opts.OPItem, "op-item", secrets.DefaultItem, "1Password item holding the API credentials")

	return cmd
}

// run resolves credentials and executes the pipeline against the live
// platform.
func run(ctx context.Context, app application.Application, opts *Options, w io.Writer) error {
	creds, err := cmdutil.ResolveCredentials(ctx, app.Logger(), opts.OPVault, opts.OPItem)
	if err != nil {
		return err
	}

	return Enrich(ctx, app, platform.New(creds), w)
}

// Enrich runs the enrichment pipeline against the given API and writes
// the report to w. Exported for tests; run wires the live client.
func Enrich(ctx context.Context, app application.Application, api platformAPI, w io.Writer) error {
	log := app.Logger()

	// Unlike telemetry signals in reconciliation, the catalog fetch is the
	// only source here and its failure is fatal.
	payload, err := api.ListServiceCatalog(ctx)
	if err != nil {
		return errors.WrapResource("fetch", "catalog", "service listing", err)
	}

	mappings, err := extract.TeamMappings(payload)
	if err != nil {
		return err
	}
	log.Debug().Int("services", len(mappings)).Msg("Extracted ownership records")

	m := report.Mapping{Services: mappings}

	format := report.Normalize(app.OutputFormat(), report.DefaultMappingFormat)
	if err := m.Render(w, format); err != nil {
		return errors.WrapResource("render", "report", string(format), err)
	}

	return nil
}
