// Package gaps implements the reconciliation command: services observed
// in telemetry but not declared in the service catalog.
package gaps

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsatlas/svcmap/cmd/application"
	"github.com/opsatlas/svcmap/internal/cmd/cmdutil"
	"github.com/opsatlas/svcmap/internal/extract"
	"github.com/opsatlas/svcmap/internal/platform"
	"github.com/opsatlas/svcmap/internal/report"
	"github.com/opsatlas/svcmap/internal/secrets"
	"github.com/opsatlas/svcmap/pkg/errors"
)

// defaultMetricsQuery groups a ubiquitous trace metric by service so that
// every emitting service appears as a tagged series.
const defaultMetricsQuery = "sum:trace.http.request.hits{*} by {service}"

// defaultLogsQuery matches every indexed log event in the time range.
const defaultLogsQuery = "*"

// Options holds the gaps command flags.
type Options struct {
	OPVault string
	OPItem  string
	Days    int
}

// platformAPI is the slice of the platform client the pipeline consumes.
type platformAPI interface {
	QueryMetrics(ctx context.Context, query string, from, to time.Time) ([]byte, error)
	ListAPMServices(ctx context.Context, from, to time.Time) ([]byte, error)
	SearchLogs(ctx context.Context, query string, from, to time.Time) ([]byte, error)
	ListServiceDefinitions(ctx context.Context) ([]byte, error)
}

// NewCommand creates the gaps command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:     "gaps",
		GroupID: "core",
		Short:   "Report telemetry services missing from the catalog",
		Long: `Gaps fetches service names from three telemetry signals (metric
series, APM service listings, log events) and from the service catalog,
then reports every observed service that the catalog does not declare.

A signal that cannot be fetched or parsed contributes nothing; the
catalog fetch is required. The command exits 1 when any service is
missing from the catalog.`,
		Example: `  svcmap gaps                   # table report for the last 7 days
  svcmap gaps --days 30 -o json # JSON report for the last 30 days
  svcmap gaps -o csv > gaps.csv # CSV to a file`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), app, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.OPVault, "op-vault", secrets.DefaultVault, "1Password vault holding the API credentials")
	cmd.Flags().StringVar(&opts.OPItem, "op-item", secrets.DefaultItem, "1Password item holding the API credentials")
	cmd.Flags().IntVar(&opts.Days, "days", 7, "how many days of telemetry to inspect")

	return cmd
}

// run resolves credentials and executes the pipeline against the live
// platform.
func run(ctx context.Context, app application.Application, opts *Options, w io.Writer) error {
	creds, err := cmdutil.ResolveCredentials(ctx, app.Logger(), opts.OPVault, opts.OPItem)
	if err != nil {
		return err
	}

	return Reconcile(ctx, app, opts, platform.New(creds), w)
}

// Reconcile runs the reconciliation pipeline against the given API and
// writes the report to w. Exported for tests; run wires the live client.
func Reconcile(ctx context.Context, app application.Application, opts *Options, api platformAPI, w io.Writer) error {
	log := app.Logger()

	to := time.Now()
	from := to.AddDate(0, 0, -opts.Days)
	log.Debug().Time("from", from).Time("to", to).Msg("Reconciliation window")

	// Each telemetry signal is best-effort: a failed fetch degrades to an
	// empty contribution and the pipeline continues.
	metrics, err := api.QueryMetrics(ctx, defaultMetricsQuery, from, to)
	if err != nil {
		log.Info().Err(err).Str("signal", "metrics").Msg("Signal fetch failed, contributing no services")
		metrics = nil
	}

	traces, err := api.ListAPMServices(ctx, from, to)
	if err != nil {
		log.Info().Err(err).Str("signal", "traces").Msg("Signal fetch failed, contributing no services")
		traces = nil
	}

	logs, err := api.SearchLogs(ctx, defaultLogsQuery, from, to)
	if err != nil {
		log.Info().Err(err).Str("signal", "logs").Msg("Signal fetch failed, contributing no services")
		logs = nil
	}

	// The catalog is not best-effort: without it the comparison is
	// meaningless, so a failed fetch aborts the run.
	definitions, err := api.ListServiceDefinitions(ctx)
	if err != nil {
		return errors.WrapResource("fetch", "catalog", "service definitions", err)
	}

	telemetry := extract.TelemetryServices(log, metrics, traces, logs)
	catalog := extract.CatalogSet(definitions)
	log.Debug().
		Int("telemetry", telemetry.Count()).
		Int("catalog", catalog.Count()).
		Msg("Extracted service sets")

	rec := report.NewReconciliation(telemetry, catalog)

	format := report.Normalize(app.OutputFormat(), report.DefaultReconciliationFormat)
	if err := rec.Render(w, format); err != nil {
		return errors.WrapResource("render", "report", string(format), err)
	}

	if len(rec.Missing) > 0 {
		log.Warn().Int("count", len(rec.Missing)).Msg("Services missing from catalog")
		return errors.ErrMissingServices
	}

	log.Info().Msg("All telemetry services are declared in the catalog")
	return nil
}
