package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/opsatlas/svcmap/pkg/services"
)

// DefaultReconciliationFormat is used when no format (or an unknown one)
// is requested for a reconciliation report.
const DefaultReconciliationFormat = FormatTable

// csvMissingStatus is the constant status column value in CSV output.
const csvMissingStatus = "missing_from_catalog"

// Reconciliation is the result of comparing telemetry services against
// the catalog. Missing is always a subset of the telemetry set.
type Reconciliation struct {
	TelemetryCount int
	CatalogCount   int
	Missing        services.Set
}

// NewReconciliation computes telemetry − catalog.
func NewReconciliation(telemetry, catalog services.Set) Reconciliation {
	return Reconciliation{
		TelemetryCount: telemetry.Count(),
		CatalogCount:   catalog.Count(),
		Missing:        telemetry.Diff(catalog),
	}
}

// reconciliationDoc is the JSON document shape.
type reconciliationDoc struct {
	Summary struct {
		ServicesInTelemetry int `json:"services_in_telemetry"`
		ServicesInCatalog   int `json:"services_in_catalog"`
		MissingFromCatalog  int `json:"missing_from_catalog"`
	} `json:"summary"`
	MissingServices []string `json:"missing_services"`
}

// Render writes the report to w in the given format.
func (r Reconciliation) Render(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return r.renderJSON(w)
	case FormatCSV:
		return r.renderCSV(w)
	default:
		return r.renderTable(w)
	}
}

func (r Reconciliation) renderTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w,
		"Service Reconciliation Report\n"+
			"=============================\n\n"+
			"Services in telemetry: %d\n"+
			"Services in catalog:   %d\n"+
			"Missing from catalog:  %d\n\n",
		r.TelemetryCount, r.CatalogCount, len(r.Missing)); err != nil {
		return err
	}

	if len(r.Missing) == 0 {
		_, err := fmt.Fprintln(w, "All telemetry services are declared in the catalog.")
		return err
	}

	if _, err := fmt.Fprintln(w, "Services missing from catalog:"); err != nil {
		return err
	}
	for _, name := range r.Missing {
		if _, err := fmt.Fprintf(w, "  - %s\n", name); err != nil {
			return err
		}
	}
	return nil
}

func (r Reconciliation) renderJSON(w io.Writer) error {
	doc := reconciliationDoc{
		// Missing defaults to an empty array in output, never null.
		MissingServices: append([]string{}, r.Missing...),
	}
	doc.Summary.ServicesInTelemetry = r.TelemetryCount
	doc.Summary.ServicesInCatalog = r.CatalogCount
	doc.Summary.MissingFromCatalog = len(r.Missing)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func (r Reconciliation) renderCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"service_name", "status"}); err != nil {
		return err
	}
	for _, name := range r.Missing {
		if err := writer.Write([]string{name, csvMissingStatus}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
