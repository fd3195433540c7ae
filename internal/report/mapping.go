package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/opsatlas/svcmap/pkg/services"
)

// DefaultMappingFormat is used when no format (or an unknown one) is
// requested for an ownership mapping report.
const DefaultMappingFormat = FormatJSON

// missingCell is rendered for absent team/org_unit values in table output.
const missingCell = "N/A"

// descriptionLimit bounds the description column; longer values are cut
// to truncatedLength runes plus an ellipsis.
const (
	descriptionLimit = 30
	truncatedLength  = 27
)

// Mapping is the ownership report over catalog services.
type Mapping struct {
	Services []services.TeamMapping
}

// mappingSummary holds the three counts shown with every format.
type mappingSummary struct {
	TotalServices        int `json:"total_services"`
	ServicesWithTeams    int `json:"services_with_teams"`
	ServicesWithOrgUnits int `json:"services_with_org_units"`
}

// mappingDoc is the JSON document shape.
type mappingDoc struct {
	Summary  mappingSummary         `json:"summary"`
	Services []services.TeamMapping `json:"services"`
}

func (m Mapping) summary() mappingSummary {
	s := mappingSummary{TotalServices: len(m.Services)}
	for _, svc := range m.Services {
		if svc.Team != nil {
			s.ServicesWithTeams++
		}
		if svc.OrgUnit != nil {
			s.ServicesWithOrgUnits++
		}
	}
	return s
}

// Render writes the report to w in the given format.
func (m Mapping) Render(w io.Writer, format Format) error {
	switch format {
	case FormatTable:
		return m.renderTable(w)
	case FormatCSV:
		return m.renderCSV(w)
	default:
		return m.renderJSON(w)
	}
}

func (m Mapping) renderTable(w io.Writer) error {
	table := tablewriter.NewTable(w)
	table.Header("SERVICE", "TEAM", "ORG_UNIT", "DESCRIPTION")

	for _, svc := range m.Services {
		row := []any{
			svc.Service,
			orElse(svc.Team, missingCell),
			orElse(svc.OrgUnit, missingCell),
			truncate(orElse(svc.Description, "")),
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}

	s := m.summary()
	_, err := fmt.Fprintf(w,
		"\nTotal services:          %d\n"+
			"Services with teams:     %d\n"+
			"Services with org units: %d\n",
		s.TotalServices, s.ServicesWithTeams, s.ServicesWithOrgUnits)
	return err
}

func (m Mapping) renderJSON(w io.Writer) error {
	doc := mappingDoc{
		Summary: m.summary(),
		// Zero services is a valid document, not an error; keep the array
		// present and empty rather than null.
		Services: m.Services,
	}
	if doc.Services == nil {
		doc.Services = []services.TeamMapping{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func (m Mapping) renderCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"service", "team", "org_unit", "description"}); err != nil {
		return err
	}
	for _, svc := range m.Services {
		row := []string{
			svc.Service,
			orElse(svc.Team, ""),
			orElse(svc.OrgUnit, ""),
			orElse(svc.Description, ""),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// orElse dereferences an optional field with a fallback.
func orElse(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

// truncate cuts descriptions longer than descriptionLimit runes.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionLimit {
		return s
	}
	return string(runes[:truncatedLength]) + "..."
}
