package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatlas/svcmap/pkg/services"
)

func strptr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		def   Format
		want  Format
	}{
		{"table", FormatJSON, FormatTable},
		{"JSON", FormatTable, FormatJSON},
		{"csv", FormatTable, FormatCSV},
		{"", FormatTable, FormatTable},
		{"", FormatJSON, FormatJSON},
		{"yaml", FormatTable, FormatTable},
		{"xml", FormatJSON, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.input+"_"+string(tt.def), func(t *testing.T) {
			if got := Normalize(tt.input, tt.def); got != tt.want {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.input, tt.def, got, tt.want)
			}
		})
	}
}

func TestReconciliationJSON(t *testing.T) {
	// Telemetry {a,b,c}, catalog {b}: missing must be {a,c}.
	r := NewReconciliation(
		services.NewSet([]string{"a", "b", "c"}),
		services.NewSet([]string{"b"}),
	)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatJSON))

	var doc struct {
		Summary struct {
			ServicesInTelemetry int `json:"services_in_telemetry"`
			ServicesInCatalog   int `json:"services_in_catalog"`
			MissingFromCatalog  int `json:"missing_from_catalog"`
		} `json:"summary"`
		MissingServices []string `json:"missing_services"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 3, doc.Summary.ServicesInTelemetry)
	assert.Equal(t, 1, doc.Summary.ServicesInCatalog)
	assert.Equal(t, 2, doc.Summary.MissingFromCatalog)
	assert.Equal(t, []string{"a", "c"}, doc.MissingServices)
}

func TestReconciliationJSONEmptyMissingIsArray(t *testing.T) {
	r := NewReconciliation(services.NewSet(nil), services.NewSet([]string{"x"}))

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatJSON))
	assert.Contains(t, buf.String(), `"missing_services": []`)
	assert.NotContains(t, buf.String(), "null")
}

func TestReconciliationTableSuccessSentence(t *testing.T) {
	// Empty telemetry against a one-service catalog: nothing missing.
	r := NewReconciliation(services.NewSet(nil), services.NewSet([]string{"x"}))

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Services in telemetry: 0")
	assert.Contains(t, out, "Services in catalog:   1")
	assert.Contains(t, out, "Missing from catalog:  0")
	assert.Contains(t, out, "All telemetry services are declared in the catalog.")
}

func TestReconciliationTableListsMissing(t *testing.T) {
	r := NewReconciliation(
		services.NewSet([]string{"web", "api"}),
		services.NewSet([]string{"api"}),
	)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Services missing from catalog:")
	assert.Contains(t, out, "  - web")
	assert.NotContains(t, out, "  - api")
}

func TestReconciliationCSV(t *testing.T) {
	r := NewReconciliation(
		services.NewSet([]string{"a", "b", "c"}),
		services.NewSet([]string{"b"}),
	)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"service_name", "status"}, records[0])
	assert.Equal(t, []string{"a", "missing_from_catalog"}, records[1])
	assert.Equal(t, []string{"c", "missing_from_catalog"}, records[2])
}

func TestReconciliationUnknownFormatFallsBackToTable(t *testing.T) {
	r := NewReconciliation(services.NewSet([]string{"a"}), services.NewSet(nil))

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Normalize("bogus", DefaultReconciliationFormat)))
	assert.Contains(t, buf.String(), "Service Reconciliation Report")
}

func TestReconciliationDeterminism(t *testing.T) {
	telemetry := services.NewSet([]string{"c", "a", "b"})
	catalog := services.NewSet([]string{"b"})

	var first, second bytes.Buffer
	require.NoError(t, NewReconciliation(telemetry, catalog).Render(&first, FormatJSON))
	require.NoError(t, NewReconciliation(telemetry, catalog).Render(&second, FormatJSON))

	assert.Equal(t, first.String(), second.String(), "re-rendering must be byte-identical")
}

func mappingFixture() Mapping {
	return Mapping{Services: []services.TeamMapping{
		{
			Service: "batch-runner",
			Team:    strptr("team-data"),
			Links:   []services.Link{},
		},
		{
			Service:     "web-frontend",
			Team:        strptr("team-storefront"),
			OrgUnit:     strptr("retail"),
			Description: strptr("Customer-facing storefront rendering and session handling"),
			Links: []services.Link{
				{Name: "runbook", URL: "https://wiki.example.com/web/runbook"},
			},
		},
	}}
}

func TestMappingJSONRoundTrip(t *testing.T) {
	m := mappingFixture()

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf, FormatJSON))

	var doc struct {
		Summary struct {
			TotalServices        int `json:"total_services"`
			ServicesWithTeams    int `json:"services_with_teams"`
			ServicesWithOrgUnits int `json:"services_with_org_units"`
		} `json:"summary"`
		Services []services.TeamMapping `json:"services"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 2, doc.Summary.TotalServices)
	assert.Equal(t, 2, doc.Summary.ServicesWithTeams)
	assert.Equal(t, 1, doc.Summary.ServicesWithOrgUnits)
	require.Len(t, doc.Services, 2)
	assert.Equal(t, m.Services, doc.Services, "records must survive the round trip exactly")

	// Absent optional fields serialize as null, not omitted.
	assert.Contains(t, buf.String(), `"org_unit": null`)
	assert.Contains(t, buf.String(), `"description": null`)
}

func TestMappingJSONEmptyCatalog(t *testing.T) {
	m := Mapping{}

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf, FormatJSON))

	var doc mappingDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 0, doc.Summary.TotalServices)
	assert.Equal(t, 0, doc.Summary.ServicesWithTeams)
	assert.Equal(t, 0, doc.Summary.ServicesWithOrgUnits)
	assert.Contains(t, buf.String(), `"services": []`)
}

func TestMappingCSV(t *testing.T) {
	m := Mapping{Services: []services.TeamMapping{
		{
			Service: "svc1",
			Team:    strptr("team-a"),
			OrgUnit: strptr("core"),
			Links:   []services.Link{},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf, FormatCSV))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "service,team,org_unit,description", lines[0])
	assert.Equal(t, "svc1,team-a,core,", lines[1])
}

func TestMappingTable(t *testing.T) {
	m := mappingFixture()

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf, FormatTable))

	out := buf.String()
	assert.Contains(t, out, "SERVICE")
	assert.Contains(t, out, "batch-runner")
	assert.Contains(t, out, "N/A", "absent org_unit renders as N/A")
	assert.Contains(t, out, "Total services:          2")
	assert.Contains(t, out, "Services with teams:     2")
	assert.Contains(t, out, "Services with org units: 1")

	// 58-rune description truncated to 27 runes plus ellipsis.
	assert.Contains(t, out, "Customer-facing storefront ...")
	assert.NotContains(t, out, "session handling")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short untouched", "short", "short"},
		{"exactly thirty", strings.Repeat("x", 30), strings.Repeat("x", 30)},
		{"thirty one cut", strings.Repeat("x", 31), strings.Repeat("x", 27) + "..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input); got != tt.want {
				t.Errorf("truncate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMappingUnknownFormatFallsBackToJSON(t *testing.T) {
	m := mappingFixture()

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf, Normalize("wide", DefaultMappingFormat)))
	assert.True(t, json.Valid(buf.Bytes()), "fallback for mapping reports is json")
}
