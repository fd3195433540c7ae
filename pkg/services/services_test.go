package services

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewSetDedupsAndSorts(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       Set
	}{
		{
			name:       "duplicates and unsorted input",
			candidates: []string{"web", "api", "web", "auth", "api"},
			want:       Set{"api", "auth", "web"},
		},
		{
			name:       "empty candidates dropped",
			candidates: []string{"", "web", "", ""},
			want:       Set{"web"},
		},
		{
			name:       "nil input yields empty set",
			candidates: nil,
			want:       Set{},
		},
		{
			name:       "case and whitespace preserved",
			candidates: []string{"Web", "web", " web"},
			want:       Set{" web", "Web", "web"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSet(tt.candidates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewSet(%v) = %v, want %v", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestSetContains(t *testing.T) {
	set := NewSet([]string{"api", "auth", "web"})

	if !set.Contains("auth") {
		t.Error("expected set to contain auth")
	}
	if set.Contains("Auth") {
		t.Error("membership must be byte-exact, Auth should not match")
	}
	if set.Contains("") {
		t.Error("empty string should never be a member")
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name      string
		telemetry Set
		catalog   Set
		want      Set
	}{
		{
			name:      "partial overlap",
			telemetry: NewSet([]string{"a", "b", "c"}),
			catalog:   NewSet([]string{"b"}),
			want:      Set{"a", "c"},
		},
		{
			name:      "empty telemetry",
			telemetry: Set{},
			catalog:   NewSet([]string{"x"}),
			want:      Set{},
		},
		{
			name:      "empty catalog yields full telemetry set",
			telemetry: NewSet([]string{"a", "b"}),
			catalog:   Set{},
			want:      Set{"a", "b"},
		},
		{
			name:      "identical sets",
			telemetry: NewSet([]string{"a", "b"}),
			catalog:   NewSet([]string{"a", "b"}),
			want:      Set{},
		},
		{
			name:      "catalog superset",
			telemetry: NewSet([]string{"b"}),
			catalog:   NewSet([]string{"a", "b", "c"}),
			want:      Set{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.telemetry.Diff(tt.catalog)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiffIsSubsetAndDisjoint(t *testing.T) {
	telemetry := NewSet([]string{"web", "api", "auth", "billing", "queue"})
	catalog := NewSet([]string{"api", "billing", "frontend"})

	missing := telemetry.Diff(catalog)

	for _, name := range missing {
		if !telemetry.Contains(name) {
			t.Errorf("missing entry %q not in telemetry set", name)
		}
		if catalog.Contains(name) {
			t.Errorf("missing entry %q present in catalog set", name)
		}
	}
}

func TestDiffDeterminism(t *testing.T) {
	telemetry := NewSet([]string{"c", "a", "b", "a", "c"})
	catalog := NewSet([]string{"b", "b"})

	first := telemetry.Diff(catalog)
	second := telemetry.Diff(catalog)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated diff produced different results: %v vs %v", first, second)
	}
}

func TestTeamMappingJSONNullsAndLinks(t *testing.T) {
	team := "team-a"
	m := TeamMapping{
		Service: "svc1",
		Team:    &team,
		Links:   []Link{},
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"service":"svc1","team":"team-a","org_unit":null,"description":null,"links":[]}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestSortMappings(t *testing.T) {
	mappings := []TeamMapping{
		{Service: "web", Links: []Link{}},
		{Service: "api", Links: []Link{}},
		{Service: "queue", Links: []Link{}},
	}

	SortMappings(mappings)

	want := []string{"api", "queue", "web"}
	for i, m := range mappings {
		if m.Service != want[i] {
			t.Errorf("position %d: got %q, want %q", i, m.Service, want[i])
		}
	}
}
