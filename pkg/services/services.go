// Package services defines the domain types shared by the svcmap pipeline:
// sorted service-name sets extracted from telemetry and catalog listings,
// ownership records for catalog services, and the set difference used for
// reconciliation.
package services

import "sort"

// Set is a deduplicated, lexicographically sorted (byte-wise ascending)
// collection of service names. The zero value is a valid empty set.
type Set []string

// NewSet builds a Set from a multiset of candidate strings. Empty-string
// candidates are dropped, duplicates collapsed, and the result sorted.
func NewSet(candidates []string) Set {
	seen := make(map[string]struct{}, len(candidates))
	set := make(Set, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		set = append(set, c)
	}
	sort.Strings(set)
	return set
}

// Contains reports whether name is a member of the set.
func (s Set) Contains(name string) bool {
	i := sort.SearchStrings(s, name)
	return i < len(s) && s[i] == name
}

// Count returns the cardinality of the set. An empty set counts as zero;
// there is no empty-line artifact to preserve.
func (s Set) Count() int {
	return len(s)
}

// Diff returns the members of s absent from other, using byte-exact
// equality. Both sets are already sorted, so this is a linear merge walk;
// the result order is inherited and deterministic without re-sorting.
func (s Set) Diff(other Set) Set {
	missing := make(Set, 0)
	i, j := 0, 0
	for i < len(s) {
		switch {
		case j >= len(other) || s[i] < other[j]:
			missing = append(missing, s[i])
			i++
		case s[i] == other[j]:
			i++
			j++
		default: // s[i] > other[j]
			j++
		}
	}
	return missing
}

// Link is a named URL attached to a catalog service.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TeamMapping is the ownership record for one catalog service. Service is
// never empty; records without it are discarded during extraction. Optional
// fields are nil when the catalog omits them and serialize as JSON null.
// Links is never nil, only ever empty.
type TeamMapping struct {
	Service     string  `json:"service"`
	Team        *string `json:"team"`
	OrgUnit     *string `json:"org_unit"`
	Description *string `json:"description"`
	Links       []Link  `json:"links"`
}

// SortMappings orders mappings by service name ascending, in place.
func SortMappings(mappings []TeamMapping) {
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].Service < mappings[j].Service
	})
}
