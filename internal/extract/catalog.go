package extract

import (
	"encoding/json"
	"strings"

	"github.com/opsatlas/svcmap/pkg/errors"
	"github.com/opsatlas/svcmap/pkg/services"
)

// orgUnitTagPrefix marks the catalog tag carrying the org unit.
const orgUnitTagPrefix = "org_unit:"

// teamContactType selects the contact entry holding the owning team.
const teamContactType = "team"

// definitionsPayload is the simple service-definitions listing.
type definitionsPayload struct {
	Data []definitionEntry `json:"data"`
}

type definitionEntry struct {
	Attributes definitionAttributes `json:"attributes"`
}

type definitionAttributes struct {
	Service string `json:"service"`
}

// catalogPayload is the richer catalog listing used for enrichment.
type catalogPayload struct {
	Data []catalogEntry `json:"data"`
}

type catalogEntry struct {
	Attributes catalogAttributes `json:"attributes"`
}

type catalogAttributes struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Contacts    []catalogContact `json:"contacts"`
	Tags        []string         `json:"tags"`
	Links       []catalogLink    `json:"links"`
}

type catalogContact struct {
	Type    string `json:"type"`
	Contact string `json:"contact"`
}

type catalogLink struct {
	Name *string `json:"name"`
	URL  *string `json:"url"`
}

// CatalogSet extracts the declared service names from a definitions
// listing. A malformed payload yields an empty set, not an error.
func CatalogSet(payload []byte) services.Set {
	var parsed definitionsPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return services.NewSet(nil)
	}

	candidates := make([]string, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		candidates = append(candidates, entry.Attributes.Service)
	}
	return services.NewSet(candidates)
}

// TeamMappings extracts ownership records from the richer catalog
// listing, sorted by service name. Entries without a service name are
// discarded entirely. Unlike telemetry signals, a malformed payload here
// is an error: enrichment has no other source to fall back on.
func TeamMappings(payload []byte) ([]services.TeamMapping, error) {
	if len(payload) == 0 {
		return nil, errors.ErrCatalogEmpty
	}

	var parsed catalogPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, errors.WrapParse("json", "service catalog response", err)
	}

	mappings := make([]services.TeamMapping, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		attrs := entry.Attributes
		if attrs.Name == "" {
			continue
		}

		mapping := services.TeamMapping{
			Service:     attrs.Name,
			Description: attrs.Description,
			Links:       []services.Link{},
		}

		for _, contact := range attrs.Contacts {
			if contact.Type == teamContactType && contact.Contact != "" {
				team := contact.Contact
				mapping.Team = &team
				break
			}
		}

		for _, tag := range attrs.Tags {
			if suffix, ok := strings.CutPrefix(tag, orgUnitTagPrefix); ok && suffix != "" {
				orgUnit := suffix
				mapping.OrgUnit = &orgUnit
				break
			}
		}

		for _, link := range attrs.Links {
			if link.Name == nil || link.URL == nil || *link.Name == "" || *link.URL == "" {
				continue
			}
			mapping.Links = append(mapping.Links, services.Link{Name: *link.Name, URL: *link.URL})
		}

		mappings = append(mappings, mapping)
	}

	services.SortMappings(mappings)
	return mappings, nil
}
