package listing

import (
	"slices"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// BuildFacets collects the filter options offered for jobs: distinct cities
// and tags, and the default countries followed by any others present.
func BuildFacets(jobs []models.Job) models.Facets {
	cities := make(map[string]struct{})
	tags := make(map[string]struct{})
	countries := make(map[string]struct{})

	for i := range jobs {
		if c := jobs[i].City; c != "" {
			cities[c] = struct{}{}
		}
		if c := jobs[i].Country; c != "" {
			countries[c] = struct{}{}
		}
		for _, t := range jobs[i].Tags {
			if t != "" {
				tags[t] = struct{}{}
			}
		}
	}

	defaults := models.DefaultCountries()
	for _, c := range defaults {
		delete(countries, c)
	}

	return models.Facets{
		Cities:    sortedKeys(cities),
		Countries: append(defaults, sortedKeys(countries)...),
		Tags:      sortedKeys(tags),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
