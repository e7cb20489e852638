package models

// TypeCount is the number of jobs of one type.
type TypeCount struct {
	Type  JobType `json:"type"`
	Count int     `json:"count"`
}

// CompanyCount is the number of jobs posted by one company.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// CityCount is the number of jobs located in one city.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// Stats summarizes the full job list, independent of active filters.
type Stats struct {
	TotalJobs    int            `json:"total_jobs"`
	JobTypes     []TypeCount    `json:"job_types"`
	TopCompanies []CompanyCount `json:"top_companies"`
	TopLocations []CityCount    `json:"top_locations"`
	RecentJobs   int            `json:"recent_jobs"`
}

// Facets are the distinct values offered as filter options.
type Facets struct {
	Cities    []string `json:"cities"`
	Countries []string `json:"countries"`
	Tags      []string `json:"tags"`
}

// DefaultCountries are always offered in the country filter.
func DefaultCountries() []string {
	return []string{"United States", "United Kingdom", "Canada", "Australia"}
}
