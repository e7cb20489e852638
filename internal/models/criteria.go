package models

import (
	"net/url"
	"strings"
)

// DateRange limits listings to a window ending now.
type DateRange string

// DateRange constants. The empty value disables the filter.
const (
	DateRangeAny         DateRange = ""
	DateRangeToday       DateRange = "today"
	DateRangeWeek        DateRange = "week"
	DateRangeMonth       DateRange = "month"
	DateRangeThreeMonths DateRange = "3months"
)

// IsValid reports whether d is a recognized range.
func (d DateRange) IsValid() bool {
	switch d {
	case DateRangeAny, DateRangeToday, DateRangeWeek, DateRangeMonth, DateRangeThreeMonths:
		return true
	}
	return false
}

// SortMode selects the listing order.
type SortMode string

// SortMode constants.
const (
	SortPostingDateDesc SortMode = "posting_date_desc"
	SortPostingDateAsc  SortMode = "posting_date_asc"
	SortTitleAsc        SortMode = "title_asc"
	SortTitleDesc       SortMode = "title_desc"
	SortCompanyAsc      SortMode = "company_asc"
	SortCompanyDesc     SortMode = "company_desc"
)

// DefaultSort is used for empty and unrecognized sort values.
const DefaultSort = SortPostingDateDesc

// IsValid reports whether s is one of the six modes.
func (s SortMode) IsValid() bool {
	switch s {
	case SortPostingDateDesc, SortPostingDateAsc, SortTitleAsc, SortTitleDesc, SortCompanyAsc, SortCompanyDesc:
		return true
	}
	return false
}

// Option is a value/label pair for select inputs.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SortOptions lists the sort modes with their labels.
func SortOptions() []Option {
	return []Option{
		{Value: string(SortPostingDateDesc), Label: "Newest First"},
		{Value: string(SortPostingDateAsc), Label: "Oldest First"},
		{Value: string(SortTitleAsc), Label: "Title A-Z"},
		{Value: string(SortTitleDesc), Label: "Title Z-A"},
		{Value: string(SortCompanyAsc), Label: "Company A-Z"},
		{Value: string(SortCompanyDesc), Label: "Company Z-A"},
	}
}

// DateRangeOptions lists the date ranges with their labels.
func DateRangeOptions() []Option {
	return []Option{
		{Value: string(DateRangeAny), Label: "All Time"},
		{Value: string(DateRangeToday), Label: "Today"},
		{Value: string(DateRangeWeek), Label: "This Week"},
		{Value: string(DateRangeMonth), Label: "This Month"},
		{Value: string(DateRangeThreeMonths), Label: "Last 3 Months"},
	}
}

// FilterCriteria holds the active filter and sort selections.
// Empty fields do not filter.
type FilterCriteria struct {
	Search    string    `json:"search,omitempty" yaml:"search,omitempty"`
	JobType   JobType   `json:"job_type,omitempty" yaml:"job_type,omitempty"`
	Location  string    `json:"location,omitempty" yaml:"location,omitempty"`
	City      string    `json:"city,omitempty" yaml:"city,omitempty"`
	Country   string    `json:"country,omitempty" yaml:"country,omitempty"`
	Tag       string    `json:"tag,omitempty" yaml:"tag,omitempty"`
	DateRange DateRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`
	Sort      SortMode  `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// DefaultCriteria returns criteria that keep every job, newest first.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Sort: DefaultSort}
}

// Cleared drops every filter, the date range included, and restores the
// default sort.
func (c FilterCriteria) Cleared() FilterCriteria {
	return DefaultCriteria()
}

// HasActiveFilters reports whether any field filter (not the date range or
// sort) is set.
func (c FilterCriteria) HasActiveFilters() bool {
	return c.Search != "" || c.JobType != "" || c.Location != "" ||
		c.City != "" || c.Country != "" || c.Tag != ""
}

// CriteriaFromQuery reads criteria from URL query parameters.
func CriteriaFromQuery(q url.Values) FilterCriteria {
	c := FilterCriteria{
		Search:    q.Get("search"),
		JobType:   JobType(q.Get("job_type")),
		Location:  q.Get("location"),
		City:      q.Get("city"),
		Country:   q.Get("country"),
		Tag:       q.Get("tag"),
		DateRange: DateRange(strings.TrimSpace(q.Get("date_range"))),
		Sort:      SortMode(strings.TrimSpace(q.Get("sort"))),
	}
	if c.Sort == "" {
		c.Sort = DefaultSort
	}
	return c
}

// Query encodes the non-empty fields as URL query parameters.
func (c FilterCriteria) Query() url.Values {
	q := url.Values{}
	set := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	set("search", c.Search)
	set("job_type", string(c.JobType))
	set("location", c.Location)
	set("city", c.City)
	set("country", c.Country)
	set("tag", c.Tag)
	set("date_range", string(c.DateRange))
	if c.Sort != "" && c.Sort != DefaultSort {
		q.Set("sort", string(c.Sort))
	}
	return q
}
