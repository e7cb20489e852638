package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

var (
	hoursAgo  = regexp.MustCompile(`(\d+)h ago`)
	daysAgo   = regexp.MustCompile(`(\d+)d ago`)
	weeksAgo  = regexp.MustCompile(`(\d+)\s*week`)
	monthsAgo = regexp.MustCompile(`(\d+)\s*month`)
)

// ParseDate turns a card's relative "posted" label ("3h ago", "2d ago",
// "1 week ago", "2 months ago") into a YYYY-MM-DD date relative to now.
// A month counts as 30 days. Empty or unrecognized labels give today.
func ParseDate(label string, now time.Time) string {
	label = strings.ToLower(strings.TrimSpace(label))

	for _, rule := range []struct {
		re   *regexp.Regexp
		unit time.Duration
	}{
		{hoursAgo, time.Hour},
		{daysAgo, 24 * time.Hour},
		{weeksAgo, 7 * 24 * time.Hour},
		{monthsAgo, 30 * 24 * time.Hour},
	} {
		m := rule.re.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return now.Add(-time.Duration(n) * rule.unit).Format(models.PostingDateLayout)
	}

	return now.Format(models.PostingDateLayout)
}
