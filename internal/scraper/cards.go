package scraper

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/validation"
)

// ErrNoJobGrid is returned when the page has no job grid section, usually
// because the site changed its markup or blocked the browser.
var ErrNoJobGrid = errors.New("job grid section not found")

const (
	gridSelector     = `section[class*="Job_grid"]`
	cardSelector     = `div[class*="job-card"]`
	companySelector  = `p[class*="company"]`
	positionSelector = `p[class*="position"]`
	postedSelector   = `p[class*="posted-on"]`
	locationSelector = `a[class*="location"]`

	unknownCountry = "Unknown"
)

// ParseCards reads job cards from a rendered listing page. Cards without a
// company or position are skipped. The listing site only shows a single
// location, so it fills both location and city; every scraped job is
// Full-Time and remote jobs get a "Remote" tag.
func ParseCards(r io.Reader, now time.Time) ([]validation.Form, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	grid := doc.Find(gridSelector).First()
	if grid.Length() == 0 {
		return nil, ErrNoJobGrid
	}

	var forms []validation.Form
	grid.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		company := cleanText(card.Find(companySelector).First().Text())
		position := cleanText(card.Find(positionSelector).First().Text())
		if company == "" || position == "" {
			return
		}
		location := cleanText(card.Find(locationSelector).First().Text())

		f := validation.Form{
			Title:       position,
			Company:     company,
			Location:    location,
			City:        location,
			Country:     unknownCountry,
			PostingDate: ParseDate(card.Find(postedSelector).First().Text(), now),
			JobType:     string(models.JobTypeFullTime),
		}
		if strings.Contains(location, "Remote") {
			f.Tags = "Remote"
		}
		forms = append(forms, f)
	})

	return forms, nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
