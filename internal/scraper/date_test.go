package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"empty", "", "2024-03-15"},
		{"hours same day", "3h ago", "2024-03-15"},
		{"hours previous day", "12h ago", "2024-03-14"},
		{"days", "2d ago", "2024-03-13"},
		{"mixed case and spaces", "  2D AGO ", "2024-03-13"},
		{"one week", "1 week ago", "2024-03-08"},
		{"weeks", "3 weeks ago", "2024-02-23"},
		{"one month is 30 days", "1 month ago", "2024-02-14"},
		{"months", "2 months ago", "2024-01-15"},
		{"no number", "a month ago", "2024-03-15"},
		{"unrecognized", "Featured", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.label, testNow))
		})
	}
}
