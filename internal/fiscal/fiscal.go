// Package fiscal provides calendar-year fiscal period and date formatting
// utilities. Fiscal years are approximated by calendar year boundaries.
package fiscal

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date layout used throughout the provider.
const DateLayout = "2006-01-02"

// Period returns the start and end dates of the fiscal year approximated by
// the given calendar year: January 1 through December 31, UTC.
func Period(year int) (start, end time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// FormatDate renders a date as an ISO yyyy-mm-dd string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// YearOf parses an ISO date string and returns its calendar year.
func YearOf(dateStr string) (int, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return 0, fmt.Errorf("invalid date string %q: %w", dateStr, err)
	}
	return t.Year(), nil
}
