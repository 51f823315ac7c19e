package utils

import "time"

const dateLayout = "2006-01-02"

// ParseDate parses an ISO date string at UTC midnight. Every endpoint and the
// seeder go through here so the half-open overlap comparison never suffers
// timezone off-by-one.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
