// Package timestamp turns the fixed entry timestamp format into
// date/day-of-week/hour buckets for the time-series aggregates.
package timestamp

import "time"

// Layout is the only timestamp format the entry grammar admits.
const Layout = "2006-01-02 15:04:05"

// Unknown is the bucket used when a timestamp fails to parse.
const Unknown = "unknown"

// Bucket holds the time components derived from an entry timestamp.
// When Parsed is false the record still gets a bucket (Unknown / hour 0)
// but must be skipped for burst and trend timing.
type Bucket struct {
	Date      string
	DayOfWeek string
	Hour      int
	Time      time.Time
	Parsed    bool
}

// Parse derives the time bucket for a raw entry timestamp.
func Parse(raw string) Bucket {
	t, err := time.Parse(Layout, raw)
	if err != nil {
		return Bucket{Date: Unknown, DayOfWeek: Unknown, Hour: 0}
	}
	return Bucket{
		Date:      t.Format("2006-01-02"),
		DayOfWeek: t.Weekday().String(),
		Hour:      t.Hour(),
		Time:      t,
		Parsed:    true,
	}
}
