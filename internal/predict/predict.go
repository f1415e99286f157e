// Package predict inspects the finished aggregates for forward-looking risk
// signals. It is a pure function over finalized state, run once at the end of
// an analysis; predictions are independent and all applicable ones are
// returned.
package predict

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/mediascribe/loglens/internal/model"
)

// Input carries the slices of session state the analyzer reads.
type Input struct {
	ResourceWarnings []model.LogEntry
	ErrorsByHour     map[int]int
	Errors           []model.ErrorRecord
}

const (
	// resourceWindow is how many trailing resource warnings are examined.
	resourceWindow = 20
	// minResourceSamples gates the trend check.
	minResourceSamples = 5
	// ramCritical is the RAM percentage treated as near-exhaustion.
	ramCritical = 85.0
	// stormThreshold is the per-hour error count flagging instability.
	stormThreshold = 5
	// recurrenceMinErrors and recurrenceMinCategory gate the recurrence check.
	recurrenceMinErrors   = 5
	recurrenceMinCategory = 3
)

var ramRegex = regexp.MustCompile(`RAM (\d+\.?\d*)%`)

// Analyze returns every applicable prediction: resource trend first, then
// error storm, then recurrence.
func Analyze(in Input) []model.Prediction {
	var predictions []model.Prediction

	if p, ok := resourceTrend(in.ResourceWarnings); ok {
		predictions = append(predictions, p)
	}
	if p, ok := errorStorm(in.ErrorsByHour); ok {
		predictions = append(predictions, p)
	}
	if p, ok := recurringIssue(in.Errors); ok {
		predictions = append(predictions, p)
	}

	return predictions
}

// resourceTrend flags RAM usage trending upward past the critical line.
func resourceTrend(warnings []model.LogEntry) (model.Prediction, bool) {
	if len(warnings) > resourceWindow {
		warnings = warnings[len(warnings)-resourceWindow:]
	}

	var values []float64
	for _, w := range warnings {
		m := ramRegex.FindStringSubmatch(w.Message)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			values = append(values, v)
		}
	}

	if len(values) < minResourceSamples {
		return model.Prediction{}, false
	}
	latest, earliest := values[len(values)-1], values[0]
	if latest <= ramCritical || latest <= earliest {
		return model.Prediction{}, false
	}

	return model.Prediction{
		Type:       "resource_exhaustion",
		Severity:   model.SeverityHigh,
		Prediction: "RAM usage trending upward - system may crash soon",
		Current:    fmt.Sprintf("%.1f%%", latest),
		Action:     "Restart server or kill memory-heavy processes",
		File:       "src/services/resource_monitor.py",
	}, true
}

// errorStorm flags any of the 5 most recent hour buckets exceeding the
// storm threshold.
func errorStorm(errorsByHour map[int]int) (model.Prediction, bool) {
	if len(errorsByHour) == 0 {
		return model.Prediction{}, false
	}

	hours := make([]int, 0, len(errorsByHour))
	for hour := range errorsByHour {
		hours = append(hours, hour)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(hours)))
	if len(hours) > 5 {
		hours = hours[:5]
	}

	storm := false
	for _, hour := range hours {
		if errorsByHour[hour] > stormThreshold {
			storm = true
			break
		}
	}
	if !storm {
		return model.Prediction{}, false
	}

	return model.Prediction{
		Type:       "error_storm",
		Severity:   model.SeverityMedium,
		Prediction: "Error frequency increasing - system instability detected",
		Current:    fmt.Sprintf("%d errors in last hour", errorsByHour[hours[0]]),
		Action:     "Review recent code changes, check for cascading failures",
		File:       "Check error categories for root cause",
	}, true
}

// recurringIssue flags a dominant semantic category across the unique errors.
func recurringIssue(errors []model.ErrorRecord) (model.Prediction, bool) {
	if len(errors) <= recurrenceMinErrors {
		return model.Prediction{}, false
	}

	counts := make(map[string]int)
	for _, e := range errors {
		counts[e.Category]++
	}

	topCategory, topCount := "", 0
	for category, count := range counts {
		if count > topCount || (count == topCount && category < topCategory) {
			topCategory, topCount = category, count
		}
	}
	if topCount < recurrenceMinCategory {
		return model.Prediction{}, false
	}

	return model.Prediction{
		Type:       "recurring_issue",
		Severity:   model.SeverityMedium,
		Prediction: fmt.Sprintf("Recurring %s errors - needs permanent fix", topCategory),
		Current:    fmt.Sprintf("%d occurrences", topCount),
		Action:     fmt.Sprintf("Implement proper fix for %s category", topCategory),
		File:       "See error details in report",
	}, true
}
