package analyze

import (
	"sort"
	"time"

	"github.com/mediascribe/loglens/internal/model"
)

const analyzerVersion = "3.0"

const maxErrorDetails = 50

// Result assembles the structured output for the finished run. The database
// summary, integrity findings and predictions are computed by their own
// packages and merged here so every consumer sees one shape.
func (s *Session) Result(logFile string, db model.DatabaseSummary, integrity model.DataIntegrity, predictions []model.Prediction) model.Result {
	dates := make([]string, 0, len(s.daily))
	for date := range s.daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	errorsWithFixes := 0
	for _, e := range s.Errors {
		if e.Fix != nil {
			errorsWithFixes++
		}
	}

	details := s.Errors
	if len(details) > maxErrorDetails {
		details = details[:maxErrorDetails]
	}

	recent := s.Warnings
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	if predictions == nil {
		predictions = []model.Prediction{}
	}

	return model.Result{
		Metadata: model.Metadata{
			LogFile:    logFile,
			AnalyzedAt: time.Now().Format(time.RFC3339),
			Version:    analyzerVersion,
		},
		Statistics: s.Stats,
		TimeRange: model.TimeRange{
			Dates:       dates,
			DaysCovered: len(dates),
		},
		ActionableSummary: model.ActionableSummary{
			ErrorsWithFixes:     errorsWithFixes,
			CascadingExceptions: s.cascading,
			AffectedContexts:    len(s.Contexts),
		},
		Predictions: predictions,
		Errors: model.ErrorSummary{
			UniqueCount:       len(s.Errors),
			DuplicatesRemoved: s.duplicates,
			ByType:            copyCounts(s.ExceptionTypes),
			ByCategory:        copyCounts(s.Categories),
			ByOperation:       copyCounts(s.Operations),
			Details:           append([]model.ErrorRecord(nil), details...),
		},
		TimeAnalysis:      s.timeAnalysis(),
		Performance:       s.performance(),
		AffectedResources: model.AffectedResources{
			Contexts: copyCounts(s.Contexts),
			Modules:  copyCounts(s.AffectedModules),
		},
		Warnings: model.WarningSummary{
			Total:            len(s.Warnings),
			ResourceWarnings: len(s.ResourceWarnings),
			RecentSamples:    append([]model.LogEntry(nil), recent...),
		},
		Database:      db,
		DataIntegrity: integrity,
	}
}

func (s *Session) timeAnalysis() model.TimeAnalysis {
	hourly := make(map[int]model.HourlyActivity, len(s.hourlyActivity))
	for hour, activity := range s.hourlyActivity {
		hourly[hour] = *activity
	}

	daily := make(map[string]model.DailySummary, len(s.daily))
	for date, d := range s.daily {
		artifacts := make([]string, 0, len(d.artifacts))
		for id := range d.artifacts {
			artifacts = append(artifacts, id)
		}
		sort.Strings(artifacts)
		daily[date] = model.DailySummary{
			Errors:         d.errors,
			Warnings:       d.warnings,
			Info:           d.info,
			APICalls:       d.apiCalls,
			SlowRequests:   d.slowRequests,
			ArtifactsReady: artifacts,
		}
	}

	return model.TimeAnalysis{
		ErrorsByHour:   copyCounts(s.ErrorsByHour),
		ErrorsByDay:    copyCounts(s.ErrorsByDay),
		WarningsByHour: copyCounts(s.WarningsByHour),
		HourlyActivity: hourly,
		DailySummary:   daily,
	}
}

func (s *Session) performance() model.Performance {
	perf := model.Performance{
		APICalls:         len(s.APICalls),
		SlowestEndpoints: []model.EndpointStat{},
	}
	if len(s.APICalls) == 0 {
		return perf
	}

	total := 0
	byEndpoint := make(map[string][]int)
	for _, call := range s.APICalls {
		total += call.DurationMS
		byEndpoint[call.Endpoint] = append(byEndpoint[call.Endpoint], call.DurationMS)
		if call.DurationMS > s.slowThreshold() {
			perf.SlowRequests++
		}
	}
	perf.AvgResponseTimeMS = float64(total) / float64(len(s.APICalls))

	stats := make([]model.EndpointStat, 0, len(byEndpoint))
	for endpoint, times := range byEndpoint {
		sum := 0
		for _, t := range times {
			sum += t
		}
		stats = append(stats, model.EndpointStat{
			Endpoint: endpoint,
			AvgMS:    float64(sum) / float64(len(times)),
			Calls:    len(times),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].AvgMS != stats[j].AvgMS {
			return stats[i].AvgMS > stats[j].AvgMS
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	if len(stats) > 10 {
		stats = stats[:10]
	}
	perf.SlowestEndpoints = stats

	return perf
}

func copyCounts[K comparable](src map[K]int) map[K]int {
	out := make(map[K]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
