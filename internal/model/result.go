package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Result is the complete structured output of one analysis run.
// The same fields back both the machine export and the HTTP API.
type Result struct {
	Metadata          Metadata          `json:"metadata"`
	Statistics        Statistics        `json:"statistics"`
	TimeRange         TimeRange         `json:"time_range"`
	ActionableSummary ActionableSummary `json:"actionable_summary"`
	Predictions       []Prediction      `json:"predictions"`
	Errors            ErrorSummary      `json:"errors"`
	TimeAnalysis      TimeAnalysis      `json:"time_analysis"`
	Performance       Performance       `json:"performance"`
	AffectedResources AffectedResources `json:"affected_resources"`
	Warnings          WarningSummary    `json:"warnings"`
	Database          DatabaseSummary   `json:"database"`
	DataIntegrity     DataIntegrity     `json:"data_integrity"`
}

// Metadata describes the analysis run itself.
type Metadata struct {
	LogFile    string `json:"log_file"`
	AnalyzedAt string `json:"analyzed_at"`
	Version    string `json:"analyzer_version"`
}

// Statistics holds the raw line/entry counters.
type Statistics struct {
	TotalLines   int `json:"total_lines"`
	TotalEntries int `json:"total_entries"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Info         int `json:"info"`
	Debug        int `json:"debug"`
	Crashes      int `json:"crashes"`
}

// TimeRange lists the dates the analyzed logs cover.
type TimeRange struct {
	Dates       []string `json:"dates"`
	DaysCovered int      `json:"days_covered"`
}

// ActionableSummary carries the headline counts a consumer triages first.
type ActionableSummary struct {
	ErrorsWithFixes     int `json:"errors_with_fixes"`
	CascadingExceptions int `json:"cascading_exceptions"`
	AffectedContexts    int `json:"affected_contexts"`
}

// ErrorSummary holds the deduplicated error list and its histograms.
type ErrorSummary struct {
	UniqueCount       int            `json:"unique_count"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	ByType            map[string]int `json:"by_type"`
	ByCategory        map[string]int `json:"by_category"`
	ByOperation       map[string]int `json:"by_operation"`
	Details           []ErrorRecord  `json:"details"`
}

// TimeAnalysis holds the hourly and daily time series.
type TimeAnalysis struct {
	ErrorsByHour   map[int]int             `json:"errors_by_hour"`
	ErrorsByDay    map[string]int          `json:"errors_by_day"`
	WarningsByHour map[int]int             `json:"warnings_by_hour"`
	HourlyActivity map[int]HourlyActivity  `json:"hourly_activity"`
	DailySummary   map[string]DailySummary `json:"daily_summary"`
}

// EndpointStat aggregates latency per endpoint.
type EndpointStat struct {
	Endpoint string  `json:"endpoint"`
	AvgMS    float64 `json:"avg_ms"`
	Calls    int     `json:"calls"`
}

// Performance summarizes the collected API latency samples.
type Performance struct {
	APICalls          int            `json:"api_calls"`
	AvgResponseTimeMS float64        `json:"avg_response_time_ms"`
	SlowRequests      int            `json:"slow_requests"`
	SlowestEndpoints  []EndpointStat `json:"slowest_endpoints"`
}

// AffectedResources maps error counts onto contexts and modules.
type AffectedResources struct {
	Contexts map[string]int `json:"contexts"`
	Modules  map[string]int `json:"modules"`
}

// WarningSummary holds warning totals plus the most recent samples.
type WarningSummary struct {
	Total            int        `json:"total"`
	ResourceWarnings int        `json:"resource_warnings"`
	RecentSamples    []LogEntry `json:"recent_samples"`
}

// DatabaseSummary summarizes the loaded processing records.
type DatabaseSummary struct {
	TotalRecords int            `json:"total_records"`
	StatusCounts map[string]int `json:"status_counts"`
	SuccessRate  float64        `json:"success_rate"`
}

// DataIntegrity holds the reconciliation output.
type DataIntegrity struct {
	MissingRecords  []MissingRecord `json:"missing_records"`
	OrphanedEntries []string        `json:"orphaned_entries"`
	OutputCount     int             `json:"output_folder_count"`
}

// WriteJSON writes the result to path, creating parent directories.
func (r *Result) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("result: mkdir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("result: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("result: write: %w", err)
	}
	return nil
}
