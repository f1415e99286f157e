package model

// LogEntry represents a single structured log line used across the system.
// Trace holds the raw continuation lines collected until the next entry.
type LogEntry struct {
	Timestamp string   `json:"timestamp"`
	Level     string   `json:"level"`
	Thread    string   `json:"thread"`
	Module    string   `json:"module"`
	Message   string   `json:"message"`
	Trace     []string `json:"traceback,omitempty"`

	// Time-bucket fields filled during categorization.
	Date      string `json:"date,omitempty"`
	DayOfWeek string `json:"day_of_week,omitempty"`
	Hour      int    `json:"hour"`
}

// FixSuggestion is one remediation record from the knowledge base.
type FixSuggestion struct {
	Diagnosis  string `json:"diagnosis"`
	Fix        string `json:"fix"`
	File       string `json:"file"`
	Prevention string `json:"prevention"`
}

// ErrorRecord is a finalized, enriched ERROR entry.
// Records are immutable once finalize completes.
type ErrorRecord struct {
	LogEntry

	ExceptionType string         `json:"exception_type,omitempty"`
	RootCause     string         `json:"root_cause,omitempty"`
	Cascaded      bool           `json:"cascaded,omitempty"`
	ContextID     string         `json:"context_id,omitempty"`
	Hash          string         `json:"error_hash"`
	Category      string         `json:"category"`
	Operation     string         `json:"operation,omitempty"`
	Burst         bool           `json:"burst,omitempty"`
	SourceFile    string         `json:"error_file,omitempty"`
	SourceLine    int            `json:"error_line,omitempty"`
	Fix           *FixSuggestion `json:"fix_suggestion,omitempty"`
	Duplicate     bool           `json:"is_duplicate,omitempty"`
}

// APICall is one API latency sample extracted from an INFO entry.
type APICall struct {
	Timestamp  string `json:"timestamp"`
	Method     string `json:"method"`
	Endpoint   string `json:"endpoint"`
	Status     int    `json:"status"`
	DurationMS int    `json:"duration_ms"`
	Date       string `json:"date"`
	Hour       int    `json:"hour"`
}

// DatabaseRecord is one row from the auto-discovered processing table.
// Every field except ID is optional depending on the discovered schema.
type DatabaseRecord struct {
	ID             string `json:"id"`
	Filename       string `json:"filename,omitempty"`
	Status         string `json:"status"`
	Duration       string `json:"duration,omitempty"`
	Language       string `json:"language,omitempty"`
	ProcessingTime string `json:"processing_time,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	CompletedAt    string `json:"completed_at,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// MissingRecord is a processing record marked complete whose artifact
// directory is absent. Always HIGH severity: it implies silent data loss.
type MissingRecord struct {
	ID          string `json:"id"`
	Filename    string `json:"filename,omitempty"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at,omitempty"`
	Severity    string `json:"severity"`
}

// Prediction is one forward-looking risk signal.
type Prediction struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Prediction string `json:"prediction"`
	Current    string `json:"current"`
	Action     string `json:"action"`
	File       string `json:"file"`
}

// HourlyActivity tracks per-hour counters across the whole run.
type HourlyActivity struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Requests int `json:"requests"`
}

// DailySummary tracks per-date counters plus the set of artifacts
// completed that day.
type DailySummary struct {
	Errors          int      `json:"errors"`
	Warnings        int      `json:"warnings"`
	Info            int      `json:"info"`
	APICalls        int      `json:"api_calls"`
	SlowRequests    int      `json:"slow_requests"`
	ArtifactsReady  []string `json:"videos_processed"`
}

// Severity levels used by reconciliation and prediction results.
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
)
