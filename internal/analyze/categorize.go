package analyze

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mediascribe/loglens/internal/model"
)

// Semantic failure-domain categories. The cascade in categorize evaluates
// rules in a fixed priority order; the first match wins, so the order below
// is a contract, not an implementation detail.
const (
	CategoryFileSystem = "file_system"
	CategoryNetwork    = "network"
	CategoryMedia      = "media_processing"
	CategoryAIModel    = "ai_model"
	CategoryDatabase   = "database"
	CategoryConfig     = "configuration"
	CategoryResource   = "resource_exhaustion"
	CategoryOther      = "other"
)

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// categorize assigns the semantic failure-domain category.
func categorize(exceptionType, message, module string) string {
	exception := strings.ToLower(exceptionType)
	message = strings.ToLower(message)
	module = strings.ToLower(module)

	if containsAny(exception, "filenotfound", "permission", "ioerror") {
		return CategoryFileSystem
	}
	if containsAny(message, "no such file", "cannot find file", "access denied", "permission") {
		return CategoryFileSystem
	}

	if containsAny(exception, "connection", "timeout", "httperror") {
		return CategoryNetwork
	}
	if containsAny(message, "connection", "timeout", "api", "request failed") {
		return CategoryNetwork
	}

	if containsAny(module, "processor", "whisper", "diarization", "audio") {
		return CategoryMedia
	}
	if containsAny(message, "ffmpeg", "transcription", "audio", "video", "whisper") {
		return CategoryMedia
	}

	if strings.Contains(exception, "runtimeerror") && strings.Contains(message, "model") {
		return CategoryAIModel
	}
	if containsAny(message, "model", "tensor", "cuda", "gpu", "pytorch", "shapes cannot be multiplied") {
		return CategoryAIModel
	}

	if containsAny(module, "database", "db") {
		return CategoryDatabase
	}
	if containsAny(message, "database", "sql", "query") {
		return CategoryDatabase
	}

	if containsAny(exception, "nameerror", "importerror", "attributeerror") {
		return CategoryConfig
	}
	if containsAny(message, "not defined", "import", "missing", "configuration") {
		return CategoryConfig
	}

	if containsAny(message, "memory", "out of memory", "resource", "disk space") {
		return CategoryResource
	}

	return CategoryOther
}

// operationKeywords maps each operation type to its keyword set, evaluated
// in order against message and module.
var operationKeywords = []struct {
	op       string
	keywords []string
}{
	{"transcription", []string{"transcription", "whisper", "speech to text"}},
	{"diarization", []string{"diarization", "speaker", "voiceprint"}},
	{"translation", []string{"translation", "translate", "nllb"}},
	{"audio_processing", []string{"audio processing", "ffmpeg", "audio conversion", "extract_audio"}},
	{"video_download", []string{"download", "yt-dlp", "youtube", "web video"}},
	{"export", []string{"export", "generated", "pdf", "docx", "srt", "vtt"}},
	{"api_request", []string{"api/", "endpoint", "request"}},
	{"queue", []string{"queue", "job", "worker"}},
	{"initialization", []string{"initialized", "startup", "loading model"}},
}

// operationType infers what operation was in flight when the error occurred,
// or "" when no keyword set matches.
func operationType(message, module string) string {
	message = strings.ToLower(message)
	module = strings.ToLower(module)

	for _, entry := range operationKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(message, kw) || strings.Contains(module, kw) {
				return entry.op
			}
		}
	}
	return ""
}

// tallyErrorTypes keeps the coarse error-type histogram. The checks are
// independent: one message can land in several buckets.
func (s *Session) tallyErrorTypes(message string) {
	message = strings.ToLower(message)

	if strings.Contains(message, "failed") {
		s.ErrorTypes["Process Failed"]++
	}
	if containsAny(message, "not found", "filenotfound") {
		s.ErrorTypes["File Not Found"]++
	}
	if containsAny(message, "permission", "access denied") {
		s.ErrorTypes["Permission Error"]++
	}
	if strings.Contains(message, "timeout") {
		s.ErrorTypes["Timeout"]++
	}
	if containsAny(message, "connection", "network") {
		s.ErrorTypes["Network Error"]++
	}
	if containsAny(message, "memory", "out of memory") {
		s.ErrorTypes["Memory Error"]++
	}
	if containsAny(message, "database", "db") {
		s.ErrorTypes["Database Error"]++
	}
	if strings.Contains(message, "model") && containsAny(message, "load", "not found") {
		s.ErrorTypes["Model Loading Error"]++
	}
}

// apiCallRegex extracts API latency samples from access-log style messages.
var apiCallRegex = regexp.MustCompile(`(GET|POST|PUT|DELETE)\s+(\S+)\s+status=(\d+)\s+dur_ms=(\d+)`)

// completedArtifactRegex pulls the artifact id out of completion messages.
var completedArtifactRegex = regexp.MustCompile(`output[/\\]([a-zA-Z0-9_-]+)`)

// importantKeywords flag INFO entries worth surfacing as run events.
var importantKeywords = []string{
	"server started", "server stopped", "shutdown",
	"initialized", "loaded model", "downloaded",
	"processing complete", "saved:", "generated:",
	"queue", "batch", "cleanup",
}

// categorizeWarning buckets the warning in time and tracks resource-related
// warnings separately for the predictive analyzer.
func (s *Session) categorizeWarning(entry *model.LogEntry) {
	bucket := s.bucketFor(entry)
	s.WarningsByHour[bucket.Hour]++
	s.hourly(bucket.Hour).Warnings++
	s.dailyFor(bucket.Date).warnings++

	message := strings.ToLower(entry.Message)
	if containsAny(message, "high resource usage", "cpu", "ram") {
		s.ResourceWarnings = append(s.ResourceWarnings, *entry)
	} else if strings.Contains(message, "memory") {
		s.ResourceWarnings = append(s.ResourceWarnings, *entry)
	}

	s.Warnings = append(s.Warnings, *entry)
}

// categorizeInfo buckets the entry, extracts API latency samples, tracks
// completed artifacts and collects important events.
func (s *Session) categorizeInfo(entry *model.LogEntry) {
	bucket := s.bucketFor(entry)
	s.hourly(bucket.Hour).Requests++
	day := s.dailyFor(bucket.Date)
	day.info++

	if m := apiCallRegex.FindStringSubmatch(entry.Message); m != nil {
		status, _ := strconv.Atoi(m[3])
		durMS, _ := strconv.Atoi(m[4])
		s.APICalls = append(s.APICalls, model.APICall{
			Timestamp:  entry.Timestamp,
			Method:     m[1],
			Endpoint:   m[2],
			Status:     status,
			DurationMS: durMS,
			Date:       bucket.Date,
			Hour:       bucket.Hour,
		})
		day.apiCalls++
		if durMS > s.slowThreshold() {
			day.slowRequests++
		}
	}

	message := strings.ToLower(entry.Message)
	if containsAny(message, "processing complete", "transcript saved", "generated:") {
		if m := completedArtifactRegex.FindStringSubmatch(entry.Message); m != nil {
			day.artifacts[m[1]] = struct{}{}
		}
	}

	if containsAny(message, importantKeywords...) {
		s.ImportantEvents = append(s.ImportantEvents, *entry)
	}
}
