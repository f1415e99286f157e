package analyze

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mediascribe/loglens/internal/model"
)

// exceptionRegex matches a Python-style exception line such as
// "FileNotFoundError: ..." or "requests.exceptions.Timeout Exception: ...".
var exceptionRegex = regexp.MustCompile(
	`^([A-Za-z_][A-Za-z0-9_.]*Error|[A-Za-z_][A-Za-z0-9_.]*Exception):`,
)

// contextRegexes are the known artifact-id shapes, in priority order.
var contextRegexes = []*regexp.Regexp{
	regexp.MustCompile(`(web_[a-f0-9]{12})`),
	regexp.MustCompile(`(upload_[a-z0-9]+_\d+)`),
	regexp.MustCompile(`output[/\\]([a-f0-9]{12})`),
	regexp.MustCompile(`([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})`),
}

// sourceLocRegex matches a traceback frame: File "<path>", line <n>
var sourceLocRegex = regexp.MustCompile(`File "([^"]+)", line (\d+)`)

// projectMarkers filter traceback frames down to project-owned code;
// library and runtime frames never contain these.
var projectMarkers = []string{"Video Transcriber", "src/", "scripts/"}

// burstWindow is the maximum gap between two errors counted as a burst.
const burstWindow = 5 * time.Second

// finalize closes the open error accumulation and runs the full enrichment
// pipeline. Every finalized error updates the aggregates; only first-seen
// hashes enter the detail list.
func (s *Session) finalize() {
	entry := s.current
	s.current = nil

	record := newErrorRecord(entry)

	if record.ExceptionType != "" {
		s.ExceptionTypes[record.ExceptionType]++
	}
	if record.Cascaded {
		s.cascading++
	}
	if record.ContextID != "" {
		s.Contexts[record.ContextID]++
	}

	s.Categories[record.Category]++
	if record.Operation != "" {
		s.Operations[record.Operation]++
	}
	s.AffectedModules[moduleBase(entry.Module)]++

	bucket := s.bucketFor(entry)
	record.Date, record.DayOfWeek, record.Hour = entry.Date, entry.DayOfWeek, entry.Hour
	s.ErrorsByHour[bucket.Hour]++
	s.ErrorsByDay[bucket.Date]++
	s.hourly(bucket.Hour).Errors++
	s.dailyFor(bucket.Date).errors++

	if bucket.Parsed {
		if !s.lastErrorTime.IsZero() && bucket.Time.Sub(s.lastErrorTime) < burstWindow {
			record.Burst = true
		}
		s.lastErrorTime = bucket.Time
	}

	record.Fix = s.knowledge.Match(record.ExceptionType, entry.Message, strings.Join(entry.Trace, " "))

	if _, seen := s.seenHashes[record.Hash]; seen {
		record.Duplicate = true
		s.duplicates++
		return
	}
	s.seenHashes[record.Hash] = struct{}{}
	s.Errors = append(s.Errors, record)
}

// newErrorRecord runs the pure, order-independent enrichment steps.
func newErrorRecord(entry *model.LogEntry) model.ErrorRecord {
	record := model.ErrorRecord{LogEntry: *entry}

	record.ExceptionType = extractExceptionType(entry.Trace)
	record.RootCause, record.Cascaded = extractRootCause(entry.Trace)
	record.ContextID = extractContextID(entry.Message + strings.Join(entry.Trace, " "))
	record.Hash = contentHash(record.ExceptionType, entry.Module, entry.Trace)
	record.Category = categorize(record.ExceptionType, entry.Message, entry.Module)
	record.Operation = operationType(entry.Message, entry.Module)
	record.SourceFile, record.SourceLine = extractSourceLocation(entry.Trace)

	return record
}

// extractExceptionType scans the trace in reverse; the match closest to the
// point of failure wins.
func extractExceptionType(trace []string) string {
	for i := len(trace) - 1; i >= 0; i-- {
		if m := exceptionRegex.FindStringSubmatch(trace[i]); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractRootCause collects every exception-typed line in order. Two or more
// matched lines form a chain: the first is the root cause. Identical types
// still count as a chain.
func extractRootCause(trace []string) (string, bool) {
	var exceptions []string
	for _, line := range trace {
		if m := exceptionRegex.FindStringSubmatch(line); m != nil {
			exceptions = append(exceptions, m[1])
		}
	}
	if len(exceptions) > 1 {
		return exceptions[0], true
	}
	return "", false
}

// extractContextID finds the first known artifact-id shape, in the fixed
// priority order of contextRegexes.
func extractContextID(text string) string {
	for _, re := range contextRegexes {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// contentHash fingerprints an error by exception type, module (path only,
// line number stripped) and the last non-blank trace line truncated to 100
// characters. Identical inputs always yield identical 8-hex hashes.
func contentHash(exceptionType, module string, trace []string) string {
	if exceptionType == "" {
		exceptionType = "Unknown"
	}
	parts := []string{exceptionType, moduleWithoutLine(module)}

	for i := len(trace) - 1; i >= 0; i-- {
		line := trace[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if runes := []rune(line); len(runes) > 100 {
			line = string(runes[:100])
		}
		parts = append(parts, line)
		break
	}

	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:8]
}

// extractSourceLocation scans the trace in reverse for a project-owned
// "File ..., line ..." frame, skipping library and runtime frames.
func extractSourceLocation(trace []string) (string, int) {
	for i := len(trace) - 1; i >= 0; i-- {
		m := sourceLocRegex.FindStringSubmatch(trace[i])
		if m == nil {
			continue
		}
		path := m[1]
		for _, marker := range projectMarkers {
			if strings.Contains(path, marker) {
				line, _ := strconv.Atoi(m[2])
				return path, line
			}
		}
	}
	return "", 0
}

// moduleWithoutLine strips the ":<line>" suffix from a module locator.
func moduleWithoutLine(module string) string {
	if idx := strings.Index(module, ":"); idx >= 0 {
		return module[:idx]
	}
	return module
}

// moduleBase reduces a module locator to its path-stripped file name.
func moduleBase(module string) string {
	base := moduleWithoutLine(module)
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return base
}
