// Package analyze owns the stateful line pipeline: classifying raw lines,
// accumulating tracebacks, running the finalize enrichment on entry
// boundaries and keeping every run-wide aggregate. One Session per analysis
// run; all mutable state lives on the Session so independent log sets can be
// analyzed concurrently in the same process.
package analyze

import (
	"bufio"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mediascribe/loglens/internal/kb"
	"github.com/mediascribe/loglens/internal/logparse"
	"github.com/mediascribe/loglens/internal/model"
	"github.com/mediascribe/loglens/internal/timestamp"
)

// DefaultSlowRequestMS is the latency above which an API call counts as slow.
const DefaultSlowRequestMS = 50

// dailyState is the mutable backing for one date's summary; the artifact set
// is deduplicated here and sorted only when the result is assembled.
type dailyState struct {
	errors       int
	warnings     int
	info         int
	apiCalls     int
	slowRequests int
	artifacts    map[string]struct{}
}

// Session accumulates all analysis state for a single sequential pass over
// one logical log stream. It is not safe for concurrent use; the pipeline
// has exactly one writer.
type Session struct {
	log       *zap.Logger
	knowledge kb.KnowledgeBase

	// SlowRequestMS overrides the slow-request threshold when positive.
	SlowRequestMS int

	Stats model.Statistics

	Errors           []model.ErrorRecord
	Warnings         []model.LogEntry
	Crashes          []model.LogEntry
	ImportantEvents  []model.LogEntry
	ResourceWarnings []model.LogEntry
	APICalls         []model.APICall

	ErrorTypes      map[string]int
	ExceptionTypes  map[string]int
	Categories      map[string]int
	Operations      map[string]int
	AffectedModules map[string]int
	Contexts        map[string]int

	ErrorsByHour   map[int]int
	ErrorsByDay    map[string]int
	WarningsByHour map[int]int
	hourlyActivity map[int]*model.HourlyActivity
	daily          map[string]*dailyState

	seenHashes map[string]struct{}
	duplicates int
	cascading  int

	// current is the open ERROR accumulation, nil when no error is open.
	// Burst detection is best-effort: lastErrorTime only advances when an
	// entry timestamp parses, so unparseable entries neither set the flag
	// nor disturb the window.
	current       *model.LogEntry
	lastErrorTime time.Time
}

// NewSession creates an empty session using the given knowledge base.
// A nil logger falls back to zap.NewNop.
func NewSession(knowledge kb.KnowledgeBase, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		log:             logger,
		knowledge:       knowledge,
		SlowRequestMS:   DefaultSlowRequestMS,
		ErrorTypes:      make(map[string]int),
		ExceptionTypes:  make(map[string]int),
		Categories:      make(map[string]int),
		Operations:      make(map[string]int),
		AffectedModules: make(map[string]int),
		Contexts:        make(map[string]int),
		ErrorsByHour:    make(map[int]int),
		ErrorsByDay:     make(map[string]int),
		WarningsByHour:  make(map[int]int),
		hourlyActivity:  make(map[int]*model.HourlyActivity),
		daily:           make(map[string]*dailyState),
		seenHashes:      make(map[string]struct{}),
	}
}

// ProcessReader streams every line of r through the session.
// Callers feed the primary file and each rotated file in order; shared
// accumulation, dedup and burst state span the whole concatenated stream.
// Lines have no length limit; a dumped payload in a traceback must not
// abort the run.
func (s *Session) ProcessReader(r io.Reader) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			s.ProcessLine(strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ProcessLine classifies one raw line and routes it: a grammar match opens a
// new entry (finalizing any pending error first), anything else continues
// the open error's trace or is discarded.
func (s *Session) ProcessLine(line string) {
	s.Stats.TotalLines++

	entry, ok := logparse.ParseEntry(line)
	if !ok {
		if s.current != nil {
			s.current.Trace = append(s.current.Trace, line)
		}
		return
	}

	// Entry boundary: the previous accumulation is finalized exactly once.
	if s.current != nil {
		s.finalize()
	}

	s.Stats.TotalEntries++

	switch logparse.NormalizeLevel(entry.Level) {
	case logparse.LevelError:
		s.Stats.Errors++
		s.tallyErrorTypes(entry.Message)
		s.current = entry
	case logparse.LevelWarning:
		s.Stats.Warnings++
		s.categorizeWarning(entry)
	case logparse.LevelInfo:
		s.Stats.Info++
		s.categorizeInfo(entry)
	case logparse.LevelDebug:
		s.Stats.Debug++
	case logparse.LevelCritical:
		s.Stats.Crashes++
		s.Crashes = append(s.Crashes, *entry)
	}
}

// Finish flushes a still-open accumulation at end of stream.
func (s *Session) Finish() {
	if s.current != nil {
		s.finalize()
	}
}

// DuplicateCount reports how many finalized errors were dropped from the
// detail list because their content hash had already been seen.
func (s *Session) DuplicateCount() int { return s.duplicates }

// CascadingCount reports how many finalized errors carried a root-cause chain.
func (s *Session) CascadingCount() int { return s.cascading }

func (s *Session) hourly(hour int) *model.HourlyActivity {
	h, ok := s.hourlyActivity[hour]
	if !ok {
		h = &model.HourlyActivity{}
		s.hourlyActivity[hour] = h
	}
	return h
}

func (s *Session) dailyFor(date string) *dailyState {
	d, ok := s.daily[date]
	if !ok {
		d = &dailyState{artifacts: make(map[string]struct{})}
		s.daily[date] = d
	}
	return d
}

func (s *Session) slowThreshold() int {
	if s.SlowRequestMS > 0 {
		return s.SlowRequestMS
	}
	return DefaultSlowRequestMS
}

func (s *Session) bucketFor(entry *model.LogEntry) timestamp.Bucket {
	b := timestamp.Parse(entry.Timestamp)
	entry.Date = b.Date
	entry.DayOfWeek = b.DayOfWeek
	entry.Hour = b.Hour
	return b
}
