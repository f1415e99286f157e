package logparse

import (
	"regexp"
	"strings"

	"github.com/mediascribe/loglens/internal/model"
)

// EntryRegex matches one structured entry:
// YYYY-MM-DD HH:MM:SS | LEVEL | thread | module:line | message
var EntryRegex = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) \| (\w+)\s+\| ([^|]+) \| ([^|]+) \| (.+)$`,
)

// ParseEntry classifies a raw line. It returns the parsed entry and true
// when the line matches the entry grammar, nil and false otherwise; a
// non-matching line is a continuation of whatever entry is open.
func ParseEntry(line string) (*model.LogEntry, bool) {
	m := EntryRegex.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return &model.LogEntry{
		Timestamp: m[1],
		Level:     m[2],
		Thread:    strings.TrimSpace(m[3]),
		Module:    strings.TrimSpace(m[4]),
		Message:   strings.TrimSpace(m[5]),
	}, true
}
