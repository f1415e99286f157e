package logparse

import "strings"

// Canonical levels recognized by the classifier. Anything else is kept
// verbatim but counted as neither error, warning, info, debug nor crash.
const (
	LevelError    = "ERROR"
	LevelWarning  = "WARNING"
	LevelInfo     = "INFO"
	LevelDebug    = "DEBUG"
	LevelCritical = "CRITICAL"
)

// NormalizeLevel converts level spellings to the canonical all-caps forms.
func NormalizeLevel(level string) string {
	normalized := strings.ToUpper(strings.TrimSpace(level))

	switch normalized {
	case "ERROR", "ERR", "ERRO":
		return LevelError
	case "WARNING", "WARN", "WRN":
		return LevelWarning
	case "INFO", "INFORMATION", "INF":
		return LevelInfo
	case "DEBUG", "DBG", "DEB":
		return LevelDebug
	case "CRITICAL", "CRIT", "FATAL":
		return LevelCritical
	default:
		return normalized
	}
}
