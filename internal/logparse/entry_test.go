package logparse

import "testing"

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		ok      bool
		level   string
		module  string
		message string
	}{
		{
			name:    "error entry",
			line:    "2024-01-15 10:30:00 | ERROR   | MainThread | processor.py:42 | Failed to process video",
			ok:      true,
			level:   "ERROR",
			module:  "processor.py:42",
			message: "Failed to process video",
		},
		{
			name:    "info entry single space",
			line:    "2024-01-15 10:30:01 | INFO | worker-3 | api.py:10 | GET /api/status status=200 dur_ms=12",
			ok:      true,
			level:   "INFO",
			module:  "api.py:10",
			message: "GET /api/status status=200 dur_ms=12",
		},
		{
			name: "traceback line",
			line: `  File "src/services/processor.py", line 42, in process`,
			ok:   false,
		},
		{
			name: "exception line",
			line: "FileNotFoundError: [Errno 2] No such file or directory: 'audio.wav'",
			ok:   false,
		},
		{
			name: "bad timestamp",
			line: "2024-1-15 10:30:00 | ERROR | MainThread | processor.py:42 | nope",
			ok:   false,
		},
		{
			name: "missing field",
			line: "2024-01-15 10:30:00 | ERROR | MainThread | no message here",
			ok:   false,
		},
		{
			name: "empty line",
			line: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := ParseEntry(tt.line)
			if ok != tt.ok {
				t.Fatalf("ParseEntry(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if !ok {
				return
			}
			if entry.Level != tt.level {
				t.Errorf("level = %q, want %q", entry.Level, tt.level)
			}
			if entry.Module != tt.module {
				t.Errorf("module = %q, want %q", entry.Module, tt.module)
			}
			if entry.Message != tt.message {
				t.Errorf("message = %q, want %q", entry.Message, tt.message)
			}
		})
	}
}

func TestParseEntry_TrimsFields(t *testing.T) {
	entry, ok := ParseEntry("2024-01-15 10:30:00 | WARNING | MainThread  |  monitor.py:7  | High resource usage: RAM 91.2%")
	if !ok {
		t.Fatal("expected entry to parse")
	}
	if entry.Thread != "MainThread" {
		t.Errorf("thread = %q, want trimmed", entry.Thread)
	}
	if entry.Module != "monitor.py:7" {
		t.Errorf("module = %q, want trimmed", entry.Module)
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ERROR", "ERROR"}, {"error", "ERROR"}, {"ERR", "ERROR"},
		{"WARNING", "WARNING"}, {"warn", "WARNING"},
		{"INFO", "INFO"}, {"INFORMATION", "INFO"},
		{"DEBUG", "DEBUG"}, {"dbg", "DEBUG"},
		{"CRITICAL", "CRITICAL"}, {"FATAL", "CRITICAL"},
		{"  info  ", "INFO"},
		{"NOTICE", "NOTICE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeLevel(tt.input); got != tt.expected {
				t.Errorf("NormalizeLevel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
