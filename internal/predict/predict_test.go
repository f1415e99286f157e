package predict

import (
	"fmt"
	"testing"

	"github.com/mediascribe/loglens/internal/model"
)

func resourceWarnings(values ...float64) []model.LogEntry {
	warnings := make([]model.LogEntry, 0, len(values))
	for _, v := range values {
		warnings = append(warnings, model.LogEntry{
			Message: fmt.Sprintf("High resource usage: RAM %.1f%%", v),
		})
	}
	return warnings
}

func TestResourceTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   bool
	}{
		{"rising past critical", []float64{70, 75, 80, 85, 90}, true},
		{"below critical", []float64{60, 62, 64, 66, 68}, false},
		{"high but falling", []float64{95, 93, 91, 89, 87}, false},
		{"too few samples", []float64{70, 80, 90, 95}, false},
		{"flat at latest", []float64{90, 85, 88, 87, 90}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := resourceTrend(resourceWarnings(tt.values...))
			if ok != tt.want {
				t.Fatalf("resourceTrend fired = %v, want %v", ok, tt.want)
			}
			if ok && p.Severity != model.SeverityHigh {
				t.Errorf("severity = %q, want HIGH", p.Severity)
			}
		})
	}
}

func TestResourceTrendWindow(t *testing.T) {
	// 30 samples: an early spike to 99 must fall out of the 20-sample
	// window; the comparison is last vs first within the window.
	var values []float64
	for i := 0; i < 10; i++ {
		values = append(values, 99)
	}
	for i := 0; i < 20; i++ {
		values = append(values, 70+float64(i))
	}
	p, ok := resourceTrend(resourceWarnings(values...))
	if !ok {
		t.Fatal("trend not detected inside trailing window")
	}
	if p.Current != "89.0%" {
		t.Errorf("current = %q, want 89.0%%", p.Current)
	}
}

func TestResourceTrendIgnoresUnparseable(t *testing.T) {
	warnings := resourceWarnings(70, 80, 85, 88)
	warnings = append(warnings, model.LogEntry{Message: "High CPU usage detected"})
	if _, ok := resourceTrend(warnings); ok {
		t.Error("fired with only 4 RAM samples")
	}
	warnings = append(warnings, resourceWarnings(92)...)
	if _, ok := resourceTrend(warnings); !ok {
		t.Error("did not fire once 5 RAM samples present")
	}
}

func TestErrorStorm(t *testing.T) {
	tests := []struct {
		name  string
		hours map[int]int
		want  bool
	}{
		{"storm in recent hour", map[int]int{14: 6}, true},
		{"exactly at threshold", map[int]int{14: 5}, false},
		{"quiet", map[int]int{9: 1, 10: 2}, false},
		{"empty", map[int]int{}, false},
		// Only the 5 highest hour keys are examined: the storm at hour 3
		// is outside the window of 10..14.
		{"old storm outside window", map[int]int{3: 50, 10: 1, 11: 1, 12: 1, 13: 1, 14: 1}, false},
		{"storm inside window", map[int]int{3: 1, 10: 1, 11: 1, 12: 1, 13: 1, 14: 9}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := errorStorm(tt.hours)
			if ok != tt.want {
				t.Fatalf("errorStorm fired = %v, want %v", ok, tt.want)
			}
			if ok && p.Severity != model.SeverityMedium {
				t.Errorf("severity = %q, want MEDIUM", p.Severity)
			}
		})
	}
}

func errorsWithCategories(categories ...string) []model.ErrorRecord {
	errors := make([]model.ErrorRecord, 0, len(categories))
	for _, c := range categories {
		errors = append(errors, model.ErrorRecord{Category: c})
	}
	return errors
}

func TestRecurringIssue(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		want       bool
		category   string
	}{
		{
			"dominant category",
			[]string{"network", "network", "network", "file_system", "other", "other"},
			true, "network",
		},
		{
			"not enough unique errors",
			[]string{"network", "network", "network", "other", "other"},
			false, "",
		},
		{
			"no category reaches three",
			[]string{"a", "a", "b", "b", "c", "c"},
			false, "",
		},
		{
			"tie broken lexicographically",
			[]string{"network", "network", "network", "file_system", "file_system", "file_system"},
			true, "file_system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := recurringIssue(errorsWithCategories(tt.categories...))
			if ok != tt.want {
				t.Fatalf("recurringIssue fired = %v, want %v", ok, tt.want)
			}
			if ok && p.Prediction != fmt.Sprintf("Recurring %s errors - needs permanent fix", tt.category) {
				t.Errorf("prediction = %q, want category %q", p.Prediction, tt.category)
			}
		})
	}
}

func TestAnalyzeOrder(t *testing.T) {
	in := Input{
		ResourceWarnings: resourceWarnings(70, 75, 80, 85, 92),
		ErrorsByHour:     map[int]int{14: 10},
		Errors: errorsWithCategories(
			"network", "network", "network", "network", "other", "other"),
	}

	got := Analyze(in)
	if len(got) != 3 {
		t.Fatalf("predictions = %d, want 3", len(got))
	}
	wantTypes := []string{"resource_exhaustion", "error_storm", "recurring_issue"}
	for i, want := range wantTypes {
		if got[i].Type != want {
			t.Errorf("prediction[%d].Type = %q, want %q", i, got[i].Type, want)
		}
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	if got := Analyze(Input{}); len(got) != 0 {
		t.Errorf("predictions on empty input = %d, want 0", len(got))
	}
}
