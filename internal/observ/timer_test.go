package observ

import (
	"strings"
	"testing"
)

func TestTimerReportsPhases(t *testing.T) {
	tm := NewTimer()
	check := tm.Begin("check")
	tm.End(check, "1 unit")
	lower := tm.Begin("lower")
	tm.End(lower, "")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "check" || report.Phases[0].Note != "1 unit" {
		t.Fatalf("unexpected first phase: %+v", report.Phases[0])
	}
	if report.TotalMS < 0 {
		t.Fatalf("negative total: %v", report.TotalMS)
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "check", "lower", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestTimerIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(0, "nothing started")
	tm.End(-1, "")
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Fatalf("phases = %d, want 0", len(got.Phases))
	}
}
