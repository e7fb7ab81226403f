package observ

import (
	"strings"
	"testing"
)

func TestTimerPhasesInOrder(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("track")
	tm.End(a, "regions=2")
	b := tm.Begin("parse")
	tm.End(b, "")
	tm.End(7, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "track" || r.Phases[1].Name != "parse" {
		t.Fatalf("unexpected phases: %+v", r.Phases)
	}
	if r.Phases[0].Note != "regions=2" {
		t.Fatalf("note lost: %+v", r.Phases[0])
	}
	s := tm.Summary()
	if !strings.HasPrefix(s, "timings:\n") || !strings.Contains(s, "// regions=2") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("x")
	tm.End(idx, "")
	if idx != -1 || len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer must record nothing")
	}
}

func TestReportAdd(t *testing.T) {
	var sum Report
	sum.Add(Report{TotalMS: 3, Phases: []PhaseReport{{Name: "lex", DurationMS: 1}, {Name: "sema", DurationMS: 2}}})
	sum.Add(Report{TotalMS: 4, Phases: []PhaseReport{{Name: "sema", DurationMS: 4, Note: "n"}}})
	if sum.TotalMS != 7 || len(sum.Phases) != 2 {
		t.Fatalf("unexpected sum %+v", sum)
	}
	if sum.Phases[1].DurationMS != 6 || sum.Phases[1].Note != "" {
		t.Fatalf("sema not merged: %+v", sum.Phases[1])
	}
}
