package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != s {
			t.Fatalf("round trip %q -> %q", s, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopePass) {
		t.Fatalf("phase level must not emit passes")
	}
	if !LevelDetail.ShouldEmit(ScopePass) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Fatalf("detail level emits passes only")
	}
	if LevelOff.ShouldEmit(ScopeRun) {
		t.Fatalf("off emits nothing")
	}
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, run := Start(ctx, ScopeRun, "diag")
	fctx, file := Start(ctx, ScopeFile, "file:a.sy")
	_, pass := Start(fctx, ScopePass, "parse")
	pass.WithExtra("items", "3").End("")
	file.End("")
	run.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "    → parse") {
		t.Fatalf("pass should be indented twice: %q", lines[2])
	}
	if !strings.Contains(lines[3], "{items=3}") {
		t.Fatalf("extra missing: %q", lines[3])
	}
	if !strings.HasSuffix(lines[5], "← diag (ok)") {
		t.Fatalf("unexpected run end: %q", lines[5])
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	s := Begin(tr, ScopeRun, "lsp", 0)
	Begin(tr, ScopePass, "sema", s.ID()).End("") // отфильтровано уровнем
	s.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if ev.Kind != "begin" || ev.Scope != "run" || ev.Name != "lsp" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestNopIsInert(t *testing.T) {
	ctx, s := Start(context.Background(), ScopeRun, "x")
	if s.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Fatalf("nop span must be inert")
	}
	if s.End("") != 0 {
		t.Fatalf("nop span has no duration")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff must give Nop, got %v %v", tr, err)
	}
}
