package lsp

import (
	"context"
	"path/filepath"
	"time"

	"sysyplus/internal/diag"
	"sysyplus/internal/driver"
	"sysyplus/internal/project"
)

// scheduleAnalysis bumps the document generation and restarts its debounce
// timer. Any in-flight analysis of an older generation is canceled; if it
// still finishes, its result is dropped.
func (s *Server) scheduleAnalysis(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil {
		return
	}
	doc.stop()
	seq := doc.gen.Next()
	doc.timer = time.AfterFunc(s.debounce, func() {
		s.runAnalysis(uri, seq)
	})
}

func (s *Server) runAnalysis(uri string, seq uint64) {
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil || !doc.gen.IsLatest(seq) {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	doc.cancel = cancel
	text, path, ver := doc.text, doc.path, doc.version
	cfg := s.cfg
	useManifests, trace := s.useManifests, s.traceLSP
	s.mu.Unlock()
	defer cancel()

	if useManifests {
		cfg = configFor(path, cfg)
	}
	started := time.Now()
	res := s.analyze(ctx, path, text, cfg)
	if res == nil {
		return
	}
	res.Generation = seq

	s.mu.Lock()
	doc = s.docs[uri]
	if doc == nil || !doc.gen.IsLatest(seq) || res.Canceled {
		s.mu.Unlock()
		if trace {
			s.logf("analysis discard: uri=%s seq=%d", uri, seq)
		}
		return
	}
	doc.result = res
	doc.cancel = nil
	s.mu.Unlock()
	if trace {
		s.logf("analysis done: uri=%s seq=%d version=%d diags=%d in %s", uri, seq, ver, res.Bag.Len(), time.Since(started).Round(time.Microsecond))
	}
	s.publishDiagnostics(uri, seq, ver, res)
}

// configFor overlays the manifest governing path onto base.
func configFor(path string, base driver.Config) driver.Config {
	m, err := project.Discover(filepath.Dir(filepath.FromSlash(path)))
	if err != nil {
		return base
	}
	m.ApplyTo(&base)
	return base
}

func (s *Server) publishDiagnostics(uri string, seq uint64, ver int, res *driver.Result) {
	list := toLSPDiagnostics(uri, res)

	// отправка под s.mu: иначе более старый publish может обогнать новый
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil || !doc.gen.IsLatest(seq) {
		return
	}
	if len(list) == 0 {
		if _, had := s.published[uri]; !had {
			return
		}
		delete(s.published, uri)
	} else {
		s.published[uri] = struct{}{}
	}
	if err := s.sendPublish(uri, &ver, list); err != nil {
		s.logf("failed to publish diagnostics: %v", err)
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	for uri := range prev {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

func toLSPDiagnostics(uri string, res *driver.Result) []lspDiagnostic {
	if res == nil || res.Bag == nil {
		return nil
	}
	items := res.Bag.Items()
	out := make([]lspDiagnostic, 0, len(items))
	for i := range items {
		out = append(out, toLSPDiagnostic(uri, res, &items[i]))
	}
	return out
}

func toLSPDiagnostic(uri string, res *driver.Result, d *diag.Diagnostic) lspDiagnostic {
	ld := lspDiagnostic{
		Range:    rangeForSpan(res.File, d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   "sysy",
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		if n.Span.File != res.File.ID {
			continue
		}
		ld.RelatedInformation = append(ld.RelatedInformation, diagnosticRelatedInformation{
			Location: location{URI: uri, Range: rangeForSpan(res.File, n.Span)},
			Message:  n.Msg,
		})
	}
	return ld
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

// docView is what a request handler sees of a document.
type docView struct {
	uri  string
	text string
	res  *driver.Result
	// fresh is set when res was computed from text; stale results are
	// still good enough for completion.
	fresh bool
}

func (s *Server) view(uri string) (docView, bool) {
	uri = canonicalURI(uri)
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc == nil {
		return docView{}, false
	}
	v := docView{uri: uri, text: doc.text, res: doc.result}
	v.fresh = v.res != nil && doc.gen.IsLatest(v.res.Generation)
	return v, true
}

// current returns the result only when it matches the buffer.
func (v docView) current() *driver.Result {
	if !v.fresh {
		return nil
	}
	return v.res
}
