package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"sysyplus/internal/driver"
)

// syncBuffer lets timer goroutines write while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) messages(t *testing.T) []rpcMessage {
	t.Helper()
	b.mu.Lock()
	data := append([]byte(nil), b.buf.Bytes()...)
	b.mu.Unlock()
	r := bufio.NewReader(bytes.NewReader(data))
	var out []rpcMessage
	for {
		payload, err := readMessage(r)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("read message: %v", err)
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		out = append(out, msg)
	}
}

func frame(t *testing.T, msgs ...string) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		if err := writeMessage(&buf, []byte(m)); err != nil {
			t.Fatalf("frame: %v", err)
		}
	}
	return &buf
}

func newTestServer(out io.Writer, analyze AnalyzeFunc) *Server {
	return NewServer(bytes.NewReader(nil), out, ServerOptions{
		Debounce: time.Hour,
		Config:   driver.DefaultConfig(),
		Analyze:  analyze,
	})
}

func notify(t *testing.T, method string, params any) *rpcMessage {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return &rpcMessage{JSONRPC: "2.0", Method: method, Params: raw}
}

func (s *Server) pendingSeq(uri string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	if doc.timer != nil {
		doc.timer.Stop()
	}
	return doc.gen.Current()
}

func TestPublishDiagnosticsMapping(t *testing.T) {
	out := &syncBuffer{}
	server := newTestServer(out, nil)

	open := didOpenTextDocumentParams{TextDocument: textDocumentItem{
		URI:     sampleURI,
		Version: 1,
		Text:    "int main() {\n  return x;\n}\n",
	}}
	if err := server.handleMessage(notify(t, "textDocument/didOpen", open)); err != nil {
		t.Fatalf("didOpen: %v", err)
	}
	server.runAnalysis(sampleURI, server.pendingSeq(sampleURI))

	msgs := out.messages(t)
	if len(msgs) != 1 || msgs[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("expected one publish, got %+v", msgs)
	}
	var params publishDiagnosticsParams
	if err := json.Unmarshal(msgs[0].Params, &params); err != nil {
		t.Fatalf("decode params: %v", err)
	}
	if params.URI != sampleURI || params.Version == nil || *params.Version != 1 {
		t.Fatalf("unexpected publish header: %+v", params)
	}
	if len(params.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %+v", params.Diagnostics)
	}
	got := params.Diagnostics[0]
	if got.Code != "REF4001" || got.Severity != 1 || got.Source != "sysy" {
		t.Fatalf("unexpected diagnostic: %+v", got)
	}
	if got.Range.Start != (position{Line: 1, Character: 9}) || got.Range.End != (position{Line: 1, Character: 10}) {
		t.Fatalf("unexpected range: %+v", got.Range)
	}

	// исправленный текст: пустой publish очищает прежний список
	change := didChangeTextDocumentParams{
		TextDocument: versionedTextDocumentIdentifier{URI: sampleURI, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{
			Range: &lspRange{Start: position{Line: 1, Character: 9}, End: position{Line: 1, Character: 10}},
			Text:  "0",
		}},
	}
	if err := server.handleMessage(notify(t, "textDocument/didChange", change)); err != nil {
		t.Fatalf("didChange: %v", err)
	}
	server.runAnalysis(sampleURI, server.pendingSeq(sampleURI))
	msgs = out.messages(t)
	if len(msgs) != 2 {
		t.Fatalf("expected a clearing publish, got %d messages", len(msgs))
	}
	if err := json.Unmarshal(msgs[1].Params, &params); err != nil {
		t.Fatalf("decode params: %v", err)
	}
	if len(params.Diagnostics) != 0 {
		t.Fatalf("expected empty list, got %+v", params.Diagnostics)
	}
}

func TestStaleAnalysisIsDiscarded(t *testing.T) {
	out := &syncBuffer{}
	var server *Server
	edited := false
	server = newTestServer(out, func(ctx context.Context, path, text string, cfg driver.Config) *driver.Result {
		if !edited {
			edited = true
			// правка пришла, пока шёл анализ
			server.scheduleAnalysis(sampleURI)
		}
		return analyzeText(ctx, path, text, cfg)
	})
	open := didOpenTextDocumentParams{TextDocument: textDocumentItem{URI: sampleURI, Version: 1, Text: "int main() { return y; }\n"}}
	if err := server.handleMessage(notify(t, "textDocument/didOpen", open)); err != nil {
		t.Fatalf("didOpen: %v", err)
	}
	first := server.pendingSeq(sampleURI)
	server.runAnalysis(sampleURI, first)
	if msgs := out.messages(t); len(msgs) != 0 {
		t.Fatalf("stale result must not be published, got %+v", msgs)
	}
	if v, _ := server.view(sampleURI); v.res != nil {
		t.Fatal("stale result must not be stored")
	}

	// более старое поколение даже не запускается
	server.runAnalysis(sampleURI, first)
	if msgs := out.messages(t); len(msgs) != 0 {
		t.Fatalf("old generation ran: %+v", msgs)
	}

	server.runAnalysis(sampleURI, server.pendingSeq(sampleURI))
	if msgs := out.messages(t); len(msgs) != 1 {
		t.Fatalf("latest generation must publish, got %d", len(msgs))
	}
}

func TestDidSaveDoesNotReanalyze(t *testing.T) {
	out := &syncBuffer{}
	calls := 0
	server := newTestServer(out, func(ctx context.Context, path, text string, cfg driver.Config) *driver.Result {
		calls++
		return analyzeText(ctx, path, text, cfg)
	})
	open := didOpenTextDocumentParams{TextDocument: textDocumentItem{URI: sampleURI, Version: 1, Text: "int main() { return 0; }\n"}}
	if err := server.handleMessage(notify(t, "textDocument/didOpen", open)); err != nil {
		t.Fatalf("didOpen: %v", err)
	}
	seq := server.pendingSeq(sampleURI)
	server.runAnalysis(sampleURI, seq)

	save := didSaveTextDocumentParams{TextDocument: textDocumentIdentifier{URI: sampleURI}}
	if err := server.handleMessage(notify(t, "textDocument/didSave", save)); err != nil {
		t.Fatalf("didSave: %v", err)
	}
	if got := server.pendingSeq(sampleURI); got != seq {
		t.Fatalf("didSave bumped the generation: %d -> %d", seq, got)
	}
	if calls != 1 {
		t.Fatalf("expected one analysis, got %d", calls)
	}
	if v, _ := server.view(sampleURI); !v.fresh {
		t.Fatal("result should still match the buffer")
	}
}

func TestRunLifecycle(t *testing.T) {
	in := frame(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"rootUri":"file:///work"}}`,
		`{"jsonrpc":"2.0","method":"initialized","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"textDocument/unknown","params":{}}`,
		`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","id":4,"method":"textDocument/hover","params":{}}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	out := &syncBuffer{}
	server := NewServer(in, out, ServerOptions{Config: driver.DefaultConfig()})
	if err := server.Run(context.Background()); !errors.Is(err, ErrExit) {
		t.Fatalf("expected ErrExit, got %v", err)
	}

	msgs := out.messages(t)
	if len(msgs) != 4 {
		t.Fatalf("expected 4 responses, got %d", len(msgs))
	}
	var init initializeResult
	if err := json.Unmarshal(msgs[0].Result, &init); err != nil {
		t.Fatalf("decode initialize: %v", err)
	}
	caps := init.Capabilities
	if !caps.HoverProvider || !caps.DefinitionProvider || !caps.DocumentFormattingProvider || caps.CompletionProvider == nil {
		t.Fatalf("missing capabilities: %+v", caps)
	}
	if init.ServerInfo == nil || init.ServerInfo.Name != "sysy" {
		t.Fatalf("unexpected server info: %+v", init.ServerInfo)
	}
	if msgs[1].Error == nil || msgs[1].Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found, got %+v", msgs[1])
	}
	if string(msgs[2].ID) != "3" || msgs[2].Error != nil {
		t.Fatalf("unexpected shutdown response: %+v", msgs[2])
	}
	if msgs[3].Error == nil || msgs[3].Error.Code != codeInvalidRequest {
		t.Fatalf("requests after shutdown must fail, got %+v", msgs[3])
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	server := NewServer(frame(t, `{"jsonrpc":"2.0","method":"exit"}`), io.Discard, ServerOptions{})
	if err := server.Run(context.Background()); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("expected ErrExitWithoutShutdown, got %v", err)
	}
	server = NewServer(strings.NewReader(""), io.Discard, ServerOptions{})
	if err := server.Run(context.Background()); err != nil {
		t.Fatalf("EOF must end the session cleanly, got %v", err)
	}
}

func TestConfigurationChange(t *testing.T) {
	server := newTestServer(io.Discard, nil)
	if server.applySettings(json.RawMessage(`{"sysy":{"trace":true}}`)) {
		t.Fatal("trace alone must not trigger re-analysis")
	}
	if !server.currentTrace() {
		t.Fatal("trace not applied")
	}
	if !server.applySettings(json.RawMessage(`{"sysy":{"warnUnused":false}}`)) {
		t.Fatal("warning toggles must trigger re-analysis")
	}
	if server.cfg.WarnUnused {
		t.Fatal("warnUnused not applied")
	}
	if server.applySettings(json.RawMessage(`not json`)) {
		t.Fatal("broken settings must be ignored")
	}
}
