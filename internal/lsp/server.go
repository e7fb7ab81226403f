package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sysyplus/internal/driver"
	"sysyplus/internal/format"
	"sysyplus/internal/project"
	"sysyplus/internal/source"
	"sysyplus/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

const defaultDebounce = 300 * time.Millisecond

// AnalyzeFunc analyzes one document snapshot. The result must describe
// exactly text; ctx is canceled when a newer edit supersedes it.
type AnalyzeFunc func(ctx context.Context, path, text string, cfg driver.Config) *driver.Result

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Debounce delays analysis after an edit; 0 means lsp.debounce_ms from
	// the workspace manifest, or 300ms.
	Debounce time.Duration
	Config   driver.Config
	Analyze  AnalyzeFunc
	// Manifests are looked up next to each document when set.
	UseManifests bool
	Trace        bool
}

// document is one open editor buffer.
type document struct {
	uri     string
	path    string
	text    string
	version int
	gen     driver.Generation
	timer   *time.Timer
	cancel  context.CancelFunc
	result  *driver.Result // последний результат, совпадающий с gen
}

// Server handles stdio JSON-RPC for the SysY+ language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	mu     sync.Mutex
	docs   map[string]*document

	cfg               driver.Config
	analyze           AnalyzeFunc
	debounce          time.Duration
	debounceSet       bool
	useManifests      bool
	traceLSP          bool
	workspaceRoot     string
	shutdownRequested bool
	baseCtx           context.Context
	// published tracks URIs whose last publish was non-empty.
	published map[string]struct{}
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	analyzeFn := opts.Analyze
	if analyzeFn == nil {
		analyzeFn = analyzeText
	}
	return &Server{
		in:           bufio.NewReader(in),
		out:          bufio.NewWriter(out),
		docs:         make(map[string]*document),
		cfg:          opts.Config,
		analyze:      analyzeFn,
		debounce:     debounce,
		debounceSet:  opts.Debounce > 0,
		useManifests: opts.UseManifests,
		traceLSP:     opts.Trace,
		baseCtx:      context.Background(),
		published:    make(map[string]struct{}),
	}
}

func analyzeText(ctx context.Context, path, text string, cfg driver.Config) *driver.Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(text))
	return driver.AnalyzeFile(ctx, fs, id, cfg)
}

// Run serves LSP requests until exit or EOF.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	defer s.stopAll()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	s.mu.Lock()
	down := s.shutdownRequested
	s.mu.Unlock()
	if down && msg.Method != "exit" {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized", "$/cancelRequest", "$/setTrace":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if down {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/references":
		return s.handleReferences(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.workspaceRoot = root
	if root != "" && s.useManifests && !s.debounceSet {
		if m, err := project.Discover(root); err == nil {
			s.debounce = m.Debounce(s.debounce)
		}
	}
	s.mu.Unlock()

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save:      saveOptions{},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			ReferencesProvider: true,
			CompletionProvider: &completionOptions{
				TriggerCharacters: []string{"."},
			},
			DocumentFormattingProvider: true,
			CodeActionProvider: &codeActionOptions{
				CodeActionKinds: []string{"quickfix"},
			},
			FoldingRangeProvider:   true,
			DocumentSymbolProvider: true,
		},
		ServerInfo: &serverInfo{Name: "sysy", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.stopAll()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		doc = &document{uri: uri, path: documentPath(uri)}
		s.docs[uri] = doc
	}
	doc.text = params.TextDocument.Text
	doc.version = params.TextDocument.Version
	s.mu.Unlock()
	s.scheduleAnalysis(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		return nil
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	trace := s.traceLSP
	s.mu.Unlock()
	if trace {
		s.logf("didChange: uri=%s version=%d", uri, params.TextDocument.Version)
	}
	s.scheduleAnalysis(uri)
	return nil
}

// didSave does not re-analyze: the buffer was already analyzed on change.
func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	if s.currentTrace() {
		s.logf("didSave: uri=%s", canonicalURI(params.TextDocument.URI))
	}
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc := s.docs[uri]
	if doc != nil {
		doc.stop()
		delete(s.docs, uri)
	}
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	s.mu.Unlock()
	if hadDiagnostics {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	return nil
}

// stop cancels a pending or running analysis. Callers hold s.mu.
func (d *document) stop() {
	d.gen.Next()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (s *Server) stopAll() {
	s.mu.Lock()
	for _, doc := range s.docs {
		doc.stop()
	}
	s.mu.Unlock()
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, ver *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     ver,
			Diagnostics: list,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}

func (s *Server) currentTrace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traceLSP
}

func formatOptions(opts formattingOptions) format.Options {
	return format.Options{IndentWidth: opts.TabSize, UseTabs: !opts.InsertSpaces}
}
