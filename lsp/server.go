// Package lsp serves C3 syntax information over the Language Server
// Protocol.
package lsp

import (
	"context"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/c3kit/c3/codebase"
	"github.com/dhamidi/c3kit/config"
)

const lsName = "c3kit"

var log = commonlog.GetLogger("c3kit.lsp")

type Server struct {
	mu       sync.Mutex
	codebase *codebase.Codebase
	watcher  *codebase.FileWatcher
	config   *config.Config
	// open holds the editor's text for open documents, by path.
	open map[string][]byte

	handler protocol.Handler
	server  *server.Server
	version string
}

// NewServer creates a language server. A nil cfg means the c3kit.toml of
// the workspace root is used, or the defaults when there is none.
func NewServer(version string, cfg *config.Config) *Server {
	s := &Server{
		config:  cfg,
		open:    make(map[string][]byte),
		version: version,
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,

		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:   s.textDocumentFoldingRange,
		TextDocumentHover:          s.textDocumentHover,
		WorkspaceSymbol:            s.workspaceSymbol,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(string(*params.RootURI)); err == nil {
			rootDir = path
		}
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}

	s.setup(rootDir)

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

// setup loads the configuration for rootDir and creates the codebase.
func (s *Server) setup(rootDir string) {
	cfg := s.config
	if cfg == nil {
		loaded, err := config.FindAndLoad(rootDir)
		if err != nil {
			log.Warningf("config: %v", err)
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.Default()
		cfg.Dir = rootDir
	}
	s.config = cfg
	log.Infof("workspace %s", rootDir)

	s.codebase = codebase.New(rootDir,
		codebase.WithDirs(cfg.SourceDirPaths()...),
		codebase.WithExclude(cfg.Source.Exclude...),
		codebase.WithWorkers(cfg.Codebase.Workers),
		codebase.WithParserOptions(cfg.ParserOptions()...),
	)
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	go s.scanWorkspace(context.Background())
	return nil
}

// scanWorkspace parses the workspace from disk and starts the watcher.
// Documents opened while the scan ran keep the editor's text.
func (s *Server) scanWorkspace(ctx context.Context) {
	w := codebase.NewFileWatcher(s.codebase, s.config.Codebase.PollInterval.Duration)
	w.OnChange = s.restoreOpen
	if err := w.Prime(); err != nil {
		log.Warningf("watch: %v", err)
	}
	if err := s.codebase.ScanAll(ctx); err != nil {
		log.Errorf("scan: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, content := range s.open {
		s.codebase.UpdateFile(path, content)
	}
	s.watcher = w
	w.Start()
}

// restoreOpen puts the editor's text back for open documents that the
// watcher rescanned from disk.
func (s *Server) restoreOpen(changed, removed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range append(changed, removed...) {
		if content, ok := s.open[path]; ok {
			s.codebase.UpdateFile(path, content)
		}
	}
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	w := s.watcher
	s.mu.Unlock()
	if w != nil {
		w.Stop()
	}
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	path, err := uriToPath(string(uri))
	if err != nil {
		log.Warningf("bad uri %s: %v", uri, err)
		return
	}
	content := []byte(text)
	s.mu.Lock()
	s.open[path] = content
	info := s.codebase.UpdateFile(path, content)
	s.mu.Unlock()

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: Diagnostics(info.Tree),
	})
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.update(ctx, params.TextDocument.URI, whole.Text)
		}
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	path, err := uriToPath(string(uri))
	if err != nil {
		return nil
	}

	s.mu.Lock()
	delete(s.open, path)
	s.mu.Unlock()

	// The file on disk is the truth again.
	if err := s.codebase.ScanFile(path); err != nil {
		s.codebase.RemoveFile(path)
	}

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) file(uri protocol.DocumentUri) *codebase.FileInfo {
	path, err := uriToPath(string(uri))
	if err != nil {
		return nil
	}
	info := s.codebase.GetFile(path)
	if info == nil || info.Tree == nil {
		return nil
	}
	return info
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	info := s.file(params.TextDocument.URI)
	if info == nil {
		return nil, nil
	}
	return DocumentSymbols(info.Tree, info.Symbols), nil
}

func (s *Server) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	info := s.file(params.TextDocument.URI)
	if info == nil {
		return nil, nil
	}
	return FoldingRanges(info.Tree), nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	info := s.file(params.TextDocument.URI)
	if info == nil {
		return nil, nil
	}
	return Hover(info.Tree, info.Symbols, params.Position), nil
}

func (s *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	return WorkspaceSymbols(s.codebase, params.Query), nil
}

func boolPtr(b bool) *bool {
	return &b
}
