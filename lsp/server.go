// Package lsp implements a Language Server Protocol server for SATySFi.
package lsp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/analysis"
)

// Version is reported in the initialize result.
const Version = "0.1.0"

// Server answers LSP requests for open SATySFi documents.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Current document of every open URI.
	store *analysis.Store

	mu        sync.RWMutex
	resources *Resources

	config *satyls.Config

	// Server state
	shutdown      atomic.Bool
	workspaceRoot string
	exited        chan struct{}
	exitOnce      sync.Once
}

// NewServer creates a new LSP server. cfg may be nil, in which case the
// nearest .satyls.yaml of the workspace root is loaded on initialize.
func NewServer(client protocol.Client, logger *zap.Logger, cfg *satyls.Config) *Server {
	s := &Server{
		client: client,
		logger: logger,
		store:  analysis.NewStore(),
		config: cfg,
		exited: make(chan struct{}),
	}

	s.loadResources()

	return s
}

// Exited is closed once the client sends the exit notification.
func (s *Server) Exited() <-chan struct{} {
	return s.exited
}

func (s *Server) loadResources() {
	var completion satyls.CompletionConfig
	if s.config != nil {
		completion = s.config.Completion
	}

	res, err := LoadResources(completion.Resources, completion.PrimitivesEnabled())
	if err != nil {
		s.logger.Warn("Failed to load completion resources, using built-in primitives",
			zap.String("path", completion.Resources), zap.Error(err))

		res, _ = LoadResources("", true)
	}

	s.mu.Lock()
	s.resources = res
	s.mu.Unlock()
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("rootURI", string(params.RootURI)))

	// Extract workspace root from params
	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
	}

	if s.config == nil && s.workspaceRoot != "" {
		cfg, err := satyls.LoadConfig(s.workspaceRoot)

		switch {
		case err == nil:
			s.config = cfg
			s.loadResources()
			s.logger.Info("Loaded config", zap.String("root", s.workspaceRoot))
		case errors.Is(err, satyls.ErrConfigNotFound):
		default:
			s.logger.Warn("Failed to load config", zap.String("root", s.workspaceRoot), zap.Error(err))
		}
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - every change reparses the whole text
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{`\`, "+"},
				ResolveProvider:   false,
			},
			HoverProvider:          true,
			DefinitionProvider:     true,
			DocumentSymbolProvider: true,
			FoldingRangeProvider:   true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "satyls",
			Version: Version,
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown.Store(true)

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	s.exitOnce.Do(func() { close(s.exited) })

	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	doc := s.update(params.TextDocument.URI, params.TextDocument.Text)

	// Publish diagnostics outside the lock to prevent deadlock
	s.publishDiagnostics(ctx, params.TextDocument.URI, params.TextDocument.Version, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	start := time.Now()
	uri := params.TextDocument.URI

	if _, ok := s.store.Get(string(uri)); !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(uri)))

		return nil
	}

	if len(params.ContentChanges) == 0 {
		return nil
	}

	// Full sync - the last change carries the whole text
	doc := s.update(uri, params.ContentChanges[len(params.ContentChanges)-1].Text)

	s.logger.Debug("DidChange: document rebuilt",
		zap.String("uri", string(uri)),
		zap.Int32("version", params.TextDocument.Version),
		zap.Bool("hasParseError", doc.Err != nil),
		zap.Duration("elapsed", time.Since(start)))

	// The client may send requests while we publish, so no lock is held here.
	s.publishDiagnostics(ctx, uri, params.TextDocument.Version, doc)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.store.Delete(string(params.TextDocument.URI))

	// Clear diagnostics outside the lock to prevent deadlock
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// update rebuilds and stores the document for uri.
func (s *Server) update(uri protocol.DocumentURI, text string) *analysis.Document {
	return s.store.Set(string(uri), text)
}

// getDocument returns the current document for uri.
func (s *Server) getDocument(uri protocol.DocumentURI) (*analysis.Document, bool) {
	return s.store.Get(string(uri))
}

func (s *Server) getResources() *Resources {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resources
}
