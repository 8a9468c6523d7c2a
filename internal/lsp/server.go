package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/modu-ai/showtrans/internal/command"
	"github.com/modu-ai/showtrans/internal/hint"
	"github.com/modu-ai/showtrans/internal/table"
	"github.com/modu-ai/showtrans/internal/ui"
)

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server logger. The default discards everything.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMessages sets the translator for user-facing messages.
func WithMessages(m command.Messages) ServerOption {
	return func(s *Server) { s.messages = m }
}

// WithDebugNotify enables one showMessage per resolved value.
func WithDebugNotify(on bool) ServerOption {
	return func(s *Server) { s.debugNotify = on }
}

// WithTableLoader replaces table.Load.
func WithTableLoader(load func(string) (*table.Table, error)) ServerOption {
	return func(s *Server) { s.loadTable = load }
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// Server is a language server that publishes translation hints.
// Messages are handled one at a time in arrival order.
type Server struct {
	transport   MessageTransport
	registry    *hint.Registry
	logger      *slog.Logger
	messages    command.Messages
	loadTable   func(string) (*table.Table, error)
	debugNotify bool
	version     string

	mu            sync.Mutex
	docs          map[string]string
	active        string
	refreshOK     bool
	shutdown      bool
	nextID        atomic.Int64
	pendingServer map[int64]string
}

// NewServer creates a Server speaking over transport.
func NewServer(transport MessageTransport, registry *hint.Registry, opts ...ServerOption) *Server {
	s := &Server{
		transport:     transport,
		registry:      registry,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		docs:          make(map[string]string),
		pendingServer: make(map[int64]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = hint.NewRegistry()
	}
	return s
}

// Registry returns the hint registry the server publishes from.
func (s *Server) Registry() *hint.Registry {
	return s.registry
}

// Serve reads and handles messages until the client sends exit, the stream
// ends or ctx is cancelled. The transport is closed on return. Cancellation
// returns promptly even when the transport cannot interrupt a blocked read,
// as with stdin.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.transport.Close() })
	defer stop()
	defer func() { _ = s.transport.Close() }()

	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()
	incoming := make(chan readResult)
	go s.readLoop(readCtx, incoming)

	for {
		var next readResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next = <-incoming:
		}

		raw, err := next.raw, next.err
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				s.logger.Debug("client closed the stream")
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		var msg incomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Warn("dropping unparsable message", "error", err)
			s.reply(ctx, json.RawMessage("null"), nil, &JSONRPCError{Code: CodeParseError, Message: err.Error()})
			continue
		}

		if msg.Method == MethodExit {
			if s.isShutdown() {
				return nil
			}
			return ErrExitBeforeShutdown
		}

		switch {
		case msg.isResponse():
			s.handleResponse(&msg)
		case msg.isNotification():
			s.handleNotification(ctx, &msg)
		case msg.Method != "":
			result, rpcErr := s.handleRequest(ctx, &msg)
			s.reply(ctx, msg.ID, result, rpcErr)
		default:
			s.reply(ctx, msg.ID, nil, &JSONRPCError{Code: CodeInvalidRequest, Message: "missing method"})
		}
	}
}

type readResult struct {
	raw json.RawMessage
	err error
}

// readLoop feeds messages to Serve in order. It stops after the first read
// error or once ctx is done.
func (s *Server) readLoop(ctx context.Context, out chan<- readResult) {
	for {
		raw, err := s.transport.ReadMessage(ctx)
		select {
		case out <- readResult{raw: raw, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, msg *incomingMessage) (any, *JSONRPCError) {
	s.logger.Debug("request", "method", msg.Method)

	if s.isShutdown() && msg.Method != MethodShutdown {
		return nil, &JSONRPCError{Code: CodeInvalidRequest, Message: "server is shutting down"}
	}

	switch msg.Method {
	case MethodInitialize:
		return s.initialize(msg.Params)
	case MethodShutdown:
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		return nil, nil
	case MethodInlayHint:
		return s.inlayHints(msg.Params)
	case MethodExecuteCommand:
		return s.executeCommand(ctx, msg.Params)
	default:
		return nil, &JSONRPCError{Code: CodeMethodNotFound, Message: "method not found: " + msg.Method}
	}
}

func (s *Server) handleNotification(_ context.Context, msg *incomingMessage) {
	s.logger.Debug("notification", "method", msg.Method)

	switch msg.Method {
	case MethodDidOpen:
		var p DidOpenTextDocumentParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			s.logger.Warn("bad didOpen params", "error", err)
			return
		}
		s.setDocument(p.TextDocument.URI, p.TextDocument.Text)
	case MethodDidChange:
		var p DidChangeTextDocumentParams
		if err := json.Unmarshal(msg.Params, &p); err != nil || len(p.ContentChanges) == 0 {
			s.logger.Warn("bad didChange params", "error", err)
			return
		}
		s.setDocument(p.TextDocument.URI, p.ContentChanges[len(p.ContentChanges)-1].Text)
	case MethodDidClose:
		var p DidCloseTextDocumentParams
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			s.logger.Warn("bad didClose params", "error", err)
			return
		}
		s.closeDocument(p.TextDocument.URI)
	}
	// Other notifications, initialized included, need no action.
}

func (s *Server) handleResponse(msg *incomingMessage) {
	var id int64
	if err := json.Unmarshal(msg.ID, &id); err != nil {
		return
	}
	s.mu.Lock()
	method := s.pendingServer[id]
	delete(s.pendingServer, id)
	s.mu.Unlock()

	if msg.Error != nil {
		s.logger.Debug("client rejected server request", "method", method, "error", msg.Error)
	}
}

func (s *Server) initialize(params json.RawMessage) (any, *JSONRPCError) {
	var p InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &JSONRPCError{Code: CodeInvalidParams, Message: err.Error()}
		}
	}

	s.mu.Lock()
	s.refreshOK = p.Capabilities.Workspace.InlayHint.RefreshSupport
	s.mu.Unlock()

	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:       textDocumentSyncFull,
			InlayHintProvider:      true,
			ExecuteCommandProvider: ExecuteCommandOptions{Commands: []string{CommandTranslate}},
		},
		ServerInfo: ServerInfo{Name: "showtrans", Version: s.version},
	}, nil
}

func (s *Server) inlayHints(params json.RawMessage) (any, *JSONRPCError) {
	var p InlayHintParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &JSONRPCError{Code: CodeInvalidParams, Message: err.Error()}
	}

	hints := s.registry.InRange(p.TextDocument.URI, p.Range.Start, p.Range.End)
	out := make([]InlayHint, 0, len(hints))
	for _, h := range hints {
		out = append(out, InlayHint{
			Position:    h.Position,
			Label:       []InlayHintLabelPart{{Value: h.Label}},
			Kind:        int(h.Kind),
			PaddingLeft: h.PaddingLeft,
		})
	}
	return out, nil
}

func (s *Server) executeCommand(ctx context.Context, params json.RawMessage) (any, *JSONRPCError) {
	var p ExecuteCommandParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &JSONRPCError{Code: CodeInvalidParams, Message: err.Error()}
	}
	if p.Command != CommandTranslate {
		return nil, &JSONRPCError{Code: CodeInvalidParams, Message: "unknown command: " + p.Command}
	}

	var tablePath, docURI string
	if len(p.Arguments) > 0 {
		if err := json.Unmarshal(p.Arguments[0], &tablePath); err != nil {
			return nil, &JSONRPCError{Code: CodeInvalidParams, Message: "table path argument: " + err.Error()}
		}
	}
	if len(p.Arguments) > 1 {
		if err := json.Unmarshal(p.Arguments[1], &docURI); err != nil {
			return nil, &JSONRPCError{Code: CodeInvalidParams, Message: "document URI argument: " + err.Error()}
		}
	}

	cmd := &command.Translate{
		Picker:      ui.StaticPicker(uriToPath(tablePath)),
		Notifier:    &messageNotifier{ctx: ctx, server: s},
		Messages:    s.messages,
		Registry:    s.registry,
		Logger:      s.logger,
		LoadTable:   s.loadTable,
		DebugNotify: s.debugNotify,
	}

	res, err := cmd.Run(ctx, s.document(docURI))
	if err != nil {
		code := CodeInternalError
		if errors.Is(err, ui.ErrNoFileSelected) || errors.Is(err, command.ErrNoActiveDocument) {
			code = CodeInvalidParams
		}
		return nil, &JSONRPCError{Code: code, Message: err.Error()}
	}

	s.refreshHints(ctx)

	return TranslateResult{URI: res.Document, Table: res.TablePath, Hints: len(res.Hints)}, nil
}

// document returns the named document, or the active one when uri is empty.
func (s *Server) document(uri string) *command.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uri == "" {
		uri = s.active
	}
	text, ok := s.docs[uri]
	if !ok {
		return nil
	}
	return &command.Document{URI: uri, Text: text}
}

func (s *Server) setDocument(uri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = text
	s.active = uri
}

func (s *Server) closeDocument(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	if s.active == uri {
		s.active = ""
	}
	s.mu.Unlock()

	s.registry.Clear(uri)
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// refreshHints asks the client to re-request inlay hints, when it said it can.
func (s *Server) refreshHints(ctx context.Context) {
	s.mu.Lock()
	ok := s.refreshOK
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := s.request(ctx, MethodInlayHintRefresh, nil); err != nil {
		s.logger.Warn("inlay hint refresh failed", "error", err)
	}
}

// request sends a server-to-client request. The response is only logged.
func (s *Server) request(ctx context.Context, method string, params any) error {
	id := s.nextID.Add(1)
	req := jsonrpcRequest{JSONRPC: "2.0", ID: id, Method: method}
	if params != nil {
		p, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal params for %s: %w", method, err)
		}
		req.Params = p
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request for %s: %w", method, err)
	}

	s.mu.Lock()
	s.pendingServer[id] = method
	s.mu.Unlock()

	return s.transport.WriteMessage(ctx, data)
}

// notify sends a JSON-RPC notification (no response expected).
func (s *Server) notify(ctx context.Context, method string, params any) error {
	notif := jsonrpcNotification{JSONRPC: "2.0", Method: method}
	if params != nil {
		p, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal params for %s: %w", method, err)
		}
		notif.Params = p
	}
	data, err := json.Marshal(notif)
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", method, err)
	}
	return s.transport.WriteMessage(ctx, data)
}

func (s *Server) reply(ctx context.Context, id json.RawMessage, result any, rpcErr *JSONRPCError) {
	resp := jsonrpcResponse{JSONRPC: "2.0", ID: id}
	if len(resp.ID) == 0 {
		resp.ID = json.RawMessage("null")
	}

	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		data, err := json.Marshal(result)
		if err != nil {
			resp.Error = &JSONRPCError{Code: CodeInternalError, Message: err.Error()}
		} else {
			resp.Result = data
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal response", "error", err)
		return
	}
	if err := s.transport.WriteMessage(ctx, data); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

// messageNotifier routes command notifications to window/showMessage.
type messageNotifier struct {
	ctx    context.Context
	server *Server
}

// Notify implements ui.Notifier.
func (n *messageNotifier) Notify(level ui.Level, msg string) {
	typ := MessageInfo
	switch level {
	case ui.LevelWarning:
		typ = MessageWarning
	case ui.LevelError:
		typ = MessageError
	}
	if err := n.server.notify(n.ctx, MethodShowMessage, ShowMessageParams{Type: typ, Message: msg}); err != nil {
		n.server.logger.Warn("showMessage failed", "error", err)
	}
}

// uriToPath turns a file:// URI into a local path. Other strings are
// returned unchanged.
func uriToPath(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	return u.Path
}
