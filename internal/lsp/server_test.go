package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modu-ai/showtrans/internal/i18n"
)

// testClient drives a Server over in-memory pipes.
type testClient struct {
	t         *testing.T
	transport *StreamTransport
	nextID    int
	done      chan error
	cancel    context.CancelFunc
	server    *Server
}

func newTestClient(t *testing.T, opts ...ServerOption) *testClient {
	t.Helper()

	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	serverTransport := NewStreamTransport(serverReader, serverWriter, multiCloser{serverReader, serverWriter})
	clientTransport := NewStreamTransport(clientReader, clientWriter, multiCloser{clientReader, clientWriter})

	opts = append([]ServerOption{WithMessages(i18n.NewTranslator("en")), WithVersion("test")}, opts...)
	srv := NewServer(serverTransport, nil, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	c := &testClient{t: t, transport: clientTransport, done: make(chan error, 1), cancel: cancel, server: srv}
	go func() { c.done <- srv.Serve(ctx) }()

	t.Cleanup(func() {
		cancel()
		_ = clientTransport.Close()
	})
	return c
}

func (c *testClient) send(v any) {
	c.t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		c.t.Fatalf("marshal: %v", err)
	}
	if err := c.transport.WriteMessage(context.Background(), data); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func (c *testClient) read() incomingMessage {
	c.t.Helper()
	raw, err := c.transport.ReadMessage(context.Background())
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	var msg incomingMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return msg
}

func (c *testClient) notify(method string, params any) {
	c.t.Helper()
	c.send(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

// call sends a request and returns every message received up to and
// including its response.
func (c *testClient) call(method string, params any) (incomingMessage, []incomingMessage) {
	c.t.Helper()
	c.nextID++
	id := c.nextID
	c.send(map[string]any{"jsonrpc": "2.0", "id": id, "method": method, "params": params})

	var others []incomingMessage
	for {
		msg := c.read()
		if msg.isResponse() && string(msg.ID) == jsonInt(id) {
			return msg, others
		}
		others = append(others, msg)
	}
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func (c *testClient) initialize(refresh bool) {
	c.t.Helper()
	params := map[string]any{
		"processId": nil,
		"capabilities": map[string]any{
			"workspace": map[string]any{"inlayHint": map[string]any{"refreshSupport": refresh}},
		},
	}
	resp, _ := c.call(MethodInitialize, params)
	if resp.Error != nil {
		c.t.Fatalf("initialize error: %v", resp.Error)
	}
	c.notify(MethodInitialized, map[string]any{})
}

func (c *testClient) open(uri, text string) {
	c.notify(MethodDidOpen, DidOpenTextDocumentParams{TextDocument: TextDocumentItem{URI: uri, LanguageID: "typescript", Version: 1, Text: text}})
}

func writeJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "en.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func showMessages(msgs []incomingMessage) []ShowMessageParams {
	var out []ShowMessageParams
	for _, m := range msgs {
		if m.Method != MethodShowMessage {
			continue
		}
		var p ShowMessageParams
		_ = json.Unmarshal(m.Params, &p)
		out = append(out, p)
	}
	return out
}

func TestServer_Initialize(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	resp, _ := c.call(MethodInitialize, map[string]any{"processId": nil, "capabilities": map[string]any{}})
	if resp.Error != nil {
		t.Fatalf("initialize error: %v", resp.Error)
	}

	var res InitializeResult
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !res.Capabilities.InlayHintProvider {
		t.Error("inlayHintProvider should be advertised")
	}
	if res.Capabilities.TextDocumentSync != textDocumentSyncFull {
		t.Errorf("textDocumentSync = %d, want full", res.Capabilities.TextDocumentSync)
	}
	if len(res.Capabilities.ExecuteCommandProvider.Commands) != 1 || res.Capabilities.ExecuteCommandProvider.Commands[0] != CommandTranslate {
		t.Errorf("commands = %v", res.Capabilities.ExecuteCommandProvider.Commands)
	}
	if res.ServerInfo.Name != "showtrans" || res.ServerInfo.Version != "test" {
		t.Errorf("serverInfo = %+v", res.ServerInfo)
	}
}

func TestServer_TranslateAndInlayHints(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	c.initialize(true)

	uri := "file:///src/app.ts"
	c.open(uri, "const a = 1\nHello t('greeting') world t('missing')\n")

	table := writeJSON(t, `{"greeting":"Hi there"}`)
	resp, others := c.call(MethodExecuteCommand, ExecuteCommandParams{
		Command:   CommandTranslate,
		Arguments: []json.RawMessage{json.RawMessage(jsonString(table))},
	})
	if resp.Error != nil {
		t.Fatalf("executeCommand error: %v", resp.Error)
	}

	var res TranslateResult
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.URI != uri || res.Hints != 1 {
		t.Errorf("result = %+v", res)
	}

	msgs := showMessages(others)
	if len(msgs) != 1 || msgs[0].Type != MessageInfo || msgs[0].Message != "Matching values attached to IDs in the file." {
		t.Errorf("showMessage = %+v", msgs)
	}

	// The refresh request follows the response.
	refresh := c.read()
	if refresh.Method != MethodInlayHintRefresh || len(refresh.ID) == 0 {
		t.Fatalf("expected inlayHint/refresh request, got %+v", refresh)
	}
	c.send(map[string]any{"jsonrpc": "2.0", "id": json.RawMessage(refresh.ID), "result": nil})

	hintResp, _ := c.call(MethodInlayHint, InlayHintParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        Range{Start: Position{}, End: Position{Line: 10}},
	})
	if hintResp.Error != nil {
		t.Fatalf("inlayHint error: %v", hintResp.Error)
	}

	var hints []InlayHint
	if err := json.Unmarshal(hintResp.Result, &hints); err != nil {
		t.Fatalf("unmarshal hints: %v", err)
	}
	if len(hints) != 1 {
		t.Fatalf("got %d hints, want 1", len(hints))
	}
	h := hints[0]
	if h.Position != (Position{Line: 1, Character: 17}) {
		t.Errorf("position = %+v, want 1:17", h.Position)
	}
	if len(h.Label) != 1 || h.Label[0].Value != ":Hi there" {
		t.Errorf("label = %+v", h.Label)
	}
	if h.Kind != 2 || !h.PaddingLeft {
		t.Errorf("kind = %d paddingLeft = %v", h.Kind, h.PaddingLeft)
	}

	// A range that excludes line 1 yields an empty array, not null.
	emptyResp, _ := c.call(MethodInlayHint, InlayHintParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        Range{Start: Position{}, End: Position{Line: 1}},
	})
	if string(emptyResp.Result) != "[]" {
		t.Errorf("empty range result = %s, want []", emptyResp.Result)
	}

	// A hint sitting on the range end is returned.
	edgeResp, _ := c.call(MethodInlayHint, InlayHintParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Range:        Range{Start: Position{Line: 1}, End: Position{Line: 1, Character: 17}},
	})
	var edge []InlayHint
	if err := json.Unmarshal(edgeResp.Result, &edge); err != nil {
		t.Fatalf("unmarshal hints: %v", err)
	}
	if len(edge) != 1 {
		t.Errorf("range ending at the hint returned %d hints, want 1", len(edge))
	}
}

func TestServer_RerunReplacesHints(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	c.initialize(false)

	uri := "file:///a.ts"
	c.open(uri, "t('a') t('b')")

	run := func(tableJSON string) {
		resp, _ := c.call(MethodExecuteCommand, ExecuteCommandParams{
			Command:   CommandTranslate,
			Arguments: []json.RawMessage{json.RawMessage(jsonString(writeJSON(t, tableJSON))), json.RawMessage(jsonString(uri))},
		})
		if resp.Error != nil {
			t.Fatalf("executeCommand error: %v", resp.Error)
		}
	}

	run(`{"a":"A","b":"B"}`)
	run(`{"a":"A2"}`)

	hints := c.server.Registry().Get(uri)
	if len(hints) != 1 || hints[0].Label != ":A2" {
		t.Errorf("registry = %+v, want only the second run's hint", hints)
	}
}

func TestServer_TranslateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		open     bool
		args     func(t *testing.T) []json.RawMessage
		wantCode int
		wantType MessageType
		wantMsg  string
	}{
		{
			name:     "no file selected",
			open:     true,
			args:     func(*testing.T) []json.RawMessage { return nil },
			wantCode: CodeInvalidParams,
			wantType: MessageWarning,
			wantMsg:  "No JSON file selected.",
		},
		{
			name: "no active document",
			open: false,
			args: func(t *testing.T) []json.RawMessage {
				return []json.RawMessage{json.RawMessage(jsonString(writeJSON(t, `{}`)))}
			},
			wantCode: CodeInvalidParams,
			wantType: MessageError,
			wantMsg:  "No active editor found.",
		},
		{
			name: "malformed json",
			open: true,
			args: func(t *testing.T) []json.RawMessage {
				return []json.RawMessage{json.RawMessage(jsonString(writeJSON(t, `{not valid`)))}
			},
			wantCode: CodeInternalError,
			wantType: MessageError,
			wantMsg:  "Error parsing JSON",
		},
		{
			name: "array json",
			open: true,
			args: func(t *testing.T) []json.RawMessage {
				return []json.RawMessage{json.RawMessage(jsonString("file://" + writeJSON(t, `[1,2,3]`)))}
			},
			wantCode: CodeInternalError,
			wantType: MessageError,
			wantMsg:  "Error parsing JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t)
			c.initialize(true)
			if tt.open {
				c.open("file:///x.ts", "t('a')")
			}

			resp, others := c.call(MethodExecuteCommand, ExecuteCommandParams{Command: CommandTranslate, Arguments: tt.args(t)})
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("error = %v, want code %d", resp.Error, tt.wantCode)
			}

			msgs := showMessages(others)
			if len(msgs) != 1 || msgs[0].Type != tt.wantType || msgs[0].Message != tt.wantMsg {
				t.Errorf("showMessage = %+v", msgs)
			}
			if docs := c.server.Registry().Documents(); len(docs) != 0 {
				t.Errorf("no hints may be registered on failure, got %v", docs)
			}
		})
	}
}

func TestServer_DidCloseClearsHints(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	c.initialize(false)

	uri := "file:///a.ts"
	c.open(uri, "t('a')")
	resp, _ := c.call(MethodExecuteCommand, ExecuteCommandParams{
		Command:   CommandTranslate,
		Arguments: []json.RawMessage{json.RawMessage(jsonString(writeJSON(t, `{"a":"A"}`)))},
	})
	if resp.Error != nil {
		t.Fatalf("executeCommand error: %v", resp.Error)
	}

	c.notify(MethodDidClose, DidCloseTextDocumentParams{TextDocument: TextDocumentIdentifier{URI: uri}})

	// A request after the notification guarantees it has been handled.
	hintResp, _ := c.call(MethodInlayHint, InlayHintParams{TextDocument: TextDocumentIdentifier{URI: uri}, Range: Range{End: Position{Line: 5}}})
	if string(hintResp.Result) != "[]" {
		t.Errorf("hints after close = %s, want []", hintResp.Result)
	}
}

func TestServer_DidChangeUpdatesText(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	c.initialize(false)

	uri := "file:///a.ts"
	c.open(uri, "nothing here")
	c.notify(MethodDidChange, DidChangeTextDocumentParams{
		TextDocument:   TextDocumentIdentifier{URI: uri},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "t('a')"}},
	})

	resp, _ := c.call(MethodExecuteCommand, ExecuteCommandParams{
		Command:   CommandTranslate,
		Arguments: []json.RawMessage{json.RawMessage(jsonString(writeJSON(t, `{"a":"A"}`)))},
	})
	var res TranslateResult
	_ = json.Unmarshal(resp.Result, &res)
	if res.Hints != 1 {
		t.Errorf("hints = %d, want 1 after didChange", res.Hints)
	}
}

func TestServer_UnknownMethodAndCommand(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	c.initialize(false)

	resp, _ := c.call("textDocument/hover", map[string]any{})
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Errorf("hover error = %v, want MethodNotFound", resp.Error)
	}

	resp, _ = c.call(MethodExecuteCommand, ExecuteCommandParams{Command: "other.command"})
	if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
		t.Errorf("unknown command error = %v, want InvalidParams", resp.Error)
	}
}

func TestServer_ShutdownExit(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	c.initialize(false)

	resp, _ := c.call(MethodShutdown, nil)
	if resp.Error != nil || string(resp.Result) != "null" {
		t.Fatalf("shutdown response = %+v", resp)
	}

	resp, _ = c.call(MethodInlayHint, InlayHintParams{})
	if resp.Error == nil || resp.Error.Code != CodeInvalidRequest {
		t.Errorf("request after shutdown error = %v, want InvalidRequest", resp.Error)
	}

	c.notify(MethodExit, nil)
	select {
	case err := <-c.done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after exit")
	}
}

func TestServer_ExitWithoutShutdown(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	c.notify(MethodExit, nil)

	select {
	case err := <-c.done:
		if !errors.Is(err, ErrExitBeforeShutdown) {
			t.Errorf("Serve() = %v, want ErrExitBeforeShutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after exit")
	}
}

func TestServer_ContextCancel(t *testing.T) {
	t.Parallel()

	c := newTestClient(t)
	c.cancel()

	select {
	case err := <-c.done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestServer_TranslateBadArguments(t *testing.T) {
	t.Parallel()

	tests := map[string][]json.RawMessage{
		"numeric table path":  {json.RawMessage(`42`)},
		"object document uri": {json.RawMessage(`"/tmp/en.json"`), json.RawMessage(`{"uri":"file:///x.ts"}`)},
		"array table path":    {json.RawMessage(`["/tmp/en.json"]`)},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t)
			c.initialize(true)
			c.open("file:///x.ts", "t('a')")

			resp, others := c.call(MethodExecuteCommand, ExecuteCommandParams{Command: CommandTranslate, Arguments: args})
			if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
				t.Fatalf("error = %v, want code %d", resp.Error, CodeInvalidParams)
			}
			if msgs := showMessages(others); len(msgs) != 0 {
				t.Errorf("showMessage = %+v, want none", msgs)
			}
		})
	}
}

func TestServer_ContextCancelUnclosableReader(t *testing.T) {
	t.Parallel()

	// Closing the transport does not unblock the read, as with stdin.
	stdinReader, stdinWriter := io.Pipe()
	t.Cleanup(func() { _ = stdinWriter.Close() })

	srv := NewServer(NewStreamTransport(stdinReader, io.Discard, nil), nil, WithVersion("test"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() still blocked after cancel")
	}
}

func TestServer_DebugNotify(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, WithDebugNotify(true))
	c.initialize(false)
	c.open("file:///a.ts", "t('a') t('a')")

	_, others := c.call(MethodExecuteCommand, ExecuteCommandParams{
		Command:   CommandTranslate,
		Arguments: []json.RawMessage{json.RawMessage(jsonString(writeJSON(t, `{"a":"Alpha"}`)))},
	})

	msgs := showMessages(others)
	if len(msgs) != 3 || msgs[0].Message != "Alpha" || msgs[1].Message != "Alpha" {
		t.Errorf("showMessage = %+v, want two debug values then success", msgs)
	}
}

func TestURIToPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"file:///tmp/en.json":        "/tmp/en.json",
		"file:///tmp/my%20file.json": "/tmp/my file.json",
		"/plain/path.json":           "/plain/path.json",
		"":                           "",
	}
	for in, want := range tests {
		if got := uriToPath(in); got != want {
			t.Errorf("uriToPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
