// Package lsp serves translation hints to editors over the Language Server
// Protocol. Hints are delivered through textDocument/inlayHint and refreshed
// whenever the showtrans.translate command runs.
package lsp

import (
	"encoding/json"

	"github.com/modu-ai/showtrans/internal/annotate"
)

// Method names handled or sent by the server.
const (
	MethodInitialize       = "initialize"
	MethodInitialized      = "initialized"
	MethodShutdown         = "shutdown"
	MethodExit             = "exit"
	MethodDidOpen          = "textDocument/didOpen"
	MethodDidChange        = "textDocument/didChange"
	MethodDidClose         = "textDocument/didClose"
	MethodInlayHint        = "textDocument/inlayHint"
	MethodExecuteCommand   = "workspace/executeCommand"
	MethodShowMessage      = "window/showMessage"
	MethodInlayHintRefresh = "workspace/inlayHint/refresh"
)

// CommandTranslate is the command clients invoke to attach hints.
const CommandTranslate = "showtrans.translate"

// Position is a zero-based line/character position.
type Position = annotate.Position

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// TextDocumentItem is an opened document with its full content.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// DidOpenTextDocumentParams is sent when a document is opened.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// TextDocumentContentChangeEvent carries new text. With full sync only
// Text is set.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// DidChangeTextDocumentParams is sent when a document changes.
type DidChangeTextDocumentParams struct {
	TextDocument   TextDocumentIdentifier           `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidCloseTextDocumentParams is sent when a document is closed.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// InlayHintParams requests hints for a range of a document.
type InlayHintParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
}

// InlayHintLabelPart is one piece of a hint label.
type InlayHintLabelPart struct {
	Value string `json:"value"`
}

// InlayHint is a label rendered inline at a position.
type InlayHint struct {
	Position    Position             `json:"position"`
	Label       []InlayHintLabelPart `json:"label"`
	Kind        int                  `json:"kind,omitempty"`
	PaddingLeft bool                 `json:"paddingLeft,omitempty"`
}

// ExecuteCommandParams invokes a server command.
type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// TranslateResult is returned by the translate command.
type TranslateResult struct {
	URI   string `json:"uri"`
	Table string `json:"table"`
	Hints int    `json:"hints"`
}

// MessageType is the severity of a window/showMessage notification.
type MessageType int

// Message types defined by the protocol.
const (
	MessageError   MessageType = 1
	MessageWarning MessageType = 2
	MessageInfo    MessageType = 3
)

// ShowMessageParams is the payload of window/showMessage.
type ShowMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// InitializeParams holds the client capabilities the server looks at.
type InitializeParams struct {
	ProcessID    *int               `json:"processId"`
	RootURI      string             `json:"rootUri,omitempty"`
	Capabilities ClientCapabilities `json:"capabilities"`
}

// ClientCapabilities is the subset of client capabilities used here.
type ClientCapabilities struct {
	Workspace struct {
		InlayHint struct {
			RefreshSupport bool `json:"refreshSupport"`
		} `json:"inlayHint"`
	} `json:"workspace"`
}

// InitializeResult answers initialize.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities advertises what the server supports.
type ServerCapabilities struct {
	TextDocumentSync       int                   `json:"textDocumentSync"`
	InlayHintProvider      bool                  `json:"inlayHintProvider"`
	ExecuteCommandProvider ExecuteCommandOptions `json:"executeCommandProvider"`
}

// ExecuteCommandOptions lists the commands the server executes.
type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

// ServerInfo identifies the server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// textDocumentSyncFull asks clients to send the whole document on change.
const textDocumentSyncFull = 1
