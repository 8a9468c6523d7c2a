package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
)

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	// Code is the error code.
	Code int `json:"code"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Data contains additional information about the error.
	Data json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface for JSONRPCError.
func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ErrExitBeforeShutdown is returned by Serve when the client sends exit
// without a preceding shutdown request.
var ErrExitBeforeShutdown = errors.New("lsp: exit received before shutdown")

// jsonrpcRequest is an outgoing server-to-client JSON-RPC 2.0 request.
type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// jsonrpcNotification is the outgoing JSON-RPC 2.0 notification (no ID, no response expected).
type jsonrpcNotification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// jsonrpcResponse answers a client request. Result is always present on
// success, even when it is null.
type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// incomingMessage represents any incoming JSON-RPC 2.0 message from the client.
type incomingMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// isResponse returns true if the message is a response (has ID, no method).
func (m *incomingMessage) isResponse() bool {
	return len(m.ID) > 0 && m.Method == ""
}

// isNotification returns true if the message has a method but no ID.
func (m *incomingMessage) isNotification() bool {
	return len(m.ID) == 0 && m.Method != ""
}

// MessageTransport handles reading and writing LSP base protocol messages
// (Content-Length headers + JSON body) over a byte stream.
type MessageTransport interface {
	// ReadMessage reads a complete LSP message and returns the JSON body.
	ReadMessage(ctx context.Context) (json.RawMessage, error)

	// WriteMessage writes a JSON body as a complete LSP message with headers.
	WriteMessage(ctx context.Context, data json.RawMessage) error

	// Close closes the transport connection.
	Close() error
}

// StreamTransport implements MessageTransport over an io.ReadWriteCloser
// using the LSP base protocol (Content-Length headers).
type StreamTransport struct {
	reader  *bufio.Reader
	writer  io.Writer
	closer  io.Closer
	writeMu sync.Mutex
}

// NewStreamTransport creates a new StreamTransport from separate reader, writer, and closer.
// For stdio, reader is os.Stdin and writer is os.Stdout.
func NewStreamTransport(reader io.Reader, writer io.Writer, closer io.Closer) *StreamTransport {
	return &StreamTransport{
		reader: bufio.NewReaderSize(reader, 64*1024),
		writer: writer,
		closer: closer,
	}
}

// ReadMessage reads a complete LSP message from the stream.
// It parses the Content-Length header and reads exactly that many bytes.
func (t *StreamTransport) ReadMessage(_ context.Context) (json.RawMessage, error) {
	var contentLength int

	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" && contentLength == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			break
		}

		if after, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			n, err := strconv.Atoi(after)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length %q: %w", after, err)
			}
			contentLength = n
		}
		// Ignore other headers (e.g., Content-Type)
	}

	if contentLength <= 0 {
		return nil, fmt.Errorf("missing or invalid Content-Length")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.reader, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return json.RawMessage(body), nil
}

// WriteMessage writes a JSON body with Content-Length header to the stream.
func (t *StreamTransport) WriteMessage(_ context.Context, data json.RawMessage) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(EncodeMessage(data)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close closes the underlying stream.
func (t *StreamTransport) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// AcceptTCP listens on addr and returns a transport for the first client
// that connects. The listener is closed once a client is accepted or ctx
// is done.
func AcceptTCP(ctx context.Context, addr string) (*StreamTransport, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp listen %s: %w", addr, err)
	}
	return acceptOne(ctx, ln)
}

func acceptOne(ctx context.Context, ln net.Listener) (*StreamTransport, error) {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer func() { _ = ln.Close() }()

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("tcp accept: %w", err)
	}
	return NewStreamTransport(conn, conn, conn), nil
}

// EncodeMessage encodes a JSON body with LSP Content-Length headers.
func EncodeMessage(body []byte) []byte {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	result := make([]byte, len(header)+len(body))
	copy(result, header)
	copy(result[len(header):], body)
	return result
}
