package domain

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cwautomate-mcp-server/internal/logging"
)

// Transport defines the interface for MCP transport mechanisms.
type Transport interface {
	// Start begins listening for incoming MCP messages.
	Start(ctx context.Context) error

	// Send transmits a JSON-RPC response to the client.
	Send(response *Response) error

	// Receive returns a channel for incoming JSON-RPC requests.
	// The channel is closed when the transport is shut down.
	Receive() <-chan *Request

	// Close gracefully shuts down the transport.
	Close() error
}

// maxStdioLine bounds a single newline-delimited message.
const maxStdioLine = 4 * 1024 * 1024

// StdioTransport implements Transport using stdin/stdout.
// Messages are newline-delimited JSON-RPC objects in both directions.
type StdioTransport struct {
	reader  io.Reader
	writer  *bufio.Writer
	reqChan chan *Request
	logger  *logging.Logger
	mu      sync.Mutex
	closed  bool
}

// NewStdioTransport creates a StdioTransport over os.Stdin and os.Stdout.
func NewStdioTransport(logger *logging.Logger) *StdioTransport {
	return NewStdioTransportWithIO(os.Stdin, os.Stdout, logger)
}

// NewStdioTransportWithIO creates a StdioTransport over custom streams.
func NewStdioTransportWithIO(reader io.Reader, writer io.Writer, logger *logging.Logger) *StdioTransport {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StdioTransport{
		reader:  reader,
		writer:  bufio.NewWriter(writer),
		reqChan: make(chan *Request, 10),
		logger:  logger.With(logging.Fields{"transport": "stdio"}),
	}
}

// Start spawns the read loop.
func (t *StdioTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	go t.readLoop(ctx)
	return nil
}

func (t *StdioTransport) readLoop(ctx context.Context) {
	defer close(t.reqChan)

	scanner := bufio.NewScanner(t.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStdioLine)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		req, rpcErr := decodeRequest([]byte(line))
		if rpcErr != nil {
			t.logger.Warn("rejected malformed message", logging.Fields{"reason": rpcErr.Message})
			_ = t.Send(&Response{JSONRPC: "2.0", ID: rpcErrID(req), Error: rpcErr})
			continue
		}

		select {
		case t.reqChan <- req:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		t.logger.Error("stdin read failed", err)
	}
}

// Send writes a response as a single line of JSON.
func (t *StdioTransport) Send(response *Response) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	if response.JSONRPC == "" {
		response.JSONRPC = "2.0"
	}

	// json.Marshal escapes newlines inside strings, so one message is one line.
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if _, err := t.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush response: %w", err)
	}

	return nil
}

// Receive returns the channel for incoming JSON-RPC requests.
func (t *StdioTransport) Receive() <-chan *Request {
	return t.reqChan
}

// Close marks the transport closed. The read loop closes the request channel.
func (t *StdioTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	return nil
}

// decodeRequest parses and validates one JSON-RPC message.
// On failure the returned request may still carry the id for the error reply.
func decodeRequest(data []byte) (*Request, *Error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &Error{Code: ParseError, Message: "Parse error", Data: err.Error()}
	}

	if req.JSONRPC != "2.0" {
		return &req, &Error{Code: InvalidRequest, Message: "Invalid Request", Data: "invalid jsonrpc version"}
	}

	return &req, nil
}

func rpcErrID(req *Request) interface{} {
	if req == nil {
		return nil
	}
	return req.ID
}

// HTTPTransport implements Transport using HTTP with SSE.
// GET /mcp opens an event stream; POST /mcp/message?sessionId=<id> submits requests.
// Responses go back to the session that submitted the request.
type HTTPTransport struct {
	host     string
	port     int
	server   *http.Server
	listener net.Listener
	reqChan  chan *Request
	logger   *logging.Logger

	mu     sync.Mutex
	closed bool

	sessionsMu sync.RWMutex
	sessions   map[string]*sseSession
	pending    map[string]string // request id -> session id
}

type sseSession struct {
	id          string
	messageChan chan *Response
	done        chan struct{}
	closeOnce   sync.Once
}

func (s *sseSession) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// keepAliveInterval is how often an idle SSE stream receives a comment line.
var keepAliveInterval = 30 * time.Second

// NewHTTPTransport creates a new HTTPTransport instance.
func NewHTTPTransport(host string, port int, logger *logging.Logger) *HTTPTransport {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HTTPTransport{
		host:     host,
		port:     port,
		reqChan:  make(chan *Request, 10),
		logger:   logger.With(logging.Fields{"transport": "http"}),
		sessions: make(map[string]*sseSession),
		pending:  make(map[string]string),
	}
}

// Start binds the listener and serves in the background.
// Binding happens synchronously so that a busy port is reported to the caller.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(t.host, fmt.Sprint(t.port)))
	if err != nil {
		return fmt.Errorf("failed to listen on %s:%d: %w", t.host, t.port, err)
	}
	t.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("GET /mcp", t.handleSSE)
	mux.HandleFunc("POST /mcp/message", t.handleMessage)

	t.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := t.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error("http server stopped", err)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()

	t.logger.Info("http transport listening", logging.Fields{"addr": listener.Addr().String()})
	return nil
}

// Addr returns the bound address, or "" before Start.
func (t *HTTPTransport) Addr() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener == nil {
		return ""
	}
	return t.listener.Addr().String()
}

func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	session := &sseSession{
		id:          uuid.NewString(),
		messageChan: make(chan *Response, 10),
		done:        make(chan struct{}),
	}

	t.sessionsMu.Lock()
	t.sessions[session.id] = session
	t.sessionsMu.Unlock()

	log := t.logger.With(logging.Fields{"session_id": session.id})
	log.Info("sse session opened", logging.Fields{"remote_addr": r.RemoteAddr})

	fmt.Fprintf(w, "event: endpoint\ndata: /mcp/message?sessionId=%s\n\n", session.id)
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			t.removeSession(session.id)
			log.Info("sse session closed")
			return
		case <-session.done:
			return
		case response := <-session.messageChan:
			data, err := json.Marshal(response)
			if err != nil {
				log.Error("failed to marshal response", err)
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

func (t *HTTPTransport) handleMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "Missing sessionId parameter", http.StatusBadRequest)
		return
	}

	t.sessionsMu.RLock()
	session, exists := t.sessions[sessionID]
	t.sessionsMu.RUnlock()
	if !exists {
		http.Error(w, "Invalid session", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxStdioLine))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	req, rpcErr := decodeRequest(body)
	if rpcErr != nil {
		t.deliver(session, &Response{JSONRPC: "2.0", ID: rpcErrID(req), Error: rpcErr})
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if !req.IsNotification() {
		t.sessionsMu.Lock()
		t.pending[requestKey(req.ID)] = session.id
		t.sessionsMu.Unlock()
	}

	// reqChan is closed under t.mu, so the send must happen while holding it.
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		http.Error(w, "Transport closed", http.StatusServiceUnavailable)
		return
	}

	select {
	case t.reqChan <- req:
		w.WriteHeader(http.StatusAccepted)
	default:
		t.deliver(session, &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: InternalError, Message: "Internal error", Data: "request queue full"},
		})
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

func (t *HTTPTransport) deliver(session *sseSession, response *Response) {
	select {
	case session.messageChan <- response:
	default:
		t.logger.Warn("dropping response, session queue full", logging.Fields{"session_id": session.id})
	}
}

func (t *HTTPTransport) removeSession(id string) {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()

	if session, ok := t.sessions[id]; ok {
		session.close()
		delete(t.sessions, id)
	}
	for reqID, sessionID := range t.pending {
		if sessionID == id {
			delete(t.pending, reqID)
		}
	}
}

// Send routes a response to the session that submitted the matching request.
// Responses without a known origin are broadcast to every open session.
func (t *HTTPTransport) Send(response *Response) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return fmt.Errorf("transport is closed")
	}

	if response.JSONRPC == "" {
		response.JSONRPC = "2.0"
	}

	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()

	if len(t.sessions) == 0 {
		return fmt.Errorf("no active sessions")
	}

	key := requestKey(response.ID)
	if sessionID, ok := t.pending[key]; ok {
		delete(t.pending, key)
		if session, ok := t.sessions[sessionID]; ok {
			t.deliver(session, response)
			return nil
		}
		return fmt.Errorf("session %s is gone", sessionID)
	}

	for _, session := range t.sessions {
		t.deliver(session, response)
	}
	return nil
}

// Receive returns the channel for incoming JSON-RPC requests.
func (t *HTTPTransport) Receive() <-chan *Request {
	return t.reqChan
}

// Close shuts down the HTTP server and all SSE sessions.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	t.sessionsMu.Lock()
	for _, session := range t.sessions {
		session.close()
	}
	t.sessions = make(map[string]*sseSession)
	t.pending = make(map[string]string)
	t.sessionsMu.Unlock()

	close(t.reqChan)
	server := t.server
	t.mu.Unlock()

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}

	return nil
}

// requestKey normalizes a JSON-RPC id. Numbers decode as float64, so 1 and 1.0 match.
func requestKey(id interface{}) string {
	return fmt.Sprintf("%v", id)
}
