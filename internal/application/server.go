package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cwautomate-mcp-server/internal/domain"
	"cwautomate-mcp-server/internal/logging"
)

// Server identity reported during initialize.
const (
	ServerName      = "cwautomate-mcp-server"
	ServerVersion   = "1.0.0"
	ProtocolVersion = "2024-11-05"
)

// Server is the main MCP server implementation.
// It reads JSON-RPC requests from the transport one at a time and implements the MCP methods.
type Server struct {
	transport domain.Transport
	router    *RequestRouter
	mapper    domain.ResponseMapper
	config    *domain.Config
	logger    *logging.Logger
	done      chan struct{}
}

// NewServer creates a new MCP server instance.
func NewServer(transport domain.Transport, router *RequestRouter, config *domain.Config, logger *logging.Logger) *Server {
	if config == nil {
		config = domain.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		transport: transport,
		router:    router,
		mapper:    domain.NewResponseMapper(),
		config:    config,
		logger:    logger.With(logging.Fields{"component": "server"}),
		done:      make(chan struct{}),
	}
}

// Start starts the transport and begins processing incoming requests in the background.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		s.logger.Error("failed to start transport", err, logging.Fields{
			"transport_type": s.config.Transport.Type,
		})
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.logger.Info("server started", logging.Fields{
		"transport_type": s.config.Transport.Type,
		"navigation":     s.config.Server.Navigation,
	})

	go s.processRequests(ctx)

	return nil
}

// processRequests handles requests sequentially until the context ends or the transport closes.
func (s *Server) processRequests(ctx context.Context) {
	defer close(s.done)
	reqChan := s.transport.Receive()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("server shutting down")
			return
		case req, ok := <-reqChan:
			if !ok {
				s.logger.Info("transport closed")
				return
			}
			s.handleRequest(ctx, req)
		}
	}
}

// handleRequest processes a single JSON-RPC request.
func (s *Server) handleRequest(ctx context.Context, req *domain.Request) {
	logger := s.logger.With(logging.Fields{
		"correlation_id": uuid.NewString(),
		"method":         req.Method,
		"request_id":     req.ID,
	})
	logger.Debug("received request")

	if err := s.validateRequest(req); err != nil {
		if !req.IsNotification() {
			s.sendErrorResponse(req.ID, domain.InvalidRequest, "Invalid Request", err.Error())
		}
		return
	}

	if req.IsNotification() {
		if !strings.HasPrefix(req.Method, "notifications/") {
			logger.Warn("ignoring request without id")
		}
		return
	}

	var result interface{}

	switch req.Method {
	case "initialize":
		result = s.handleInitialize()
	case "ping":
		result = map[string]interface{}{}
	case "tools/list":
		result = map[string]interface{}{"tools": s.router.ListAllTools()}
	case "tools/call":
		toolResp, rpcErr := s.handleToolsCall(ctx, req, logger)
		if rpcErr != nil {
			s.sendError(req.ID, rpcErr)
			return
		}
		result = toolResp
	default:
		s.sendErrorResponse(req.ID, domain.MethodNotFound, "Method not found", fmt.Sprintf("unknown method: %s", req.Method))
		return
	}

	if err := s.transport.Send(&domain.Response{JSONRPC: "2.0", ID: req.ID, Result: result}); err != nil {
		logger.Error("failed to send response", err)
	}
}

// Done is closed once the server stops processing requests.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// validateRequest validates the basic structure of a JSON-RPC request.
func (s *Server) validateRequest(req *domain.Request) error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid jsonrpc version: %s", req.JSONRPC)
	}

	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	return nil
}

// handleInitialize returns the server capabilities for the MCP handshake.
func (s *Server) handleInitialize() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{
				"listChanged": s.config.Server.Navigation,
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    ServerName,
			"version": ServerVersion,
		},
	}
}

// handleToolsCall parses and routes a tool call. Failures come back as JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request, logger *logging.Logger) (*domain.ToolResponse, *domain.Error) {
	toolReq, err := parseToolRequest(req.Params)
	if err != nil {
		return nil, &domain.Error{Code: domain.InvalidParams, Message: "Invalid params", Data: err.Error()}
	}

	toolResp, err := s.router.Route(ctx, toolReq)
	if err != nil {
		rpcErr := s.mapper.MapError(err)
		logger.Error("tool execution failed", err, logging.Fields{
			"tool":       toolReq.Name,
			"error_code": rpcErr.Code,
		})
		return nil, rpcErr
	}

	if toolResp.IsError {
		logger.Warn("tool returned an error result", logging.Fields{"tool": toolReq.Name})
	}

	return toolResp, nil
}

// parseToolRequest parses the params field into a ToolRequest.
func parseToolRequest(params interface{}) (*domain.ToolRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for tools/call")
	}

	// Round-trip through JSON so both decoded maps and typed values are accepted.
	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var toolReq domain.ToolRequest
	if err := json.Unmarshal(jsonData, &toolReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool request: %w", err)
	}

	if toolReq.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}

	if toolReq.Arguments == nil {
		toolReq.Arguments = make(map[string]interface{})
	}

	return &toolReq, nil
}

// sendErrorResponse sends a JSON-RPC error response.
func (s *Server) sendErrorResponse(id interface{}, code int, message string, data interface{}) {
	s.sendError(id, &domain.Error{Code: code, Message: message, Data: data})
}

func (s *Server) sendError(id interface{}, rpcErr *domain.Error) {
	response := &domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   rpcErr,
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.Error("failed to send error response", err, logging.Fields{
			"request_id":    id,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		})
	}
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.logger.Info("closing server")
	return s.transport.Close()
}
