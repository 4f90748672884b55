package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// DefaultResponseMapper is the default implementation of ResponseMapper.
type DefaultResponseMapper struct{}

// NewResponseMapper creates a new instance of DefaultResponseMapper.
func NewResponseMapper() ResponseMapper {
	return &DefaultResponseMapper{}
}

// MapToToolResponse converts an API response to a single text block holding
// the response as JSON indented by two spaces.
func (m *DefaultResponseMapper) MapToToolResponse(apiResponse interface{}) (*ToolResponse, error) {
	if apiResponse == nil {
		return NewTextResponse("{}"), nil
	}

	jsonBytes, err := json.MarshalIndent(apiResponse, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal API response: %w", err)
	}

	return NewTextResponse(string(jsonBytes)), nil
}

// MapError converts an error to a JSON-RPC error.
// Setup errors, remote HTTP statuses and network failures each get their own code.
func (m *DefaultResponseMapper) MapError(err error) *Error {
	if err == nil {
		return nil
	}

	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return &Error{
			Code:    ConfigError,
			Message: "Configuration error",
			Data:    configErr.Error(),
		}
	}

	var domainErr *UnknownDomainError
	if errors.As(err, &domainErr) {
		return &Error{
			Code:    MethodNotFound,
			Message: "Tool not found",
			Data:    domainErr.Error(),
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return mapHTTPError(httpErr)
	}

	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Code:    NetworkError,
			Message: "Request timed out",
			Data:    err.Error(),
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{
			Code:    NetworkError,
			Message: "Network error",
			Data:    err.Error(),
		}
	}

	return &Error{
		Code:    InternalError,
		Message: err.Error(),
	}
}

// HTTPError represents a non-2xx response from the Automate API.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface for HTTPError.
func (e HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(statusCode int, message string, body string) HTTPError {
	return HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

// mapHTTPError maps HTTP status codes to JSON-RPC error codes.
func mapHTTPError(httpErr HTTPError) *Error {
	var code int
	var message string

	switch httpErr.StatusCode {
	case http.StatusUnauthorized:
		code = AuthenticationError
		message = "Authentication failed"
	case http.StatusForbidden:
		code = AuthenticationError
		message = "Access forbidden - insufficient permissions"
	case http.StatusNotFound:
		code = APIError
		message = "Resource not found"
	case http.StatusBadRequest:
		code = InvalidParams
		message = "Bad request - invalid parameters"
	case http.StatusTooManyRequests:
		code = RateLimitError
		message = "Rate limit exceeded"
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		code = NetworkError
		message = "Automate server unavailable"
	default:
		switch {
		case httpErr.StatusCode >= 400 && httpErr.StatusCode < 500:
			code = APIError
			message = fmt.Sprintf("Client error: %s", httpErr.Message)
		case httpErr.StatusCode >= 500:
			code = APIError
			message = fmt.Sprintf("Server error: %s", httpErr.Message)
		default:
			code = InternalError
			message = httpErr.Message
		}
	}

	errorData := map[string]interface{}{
		"statusCode": httpErr.StatusCode,
		"message":    httpErr.Message,
	}
	if httpErr.Body != "" {
		errorData["body"] = httpErr.Body
	}

	return &Error{
		Code:    code,
		Message: message,
		Data:    errorData,
	}
}
