package domain

// ResponseMapper converts API responses to MCP tool responses.
// Every handler goes through it so that all domains share one result envelope.
type ResponseMapper interface {
	// MapToToolResponse serializes an API response as pretty-printed JSON in a
	// single text block. Returns an error if the value cannot be serialized.
	MapToToolResponse(apiResponse interface{}) (*ToolResponse, error)

	// MapError converts an error surfaced by a handler into a JSON-RPC error.
	MapError(err error) *Error
}
