package domain

// ToolDefinition represents an MCP tool definition.
// This describes a tool that can be called by MCP clients.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// ToolRequest represents an MCP tool call request.
type ToolRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolResponse is the result envelope returned by every tool call,
// on success and on in-band failure alike.
type ToolResponse struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock represents a piece of content in the response.
// Only the "text" type is produced by this server.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// JSONSchema represents a JSON Schema for tool input validation.
type JSONSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

// NewTextResponse wraps text in a single-block response.
func NewTextResponse(text string) *ToolResponse {
	return &ToolResponse{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

// NewErrorTextResponse wraps text in a single-block response flagged as an error.
func NewErrorTextResponse(text string) *ToolResponse {
	resp := NewTextResponse(text)
	resp.IsError = true
	return resp
}

// Text returns the text of the first content block, or "" when there is none.
func (r *ToolResponse) Text() string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}
