package application

import (
	"fmt"

	"cwautomate-mcp-server/internal/domain"
)

// actionResult is the body returned by tools that trigger an operation rather than read data.
type actionResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Result  interface{} `json:"result"`
}

// unknownToolResponse reports a tool name the domain does not recognise.
// It is an in-band error result, not a protocol error.
func unknownToolResponse(singular, toolName string) *domain.ToolResponse {
	return domain.NewErrorTextResponse(fmt.Sprintf("Unknown %s tool: %s", singular, toolName))
}

func schemaProp(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func enumProp(description string, values ...string) map[string]interface{} {
	p := schemaProp("string", description)
	p["enum"] = values
	return p
}

func stringMapProp(description string) map[string]interface{} {
	p := schemaProp("object", description)
	p["additionalProperties"] = map[string]interface{}{"type": "string"}
	return p
}

func pagingProps(properties map[string]interface{}, withSkip bool) map[string]interface{} {
	properties["limit"] = schemaProp("number", "Maximum number of results (default: 50)")
	if withSkip {
		properties["skip"] = schemaProp("number", "Number of results to skip for pagination")
	}
	return properties
}
