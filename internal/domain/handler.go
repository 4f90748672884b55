package domain

import (
	"context"
)

// DomainHandler implements the tool catalog and call dispatch for one domain.
// Each domain (computers, clients, alerts, scripts) has its own handler.
type DomainHandler interface {
	// Domain returns the domain this handler serves.
	// The registry and router key handlers by this value.
	Domain() DomainName

	// ListTools returns the static tool catalog for the domain.
	ListTools() []ToolDefinition

	// Handle executes a tool call.
	// Unknown tool names produce an error result rather than an error return;
	// errors are reserved for configuration, parameter and remote failures.
	Handle(ctx context.Context, req *ToolRequest) (*ToolResponse, error)
}
