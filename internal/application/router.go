package application

import (
	"context"
	"strings"

	"cwautomate-mcp-server/internal/domain"
	"cwautomate-mcp-server/internal/logging"
)

const toolPrefix = domain.ToolNamespace + "_"

// RequestRouter dispatches MCP tool requests to the domain handlers.
// Tool names follow the pattern cwautomate_<domain>_<action>; the domain segment selects the
// handler, which is loaded through the registry on first use.
type RequestRouter struct {
	registry   *DomainRegistry
	clients    *ClientCache
	navigation *Navigator
	logger     *logging.Logger
}

// NewRequestRouter creates a router over the registry. When navigation is non-nil its
// meta-tools are served and tools/list shows only the current domain.
func NewRequestRouter(registry *DomainRegistry, clients *ClientCache, navigation *Navigator, logger *logging.Logger) *RequestRouter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RequestRouter{
		registry:   registry,
		clients:    clients,
		navigation: navigation,
		logger:     logger,
	}
}

// Route dispatches a tool request to the handler of the domain named in the tool name.
// An unknown domain yields *domain.UnknownDomainError.
func (r *RequestRouter) Route(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if r.navigation != nil && r.navigation.Handles(req.Name) {
		return r.navigation.Handle(ctx, req)
	}

	domainName, ok := extractDomainName(req.Name)
	if !ok {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: "unknown tool: " + req.Name,
		}
	}

	handler, err := r.registry.GetDomainHandler(domainName)
	if err != nil {
		return nil, err
	}

	return handler.Handle(ctx, req)
}

// ListAllTools returns the tools to advertise in tools/list.
// Without navigation this is every domain's catalog in canonical order.
func (r *RequestRouter) ListAllTools() []domain.ToolDefinition {
	if r.navigation != nil {
		return r.navigation.ListTools()
	}

	var allTools []domain.ToolDefinition
	for _, name := range r.registry.AvailableDomains() {
		handler, err := r.registry.GetDomainHandler(string(name))
		if err != nil {
			r.logger.Error("failed to load domain handler", err, logging.Fields{"domain": name})
			continue
		}
		allTools = append(allTools, handler.ListTools()...)
	}

	return allTools
}

// Reset drops the cached client, every loaded handler and the navigation state.
func (r *RequestRouter) Reset() {
	if r.clients != nil {
		r.clients.ClearClient()
	}
	r.registry.ClearDomainCache()
	if r.navigation != nil {
		r.navigation.Back()
	}
}

// extractDomainName returns the domain segment of a namespaced tool name.
// For example: "cwautomate_computers_list" -> "computers".
func extractDomainName(toolName string) (string, bool) {
	if !strings.HasPrefix(toolName, toolPrefix) {
		return "", false
	}

	rest := strings.TrimPrefix(toolName, toolPrefix)
	if idx := strings.Index(rest, "_"); idx != -1 {
		rest = rest[:idx]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
