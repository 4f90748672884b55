package application

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"cwautomate-mcp-server/internal/domain"
)

// Navigation meta-tool names
const (
	ToolNavigate = "cwautomate_navigate"
	ToolBack     = "cwautomate_back"
	ToolStatus   = "cwautomate_status"
)

// Navigator keeps the current domain for clients that browse one domain at a time.
// Domain tools remain callable whether or not their domain is current.
type Navigator struct {
	registry *DomainRegistry
	mapper   domain.ResponseMapper
	getenv   func(string) string

	mu      sync.Mutex
	current domain.DomainName
}

// NewNavigator creates a navigator with no current domain.
func NewNavigator(registry *DomainRegistry, mapper domain.ResponseMapper) *Navigator {
	if mapper == nil {
		mapper = domain.NewResponseMapper()
	}
	return &Navigator{registry: registry, mapper: mapper, getenv: os.Getenv}
}

// Handles reports whether name is one of the navigation meta-tools.
func (n *Navigator) Handles(name string) bool {
	switch name {
	case ToolNavigate, ToolBack, ToolStatus:
		return true
	}
	return false
}

// Current returns the current domain, or "" when none is selected.
func (n *Navigator) Current() domain.DomainName {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Back clears the current domain.
func (n *Navigator) Back() {
	n.mu.Lock()
	n.current = ""
	n.mu.Unlock()
}

// ListTools returns the meta-tools followed by the current domain's tools.
func (n *Navigator) ListTools() []domain.ToolDefinition {
	names := make([]string, 0, len(domain.AllDomains()))
	for _, d := range domain.AllDomains() {
		names = append(names, string(d))
	}

	tools := []domain.ToolDefinition{
		{
			Name:        ToolNavigate,
			Description: "Navigate to a domain to see its tools. Available domains: " + strings.Join(names, ", "),
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"domain": enumProp("The domain to navigate to", names...),
				},
				Required: []string{"domain"},
			},
		},
		{
			Name:        ToolBack,
			Description: "Leave the current domain and return to the domain list",
			InputSchema: domain.JSONSchema{Type: "object", Properties: map[string]interface{}{}},
		},
		{
			Name:        ToolStatus,
			Description: "Show credential status, the current domain and which domains are loaded",
			InputSchema: domain.JSONSchema{Type: "object", Properties: map[string]interface{}{}},
		},
	}

	current := n.Current()
	if current == "" {
		return tools
	}

	handler, err := n.registry.GetDomainHandler(string(current))
	if err != nil {
		return tools
	}
	return append(tools, handler.ListTools()...)
}

type navigateResult struct {
	Domain string   `json:"domain"`
	Tools  []string `json:"tools"`
}

type statusResult struct {
	CredentialsConfigured bool                `json:"credentialsConfigured"`
	MissingConfiguration  []string            `json:"missingConfiguration"`
	CurrentDomain         *string             `json:"currentDomain"`
	AvailableDomains      []domain.DomainName `json:"availableDomains"`
	LoadedDomains         []domain.DomainName `json:"loadedDomains"`
}

// Handle executes a navigation meta-tool.
func (n *Navigator) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	switch req.Name {
	case ToolNavigate:
		name, err := getStringParam(req.Arguments, "domain", true)
		if err != nil {
			return nil, err
		}
		if !domain.IsDomainName(name) {
			return domain.NewErrorTextResponse(fmt.Sprintf("Unknown domain: %s", name)), nil
		}

		handler, err := n.registry.GetDomainHandler(name)
		if err != nil {
			return nil, err
		}

		n.mu.Lock()
		n.current = domain.DomainName(name)
		n.mu.Unlock()

		result := navigateResult{Domain: name, Tools: []string{}}
		for _, tool := range handler.ListTools() {
			result.Tools = append(result.Tools, tool.Name)
		}
		return n.mapper.MapToToolResponse(result)

	case ToolBack:
		n.Back()
		return n.mapper.MapToToolResponse(map[string]interface{}{
			"currentDomain":    nil,
			"availableDomains": domain.AllDomains(),
		})

	case ToolStatus:
		missing := domain.MissingCredentialKeys(n.getenv)
		status := statusResult{
			CredentialsConfigured: len(missing) == 0,
			MissingConfiguration:  append([]string{}, missing...),
			AvailableDomains:      n.registry.AvailableDomains(),
			LoadedDomains:         n.registry.LoadedDomains(),
		}
		if current := n.Current(); current != "" {
			s := string(current)
			status.CurrentDomain = &s
		}
		return n.mapper.MapToToolResponse(status)

	default:
		return domain.NewErrorTextResponse(fmt.Sprintf("Unknown navigation tool: %s", req.Name)), nil
	}
}
