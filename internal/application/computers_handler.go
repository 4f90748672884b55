package application

import (
	"context"
	"fmt"

	"cwautomate-mcp-server/internal/domain"
)

// Tool name constants for computer operations
const (
	ToolComputersList      = "cwautomate_computers_list"
	ToolComputersGet       = "cwautomate_computers_get"
	ToolComputersSearch    = "cwautomate_computers_search"
	ToolComputersReboot    = "cwautomate_computers_reboot"
	ToolComputersRunScript = "cwautomate_computers_run_script"
)

// ComputersHandler serves the computers domain.
type ComputersHandler struct {
	clients domain.ClientProvider
	mapper  domain.ResponseMapper
}

// NewComputersHandler creates a new ComputersHandler instance.
func NewComputersHandler(clients domain.ClientProvider, mapper domain.ResponseMapper) *ComputersHandler {
	return &ComputersHandler{clients: clients, mapper: mapper}
}

// Domain returns the domain served by this handler.
func (h *ComputersHandler) Domain() domain.DomainName {
	return domain.DomainComputers
}

// ListTools returns available tools for computer operations.
func (h *ComputersHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolComputersList,
			Description: "List computers in ConnectWise Automate. Can filter by client, location, or status.",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: pagingProps(map[string]interface{}{
					"client_id":   schemaProp("number", "Filter computers by client ID"),
					"location_id": schemaProp("number", "Filter computers by location ID"),
					"status":      enumProp("Filter by online status (default: all)", "online", "offline", "all"),
				}, true),
			},
		},
		{
			Name:        ToolComputersGet,
			Description: "Get details for a specific computer by its ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"computer_id": schemaProp("number", "The computer ID"),
				},
				Required: []string{"computer_id"},
			},
		},
		{
			Name:        ToolComputersSearch,
			Description: "Search for computers by name, MAC address, or other criteria",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: pagingProps(map[string]interface{}{
					"query":     schemaProp("string", "Search query (computer name, MAC address, etc.)"),
					"client_id": schemaProp("number", "Limit search to a specific client"),
				}, false),
				Required: []string{"query"},
			},
		},
		{
			Name:        ToolComputersReboot,
			Description: "Send a reboot command to a computer",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"computer_id": schemaProp("number", "The computer ID to reboot"),
					"force":       schemaProp("boolean", "Force reboot even if users are logged in"),
				},
				Required: []string{"computer_id"},
			},
		},
		{
			Name:        ToolComputersRunScript,
			Description: "Run a script on a specific computer",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"computer_id": schemaProp("number", "The computer ID to run the script on"),
					"script_id":   schemaProp("number", "The script ID to execute"),
					"parameters":  stringMapProp("Script parameters as key-value pairs"),
				},
				Required: []string{"computer_id", "script_id"},
			},
		},
	}
}

// Handle executes a computer tool call.
func (h *ComputersHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	client, err := h.clients.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	api := client.Computers()

	switch req.Name {
	case ToolComputersList:
		return h.handleList(ctx, api, req.Arguments)
	case ToolComputersGet:
		return h.handleGet(ctx, api, req.Arguments)
	case ToolComputersSearch:
		return h.handleSearch(ctx, api, req.Arguments)
	case ToolComputersReboot:
		return h.handleReboot(ctx, api, req.Arguments)
	case ToolComputersRunScript:
		return h.handleRunScript(ctx, api, req.Arguments)
	default:
		return unknownToolResponse("computer", req.Name), nil
	}
}

func (h *ComputersHandler) handleList(ctx context.Context, api domain.ComputersAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	clientID, err := getOptionalIntParam(args, "client_id")
	if err != nil {
		return nil, err
	}
	locationID, err := getOptionalIntParam(args, "location_id")
	if err != nil {
		return nil, err
	}
	status, err := getEnumParam(args, "status", "online", "offline", "all")
	if err != nil {
		return nil, err
	}
	limit, skip, err := getPaging(args, true)
	if err != nil {
		return nil, err
	}

	list, err := api.List(ctx, domain.ComputerListParams{
		ClientID:   clientID,
		LocationID: locationID,
		Status:     status,
		PageSize:   limit,
		Skip:       skip,
	})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(list)
}

func (h *ComputersHandler) handleGet(ctx context.Context, api domain.ComputersAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	computerID, err := getIntParam(args, "computer_id", true)
	if err != nil {
		return nil, err
	}

	computer, err := api.Get(ctx, computerID)
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(computer)
}

func (h *ComputersHandler) handleSearch(ctx context.Context, api domain.ComputersAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}
	clientID, err := getOptionalIntParam(args, "client_id")
	if err != nil {
		return nil, err
	}
	limit, _, err := getPaging(args, false)
	if err != nil {
		return nil, err
	}

	list, err := api.Search(ctx, domain.ComputerSearchParams{
		Query:    query,
		ClientID: clientID,
		PageSize: limit,
	})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(list)
}

func (h *ComputersHandler) handleReboot(ctx context.Context, api domain.ComputersAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	computerID, err := getIntParam(args, "computer_id", true)
	if err != nil {
		return nil, err
	}
	force, err := getBoolParam(args, "force")
	if err != nil {
		return nil, err
	}

	result, err := api.Reboot(ctx, computerID, domain.RebootOptions{Force: force})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(actionResult{
		Success: true,
		Message: fmt.Sprintf("Reboot command sent to computer %d", computerID),
		Result:  result,
	})
}

func (h *ComputersHandler) handleRunScript(ctx context.Context, api domain.ComputersAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	computerID, err := getIntParam(args, "computer_id", true)
	if err != nil {
		return nil, err
	}
	scriptID, err := getIntParam(args, "script_id", true)
	if err != nil {
		return nil, err
	}
	parameters, err := getStringMapParam(args, "parameters")
	if err != nil {
		return nil, err
	}

	result, err := api.RunScript(ctx, computerID, scriptID, domain.RunScriptOptions{Parameters: parameters})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(actionResult{
		Success: true,
		Message: fmt.Sprintf("Script %d queued for execution on computer %d", scriptID, computerID),
		Result:  result,
	})
}
