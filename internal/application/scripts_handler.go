package application

import (
	"context"
	"fmt"

	"cwautomate-mcp-server/internal/domain"
)

// Tool name constants for script operations
const (
	ToolScriptsList    = "cwautomate_scripts_list"
	ToolScriptsGet     = "cwautomate_scripts_get"
	ToolScriptsExecute = "cwautomate_scripts_execute"
)

// ScriptsHandler serves the scripts domain.
type ScriptsHandler struct {
	clients domain.ClientProvider
	mapper  domain.ResponseMapper
}

// NewScriptsHandler creates a new ScriptsHandler instance.
func NewScriptsHandler(clients domain.ClientProvider, mapper domain.ResponseMapper) *ScriptsHandler {
	return &ScriptsHandler{clients: clients, mapper: mapper}
}

func (h *ScriptsHandler) Domain() domain.DomainName {
	return domain.DomainScripts
}

func (h *ScriptsHandler) ListTools() []domain.ToolDefinition {
	computerIDs := schemaProp("array", "Array of computer IDs to run the script on. If not specified, script runs based on its configured targets.")
	computerIDs["items"] = map[string]interface{}{"type": "number"}

	return []domain.ToolDefinition{
		{
			Name:        ToolScriptsList,
			Description: "List available scripts in ConnectWise Automate with optional filtering.",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: pagingProps(map[string]interface{}{
					"folder_id": schemaProp("number", "Filter scripts by folder ID"),
					"search":    schemaProp("string", "Search scripts by name"),
				}, true),
			},
		},
		{
			Name:        ToolScriptsGet,
			Description: "Get details for a specific script by ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"script_id":       schemaProp("number", "The script ID"),
					"include_content": schemaProp("boolean", "Include the script content/code in the response"),
				},
				Required: []string{"script_id"},
			},
		},
		{
			Name:        ToolScriptsExecute,
			Description: "Execute a script on one or more computers. Use the computers domain to find specific computer IDs first.",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"script_id":    schemaProp("number", "The script ID to execute"),
					"computer_ids": computerIDs,
					"parameters":   stringMapProp("Script parameters as key-value pairs"),
					"priority":     enumProp("Execution priority (default: normal)", "low", "normal", "high"),
				},
				Required: []string{"script_id"},
			},
		},
	}
}

// Handle executes a script tool call.
func (h *ScriptsHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	client, err := h.clients.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	switch req.Name {
	case ToolScriptsList:
		return h.handleList(ctx, client.Scripts(), req.Arguments)
	case ToolScriptsGet:
		return h.handleGet(ctx, client.Scripts(), req.Arguments)
	case ToolScriptsExecute:
		return h.handleExecute(ctx, client.Scripts(), req.Arguments)
	default:
		return unknownToolResponse("script", req.Name), nil
	}
}

func (h *ScriptsHandler) handleList(ctx context.Context, api domain.ScriptsAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	folderID, err := getOptionalIntParam(args, "folder_id")
	if err != nil {
		return nil, err
	}
	search, err := getStringParam(args, "search", false)
	if err != nil {
		return nil, err
	}
	limit, skip, err := getPaging(args, true)
	if err != nil {
		return nil, err
	}

	list, err := api.List(ctx, domain.ScriptListParams{
		FolderID: folderID,
		Search:   search,
		PageSize: limit,
		Skip:     skip,
	})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(list)
}

func (h *ScriptsHandler) handleGet(ctx context.Context, api domain.ScriptsAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	scriptID, err := getIntParam(args, "script_id", true)
	if err != nil {
		return nil, err
	}
	includeContent, err := getBoolParam(args, "include_content")
	if err != nil {
		return nil, err
	}

	script, err := api.Get(ctx, scriptID, domain.ScriptGetOptions{IncludeContent: includeContent})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(script)
}

// handleExecute queues a script. The message names the computer count only when
// computer_ids was given, even if the list is empty.
func (h *ScriptsHandler) handleExecute(ctx context.Context, api domain.ScriptsAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	scriptID, err := getIntParam(args, "script_id", true)
	if err != nil {
		return nil, err
	}
	computerIDs, err := getIntSliceParam(args, "computer_ids")
	if err != nil {
		return nil, err
	}
	parameters, err := getStringMapParam(args, "parameters")
	if err != nil {
		return nil, err
	}
	priority, err := getEnumParam(args, "priority", "low", "normal", "high")
	if err != nil {
		return nil, err
	}

	result, err := api.Execute(ctx, scriptID, domain.ScriptExecuteOptions{
		ComputerIDs: computerIDs,
		Parameters:  parameters,
		Priority:    priority,
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Script %d queued for execution", scriptID)
	if computerIDs != nil {
		message = fmt.Sprintf("Script %d queued for execution on %d computer(s)", scriptID, len(computerIDs))
	}

	return h.mapper.MapToToolResponse(actionResult{
		Success: true,
		Message: message,
		Result:  result,
	})
}
