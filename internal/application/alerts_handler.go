package application

import (
	"context"
	"fmt"

	"cwautomate-mcp-server/internal/domain"
)

// Tool name constants for alert operations
const (
	ToolAlertsList        = "cwautomate_alerts_list"
	ToolAlertsGet         = "cwautomate_alerts_get"
	ToolAlertsAcknowledge = "cwautomate_alerts_acknowledge"
)

// AlertsHandler serves the alerts domain.
type AlertsHandler struct {
	clients domain.ClientProvider
	mapper  domain.ResponseMapper
}

// NewAlertsHandler creates a new AlertsHandler instance.
func NewAlertsHandler(clients domain.ClientProvider, mapper domain.ResponseMapper) *AlertsHandler {
	return &AlertsHandler{clients: clients, mapper: mapper}
}

func (h *AlertsHandler) Domain() domain.DomainName {
	return domain.DomainAlerts
}

// ListTools returns available tools for alert operations.
func (h *AlertsHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolAlertsList,
			Description: "List alerts in ConnectWise Automate with optional filtering.",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: pagingProps(map[string]interface{}{
					"computer_id": schemaProp("number", "Filter alerts by computer ID"),
					"client_id":   schemaProp("number", "Filter alerts by client ID"),
					"status":      enumProp("Filter by alert status (default: active)", "active", "acknowledged", "all"),
					"severity":    enumProp("Filter by alert severity", "critical", "warning", "informational", "all"),
				}, true),
			},
		},
		{
			Name:        ToolAlertsGet,
			Description: "Get details for a specific alert by ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"alert_id": schemaProp("number", "The alert ID"),
				},
				Required: []string{"alert_id"},
			},
		},
		{
			Name:        ToolAlertsAcknowledge,
			Description: "Acknowledge an alert to mark it as reviewed",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"alert_id": schemaProp("number", "The alert ID to acknowledge"),
					"comment":  schemaProp("string", "Optional comment to add when acknowledging"),
				},
				Required: []string{"alert_id"},
			},
		},
	}
}

// Handle executes an alert tool call.
func (h *AlertsHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	client, err := h.clients.GetClient(ctx)
	if err != nil {
		return nil, err
	}
	api := client.Alerts()

	switch req.Name {
	case ToolAlertsList:
		return h.handleList(ctx, api, req.Arguments)
	case ToolAlertsGet:
		return h.handleGet(ctx, api, req.Arguments)
	case ToolAlertsAcknowledge:
		return h.handleAcknowledge(ctx, api, req.Arguments)
	default:
		return unknownToolResponse("alert", req.Name), nil
	}
}

func (h *AlertsHandler) handleList(ctx context.Context, api domain.AlertsAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	computerID, err := getOptionalIntParam(args, "computer_id")
	if err != nil {
		return nil, err
	}
	clientID, err := getOptionalIntParam(args, "client_id")
	if err != nil {
		return nil, err
	}
	status, err := getEnumParam(args, "status", "active", "acknowledged", "all")
	if err != nil {
		return nil, err
	}
	severity, err := getEnumParam(args, "severity", "critical", "warning", "informational", "all")
	if err != nil {
		return nil, err
	}
	limit, skip, err := getPaging(args, true)
	if err != nil {
		return nil, err
	}

	list, err := api.List(ctx, domain.AlertListParams{
		ComputerID: computerID,
		ClientID:   clientID,
		Status:     status,
		Severity:   severity,
		PageSize:   limit,
		Skip:       skip,
	})
	if err != nil {
		return nil, err
	}
	return h.mapper.MapToToolResponse(list)
}

func (h *AlertsHandler) handleGet(ctx context.Context, api domain.AlertsAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	alertID, err := getIntParam(args, "alert_id", true)
	if err != nil {
		return nil, err
	}
	alert, err := api.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}
	return h.mapper.MapToToolResponse(alert)
}

// handleAcknowledge marks an alert as reviewed, with an optional comment.
func (h *AlertsHandler) handleAcknowledge(ctx context.Context, api domain.AlertsAPI, args map[string]interface{}) (*domain.ToolResponse, error) {
	alertID, err := getIntParam(args, "alert_id", true)
	if err != nil {
		return nil, err
	}
	comment, err := getStringParam(args, "comment", false)
	if err != nil {
		return nil, err
	}
	result, err := api.Acknowledge(ctx, alertID, domain.AcknowledgeOptions{Comment: comment})
	if err != nil {
		return nil, err
	}
	return h.mapper.MapToToolResponse(actionResult{
		Success: true,
		Message: fmt.Sprintf("Alert %d acknowledged", alertID),
		Result:  result,
	})
}
