package infrastructure

import (
	"context"
	"fmt"
	"net/http"

	"cwautomate-mcp-server/internal/domain"
)

type alertsAPI struct {
	c *AutomateClient
}

func (a *alertsAPI) List(ctx context.Context, params domain.AlertListParams) (*domain.AlertList, error) {
	var cond condition
	cond.equalsInt("ComputerId", params.ComputerID)
	cond.equalsInt("ClientId", params.ClientID)
	cond.equalsString("Status", params.Status)
	cond.equalsString("Severity", params.Severity)

	alerts, err := listPage[domain.Alert](ctx, a.c, "/Alerts", cond.query(), params.PageSize, params.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return &domain.AlertList{Total: len(alerts), Alerts: nonNil(alerts)}, nil
}

func (a *alertsAPI) Get(ctx context.Context, alertID int) (*domain.Alert, error) {
	var alert domain.Alert
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/Alerts/%d", alertID), nil, nil, &alert); err != nil {
		return nil, fmt.Errorf("failed to get alert %d: %w", alertID, err)
	}
	return &alert, nil
}

func (a *alertsAPI) Acknowledge(ctx context.Context, alertID int, opts domain.AcknowledgeOptions) (*domain.CommandResult, error) {
	body := map[string]interface{}{}
	if opts.Comment != "" {
		body["Comment"] = opts.Comment
	}

	if err := a.c.do(ctx, http.MethodPost, fmt.Sprintf("/Alerts/%d/Acknowledge", alertID), nil, body, nil); err != nil {
		return nil, fmt.Errorf("failed to acknowledge alert %d: %w", alertID, err)
	}
	return &domain.CommandResult{Success: true}, nil
}
