package infrastructure

import (
	"context"
	"fmt"
	"net/http"

	"cwautomate-mcp-server/internal/domain"
)

type computersAPI struct {
	c *AutomateClient
}

// List returns a page of computers matching the client, location and status filters.
func (a *computersAPI) List(ctx context.Context, params domain.ComputerListParams) (*domain.ComputerList, error) {
	var cond condition
	cond.equalsInt("Client.Id", params.ClientID)
	cond.equalsInt("Location.Id", params.LocationID)
	cond.equalsString("Status", params.Status)

	computers, err := listPage[domain.Computer](ctx, a.c, "/Computers", cond.query(), params.PageSize, params.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list computers: %w", err)
	}

	return &domain.ComputerList{Total: len(computers), Computers: nonNil(computers)}, nil
}

// Get returns a single computer.
func (a *computersAPI) Get(ctx context.Context, computerID int) (*domain.Computer, error) {
	var computer domain.Computer
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/Computers/%d", computerID), nil, nil, &computer); err != nil {
		return nil, fmt.Errorf("failed to get computer %d: %w", computerID, err)
	}
	return &computer, nil
}

// Search matches computers by name, optionally within one client.
func (a *computersAPI) Search(ctx context.Context, params domain.ComputerSearchParams) (*domain.ComputerList, error) {
	var cond condition
	cond.contains("ComputerName", params.Query)
	cond.equalsInt("Client.Id", params.ClientID)

	computers, err := listPage[domain.Computer](ctx, a.c, "/Computers", cond.query(), params.PageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to search computers: %w", err)
	}

	return &domain.ComputerList{Total: len(computers), Computers: nonNil(computers)}, nil
}

// Reboot sends the reboot command to a computer.
func (a *computersAPI) Reboot(ctx context.Context, computerID int, opts domain.RebootOptions) (*domain.CommandResult, error) {
	body := map[string]interface{}{"Force": opts.Force}
	if err := a.c.do(ctx, http.MethodPost, fmt.Sprintf("/Computers/%d/Reboot", computerID), nil, body, nil); err != nil {
		return nil, fmt.Errorf("failed to reboot computer %d: %w", computerID, err)
	}
	return &domain.CommandResult{Success: true}, nil
}

// RunScript queues a script on one computer.
func (a *computersAPI) RunScript(ctx context.Context, computerID, scriptID int, opts domain.RunScriptOptions) (*domain.JobResult, error) {
	body := map[string]interface{}{"ScriptId": scriptID}
	if len(opts.Parameters) > 0 {
		body["Parameters"] = opts.Parameters
	}

	var job domain.JobResult
	path := fmt.Sprintf("/Computers/%d/Scripts/%d", computerID, scriptID)
	if err := a.c.do(ctx, http.MethodPost, path, nil, body, &job); err != nil {
		return nil, fmt.Errorf("failed to run script %d on computer %d: %w", scriptID, computerID, err)
	}
	return &job, nil
}

// nonNil turns an absent list into an empty one so it serializes as [].
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
