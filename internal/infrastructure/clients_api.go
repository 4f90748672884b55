package infrastructure

import (
	"context"
	"fmt"
	"net/http"

	"cwautomate-mcp-server/internal/domain"
)

type clientsAPI struct {
	c *AutomateClient
}

func (a *clientsAPI) List(ctx context.Context, params domain.ClientListParams) (*domain.ClientList, error) {
	clients, err := listPage[domain.Client](ctx, a.c, "/Clients", nil, params.PageSize, params.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return &domain.ClientList{Total: len(clients), Clients: nonNil(clients)}, nil
}

func (a *clientsAPI) Get(ctx context.Context, clientID int) (*domain.Client, error) {
	var client domain.Client
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/Clients/%d", clientID), nil, nil, &client); err != nil {
		return nil, fmt.Errorf("failed to get client %d: %w", clientID, err)
	}
	return &client, nil
}

func (a *clientsAPI) Create(ctx context.Context, data domain.ClientCreate) (*domain.Client, error) {
	var client domain.Client
	if err := a.c.do(ctx, http.MethodPost, "/Clients", nil, data, &client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client, nil
}

// Update sends only the fields set in data.
func (a *clientsAPI) Update(ctx context.Context, clientID int, data domain.ClientUpdate) (*domain.Client, error) {
	var client domain.Client
	if err := a.c.do(ctx, http.MethodPatch, fmt.Sprintf("/Clients/%d", clientID), nil, data, &client); err != nil {
		return nil, fmt.Errorf("failed to update client %d: %w", clientID, err)
	}
	return &client, nil
}
