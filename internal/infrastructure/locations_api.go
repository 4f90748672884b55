package infrastructure

import (
	"context"
	"fmt"
	"net/http"

	"cwautomate-mcp-server/internal/domain"
)

type locationsAPI struct {
	c *AutomateClient
}

func (a *locationsAPI) List(ctx context.Context, params domain.LocationListParams) (*domain.LocationList, error) {
	var cond condition
	cond.equalsInt("ClientId", params.ClientID)

	locations, err := listPage[domain.Location](ctx, a.c, "/Locations", cond.query(), params.PageSize, params.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return &domain.LocationList{Total: len(locations), Locations: nonNil(locations)}, nil
}

func (a *locationsAPI) Get(ctx context.Context, locationID int) (*domain.Location, error) {
	var location domain.Location
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/Locations/%d", locationID), nil, nil, &location); err != nil {
		return nil, fmt.Errorf("failed to get location %d: %w", locationID, err)
	}
	return &location, nil
}
