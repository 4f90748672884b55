package application

import (
	"context"

	"cwautomate-mcp-server/internal/domain"
)

// Tool name constants for client operations
const (
	ToolClientsList   = "cwautomate_clients_list"
	ToolClientsGet    = "cwautomate_clients_get"
	ToolClientsCreate = "cwautomate_clients_create"
	ToolClientsUpdate = "cwautomate_clients_update"
)

// clientFields are the optional address and contact fields shared by create and update.
var clientFields = []string{"city", "state", "zip", "country", "phone", "email"}

// ClientsHandler serves the clients domain.
type ClientsHandler struct {
	clients domain.ClientProvider
	mapper  domain.ResponseMapper
}

// NewClientsHandler creates a new ClientsHandler instance.
func NewClientsHandler(clients domain.ClientProvider, mapper domain.ResponseMapper) *ClientsHandler {
	return &ClientsHandler{clients: clients, mapper: mapper}
}

// Domain returns the domain served by this handler.
func (h *ClientsHandler) Domain() domain.DomainName {
	return domain.DomainClients
}

// ListTools returns available tools for client operations.
func (h *ClientsHandler) ListTools() []domain.ToolDefinition {
	createProps := map[string]interface{}{
		"name":    schemaProp("string", "Client name"),
		"city":    schemaProp("string", "City"),
		"state":   schemaProp("string", "State/Province"),
		"zip":     schemaProp("string", "ZIP/Postal code"),
		"country": schemaProp("string", "Country"),
		"phone":   schemaProp("string", "Phone number"),
		"email":   schemaProp("string", "Email address"),
	}
	updateProps := map[string]interface{}{
		"client_id": schemaProp("number", "The client ID to update"),
		"name":      schemaProp("string", "New client name"),
		"city":      schemaProp("string", "New city"),
		"state":     schemaProp("string", "New state/province"),
		"zip":       schemaProp("string", "New ZIP/postal code"),
		"country":   schemaProp("string", "New country"),
		"phone":     schemaProp("string", "New phone number"),
		"email":     schemaProp("string", "New email address"),
	}

	return []domain.ToolDefinition{
		{
			Name:        ToolClientsList,
			Description: "List all clients in ConnectWise Automate with optional filtering.",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: pagingProps(map[string]interface{}{}, true),
			},
		},
		{
			Name:        ToolClientsGet,
			Description: "Get details for a specific client by ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"client_id":         schemaProp("number", "The client ID"),
					"include_locations": schemaProp("boolean", "Include location details in the response"),
				},
				Required: []string{"client_id"},
			},
		},
		{
			Name:        ToolClientsCreate,
			Description: "Create a new client in ConnectWise Automate",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: createProps,
				Required:   []string{"name"},
			},
		},
		{
			Name:        ToolClientsUpdate,
			Description: "Update an existing client in ConnectWise Automate",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: updateProps,
				Required:   []string{"client_id"},
			},
		},
	}
}

// Handle executes a client tool call.
func (h *ClientsHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	client, err := h.clients.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	switch req.Name {
	case ToolClientsList:
		return h.handleList(ctx, client, req.Arguments)
	case ToolClientsGet:
		return h.handleGet(ctx, client, req.Arguments)
	case ToolClientsCreate:
		return h.handleCreate(ctx, client, req.Arguments)
	case ToolClientsUpdate:
		return h.handleUpdate(ctx, client, req.Arguments)
	default:
		return unknownToolResponse("client", req.Name), nil
	}
}

func (h *ClientsHandler) handleList(ctx context.Context, client domain.AutomateClient, args map[string]interface{}) (*domain.ToolResponse, error) {
	limit, skip, err := getPaging(args, true)
	if err != nil {
		return nil, err
	}

	list, err := client.Clients().List(ctx, domain.ClientListParams{PageSize: limit, Skip: skip})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(list)
}

// handleGet returns the client, merged with its locations when include_locations is set.
func (h *ClientsHandler) handleGet(ctx context.Context, client domain.AutomateClient, args map[string]interface{}) (*domain.ToolResponse, error) {
	clientID, err := getIntParam(args, "client_id", true)
	if err != nil {
		return nil, err
	}
	includeLocations, err := getBoolParam(args, "include_locations")
	if err != nil {
		return nil, err
	}

	found, err := client.Clients().Get(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if !includeLocations {
		return h.mapper.MapToToolResponse(found)
	}

	locations, err := client.Locations().List(ctx, domain.LocationListParams{ClientID: &clientID})
	if err != nil {
		return nil, err
	}

	merged := domain.ClientWithLocations{Client: found, Locations: []domain.Location{}}
	if locations != nil && locations.Locations != nil {
		merged.Locations = locations.Locations
	}

	return h.mapper.MapToToolResponse(merged)
}

func (h *ClientsHandler) handleCreate(ctx context.Context, client domain.AutomateClient, args map[string]interface{}) (*domain.ToolResponse, error) {
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(clientFields))
	for _, field := range clientFields {
		v, err := getStringParam(args, field, false)
		if err != nil {
			return nil, err
		}
		values[field] = v
	}

	created, err := client.Clients().Create(ctx, domain.ClientCreate{
		Name:    name,
		City:    values["city"],
		State:   values["state"],
		Zip:     values["zip"],
		Country: values["country"],
		Phone:   values["phone"],
		Email:   values["email"],
	})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(created)
}

func (h *ClientsHandler) handleUpdate(ctx context.Context, client domain.AutomateClient, args map[string]interface{}) (*domain.ToolResponse, error) {
	clientID, err := getIntParam(args, "client_id", true)
	if err != nil {
		return nil, err
	}

	values := make(map[string]*string, len(clientFields)+1)
	for _, field := range append([]string{"name"}, clientFields...) {
		v, err := getOptionalStringParam(args, field)
		if err != nil {
			return nil, err
		}
		values[field] = v
	}

	updated, err := client.Clients().Update(ctx, clientID, domain.ClientUpdate{
		Name:    values["name"],
		City:    values["city"],
		State:   values["state"],
		Zip:     values["zip"],
		Country: values["country"],
		Phone:   values["phone"],
		Email:   values["email"],
	})
	if err != nil {
		return nil, err
	}

	return h.mapper.MapToToolResponse(updated)
}
