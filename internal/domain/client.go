package domain

import (
	"context"
)

// AutomateClient is an authenticated session against the Automate REST API.
// Operations are grouped by resource the same way the API groups its endpoints.
type AutomateClient interface {
	Computers() ComputersAPI
	Clients() ClientsAPI
	Locations() LocationsAPI
	Alerts() AlertsAPI
	Scripts() ScriptsAPI
}

// ComputersAPI covers the computer endpoints.
type ComputersAPI interface {
	List(ctx context.Context, params ComputerListParams) (*ComputerList, error)
	Get(ctx context.Context, computerID int) (*Computer, error)
	Search(ctx context.Context, params ComputerSearchParams) (*ComputerList, error)
	Reboot(ctx context.Context, computerID int, opts RebootOptions) (*CommandResult, error)
	RunScript(ctx context.Context, computerID, scriptID int, opts RunScriptOptions) (*JobResult, error)
}

// ClientsAPI covers the client endpoints.
type ClientsAPI interface {
	List(ctx context.Context, params ClientListParams) (*ClientList, error)
	Get(ctx context.Context, clientID int) (*Client, error)
	Create(ctx context.Context, data ClientCreate) (*Client, error)
	Update(ctx context.Context, clientID int, data ClientUpdate) (*Client, error)
}

// LocationsAPI covers the location endpoints.
type LocationsAPI interface {
	List(ctx context.Context, params LocationListParams) (*LocationList, error)
	Get(ctx context.Context, locationID int) (*Location, error)
}

// AlertsAPI covers the alert endpoints.
type AlertsAPI interface {
	List(ctx context.Context, params AlertListParams) (*AlertList, error)
	Get(ctx context.Context, alertID int) (*Alert, error)
	Acknowledge(ctx context.Context, alertID int, opts AcknowledgeOptions) (*CommandResult, error)
}

// ScriptsAPI covers the script endpoints.
type ScriptsAPI interface {
	List(ctx context.Context, params ScriptListParams) (*ScriptList, error)
	Get(ctx context.Context, scriptID int, opts ScriptGetOptions) (*Script, error)
	Execute(ctx context.Context, scriptID int, opts ScriptExecuteOptions) (*JobResult, error)
}

// ClientProvider hands out the current AutomateClient.
// Implementations decide when a client is built or rebuilt.
type ClientProvider interface {
	GetClient(ctx context.Context) (AutomateClient, error)
}
