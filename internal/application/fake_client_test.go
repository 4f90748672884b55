package application

import (
	"context"
	"sync"

	"cwautomate-mcp-server/internal/domain"
)

// call records one invocation of the fake Automate client.
type call struct {
	Method string
	Args   []interface{}
}

// fakeAutomate is a recording domain.AutomateClient. Results are canned per method
// and err, when set, is returned from every call.
type fakeAutomate struct {
	mu    sync.Mutex
	calls []call
	err   error

	computer  *domain.Computer
	computers *domain.ComputerList
	client    *domain.Client
	clients   *domain.ClientList
	location  *domain.Location
	locations *domain.LocationList
	alert     *domain.Alert
	alerts    *domain.AlertList
	script    *domain.Script
	scripts   *domain.ScriptList
	job       *domain.JobResult
}

func newFakeAutomate() *fakeAutomate {
	return &fakeAutomate{
		computer:  &domain.Computer{ID: 1, ComputerName: "Server-01", ClientID: 100, LocationID: 1, Status: "online"},
		computers: &domain.ComputerList{Total: 1, Computers: []domain.Computer{{ID: 1, ComputerName: "Server-01"}}},
		client:    &domain.Client{ID: 1, Name: "Acme Corp"},
		clients:   &domain.ClientList{Total: 1, Clients: []domain.Client{{ID: 1, Name: "Acme Corp"}}},
		location:  &domain.Location{ID: 10, Name: "HQ", ClientID: 1},
		locations: &domain.LocationList{Total: 2, Locations: []domain.Location{
			{ID: 10, Name: "HQ", ClientID: 1},
			{ID: 11, Name: "Branch", ClientID: 1},
		}},
		alert:   &domain.Alert{ID: 7, Message: "Disk space low", Severity: "warning", Status: "active"},
		alerts:  &domain.AlertList{Total: 1, Alerts: []domain.Alert{{ID: 7, Message: "Disk space low"}}},
		script:  &domain.Script{ID: 500, Name: "Disk Cleanup"},
		scripts: &domain.ScriptList{Total: 1, Scripts: []domain.Script{{ID: 500, Name: "Disk Cleanup"}}},
		job:     &domain.JobResult{JobID: 99999},
	}
}

func (f *fakeAutomate) record(method string, args ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: method, Args: args})
	return f.err
}

func (f *fakeAutomate) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call{}, f.calls...)
}

func (f *fakeAutomate) Computers() domain.ComputersAPI { return fakeComputers{f} }
func (f *fakeAutomate) Clients() domain.ClientsAPI     { return fakeClients{f} }
func (f *fakeAutomate) Locations() domain.LocationsAPI { return fakeLocations{f} }
func (f *fakeAutomate) Alerts() domain.AlertsAPI       { return fakeAlerts{f} }
func (f *fakeAutomate) Scripts() domain.ScriptsAPI     { return fakeScripts{f} }

type fakeComputers struct{ f *fakeAutomate }

func (a fakeComputers) List(ctx context.Context, p domain.ComputerListParams) (*domain.ComputerList, error) {
	if err := a.f.record("computers.list", p); err != nil {
		return nil, err
	}
	return a.f.computers, nil
}

func (a fakeComputers) Get(ctx context.Context, id int) (*domain.Computer, error) {
	if err := a.f.record("computers.get", id); err != nil {
		return nil, err
	}
	return a.f.computer, nil
}

func (a fakeComputers) Search(ctx context.Context, p domain.ComputerSearchParams) (*domain.ComputerList, error) {
	if err := a.f.record("computers.search", p); err != nil {
		return nil, err
	}
	return a.f.computers, nil
}

func (a fakeComputers) Reboot(ctx context.Context, id int, opts domain.RebootOptions) (*domain.CommandResult, error) {
	if err := a.f.record("computers.reboot", id, opts); err != nil {
		return nil, err
	}
	return &domain.CommandResult{Success: true}, nil
}

func (a fakeComputers) RunScript(ctx context.Context, computerID, scriptID int, opts domain.RunScriptOptions) (*domain.JobResult, error) {
	if err := a.f.record("computers.runScript", computerID, scriptID, opts); err != nil {
		return nil, err
	}
	return a.f.job, nil
}

type fakeClients struct{ f *fakeAutomate }

func (a fakeClients) List(ctx context.Context, p domain.ClientListParams) (*domain.ClientList, error) {
	if err := a.f.record("clients.list", p); err != nil {
		return nil, err
	}
	return a.f.clients, nil
}

func (a fakeClients) Get(ctx context.Context, id int) (*domain.Client, error) {
	if err := a.f.record("clients.get", id); err != nil {
		return nil, err
	}
	return a.f.client, nil
}

func (a fakeClients) Create(ctx context.Context, data domain.ClientCreate) (*domain.Client, error) {
	if err := a.f.record("clients.create", data); err != nil {
		return nil, err
	}
	return &domain.Client{ID: 2, Name: data.Name, City: data.City}, nil
}

func (a fakeClients) Update(ctx context.Context, id int, data domain.ClientUpdate) (*domain.Client, error) {
	if err := a.f.record("clients.update", id, data); err != nil {
		return nil, err
	}
	return a.f.client, nil
}

type fakeLocations struct{ f *fakeAutomate }

func (a fakeLocations) List(ctx context.Context, p domain.LocationListParams) (*domain.LocationList, error) {
	if err := a.f.record("locations.list", p); err != nil {
		return nil, err
	}
	return a.f.locations, nil
}

func (a fakeLocations) Get(ctx context.Context, id int) (*domain.Location, error) {
	if err := a.f.record("locations.get", id); err != nil {
		return nil, err
	}
	return a.f.location, nil
}

type fakeAlerts struct{ f *fakeAutomate }

func (a fakeAlerts) List(ctx context.Context, p domain.AlertListParams) (*domain.AlertList, error) {
	if err := a.f.record("alerts.list", p); err != nil {
		return nil, err
	}
	return a.f.alerts, nil
}

func (a fakeAlerts) Get(ctx context.Context, id int) (*domain.Alert, error) {
	if err := a.f.record("alerts.get", id); err != nil {
		return nil, err
	}
	return a.f.alert, nil
}

func (a fakeAlerts) Acknowledge(ctx context.Context, id int, opts domain.AcknowledgeOptions) (*domain.CommandResult, error) {
	if err := a.f.record("alerts.acknowledge", id, opts); err != nil {
		return nil, err
	}
	return &domain.CommandResult{Success: true}, nil
}

type fakeScripts struct{ f *fakeAutomate }

func (a fakeScripts) List(ctx context.Context, p domain.ScriptListParams) (*domain.ScriptList, error) {
	if err := a.f.record("scripts.list", p); err != nil {
		return nil, err
	}
	return a.f.scripts, nil
}

func (a fakeScripts) Get(ctx context.Context, id int, opts domain.ScriptGetOptions) (*domain.Script, error) {
	if err := a.f.record("scripts.get", id, opts); err != nil {
		return nil, err
	}
	return a.f.script, nil
}

func (a fakeScripts) Execute(ctx context.Context, id int, opts domain.ScriptExecuteOptions) (*domain.JobResult, error) {
	if err := a.f.record("scripts.execute", id, opts); err != nil {
		return nil, err
	}
	return a.f.job, nil
}

// staticProvider always hands out the same client, or err when set.
type staticProvider struct {
	client domain.AutomateClient
	err    error
	calls  int
}

func (p *staticProvider) GetClient(ctx context.Context) (domain.AutomateClient, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.client, nil
}

var testCreds = domain.Credentials{
	ServerURL: "https://automate.example.com",
	ClientID:  "test-client-id",
	Username:  "test-username",
	Password:  "test-password",
}
