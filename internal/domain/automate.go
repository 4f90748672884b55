package domain

import "strings"

// Records keep every field Automate returns. Typed fields cover what the tools use
// and Extra carries the rest; both are written back out when a record is marshaled.
// Typed fields other than the id are omitted when absent.

// Computer represents a managed endpoint in Automate.
type Computer struct {
	ID                  int    `json:"id"`
	ComputerName        string `json:"computerName,omitempty"`
	ClientID            int    `json:"clientId,omitempty"`
	LocationID          int    `json:"locationId,omitempty"`
	Status              string `json:"status,omitempty"`
	OperatingSystemName string `json:"operatingSystemName,omitempty"`
	LocalIPAddress      string `json:"localIPAddress,omitempty"`
	LastContact         string `json:"lastContact,omitempty"`
	Extra               Extra  `json:"-"`
}

type computerFields Computer

var computerKeys = []string{"id", "computerName", "clientId", "locationId", "status", "operatingSystemName", "localIPAddress", "lastContact"}

func (c Computer) MarshalJSON() ([]byte, error) {
	return encodeRecord(computerFields(c), c.Extra)
}

func (c *Computer) UnmarshalJSON(data []byte) error {
	var fields computerFields
	extra, err := decodeRecord(data, &fields, computerKeys)
	if err != nil {
		return err
	}
	*c = Computer(fields)
	c.Extra = extra
	return nil
}

// Client represents an Automate client (customer organisation).
type Client struct {
	ID      int    `json:"id"`
	Name    string `json:"name,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Extra   Extra  `json:"-"`
}

type clientFields Client

var clientKeys = []string{"id", "name", "city", "state", "zip", "country", "phone", "email"}

func (c Client) MarshalJSON() ([]byte, error) {
	return encodeRecord(clientFields(c), c.Extra)
}

func (c *Client) UnmarshalJSON(data []byte) error {
	var fields clientFields
	extra, err := decodeRecord(data, &fields, clientKeys)
	if err != nil {
		return err
	}
	*c = Client(fields)
	c.Extra = extra
	return nil
}

// ClientWithLocations is a client merged with its locations.
// The client's fields, extra ones included, serialize at the top level.
type ClientWithLocations struct {
	*Client
	Locations []Location `json:"locations"`
}

func (c ClientWithLocations) MarshalJSON() ([]byte, error) {
	var client Client
	if c.Client != nil {
		client = *c.Client
	}

	extra := Extra{}
	for key, value := range client.Extra {
		if !strings.EqualFold(key, "locations") {
			extra[key] = value
		}
	}
	extra["locations"] = c.Locations
	return encodeRecord(clientFields(client), extra)
}

// Location represents a site belonging to a client.
type Location struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	ClientID int    `json:"clientId,omitempty"`
	Extra    Extra  `json:"-"`
}

type locationFields Location

var locationKeys = []string{"id", "name", "clientId"}

func (l Location) MarshalJSON() ([]byte, error) {
	return encodeRecord(locationFields(l), l.Extra)
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var fields locationFields
	extra, err := decodeRecord(data, &fields, locationKeys)
	if err != nil {
		return err
	}
	*l = Location(fields)
	l.Extra = extra
	return nil
}

// Alert represents a monitor alert raised in Automate.
type Alert struct {
	ID         int    `json:"id"`
	Message    string `json:"message,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Status     string `json:"status,omitempty"`
	ComputerID int    `json:"computerId,omitempty"`
	ClientID   int    `json:"clientId,omitempty"`
	AlertDate  string `json:"alertDate,omitempty"`
	Extra      Extra  `json:"-"`
}

type alertFields Alert

var alertKeys = []string{"id", "message", "severity", "status", "computerId", "clientId", "alertDate"}

func (a Alert) MarshalJSON() ([]byte, error) {
	return encodeRecord(alertFields(a), a.Extra)
}

func (a *Alert) UnmarshalJSON(data []byte) error {
	var fields alertFields
	extra, err := decodeRecord(data, &fields, alertKeys)
	if err != nil {
		return err
	}
	*a = Alert(fields)
	a.Extra = extra
	return nil
}

// Script represents an Automate script definition.
type Script struct {
	ID          int    `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	FolderID    int    `json:"folderId,omitempty"`
	Content     string `json:"content,omitempty"`
	Extra       Extra  `json:"-"`
}

type scriptFields Script

var scriptKeys = []string{"id", "name", "description", "folderId", "content"}

func (s Script) MarshalJSON() ([]byte, error) {
	return encodeRecord(scriptFields(s), s.Extra)
}

func (s *Script) UnmarshalJSON(data []byte) error {
	var fields scriptFields
	extra, err := decodeRecord(data, &fields, scriptKeys)
	if err != nil {
		return err
	}
	*s = Script(fields)
	s.Extra = extra
	return nil
}

// ComputerList is a page of computers.
type ComputerList struct {
	Total     int        `json:"total"`
	Computers []Computer `json:"computers"`
}

// ClientList is a page of clients.
type ClientList struct {
	Total   int      `json:"total"`
	Clients []Client `json:"clients"`
}

// LocationList is a page of locations.
type LocationList struct {
	Total     int        `json:"total"`
	Locations []Location `json:"locations"`
}

// AlertList is a page of alerts.
type AlertList struct {
	Total  int     `json:"total"`
	Alerts []Alert `json:"alerts"`
}

// ScriptList is a page of scripts.
type ScriptList struct {
	Total   int      `json:"total"`
	Scripts []Script `json:"scripts"`
}

// CommandResult is returned by fire-and-forget commands such as reboot and acknowledge.
type CommandResult struct {
	Success bool `json:"success"`
}

// JobResult is returned when a script is queued.
type JobResult struct {
	JobID int `json:"jobId"`
}

// Optional filter values are pointers so that "not given" differs from zero.

// ComputerListParams filters a computer listing.
type ComputerListParams struct {
	ClientID   *int
	LocationID *int
	Status     string // online, offline, all
	PageSize   int
	Skip       int
}

// ComputerSearchParams describes a computer search.
type ComputerSearchParams struct {
	Query    string
	ClientID *int
	PageSize int
}

// RebootOptions controls a reboot command.
type RebootOptions struct {
	Force bool
}

// RunScriptOptions carries script parameters for a single computer run.
type RunScriptOptions struct {
	Parameters map[string]string
}

// ClientListParams pages a client listing.
type ClientListParams struct {
	PageSize int
	Skip     int
}

// ClientCreate holds the fields for a new client.
type ClientCreate struct {
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// ClientUpdate holds the fields to change on a client. Nil fields are left as is.
type ClientUpdate struct {
	Name    *string `json:"name,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Zip     *string `json:"zip,omitempty"`
	Country *string `json:"country,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
}

// LocationListParams filters a location listing.
type LocationListParams struct {
	ClientID *int
	PageSize int
	Skip     int
}

// AlertListParams filters an alert listing.
type AlertListParams struct {
	ComputerID *int
	ClientID   *int
	Status     string // active, acknowledged, all
	Severity   string // critical, warning, informational, all
	PageSize   int
	Skip       int
}

// AcknowledgeOptions carries the optional acknowledgement comment.
type AcknowledgeOptions struct {
	Comment string
}

// ScriptListParams filters a script listing.
type ScriptListParams struct {
	FolderID *int
	Search   string
	PageSize int
	Skip     int
}

// ScriptGetOptions controls what a script fetch returns.
type ScriptGetOptions struct {
	IncludeContent bool
}

// ScriptExecuteOptions describes a script execution request.
// A nil ComputerIDs means the script runs against its configured targets.
type ScriptExecuteOptions struct {
	ComputerIDs []int
	Parameters  map[string]string
	Priority    string // low, normal, high
}
