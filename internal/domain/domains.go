package domain

// DomainName identifies one group of Automate tools.
type DomainName string

// The fixed set of domains. Any other string is not a domain.
const (
	DomainComputers DomainName = "computers"
	DomainClients   DomainName = "clients"
	DomainAlerts    DomainName = "alerts"
	DomainScripts   DomainName = "scripts"
)

// ToolNamespace prefixes every tool name exposed by the server.
const ToolNamespace = "cwautomate"

// AllDomains returns the domains in their canonical order.
func AllDomains() []DomainName {
	return []DomainName{DomainComputers, DomainClients, DomainAlerts, DomainScripts}
}

// IsDomainName reports whether value names one of the fixed domains.
// The match is exact and case-sensitive.
func IsDomainName(value string) bool {
	switch DomainName(value) {
	case DomainComputers, DomainClients, DomainAlerts, DomainScripts:
		return true
	}
	return false
}

// ToolName builds the namespaced tool name for an action in this domain,
// e.g. DomainAlerts.ToolName("list") == "cwautomate_alerts_list".
func (d DomainName) ToolName(action string) string {
	return ToolNamespace + "_" + string(d) + "_" + action
}
