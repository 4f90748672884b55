package application

import (
	"sync"

	"cwautomate-mcp-server/internal/domain"
	"cwautomate-mcp-server/internal/logging"
)

// HandlerFactory constructs the handler for one domain.
type HandlerFactory func(clients domain.ClientProvider, mapper domain.ResponseMapper) domain.DomainHandler

// DefaultHandlerFactories maps every domain to the constructor of its handler.
func DefaultHandlerFactories() map[domain.DomainName]HandlerFactory {
	return map[domain.DomainName]HandlerFactory{
		domain.DomainComputers: func(p domain.ClientProvider, m domain.ResponseMapper) domain.DomainHandler {
			return NewComputersHandler(p, m)
		},
		domain.DomainClients: func(p domain.ClientProvider, m domain.ResponseMapper) domain.DomainHandler {
			return NewClientsHandler(p, m)
		},
		domain.DomainAlerts: func(p domain.ClientProvider, m domain.ResponseMapper) domain.DomainHandler {
			return NewAlertsHandler(p, m)
		},
		domain.DomainScripts: func(p domain.ClientProvider, m domain.ResponseMapper) domain.DomainHandler {
			return NewScriptsHandler(p, m)
		},
	}
}

// DomainRegistry builds domain handlers on first use and keeps them until cleared.
type DomainRegistry struct {
	factories map[domain.DomainName]HandlerFactory
	clients   domain.ClientProvider
	mapper    domain.ResponseMapper
	logger    *logging.Logger

	mu    sync.Mutex
	cache map[domain.DomainName]domain.DomainHandler
}

// NewDomainRegistry creates a registry over the default handler factories.
func NewDomainRegistry(clients domain.ClientProvider, mapper domain.ResponseMapper, logger *logging.Logger) *DomainRegistry {
	return NewDomainRegistryWithFactories(DefaultHandlerFactories(), clients, mapper, logger)
}

// NewDomainRegistryWithFactories creates a registry over the given factories.
func NewDomainRegistryWithFactories(factories map[domain.DomainName]HandlerFactory, clients domain.ClientProvider, mapper domain.ResponseMapper, logger *logging.Logger) *DomainRegistry {
	if mapper == nil {
		mapper = domain.NewResponseMapper()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DomainRegistry{
		factories: factories,
		clients:   clients,
		mapper:    mapper,
		logger:    logger.With(logging.Fields{"component": "domain_registry"}),
		cache:     make(map[domain.DomainName]domain.DomainHandler),
	}
}

// GetDomainHandler returns the handler for name, building it on first request.
// Repeated calls return the same instance until ClearDomainCache.
func (r *DomainRegistry) GetDomainHandler(name string) (domain.DomainHandler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.DomainName(name)
	if handler, ok := r.cache[key]; ok {
		return handler, nil
	}

	factory, ok := r.factories[key]
	if !ok || !domain.IsDomainName(name) {
		return nil, &domain.UnknownDomainError{Name: name}
	}

	handler := factory(r.clients, r.mapper)
	r.cache[key] = handler
	r.logger.Debug("loaded domain handler", logging.Fields{"domain": name})

	return handler, nil
}

// AvailableDomains returns every domain in canonical order.
func (r *DomainRegistry) AvailableDomains() []domain.DomainName {
	return domain.AllDomains()
}

// LoadedDomains returns the domains whose handlers are currently cached, in canonical order.
func (r *DomainRegistry) LoadedDomains() []domain.DomainName {
	r.mu.Lock()
	defer r.mu.Unlock()

	loaded := []domain.DomainName{}
	for _, d := range domain.AllDomains() {
		if _, ok := r.cache[d]; ok {
			loaded = append(loaded, d)
		}
	}
	return loaded
}

// ClearDomainCache drops every cached handler.
func (r *DomainRegistry) ClearDomainCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[domain.DomainName]domain.DomainHandler)
}
