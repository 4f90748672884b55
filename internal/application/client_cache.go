package application

import (
	"context"
	"fmt"
	"sync"

	"cwautomate-mcp-server/internal/domain"
	"cwautomate-mcp-server/internal/logging"
)

// CredentialSource resolves the current credentials, or nil when they are incomplete.
type CredentialSource func() *domain.Credentials

// ClientFactory builds a client for one set of credentials.
type ClientFactory func(creds domain.Credentials) (domain.AutomateClient, error)

// ClientCache holds at most one AutomateClient, keyed by the credentials it was built from.
// Credentials are re-resolved on every call so that environment changes are picked up.
type ClientCache struct {
	credentials CredentialSource
	factory     ClientFactory
	logger      *logging.Logger

	mu     sync.Mutex
	client domain.AutomateClient
	creds  domain.Credentials
}

var _ domain.ClientProvider = (*ClientCache)(nil)

// NewClientCache creates an empty cache. A nil source reads the process environment.
func NewClientCache(source CredentialSource, factory ClientFactory, logger *logging.Logger) *ClientCache {
	if source == nil {
		source = domain.GetCredentials
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ClientCache{
		credentials: source,
		factory:     factory,
		logger:      logger.With(logging.Fields{"component": "client_cache"}),
	}
}

// GetClient returns the cached client, building it when there is none or when the
// credentials have changed since it was built.
func (c *ClientCache) GetClient(ctx context.Context) (domain.AutomateClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	creds := c.credentials()
	if creds == nil {
		return nil, domain.NewConfigurationError()
	}

	if c.client != nil && c.creds != *creds {
		c.logger.Info("credentials changed, rebuilding client", logging.Fields{"server_url": creds.ServerURL})
		c.client = nil
		c.creds = domain.Credentials{}
	}

	if c.client == nil {
		client, err := c.factory(*creds)
		if err != nil {
			return nil, fmt.Errorf("failed to create Automate client: %w", err)
		}
		c.client = client
		c.creds = *creds
		c.logger.Debug("created Automate client", logging.Fields{"server_url": creds.ServerURL})
	}

	return c.client, nil
}

// ClearClient discards the cached client and its credentials.
func (c *ClientCache) ClearClient() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = nil
	c.creds = domain.Credentials{}
}

// HasClient reports whether a client is currently cached.
func (c *ClientCache) HasClient() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}
