package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cwautomate-mcp-server/internal/domain"
	"cwautomate-mcp-server/internal/logging"
)

// credsBox is a mutable credential source for tests.
type credsBox struct {
	mu    sync.Mutex
	creds *domain.Credentials
}

func (b *credsBox) set(c *domain.Credentials) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.creds = c
}

func (b *credsBox) get() *domain.Credentials {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.creds == nil {
		return nil
	}
	c := *b.creds
	return &c
}

// countingFactory builds a new fake client per call and remembers the credentials used.
type countingFactory struct {
	mu    sync.Mutex
	built []domain.Credentials
	err   error
}

func (f *countingFactory) build(c domain.Credentials) (domain.AutomateClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.built = append(f.built, c)
	return newFakeAutomate(), nil
}

func (f *countingFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.built)
}

func newObservedLogger() (*logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.NewFromZap(zap.New(core)), logs
}

func TestClientCache_NoCredentials(t *testing.T) {
	box := &credsBox{}
	factory := &countingFactory{}
	cache := NewClientCache(box.get, factory.build, nil)

	client, err := cache.GetClient(context.Background())

	assert.Nil(t, client)
	var configErr *domain.ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Contains(t, err.Error(), "CW_AUTOMATE_SERVER_URL, CW_AUTOMATE_CLIENT_ID, CW_AUTOMATE_USERNAME, and CW_AUTOMATE_PASSWORD")
	assert.Equal(t, 0, factory.count())
}

func TestClientCache_SameInstanceWhileCredentialsUnchanged(t *testing.T) {
	box := &credsBox{}
	box.set(&testCreds)
	factory := &countingFactory{}
	cache := NewClientCache(box.get, factory.build, nil)

	first, err := cache.GetClient(context.Background())
	require.NoError(t, err)
	second, err := cache.GetClient(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, factory.count())
	assert.Equal(t, []domain.Credentials{testCreds}, factory.built)
}

func TestClientCache_RebuildsWhenCredentialsChange(t *testing.T) {
	logger, logs := newObservedLogger()
	box := &credsBox{}
	box.set(&testCreds)
	factory := &countingFactory{}
	cache := NewClientCache(box.get, factory.build, logger)

	first, err := cache.GetClient(context.Background())
	require.NoError(t, err)

	changed := testCreds
	changed.TwoFactorCode = "654321"
	box.set(&changed)

	second, err := cache.GetClient(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, factory.count())
	assert.Equal(t, changed, factory.built[1])

	rebuilds := logs.FilterMessage("credentials changed, rebuilding client").All()
	require.Len(t, rebuilds, 1)
	assert.Equal(t, zapcore.InfoLevel, rebuilds[0].Level)
}

func TestClientCache_NeverReturnsStaleClientWithoutCredentials(t *testing.T) {
	box := &credsBox{}
	box.set(&testCreds)
	cache := NewClientCache(box.get, (&countingFactory{}).build, nil)

	_, err := cache.GetClient(context.Background())
	require.NoError(t, err)

	box.set(nil)
	client, err := cache.GetClient(context.Background())
	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestClientCache_ClearClient(t *testing.T) {
	box := &credsBox{}
	box.set(&testCreds)
	factory := &countingFactory{}
	cache := NewClientCache(box.get, factory.build, nil)

	first, err := cache.GetClient(context.Background())
	require.NoError(t, err)
	assert.True(t, cache.HasClient())

	cache.ClearClient()
	assert.False(t, cache.HasClient())

	second, err := cache.GetClient(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, factory.count())
}

func TestClientCache_FactoryError(t *testing.T) {
	box := &credsBox{}
	box.set(&testCreds)
	factory := &countingFactory{err: errors.New("bad url")}
	cache := NewClientCache(box.get, factory.build, nil)

	_, err := cache.GetClient(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad url")
	assert.False(t, cache.HasClient())
}

func TestClientCache_ConcurrentCallersShareOneClient(t *testing.T) {
	box := &credsBox{}
	box.set(&testCreds)
	factory := &countingFactory{}
	cache := NewClientCache(box.get, factory.build, nil)

	var wg sync.WaitGroup
	clients := make([]domain.AutomateClient, 20)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := cache.GetClient(context.Background())
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, factory.count())
	for _, c := range clients {
		assert.Same(t, clients[0], c)
	}
}

func TestClientCache_DefaultSourceReadsEnvironment(t *testing.T) {
	t.Setenv(domain.EnvServerURL, "https://automate.example.com")
	t.Setenv(domain.EnvClientID, "id")
	t.Setenv(domain.EnvUsername, "user")
	t.Setenv(domain.EnvPassword, "")

	factory := &countingFactory{}
	cache := NewClientCache(nil, factory.build, nil)

	_, err := cache.GetClient(context.Background())
	assert.Error(t, err)

	t.Setenv(domain.EnvPassword, "pass")
	_, err = cache.GetClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pass", factory.built[0].Password)
}
