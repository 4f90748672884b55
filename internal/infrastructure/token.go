package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"cwautomate-mcp-server/internal/domain"
	"cwautomate-mcp-server/internal/logging"
)

// defaultTokenLifetime applies when the token response has no usable expiry.
const defaultTokenLifetime = time.Hour

// tokenRefreshMargin renews a token slightly before it expires.
const tokenRefreshMargin = 30 * time.Second

type tokenRequest struct {
	UserName          string `json:"UserName"`
	Password          string `json:"Password"`
	TwoFactorPasscode string `json:"TwoFactorPasscode,omitempty"`
}

type tokenResponse struct {
	AccessToken    string `json:"AccessToken"`
	TokenType      string `json:"TokenType"`
	ExpirationDate string `json:"ExpirationDate"`
}

// tokenSource obtains and caches the bearer token for one set of credentials.
type tokenSource struct {
	baseURL    string
	creds      domain.Credentials
	httpClient *http.Client
	logger     *logging.Logger
	now        func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func newTokenSource(baseURL string, creds domain.Credentials, httpClient *http.Client, logger *logging.Logger) *tokenSource {
	return &tokenSource{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns a valid bearer token, fetching a new one when none is cached or it is about to expire.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expires.Add(-tokenRefreshMargin)) {
		return s.token, nil
	}

	token, expires, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expires = expires
	s.logger.Info("Obtained Automate API token", logging.Fields{
		"user":    s.creds.Username,
		"expires": expires.Format(time.RFC3339),
	})

	return s.token, nil
}

// invalidate drops the cached token so the next request fetches a fresh one.
func (s *tokenSource) invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

func (s *tokenSource) fetch(ctx context.Context) (string, time.Time, error) {
	payload, err := json.Marshal(tokenRequest{
		UserName:          s.creds.Username,
		Password:          s.creds.Password,
		TwoFactorPasscode: s.creds.TwoFactorCode,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/apitoken", bytes.NewReader(payload))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("ClientId", s.creds.ClientID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to request API token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return "", time.Time{}, fmt.Errorf("failed to obtain API token: %w",
			domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(body))))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("token response did not contain an access token")
	}

	expires, err := time.Parse(time.RFC3339, tr.ExpirationDate)
	if err != nil {
		expires = s.now().Add(defaultTokenLifetime)
	}

	return tr.AccessToken, expires, nil
}

// tokenTransport is an http.RoundTripper that adds the bearer token and ClientId headers.
type tokenTransport struct {
	base     http.RoundTripper
	tokens   *tokenSource
	clientID string
}

// RoundTrip implements http.RoundTripper.
func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Token(req.Context())
	if err != nil {
		return nil, err
	}

	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	cloned.Header.Set("ClientId", t.clientID)

	return t.base.RoundTrip(cloned)
}
