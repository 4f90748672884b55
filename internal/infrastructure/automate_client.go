package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cwautomate-mcp-server/internal/domain"
	"cwautomate-mcp-server/internal/logging"
)

// apiPath is the REST root below the server URL.
const apiPath = "/cwa/api/v1"

// AutomateClient talks to the ConnectWise Automate REST API.
// It implements domain.AutomateClient; one instance is bound to one set of credentials.
type AutomateClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenSource
	logger     *logging.Logger

	computers *computersAPI
	clients   *clientsAPI
	locations *locationsAPI
	alerts    *alertsAPI
	scripts   *scriptsAPI
}

var _ domain.AutomateClient = (*AutomateClient)(nil)

// NewAutomateClient creates a client for the server named in creds.
// No request is made until the first API call; the token is fetched then.
// A zero timeout means no client-side timeout.
func NewAutomateClient(creds domain.Credentials, timeout time.Duration, logger *logging.Logger) (*AutomateClient, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	baseURL, err := normalizeServerURL(creds.ServerURL)
	if err != nil {
		return nil, err
	}

	base := http.DefaultTransport
	tokens := newTokenSource(baseURL, creds, &http.Client{Transport: base, Timeout: timeout}, logger)

	c := &AutomateClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &tokenTransport{base: base, tokens: tokens, clientID: creds.ClientID},
		},
		tokens: tokens,
		logger: logger.With(logging.Fields{"component": "automate_client"}),
	}

	c.computers = &computersAPI{c: c}
	c.clients = &clientsAPI{c: c}
	c.locations = &locationsAPI{c: c}
	c.alerts = &alertsAPI{c: c}
	c.scripts = &scriptsAPI{c: c}

	return c, nil
}

// normalizeServerURL validates the configured server URL and appends the API root.
// A bare host name is treated as https.
func normalizeServerURL(serverURL string) (string, error) {
	raw := strings.TrimSpace(serverURL)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid Automate server URL %q: %w", serverURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid Automate server URL %q: must be an http or https URL", serverURL)
	}

	return strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/") + apiPath, nil
}

// BaseURL returns the API root this client sends requests to.
func (c *AutomateClient) BaseURL() string {
	return c.baseURL
}

func (c *AutomateClient) Computers() domain.ComputersAPI { return c.computers }
func (c *AutomateClient) Clients() domain.ClientsAPI     { return c.clients }
func (c *AutomateClient) Locations() domain.LocationsAPI { return c.locations }
func (c *AutomateClient) Alerts() domain.AlertsAPI       { return c.alerts }
func (c *AutomateClient) Scripts() domain.ScriptsAPI     { return c.scripts }

// do sends a JSON request and decodes a JSON response into out.
// out may be nil when the body is not needed. Non-2xx statuses become domain.HTTPError.
func (c *AutomateClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Automate request", logging.Fields{"method": method, "path": path})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if resp.StatusCode == http.StatusUnauthorized {
			c.tokens.invalidate()
		}
		c.logger.Warn("Automate request failed", logging.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		})
		return domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(respBody)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// pageQuery adds Automate's pageSize/page parameters (pages are 1-based) to a copy of filter.
func pageQuery(filter url.Values, pageSize, page int) url.Values {
	query := maps.Clone(filter)
	if query == nil {
		query = url.Values{}
	}
	query.Set("pageSize", strconv.Itoa(pageSize))
	query.Set("page", strconv.Itoa(page))
	return query
}

// listPage returns records [skip, skip+pageSize) of a list endpoint.
// Automate only pages on multiples of pageSize, so an unaligned skip reads the
// two pages covering the window and slices it out. A pageSize of 0 fetches the
// whole list and drops the first skip records.
func listPage[T any](ctx context.Context, c *AutomateClient, path string, filter url.Values, pageSize, skip int) ([]T, error) {
	if pageSize <= 0 {
		var items []T
		if err := c.do(ctx, http.MethodGet, path, filter, nil, &items); err != nil {
			return nil, err
		}
		return dropFirst(items, skip), nil
	}

	page := skip/pageSize + 1
	offset := skip % pageSize

	var items []T
	if err := c.do(ctx, http.MethodGet, path, pageQuery(filter, pageSize, page), nil, &items); err != nil {
		return nil, err
	}
	if offset == 0 || len(items) < pageSize {
		return dropFirst(items, offset), nil
	}

	var next []T
	if err := c.do(ctx, http.MethodGet, path, pageQuery(filter, pageSize, page+1), nil, &next); err != nil {
		return nil, err
	}

	window := append(dropFirst(items, offset), next...)
	if len(window) > pageSize {
		window = window[:pageSize]
	}
	return window, nil
}

func dropFirst[T any](items []T, n int) []T {
	if n <= 0 {
		return items
	}
	if n >= len(items) {
		return nil
	}
	return items[n:]
}

// condition builds an Automate condition expression joined with "and".
type condition []string

func (c *condition) equalsInt(field string, value *int) {
	if value != nil {
		*c = append(*c, fmt.Sprintf("%s = %d", field, *value))
	}
}

func (c *condition) equalsString(field, value string) {
	if value != "" && value != "all" {
		*c = append(*c, fmt.Sprintf("%s = '%s'", field, quote(value)))
	}
}

// contains matches value as a literal substring; its own % and _ are escaped.
func (c *condition) contains(field, value string) {
	if value != "" {
		*c = append(*c, fmt.Sprintf("%s like '%%%s%%'", field, quote(likeEscaper.Replace(value))))
	}
}

// query returns the condition as query parameters, empty when there is no filter.
func (c condition) query() url.Values {
	query := url.Values{}
	if len(c) > 0 {
		query.Set("condition", strings.Join(c, " and "))
	}
	return query
}

// likeEscaper escapes LIKE wildcards with the default backslash escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// quote escapes single quotes for use inside a condition literal.
func quote(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
