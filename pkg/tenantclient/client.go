// Package tenantclient is a Go client for the tenant service HTTP API.
package tenantclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is where the tenant service listens by default.
const DefaultBaseURL = "http://localhost:8081"

// Tenant mirrors the service's tenant representation.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Domain    *string   `json:"domain"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest is the body of a create call. A nil Domain is omitted.
type CreateRequest struct {
	Name   string  `json:"name"`
	Domain *string `json:"domain,omitempty"`
}

// Error is returned for any non-2xx response.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	body := e.Body
	if body == "" {
		body = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("tenant service error %d: %s", e.StatusCode, body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the service at baseURL. An empty baseURL uses
// DefaultBaseURL and a nil httpClient uses a client with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListTenants returns every tenant. authorization, when non-empty, is sent
// verbatim as the Authorization header.
func (c *Client) ListTenants(ctx context.Context, authorization string) ([]Tenant, error) {
	var out []Tenant
	if err := c.do(ctx, http.MethodGet, "/api/tenants", authorization, nil, &out); err != nil {
		return nil, fmt.Errorf("tenantclient.ListTenants: %w", err)
	}
	return out, nil
}

func (c *Client) GetTenant(ctx context.Context, authorization string, id int64) (*Tenant, error) {
	var out Tenant
	if err := c.do(ctx, http.MethodGet, "/api/tenants/"+strconv.FormatInt(id, 10), authorization, nil, &out); err != nil {
		return nil, fmt.Errorf("tenantclient.GetTenant: %w", err)
	}
	return &out, nil
}

func (c *Client) CreateTenant(ctx context.Context, authorization string, req CreateRequest) (*Tenant, error) {
	var out Tenant
	if err := c.do(ctx, http.MethodPost, "/api/tenants", authorization, req, &out); err != nil {
		return nil, fmt.Errorf("tenantclient.CreateTenant: %w", err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, authorization string, body, out any) error {
	var rdr io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
