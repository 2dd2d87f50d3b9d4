package tenantclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applicationmaker/tenant-service/pkg/tenantclient"
)

func strPtr(s string) *string { return &s }

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	// Only checks construction; the default URL is not dialed.
	assert.NotNil(t, tenantclient.New("", nil))
}

func TestListTenants(t *testing.T) {
	t.Parallel()

	var gotAuth, gotReqID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tenants", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"name":"Acme","domain":"acme.com","createdAt":"2026-03-01T12:00:00Z"},{"id":2,"name":"Globex","domain":null,"createdAt":"2026-03-01T12:00:01Z"}]`)
	}))
	t.Cleanup(ts.Close)

	c := tenantclient.New(ts.URL+"/", ts.Client())
	tenants, err := c.ListTenants(context.Background(), "Bearer abc")
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotReqID)
	require.Len(t, tenants, 2)
	assert.Equal(t, "Acme", tenants[0].Name)
	require.NotNil(t, tenants[0].Domain)
	assert.Equal(t, "acme.com", *tenants[0].Domain)
	assert.Nil(t, tenants[1].Domain)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC), tenants[1].CreatedAt)
}

func TestGetTenant(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		if r.URL.Path != "/api/tenants/7" {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"title":"Not Found","status":404,"detail":"tenant not found with id 8"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":7,"name":"Acme","domain":null,"createdAt":"2026-03-01T12:00:00Z"}`)
	}))
	t.Cleanup(ts.Close)

	c := tenantclient.New(ts.URL, ts.Client())

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		got, err := c.GetTenant(context.Background(), "", 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, err := c.GetTenant(context.Background(), "", 8)
		require.Error(t, err)

		var apiErr *tenantclient.Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "tenant not found with id 8")
		assert.Contains(t, err.Error(), "tenant service error 404: ")
	})
}

func TestCreateTenant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      tenantclient.CreateRequest
		wantBody string
	}{
		{
			name:     "with domain",
			req:      tenantclient.CreateRequest{Name: "Acme", Domain: strPtr("acme.com")},
			wantBody: `{"name":"Acme","domain":"acme.com"}`,
		},
		{
			name:     "without domain",
			req:      tenantclient.CreateRequest{Name: "Acme"},
			wantBody: `{"name":"Acme"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				raw, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, tt.wantBody, string(raw))

				var in tenantclient.CreateRequest
				assert.NoError(t, json.Unmarshal(raw, &in))

				w.Header().Set("Location", "tenants/1")
				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(tenantclient.Tenant{ID: 1, Name: in.Name, Domain: in.Domain, CreatedAt: time.Now().UTC()})
			}))
			t.Cleanup(ts.Close)

			got, err := tenantclient.New(ts.URL, ts.Client()).CreateTenant(context.Background(), "Bearer x", tt.req)
			require.NoError(t, err)
			assert.Equal(t, int64(1), got.ID)
			assert.Equal(t, tt.req.Name, got.Name)
			assert.Equal(t, tt.req.Domain, got.Domain)
		})
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tenant service error 400: bad name", (&tenantclient.Error{StatusCode: 400, Body: "bad name"}).Error())
	assert.Equal(t, "tenant service error 503: Service Unavailable", (&tenantclient.Error{StatusCode: 503}).Error())
}

func TestServerError_EmptyBody(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	_, err := tenantclient.New(ts.URL, ts.Client()).ListTenants(context.Background(), "")

	var apiErr *tenantclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "tenant service error 500: Internal Server Error")
}
