package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresTokens(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "admin@example.com", body["email"])
			_ = json.NewEncoder(w).Encode(Session{
				Access:  "access-token",
				Refresh: "refresh-token",
				User:    User{Email: "admin@example.com", Role: "platform_admin"},
			})
		case "/v1/platform/stats":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": DashboardStats{TotalTenants: 3, ActiveTenants: 2},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	session, err := c.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "access-token", session.Access)

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalTenants)
	assert.Equal(t, "Bearer access-token", gotAuth)
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"type":    "conflict",
				"code":    "duplicate_key",
				"message": "conflict",
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	_, err := c.CreateFeature(context.Background(), CreateFeatureRequest{Key: "seats", Name: "Seats", DataType: "int"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "duplicate_key", apiErr.Code)
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}

func TestNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListFeatures(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "http_error", apiErr.Type)
}

func TestListTenantsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/platform/tenants", r.URL.Path)
		assert.Equal(t, "acme", r.URL.Query().Get("subdomain"))
		assert.Equal(t, "true", r.URL.Query().Get("is_active"))
		_ = json.NewEncoder(w).Encode(TenantList{
			Count:   1,
			Results: []Tenant{{Name: "Acme", Subdomain: "acme", IsActive: true}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	active := true
	list, err := c.ListTenants(context.Background(), ListTenantsOptions{Subdomain: "acme", IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Count)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "acme", list.Results[0].Subdomain)
}
