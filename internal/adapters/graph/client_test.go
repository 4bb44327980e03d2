package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGraph struct {
	srv         *httptest.Server
	tokenCalls  atomic.Int32
	usersStatus int
	usersBody   string
}

func newFakeGraph(t *testing.T) *fakeGraph {
	t.Helper()
	f := &fakeGraph{usersStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /contoso/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, DefaultScope, r.PostForm.Get("scope"))
		assert.Equal(t, "app-id", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "graph-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /v1.0/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		assert.Equal(t, "3", r.URL.Query().Get("$top"))
		assert.Equal(t, userFields, r.URL.Query().Get("$select"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.usersStatus)
		_, _ = w.Write([]byte(f.usersBody))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGraph) client(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(Config{
		ClientID:     "app-id",
		ClientSecret: "app-secret",
		Authority:    f.srv.URL + "/contoso",
		BaseURL:      f.srv.URL + "/v1.0/",
		HTTPClient:   f.srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestClient_ListUsers(t *testing.T) {
	f := newFakeGraph(t)
	f.usersBody = `{"value":[
		{"id":"1","displayName":"Alice","mail":"alice@x.com","userPrincipalName":"alice@x.com","accountEnabled":true},
		{"id":"2","displayName":"Bob","mail":null,"userPrincipalName":"bob@x.com","accountEnabled":false}
	]}`
	c := f.client(t)

	users, err := c.ListUsers(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].DisplayName)
	assert.Equal(t, "Active", users[0].Status())
	assert.Equal(t, "bob@x.com", users[1].Email())
	assert.Equal(t, "Inactive", users[1].Status())

	_, err = c.ListUsers(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.tokenCalls.Load(), "token should be reused")
}

func TestClient_ListUsers_EmptyValue(t *testing.T) {
	f := newFakeGraph(t)
	f.usersBody = `{}`
	users, err := f.client(t).ListUsers(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestClient_ListUsers_GraphError(t *testing.T) {
	f := newFakeGraph(t)
	f.usersStatus = http.StatusForbidden
	f.usersBody = `{"error":{"code":"Authorization_RequestDenied","message":"Insufficient privileges"}}`

	_, err := f.client(t).ListUsers(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Authorization_RequestDenied")
}

func TestClient_ListUsers_InvalidLimit(t *testing.T) {
	f := newFakeGraph(t)
	_, err := f.client(t).ListUsers(context.Background(), 0)
	require.Error(t, err)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{ClientSecret: "s", Authority: "a", BaseURL: "b"})
	require.Error(t, err)
	_, err = NewClient(Config{ClientID: "c", ClientSecret: "s", BaseURL: "b"})
	require.Error(t, err)
	_, err = NewClient(Config{ClientID: "c", ClientSecret: "s", Authority: "a"})
	require.Error(t, err)
}
