// Package graph lists directory users from Microsoft Graph with an app-only token.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/target/mmk-sso/internal/adapters/oidc"
	"github.com/target/mmk-sso/internal/domain/directory"
	"github.com/target/mmk-sso/internal/ports"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var _ ports.DirectoryClient = (*Client)(nil)

// DefaultScope requests the application permissions granted to the app registration.
const DefaultScope = "https://graph.microsoft.com/.default"

// userFields are the properties requested for each directory entry.
const userFields = "id,displayName,mail,userPrincipalName,accountEnabled"

// maxErrorBody caps how much of a failed response is kept for the log.
const maxErrorBody = 4 << 10

// Config configures a Graph directory client.
type Config struct {
	ClientID     string
	ClientSecret string
	// Authority is the tenant authority used to obtain the client-credentials token.
	Authority string
	// BaseURL is the Graph root, e.g. https://graph.microsoft.com/v1.0.
	BaseURL string
	Timeout time.Duration
	// HTTPClient is the transport used for both token and Graph calls.
	HTTPClient *http.Client
}

// Client implements ports.DirectoryClient.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient builds a client. Tokens are fetched lazily and reused until expiry.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("graph: client credentials are required")
	}
	if cfg.Authority == "" {
		return nil, errors.New("graph: authority is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, errors.New("graph: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     oidc.Endpoints(cfg.Authority).TokenURL,
		Scopes:       []string{DefaultScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	// The token source outlives any single request, so it gets its own context.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)

	return &Client{
		baseURL: base,
		timeout: timeout,
		http: &http.Client{
			Timeout: hc.Timeout,
			Transport: &oauth2.Transport{
				Source: cc.TokenSource(tokenCtx),
				Base:   hc.Transport,
			},
		},
	}, nil
}

type listResponse struct {
	Value []directory.User `json:"value"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ListUsers returns up to limit users.
func (c *Client) ListUsers(ctx context.Context, limit int) ([]directory.User, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("graph: limit must be positive, got %d", limit)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("$top", strconv.Itoa(limit))
	q.Set("$select", userFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("graph: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph: list users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var ge errorResponse
		if json.Unmarshal(body, &ge) == nil && ge.Error.Code != "" {
			return nil, fmt.Errorf("graph: list users: status %d: %s: %s", resp.StatusCode, ge.Error.Code, ge.Error.Message)
		}
		return nil, fmt.Errorf("graph: list users: status %d", resp.StatusCode)
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("graph: decode users: %w", err)
	}
	if out.Value == nil {
		return []directory.User{}, nil
	}
	return out.Value, nil
}
