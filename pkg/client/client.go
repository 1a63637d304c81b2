// Package client is the typed HTTP facade for a mockabase server. It mirrors
// every server operation 1:1, carries no business logic, and reports failure
// using the same closed error set the server responds with: any transport
// failure (unreachable server, non-2xx status, malformed body) is normalized
// to internal_server_error so callers only ever branch on domain codes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/owenwexler/mockabase/internal/domain"
	"github.com/owenwexler/mockabase/internal/service"
)

// Client talks to one mockabase server. Auth groups the operations that
// mirror a hosted auth SDK; the admin operations (Seed, DeleteUser,
// DeleteUsers, Clear) live on the Client itself.
type Client struct {
	baseURL string
	httpc   *http.Client

	Auth *Auth
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New builds a client for the server at baseURL (e.g. "http://localhost:5990").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Auth = &Auth{c: c}
	return c
}

// Auth mirrors the authentication surface of the server.
type Auth struct {
	c *Client
}

type userEnvelope struct {
	User domain.PublicUser `json:"user"`
}

type sessionEnvelope struct {
	User domain.Session `json:"user"`
}

type credentials struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordUpdate struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// SignUpWithPassword registers a new credential. A blank id lets the server
// assign a fresh UUID.
func (a *Auth) SignUpWithPassword(ctx context.Context, id, email, password string) (domain.PublicUser, error) {
	var out userEnvelope
	err := a.c.do(ctx, http.MethodPost, "/signup", credentials{ID: id, Email: email, Password: password}, &out)
	return out.User, err
}

// SignInWithPassword logs in and persists the server-side session.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (domain.PublicUser, error) {
	var out userEnvelope
	err := a.c.do(ctx, http.MethodPost, "/login", credentials{Email: email, Password: password}, &out)
	return out.User, err
}

// SignInWithOAuth logs in the server's env-configured mock identity for the
// named provider.
func (a *Auth) SignInWithOAuth(ctx context.Context, provider string) (domain.PublicUser, error) {
	var out userEnvelope
	err := a.c.do(ctx, http.MethodPost, "/mock-oauth/"+provider, nil, &out)
	return out.User, err
}

// SignOut clears the server-side session. Idempotent.
func (a *Auth) SignOut(ctx context.Context) error {
	return a.c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// GetSession returns the current session, or nil when logged out. A missing
// session is not an error.
func (a *Auth) GetSession(ctx context.Context) (*domain.Session, error) {
	var out *sessionEnvelope
	if err := a.c.do(ctx, http.MethodGet, "/get-current-session", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return &out.User, nil
}

// GetUser is an alias for GetSession kept for parity with hosted SDKs.
func (a *Auth) GetUser(ctx context.Context) (*domain.Session, error) {
	return a.GetSession(ctx)
}

// UpdateUser changes the password of the given account. The server requires
// a matching active session.
func (a *Auth) UpdateUser(ctx context.Context, email, newPassword string) error {
	return a.c.do(ctx, http.MethodPost, "/change-password", passwordUpdate{Email: email, NewPassword: newPassword}, nil)
}

// Seed signs up each entry and returns the identities that were created,
// skipping entries that already exist.
func (c *Client) Seed(ctx context.Context, entries []service.SeedUser) ([]domain.PublicUser, error) {
	var out []userEnvelope
	if err := c.do(ctx, http.MethodPost, "/seed", entries, &out); err != nil {
		return nil, err
	}
	users := make([]domain.PublicUser, len(out))
	for i, e := range out {
		users[i] = e.User
	}
	return users, nil
}

// DeleteUser removes one credential by id. Deleting an absent id succeeds.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/delete-user/"+id, nil, nil)
}

// DeleteUsers removes the given ids and returns how many rows were removed.
func (c *Client) DeleteUsers(ctx context.Context, ids []string) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/delete-multiple-users", ids, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// Clear removes every credential.
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/clear", nil, nil)
}

type responseEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *domain.Error   `json:"error"`
}

// do marshals body, performs the request, and unmarshals the {data, error}
// envelope into out. Domain errors come back as the canonical taxonomy
// values; everything transport-shaped collapses to ErrInternalServer.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return domain.ErrInternalServer
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return domain.ErrInternalServer
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.ErrInternalServer
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ErrInternalServer
	}

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return domain.ErrInternalServer
	}
	if env.Error != nil {
		// resolve to the canonical value so errors.Is matches by code
		return domain.ByCode(env.Error.Code)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return domain.ErrInternalServer
		}
	}
	return nil
}
