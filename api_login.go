package mallclient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/freshmall/mallclient/diag"
	"github.com/freshmall/mallclient/session"
)

// LoginRequest is the POST /api/login payload. Username also accepts the
// account's email; the server resolves either.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Account is the public user record returned by the auth endpoints.
// CreatedAt stays a string: the server emits it without a timezone marker and
// the client has no business reinterpreting it.
type Account struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// LoginResult is the successful login response.
type LoginResult struct {
	Message string  `json:"message"`
	User    Account `json:"user"`
	Token   string  `json:"token"`
}

// Login authenticates against the storefront. On success the issued token is
// persisted first, then the session is marked logged in with the returned
// user record. A 401 here surfaces the server's detail (or a generic
// bad-credentials message) and never clears an existing session.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, c.cfg.HTTP.LoginPath, nil, LoginRequest{
		Username: username,
		Password: password,
	}, &out)
	if err != nil {
		c.metrics.Inc(MetricLoginFailure)
		return nil, err
	}

	if out.Token != "" {
		if err := c.session.SetToken(ctx, out.Token); err != nil {
			return nil, err
		}
	}
	if err := c.session.LoginWithUser(ctx, session.User{
		Username: out.User.Username,
		ID:       strconv.FormatInt(out.User.ID, 10),
	}); err != nil {
		return nil, err
	}

	c.metrics.Inc(MetricLoginSuccess)
	return &out, nil
}

// Logout clears the session and tells the monitor's next tick there is
// nothing to watch. Safe to call when already logged out.
func (c *Client) Logout(ctx context.Context) error {
	err := c.session.Logout(ctx)
	if err != nil {
		c.events.Emit(ctx, diag.Event{
			Timestamp: time.Now(),
			Kind:      diag.EventForcedLogout,
			Detail:    "user logout",
			Error:     err.Error(),
		})
	}
	return err
}
