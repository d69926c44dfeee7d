package mallclient

import (
	"context"
	"net/http"
)

// RegisterRequest is the POST /api/register payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The endpoint returns the created user but no
// token, so the session is marked logged in by username only; the user ID
// arrives with the first real login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodPost, c.cfg.HTTP.RegisterPath, nil, req, &out); err != nil {
		c.metrics.Inc(MetricRegisterFailure)
		return nil, err
	}

	if err := c.session.LoginWithUsername(ctx, out.Username); err != nil {
		return nil, err
	}

	c.metrics.Inc(MetricRegisterSuccess)
	return &out, nil
}
