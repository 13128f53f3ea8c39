package api

import (
	"context"
	"fmt"
)

// Login exchanges credentials for a bearer token and stores the token on the
// client for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp TokenResponse
	if err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	c.SetToken(resp.AccessToken)
	return resp.AccessToken, nil
}
