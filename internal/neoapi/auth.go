package neoapi

import (
	"context"
)

// Register creates an account and triggers a verification e-mail.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, apiPrefix+"/auth/register", nil, req, nil)
}

// ResendCode asks the server to send a new verification code.
func (c *Client) ResendCode(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, apiPrefix+"/auth/resend-code", nil, body, nil)
}

// Verify confirms an e-mail address with the code the user received.
func (c *Client) Verify(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "code": code}
	return c.post(ctx, apiPrefix+"/auth/verify", nil, body, nil)
}

// Login exchanges credentials for a token. The token is not applied to the
// client; that is the caller's decision.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp LoginResponse
	if err := c.post(ctx, apiPrefix+"/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteAccount removes the authenticated user's profile.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.delete(ctx, apiPrefix+"/auth/profile", nil)
}
