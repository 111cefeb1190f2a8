package client

import (
	"context"
	"net/http"

	"github.com/BruksfildServices01/hms-gateway/internal/models"
	"github.com/BruksfildServices01/hms-gateway/internal/validators"
)

// Login authenticates and stores the session. Cached reads from any earlier
// session are dropped.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	if err := validators.Struct(req); err != nil {
		return models.User{}, err
	}
	return c.authenticate(ctx, "/auth/login", req)
}

// SignupPatient registers a patient and logs them in.
func (c *Client) SignupPatient(ctx context.Context, req models.PatientSignupRequest) (models.User, error) {
	if err := validators.Struct(req); err != nil {
		return models.User{}, err
	}
	return c.authenticate(ctx, "/auth/signup-patient", req)
}

func (c *Client) authenticate(ctx context.Context, path string, req any) (models.User, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return models.User{}, err
	}

	c.cache.Clear()
	if err := c.session.Login(ctx, resp); err != nil {
		return models.User{}, err
	}

	cur, err := c.session.Current()
	if err != nil {
		return models.User{}, err
	}
	return *cur.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	c.cache.Clear()
	return c.session.Logout(ctx)
}
