package commerce

import (
	"context"
	"fmt"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
)

// Tokens is the credential pair issued by the commerce API on sign-in.
type Tokens struct {
	Access  string
	Refresh string
}

// CurrentUser resolves the customer bound to the bearer token. A null user is
// an expected absence: the session is missing or expired.
func (c *Client) CurrentUser(ctx context.Context, bearer string) (*domain.User, error) {
	if bearer == "" {
		return nil, apperrors.Unauthorized("no access token")
	}

	var out struct {
		Me *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"me"`
	}
	if err := c.execute(ctx, "currentUser", queryCurrentUser, nil, bearer, &out); err != nil {
		return nil, err
	}
	if out.Me == nil {
		return nil, apperrors.Unauthorized("no active session")
	}
	return &domain.User{ID: out.Me.ID, Email: out.Me.Email}, nil
}

// TokenCreate signs a customer in with email and password. Payload errors
// (wrong credentials, inactive account) come back as a MutationError.
func (c *Client) TokenCreate(ctx context.Context, email, password string) (Tokens, error) {
	var out struct {
		TokenCreate *struct {
			Token        string       `json:"token"`
			RefreshToken string       `json:"refreshToken"`
			Errors       []FieldError `json:"errors"`
		} `json:"tokenCreate"`
	}
	vars := map[string]any{"email": email, "password": password}
	if err := c.execute(ctx, "tokenCreate", mutationTokenCreate, vars, "", &out); err != nil {
		return Tokens{}, err
	}
	if out.TokenCreate == nil {
		return Tokens{}, fmt.Errorf("tokenCreate: empty payload")
	}
	if len(out.TokenCreate.Errors) > 0 {
		return Tokens{}, &MutationError{Operation: "tokenCreate", Errors: out.TokenCreate.Errors}
	}
	if out.TokenCreate.Token == "" {
		return Tokens{}, fmt.Errorf("tokenCreate: no token in payload")
	}
	return Tokens{Access: out.TokenCreate.Token, Refresh: out.TokenCreate.RefreshToken}, nil
}

// TokenRefresh exchanges a refresh token for a fresh access token.
func (c *Client) TokenRefresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		TokenRefresh *struct {
			Token  string       `json:"token"`
			Errors []FieldError `json:"errors"`
		} `json:"tokenRefresh"`
	}
	vars := map[string]any{"refreshToken": refreshToken}
	if err := c.execute(ctx, "tokenRefresh", mutationTokenRefresh, vars, "", &out); err != nil {
		return "", err
	}
	if out.TokenRefresh == nil {
		return "", fmt.Errorf("tokenRefresh: empty payload")
	}
	if len(out.TokenRefresh.Errors) > 0 {
		return "", &MutationError{Operation: "tokenRefresh", Errors: out.TokenRefresh.Errors}
	}
	if out.TokenRefresh.Token == "" {
		return "", apperrors.Unauthorized("refresh token rejected")
	}
	return out.TokenRefresh.Token, nil
}
