package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MSP-Team3/kyeol-storefront/internal/commerce"
	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	// refreshSkew renews access tokens slightly before they expire so an
	// in-flight commerce call does not race the expiry.
	refreshSkew = 30 * time.Second
)

// RequestAuth carries the session credentials read from one incoming request.
// It is a snapshot: cookie rotation during the request does not mutate it.
type RequestAuth struct {
	accessToken  string
	refreshToken string
}

// NewRequestAuth reads the session cookies from the request. Missing cookies
// leave the corresponding token empty, which downstream code treats as an
// anonymous shopper.
func NewRequestAuth(r *http.Request) *RequestAuth {
	a := &RequestAuth{}
	if c, err := r.Cookie(accessTokenCookie); err == nil {
		a.accessToken = c.Value
	}
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		a.refreshToken = c.Value
	}
	return a
}

// Authenticated reports whether the request carried any session credential.
func (a *RequestAuth) Authenticated() bool {
	return a.accessToken != "" || a.refreshToken != ""
}

// TokenAPI is the slice of the commerce client the session service needs.
type TokenAPI interface {
	TokenCreate(ctx context.Context, email, password string) (commerce.Tokens, error)
	TokenRefresh(ctx context.Context, refreshToken string) (string, error)
	CurrentUser(ctx context.Context, bearer string) (*domain.User, error)
}

// Sessions manages customer sessions on top of commerce-issued JWTs. The
// storefront never verifies token signatures; the commerce API is the
// authority and rejects anything forged or revoked.
type Sessions struct {
	api    TokenAPI
	secure bool
	logger *slog.Logger
}

func NewSessions(api TokenAPI, secure bool, logger *slog.Logger) *Sessions {
	return &Sessions{
		api:    api,
		secure: secure,
		logger: logger,
	}
}

// SignIn exchanges credentials for a token pair and installs the session
// cookies on the response.
func (s *Sessions) SignIn(ctx context.Context, w http.ResponseWriter, email, password string) (*domain.User, error) {
	tokens, err := s.api.TokenCreate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := s.api.CurrentUser(ctx, tokens.Access)
	if err != nil {
		return nil, err
	}

	s.setCookie(w, accessTokenCookie, tokens.Access)
	s.setCookie(w, refreshTokenCookie, tokens.Refresh)
	return user, nil
}

// SignOut clears the session cookies. The commerce API has no server-side
// session to revoke; dropping the tokens is the whole operation.
func (s *Sessions) SignOut(w http.ResponseWriter) {
	s.clearCookie(w, accessTokenCookie)
	s.clearCookie(w, refreshTokenCookie)
}

// Bearer returns a usable access token for the request, refreshing it through
// the commerce API when the one on the request is expired or near expiry. A
// rotated token is written back to the response cookie. An anonymous request
// yields an unauthorized absence, not a failure.
func (s *Sessions) Bearer(ctx context.Context, w http.ResponseWriter, a *RequestAuth) (string, error) {
	if a.accessToken != "" && !tokenExpired(a.accessToken) {
		return a.accessToken, nil
	}
	if a.refreshToken == "" {
		return "", apperrors.Unauthorized("no session")
	}

	token, err := s.api.TokenRefresh(ctx, a.refreshToken)
	if err != nil {
		return "", err
	}

	s.setCookie(w, accessTokenCookie, token)
	return token, nil
}

// CurrentUser resolves the signed-in customer for the request.
func (s *Sessions) CurrentUser(ctx context.Context, w http.ResponseWriter, a *RequestAuth) (*domain.User, error) {
	bearer, err := s.Bearer(ctx, w, a)
	if err != nil {
		return nil, err
	}
	return s.api.CurrentUser(ctx, bearer)
}

func (s *Sessions) setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}

func (s *Sessions) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}

// tokenExpired inspects the exp claim without verifying the signature. An
// unparseable token counts as expired so the refresh path gets a chance to
// replace it.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < refreshSkew
}
