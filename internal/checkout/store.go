package checkout

import (
	"log/slog"
	"net/http"
)

// CookieName returns the checkout token cookie name for a sales channel.
// Tokens are scoped per channel so a shopper can carry one open cart in each.
func CookieName(channel string) string {
	return "checkoutId-" + channel
}

// IdentityStore reads and writes the per-channel checkout token cookie. It is
// the single place the cookie's attributes are decided; nothing else in the
// storefront touches the checkout cookie directly.
//
// Neither operation can fail its caller: an unreadable cookie reads as
// absent, and a write problem is logged and swallowed.
type IdentityStore struct {
	secure bool
	logger *slog.Logger
}

// NewIdentityStore builds a store. secure controls the cookie's Secure
// attribute and should be true whenever the storefront is served over TLS,
// including behind a terminating proxy.
func NewIdentityStore(secure bool, logger *slog.Logger) *IdentityStore {
	return &IdentityStore{
		secure: secure,
		logger: logger,
	}
}

// Read returns the checkout token for the channel, or "" when the shopper has
// none.
func (s *IdentityStore) Read(r *http.Request, channel string) string {
	c, err := r.Cookie(CookieName(channel))
	if err != nil {
		return ""
	}
	return c.Value
}

// Write persists the checkout token on the response. An empty token is a bug
// upstream; it is logged and skipped rather than clobbering a valid cookie.
func (s *IdentityStore) Write(w http.ResponseWriter, channel, token string) {
	if token == "" {
		s.logger.Warn("refusing to write empty checkout token",
			slog.String("channel", channel),
		)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(channel),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}

// Clear expires the channel's checkout token cookie.
func (s *IdentityStore) Clear(w http.ResponseWriter, channel string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(channel),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}
