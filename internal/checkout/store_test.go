package checkout

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityStoreRead(t *testing.T) {
	store := NewIdentityStore(false, testLogger())

	t.Run("returns token for the channel", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "checkoutId-default-channel", Value: "tok-1"})

		assert.Equal(t, "tok-1", store.Read(r, "default-channel"))
	})

	t.Run("missing cookie reads as absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		assert.Empty(t, store.Read(r, "default-channel"))
	})

	t.Run("channels are isolated", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "checkoutId-eu", Value: "tok-eu"})
		r.AddCookie(&http.Cookie{Name: "checkoutId-us", Value: "tok-us"})

		assert.Equal(t, "tok-eu", store.Read(r, "eu"))
		assert.Equal(t, "tok-us", store.Read(r, "us"))
		assert.Empty(t, store.Read(r, "apac"))
	})
}

func TestIdentityStoreWrite(t *testing.T) {
	t.Run("sets the cookie with the fixed attributes", func(t *testing.T) {
		store := NewIdentityStore(false, testLogger())
		w := httptest.NewRecorder()

		store.Write(w, "default-channel", "tok-1")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "checkoutId-default-channel", c.Name)
		assert.Equal(t, "tok-1", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.False(t, c.Secure)
	})

	t.Run("secure store marks the cookie secure", func(t *testing.T) {
		store := NewIdentityStore(true, testLogger())
		w := httptest.NewRecorder()

		store.Write(w, "default-channel", "tok-1")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.True(t, cookies[0].Secure)
	})

	t.Run("empty token writes nothing", func(t *testing.T) {
		store := NewIdentityStore(false, testLogger())
		w := httptest.NewRecorder()

		store.Write(w, "default-channel", "")

		assert.Empty(t, w.Result().Cookies())
	})
}

func TestIdentityStoreClear(t *testing.T) {
	store := NewIdentityStore(false, testLogger())
	w := httptest.NewRecorder()

	store.Clear(w, "default-channel")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestCookieName(t *testing.T) {
	assert.Equal(t, "checkoutId-default-channel", CookieName("default-channel"))
}
