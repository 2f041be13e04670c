// Package oauth2flow carries the external-login round trip: the client-held
// flow-state cookie and the authorization-code exchange with the provider.
package oauth2flow

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
)

const (
	// StateCookieName holds the serialized pending authorization request for
	// the duration of the redirect to the provider and back.
	StateCookieName = "oauth2_auth_request"

	stateVersion = 1
)

var (
	ErrStateAbsent  = errors.New("login flow state cookie absent")
	ErrStateInvalid = errors.New("login flow state cookie invalid")
)

// AuthRequest is the explicit, versioned schema of the flow-state payload.
// The cookie is the only copy; there is no server-side mirror.
type AuthRequest struct {
	Version     int       `json:"v"`
	State       string    `json:"state"`
	Nonce       string    `json:"nonce"`
	RedirectURI string    `json:"redirect_uri"`
	CreatedAt   time.Time `json:"created_at"`
}

// StateRepository serializes AuthRequest into an HMAC-authenticated cookie.
// A forged or truncated cookie fails the MAC check and loads as
// ErrStateInvalid rather than panicking.
type StateRepository struct {
	codec  *securecookie.SecureCookie
	maxAge int
}

func NewStateRepository(hashKey []byte, ttl time.Duration) *StateRepository {
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(ttl.Seconds()))

	return &StateRepository{
		codec:  codec,
		maxAge: int(ttl.Seconds()),
	}
}

// Save writes the flow state to the cookie. A nil request means the flow was
// cancelled and delegates to Remove.
func (r *StateRepository) Save(c echo.Context, req *AuthRequest) error {
	if req == nil {
		r.Remove(c)
		return nil
	}

	req.Version = stateVersion
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	encoded, err := r.codec.Encode(StateCookieName, req)
	if err != nil {
		return errors.Join(ErrStateInvalid, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     StateCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   r.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Load reads the flow state back. A missing cookie is a recoverable
// ErrStateAbsent; a cookie that fails the MAC or carries an unknown schema
// version is ErrStateInvalid.
func (r *StateRepository) Load(c echo.Context) (*AuthRequest, error) {
	cookie, err := c.Cookie(StateCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrStateAbsent
	}

	var req AuthRequest
	if err := r.codec.Decode(StateCookieName, cookie.Value, &req); err != nil {
		return nil, ErrStateInvalid
	}
	if req.Version != stateVersion {
		return nil, ErrStateInvalid
	}

	return &req, nil
}

// Remove blanks the cookie and expires it immediately, the client-side
// deletion idiom. There is no server-side copy to revoke.
func (r *StateRepository) Remove(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
