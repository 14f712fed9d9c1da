package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/gorilla/securecookie"
)

const (
	// SessionCookieName holds the token and user projection together.
	SessionCookieName = "homestock_session"
	flashCookieName   = "homestock_flash"

	sessionMaxAge = 7 * 24 * 60 * 60
	flashMaxAge   = 5 * 60
)

// cookieCodec signs and encrypts the frontend's cookies.
type cookieCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

func newCookieCodec(hashKey, blockKey []byte, secure bool) *cookieCodec {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(sessionMaxAge)
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &cookieCodec{sc: sc, secure: secure}
}

func (c *cookieCodec) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *cookieCodec) set(w http.ResponseWriter, name string, value any, maxAge int) error {
	encoded, err := c.sc.Encode(name, value)
	if err != nil {
		return fmt.Errorf("failed to encode %s cookie: %w", name, err)
	}
	http.SetCookie(w, c.cookie(name, encoded, maxAge))
	return nil
}

// get decodes the named cookie into dst. A missing cookie reports false
// without error.
func (c *cookieCodec) get(r *http.Request, name string, dst any) (bool, error) {
	ck, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := c.sc.Decode(name, ck.Value, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s cookie: %w", name, err)
	}
	return true, nil
}

func (c *cookieCodec) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, c.cookie(name, "", -1))
}

// CookieStore persists one request's session in the homestock_session cookie.
// Writes become Set-Cookie headers, so they must happen before the response
// is written.
type CookieStore struct {
	codec *cookieCodec
	w     http.ResponseWriter
	r     *http.Request
}

var _ sdk.SessionStore = (*CookieStore)(nil)

func (s *CookieStore) SaveSession(session *sdk.Session) error {
	return s.codec.set(s.w, SessionCookieName, session, sessionMaxAge)
}

// LoadSession returns the cookie's session. A cookie that fails to verify is
// cleared and reported as an error.
func (s *CookieStore) LoadSession() (sdk.Session, error) {
	var session sdk.Session
	ok, err := s.codec.get(s.r, SessionCookieName, &session)
	if err != nil {
		s.codec.clear(s.w, SessionCookieName)
		return sdk.Session{}, err
	}
	if !ok {
		return sdk.Session{}, nil
	}
	return session, nil
}

func (s *CookieStore) DeleteSession() error {
	s.codec.clear(s.w, SessionCookieName)
	return nil
}
