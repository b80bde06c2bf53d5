package cart

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the fixed key the serialized cart is stored under.
const CookieName = "cart"

const cookieMaxAge = 30 * 24 * time.Hour

// Storage is the device-local key/value store the cart persists
// through. Implementations never see cart semantics, only bytes.
type Storage interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// CookieStorage keeps the serialized cart in a client cookie, so the
// snapshot lives on the shopper's device and the server stores nothing.
type CookieStorage struct {
	Ctx    echo.Context
	Secure bool
}

func (s *CookieStorage) Read() ([]byte, error) {
	ck, err := s.Ctx.Cookie(CookieName)
	if err != nil {
		return nil, err
	}
	return base64.RawURLEncoding.DecodeString(ck.Value)
}

func (s *CookieStorage) Write(data []byte) error {
	s.Ctx.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// MemoryStorage is an in-process Storage used in tests and anywhere a
// cart does not need to survive the session.
type MemoryStorage struct {
	Data    []byte
	ReadErr error
}

func (s *MemoryStorage) Read() ([]byte, error) {
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return s.Data, nil
}

func (s *MemoryStorage) Write(data []byte) error {
	s.Data = append(s.Data[:0], data...)
	return nil
}
