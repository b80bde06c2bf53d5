// Package auth verifies the session cookie issued by the identity
// service and gates route groups by role. Token issuance and refresh
// live outside this service; only verification happens here.
package auth

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	AccessCookie = "accessToken"

	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleUser     = "user"
)

type Verifier struct {
	Secret []byte
}

func (v *Verifier) parse(c echo.Context) (uuid.UUID, string, error) {
	cookie, err := c.Cookie(AccessCookie)
	if err != nil {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.Secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	id, err := uuid.Parse(sub)
	if err != nil || role == "" {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return id, role, nil
}

func setUserContext(c echo.Context, id uuid.UUID, role string) {
	c.Set("userID", id)
	c.Set("role", role)
}

// UserID returns the authenticated subject, or nil on anonymous
// requests that passed through Optional.
func UserID(c echo.Context) *uuid.UUID {
	if v, ok := c.Get("userID").(uuid.UUID); ok {
		return &v
	}
	return nil
}

func Role(c echo.Context) string {
	if v, ok := c.Get("role").(string); ok {
		return v
	}
	return ""
}

// Optional attaches identity when a valid cookie is present and lets
// anonymous requests through untouched. The storefront uses it so
// guests can browse and check out.
func (v *Verifier) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, role, err := v.parse(c); err == nil {
			setUserContext(c, id, role)
		}
		return next(c)
	}
}

// RequireEmployee admits employees and admins.
func (v *Verifier) RequireEmployee(next echo.HandlerFunc) echo.HandlerFunc {
	return v.require(next, RoleEmployee, RoleAdmin)
}

// RequireAdmin admits admins only.
func (v *Verifier) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return v.require(next, RoleAdmin)
}

// RequireUser admits any authenticated identity.
func (v *Verifier) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return v.require(next, RoleUser, RoleEmployee, RoleAdmin)
}

func (v *Verifier) require(next echo.HandlerFunc, roles ...string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, role, err := v.parse(c)
		if err != nil {
			return err
		}
		for _, r := range roles {
			if role == r {
				setUserContext(c, id, role)
				return next(c)
			}
		}
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}
}
