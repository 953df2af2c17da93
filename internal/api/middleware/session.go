package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "cargo_session"

const principalKey = "principal"

// Session resolves the session cookie into a Principal and stores it in the
// request context. Requests without a valid, unrevoked cookie proceed as
// anonymous; rejecting them is left to RequireSession so that public pages
// can still see who is logged in.
func Session(jwtSecret string, store ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return next(c)
			}

			username, _ := claims["username"].(string)
			role, _ := claims["role"].(string)
			sessionID, _ := claims["jti"].(string)
			if username == "" || sessionID == "" {
				return next(c)
			}

			// Logged-out tokens stay syntactically valid until expiry;
			// the denylist is what actually ends the session. A store
			// error fails closed.
			revoked, err := store.IsRevoked(c.Request().Context(), sessionID)
			if err != nil || revoked {
				return next(c)
			}

			expiresAt := time.Time{}
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				expiresAt = exp.Time
			}

			c.Set(principalKey, domain.Principal{
				Username:  username,
				Role:      domain.Role(role),
				SessionID: sessionID,
				ExpiresAt: expiresAt,
			})
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal for this request, if any.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// RequireSession redirects anonymous callers to the login entry point.
// This is control flow for browser navigation, not an error response.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := PrincipalFrom(c); !ok {
				return c.Redirect(http.StatusSeeOther, domain.PathLogin)
			}
			return next(c)
		}
	}
}

// SetSessionCookie attaches the signed session token to the response.
func SetSessionCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
