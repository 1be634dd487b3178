package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/brandpulse/content-api/internal/core/ports"
)

// SessionCookie is the name of the httpOnly cookie carrying the JWT.
const SessionCookie = "token"

// Auth validates the session cookie, rejects revoked tokens, and injects
// the user identity into context. revoker may be nil when no revocation
// store is configured (tests).
func Auth(jwtSecret string, revoker ports.SessionRevoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session cookie")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revoker != nil {
				if jti, _ := claims["jti"].(string); jti != "" {
					revoked, err := revoker.IsRevoked(c.Request().Context(), jti)
					if err == nil && revoked {
						return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
					}
				}
			}

			c.Set("user_id", claims["id"])
			c.Set("email", claims["email"])

			return next(c)
		}
	}
}
