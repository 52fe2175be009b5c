package auth

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"planify/internal/errors"
	"planify/internal/model"
)

// ContextUserKey is the echo context key holding the authenticated user.
const ContextUserKey = "auth_user"

// UserResolver looks up the user behind a verified token.
type UserResolver interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// JWTConfig builds the echo-jwt configuration for secured routes. Token
// parsing is delegated to the JWT service; every failure mode (missing
// header, malformed token, bad signature, expiry) surfaces as a uniform 401.
func JWTConfig(jwtService *JWTService) echojwt.Config {
	return echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return jwtService.ValidateToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "unauthorized",
				Code:  "UNAUTHORIZED",
			})
		},
	}
}

// ResolveUser returns a middleware that turns verified token claims into a
// loaded user record. It must run after the echo-jwt middleware. A valid
// token whose user no longer exists yields 404, since the identity behind it
// is gone. On success the user is attached to the context.
func ResolveUser(users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "unauthorized",
					Code:  "UNAUTHORIZED",
				})
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil || user == nil {
				// token was valid, but the account behind it is gone
				return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
					Error: "user not found",
					Code:  "USER_NOT_FOUND",
				})
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user attached by ResolveUser, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(ContextUserKey).(*model.User)
	return user
}
