package jwtmiddleware

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxToken  = "token"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTMiddleware verifies the upstream-issued bearer token. The client never
// mints tokens itself; it only checks the signature and lifts subject, role
// and the raw token into the echo context for downstream API calls.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		ContextKey:    "user",
		TokenLookup:   "header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return new(Claims) },
		ErrorHandler: func(c echo.Context, err error) error {
			// Missing and malformed tokens both mean re-login.
			return echo.NewHTTPError(401, "invalid or missing token")
		},
		KeyFunc: func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			if claims, ok := token.Claims.(*Claims); ok {
				c.Set(CtxUserID, claims.Subject)
				c.Set(CtxRole, claims.Role)
			}
			c.Set(CtxToken, token.Raw)
		},
	})
}
