package middleware

// identity.go holds helpers shared by the middleware in this package.

import "github.com/labstack/echo/v4"

// userID returns the subject stored by JWTAuth, or "anon" for requests
// without a verified token.
func userID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
