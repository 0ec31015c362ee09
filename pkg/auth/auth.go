package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Identity is supplied by the auth provider in front of this service via
// trusted headers; the core does not re-validate it.
const (
	XMemberIDHeader = "X-User-Id"
	XUserRoleHeader = "X-User-Role"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Identity struct {
	MemberID int
	Role     string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type ctxKey struct{}

func SetAuthContext(ctx context.Context, memberID int, role string) context.Context {
	return context.WithValue(ctx, ctxKey{}, Identity{MemberID: memberID, Role: role})
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Context requires the identity headers and stores them on the request context.
func Context(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		rawID := req.Header.Get(XMemberIDHeader)
		if rawID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "user-id is empty")
		}
		memberID, err := strconv.Atoi(rawID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "user-id is invalid")
		}
		role := req.Header.Get(XUserRoleHeader)
		if role == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "user-role is empty")
		}
		ctx := SetAuthContext(req.Context(), memberID, role)
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

// AdminOnly must run after Context.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := FromContext(c.Request().Context())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "no identity")
		}
		if !id.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}
