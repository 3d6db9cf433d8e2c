package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"notestand/internal/identity"
)

// ViewerLocalKey is the key used to store the resolved viewer in Fiber's
// context locals.
const ViewerLocalKey = "viewer"

// Viewer resolves the calling viewer once per request and stores it in
// context locals. Handlers pass it explicitly into every core call; nothing
// below the HTTP layer reads ambient request state.
func Viewer(r *identity.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer"))

		c.Locals(ViewerLocalKey, r.Resolve(token, c.IP()))
		return c.Next()
	}
}

// ViewerFromCtx extracts the viewer stored by the Viewer middleware. A
// request that skipped the middleware resolves to an anonymous guest.
func ViewerFromCtx(c *fiber.Ctx) *identity.Viewer {
	if v, ok := c.Locals(ViewerLocalKey).(*identity.Viewer); ok && v != nil {
		return v
	}
	return identity.Guest(c.IP())
}
