package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notestand/internal/identity"
)

func TestViewerMiddleware(t *testing.T) {
	const secret = "test-secret"

	app := fiber.New()
	app.Use(Viewer(identity.NewResolver(secret)))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		v := ViewerFromCtx(c)
		return c.JSON(fiber.Map{
			"account_id": v.AccountID,
			"anonymous":  v.IsAnonymous(),
		})
	})

	t.Run("bearer token resolves the account", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "acc-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte(secret))
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing header resolves to guest", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestViewerFromCtxWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/bare", func(c *fiber.Ctx) error {
		v := ViewerFromCtx(c)
		assert.True(t, v.IsAnonymous())
		assert.NotEmpty(t, v.Origin)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/bare", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
