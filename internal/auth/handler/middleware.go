package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	autherrors "github.com/yamess/authService/internal/errors"
)

// callerKey is the fiber.Ctx locals slot holding the resolved caller.
const callerKey = "caller"

// RequireAuth extracts the bearer token, resolves the caller against
// the store, and stashes the fresh user record for the handlers.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return errorJSON(c, autherrors.ErrUnauthenticated)
	}

	caller, err := h.guard.ResolveCaller(c.Context(), token)
	if err != nil {
		return errorJSON(c, err)
	}

	c.Locals(callerKey, caller)
	return c.Next()
}
