package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yamess/authService/internal/auth/domain"
	"github.com/yamess/authService/internal/auth/dto"
	"github.com/yamess/authService/internal/auth/service"
	autherrors "github.com/yamess/authService/internal/errors"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
	guard        *service.Guard
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator,
	guard *service.Guard) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		guard:        guard,
	}
}

// statusFromError maps the error taxonomy to HTTP status codes.
// Authentication failures (401) stay distinguishable from
// authorization failures (403).
func statusFromError(err error) int {
	switch {
	case errors.Is(err, autherrors.ErrInvalidCredentials),
		errors.Is(err, autherrors.ErrExpiredCredential),
		errors.Is(err, autherrors.ErrMalformedCredential),
		errors.Is(err, autherrors.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, autherrors.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, autherrors.ErrNotFound),
		errors.Is(err, autherrors.ErrPrincipalNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, autherrors.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		// Do not leak store internals to clients.
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// Login verifies credentials and responds with a bearer token. The
// failure body never says which of the two factors was wrong.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no data provided"})
	}

	input.ClientHost = c.IP()

	tokens, err := h.userService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherrors.ErrInvalidCredentials) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

// VerifyToken reports whether a token would currently be accepted.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	var input dto.VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no data provided"})
	}

	_, err := h.tokenService.Decode(input.Token)
	return c.Status(fiber.StatusOK).JSON(dto.VerifyResponse{Valid: err == nil})
}

// Register creates a new user. Open to unauthenticated callers.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserOutput(user))
}

// Me returns the authenticated caller's own profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller := callerFromCtx(c)
	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(caller))
}

// ListUsers returns a page of users. Admins and superusers only.
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	caller := callerFromCtx(c)
	if err := h.guard.CanListUsers(caller); err != nil {
		return errorJSON(c, err)
	}

	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	users, err := h.userService.List(c.Context(), skip, limit)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]dto.UserOutput, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserOutput(&users[i]))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// UpdateUser partially updates the target user. Callers may update
// themselves; admins and superusers may update anyone.
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	caller := callerFromCtx(c)
	if err := h.guard.CanUpdateUser(caller, targetID); err != nil {
		return errorJSON(c, err)
	}

	var input dto.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	user, err := h.userService.Update(c.Context(), targetID, input.ToDomain())
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.NewUserOutput(user))
}

// DeleteUser removes the target user. Admins and superusers only.
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	caller := callerFromCtx(c)
	if err := h.guard.CanDeleteUser(caller, targetID); err != nil {
		return errorJSON(c, err)
	}

	if err := h.userService.Delete(c.Context(), targetID); err != nil {
		return errorJSON(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func callerFromCtx(c *fiber.Ctx) *domain.User {
	return c.Locals(callerKey).(*domain.User)
}
