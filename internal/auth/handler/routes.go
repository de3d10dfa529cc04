package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	v1 := app.Group("/api/v1")

	// Authentication
	v1.Post("/token", h.Login)
	v1.Post("/token/verify", h.VerifyToken)

	// Users
	users := v1.Group("/users")
	users.Post("/register", h.Register)
	users.Get("/me", h.RequireAuth, h.Me)
	users.Get("/list", h.RequireAuth, h.ListUsers)
	users.Patch("/update/:id", h.RequireAuth, h.UpdateUser)
	users.Delete("/delete/:id", h.RequireAuth, h.DeleteUser)
}
