package handler

import (
	"github.com/gofiber/fiber/v2"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/middleware"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	table       *permission.Table
}

func NewAuthHandler(authService service.AuthService, table *permission.Table) *AuthHandler {
	return &AuthHandler{authService: authService, table: table}
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, result)
}

// Register creates a viewer account
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, user.ToResponse(), "Account created successfully")
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	user, err := h.authService.Me(a.UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, user.ToResponse())
}

// ChangePassword handles password change for the caller
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req service.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return response.Error(c, err)
	}
	if err := h.authService.ChangePassword(a.UserID, &req); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Password updated successfully")
}

// Permissions lists what the caller may do, keyed by resource
// GET /api/permissions
func (h *AuthHandler) Permissions(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return response.Error(c, apperror.Unauthenticated("Unauthorized"))
	}
	return response.OK(c, fiber.Map{
		"role":        p.Role,
		"permissions": h.table.Grants(p.Role),
	})
}
