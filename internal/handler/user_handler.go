package handler

import (
	"github.com/gofiber/fiber/v2"

	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req service.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userService.CreateUser(&req, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, user.ToResponse(), "User created successfully")
}

// GetUsers returns all users
// GET /api/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, users)
}

// GetUser returns a single user by ID
// GET /api/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	user, err := h.userService.GetUserByID(id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, user)
}

// UpdateUser handles user update
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req service.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userService.UpdateUser(id, &req, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, user.ToResponse())
}

// DeleteUser handles user deletion
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	if err := h.userService.DeleteUser(id, a); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "User deleted successfully")
}
