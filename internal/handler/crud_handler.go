package handler

import (
	"github.com/gofiber/fiber/v2"

	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
)

// CrudHandler serves list/get/create/update/delete for one resource.
type CrudHandler[T any, PT service.EntityPtr[T]] struct {
	svc   *service.CrudService[T, PT]
	label string
}

// NewCrudHandler builds a handler. label is used in response messages,
// e.g. "Supplier".
func NewCrudHandler[T any, PT service.EntityPtr[T]](svc *service.CrudService[T, PT], label string) *CrudHandler[T, PT] {
	return &CrudHandler[T, PT]{svc: svc, label: label}
}

func (h *CrudHandler[T, PT]) List(c *fiber.Ctx) error {
	items, err := h.svc.List()
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, items)
}

func (h *CrudHandler[T, PT]) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	item, err := h.svc.Get(id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, item)
}

func (h *CrudHandler[T, PT]) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	item := h.svc.New()
	if err := parseBody(c, item); err != nil {
		return response.Error(c, err)
	}

	created, err := h.svc.Create(item, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, created, h.label+" created successfully")
}

// Update applies the fields present in the body on top of the stored record.
func (h *CrudHandler[T, PT]) Update(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	updated, err := h.svc.Update(id, func(item *T) error {
		return parseBody(c, item)
	}, a)
	if err != nil {
		return response.Error(c, err)
	}
	return c.JSON(response.Envelope{Success: true, Data: updated, Message: h.label + " updated successfully"})
}

func (h *CrudHandler[T, PT]) Delete(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	if err := h.svc.Delete(id, a); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, h.label+" deleted successfully")
}
