// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"crudefi-api/internal/apperror"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data, Message: message})
}

func Message(c *fiber.Ctx, message string) error {
	return c.JSON(Envelope{Success: true, Message: message})
}

// Error maps err to its status code. Errors without a kind are internal: they
// are logged and the client only sees a generic message.
func Error(c *fiber.Ctx, err error) error {
	kind := apperror.KindOf(err)

	body := Envelope{Success: false, Code: kind.String()}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Details = appErr.Details
	}

	if kind == apperror.KindInternal {
		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": RequestID(c),
		}).WithError(err).Error("request failed")
		body.Message = "Internal server error"
		body.Details = nil
	} else {
		body.Message = err.Error()
	}

	return c.Status(kind.Status()).JSON(body)
}

// RequestID returns the id assigned by the requestid middleware, if any.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
