package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/middleware"
	"crudefi-api/internal/service"
)

// parseBody decodes the JSON body into out. An empty body leaves out as is.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Invalid JSON")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Newf(apperror.KindValidation, "Invalid %s", name)
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Newf(apperror.KindValidation, "Invalid %s", name)
	}
	return &id, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	t, _, err := parseQueryTime(c, name)
	return t, err
}

// queryUntil is queryTime for exclusive upper bounds: a plain date covers the
// whole of that day.
func queryUntil(c *fiber.Ctx, name string) (*time.Time, error) {
	t, dateOnly, err := parseQueryTime(c, name)
	if t != nil && dateOnly {
		next := t.AddDate(0, 0, 1)
		t = &next
	}
	return t, err
}

func parseQueryTime(c *fiber.Ctx, name string) (*time.Time, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, false, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true, nil
	}
	return nil, false, apperror.Newf(apperror.KindValidation, "Invalid %s, use YYYY-MM-DD or RFC 3339", name)
}

// actor returns the caller set by RequireAuth.
func actor(c *fiber.Ctx) (service.Actor, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return service.Actor{}, apperror.Unauthenticated("Unauthorized")
	}
	return p.Actor(), nil
}
