package handler

import (
	"github.com/gofiber/fiber/v2"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
)

type ShiftHandler struct {
	shiftService service.ShiftService
}

func NewShiftHandler(shiftService service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// OpenShift clocks a staff member in
// POST /api/shifts/open (alias: POST /api/shifts)
func (h *ShiftHandler) OpenShift(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req service.OpenShiftRequest
	if err := parseBody(c, &req); err != nil {
		return response.Error(c, err)
	}

	shift, err := h.shiftService.OpenShift(&req, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, shift.ToResponse(), "Shift opened successfully")
}

// CloseShift clocks a staff member out and derives the salary
// POST /api/shifts/:id/close (alias: PUT /api/shifts/:id)
func (h *ShiftHandler) CloseShift(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	var req service.CloseShiftRequest
	if err := parseBody(c, &req); err != nil {
		return response.Error(c, err)
	}

	shift, err := h.shiftService.CloseShift(id, &req, a)
	if err != nil {
		return response.Error(c, err)
	}
	return c.JSON(response.Envelope{Success: true, Data: shift.ToResponse(), Message: "Shift closed successfully"})
}

// GetShifts lists shifts, filtered by ?status=&staff_id=&from=&to=
// GET /api/shifts
func (h *ShiftHandler) GetShifts(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}

	var filter model.ShiftFilter
	switch status := model.ShiftStatus(c.Query("status")); status {
	case "", model.ShiftOpen, model.ShiftClosed:
		filter.Status = status
	default:
		return response.Error(c, apperror.Validation("status must be open or closed"))
	}
	if filter.StaffID, err = queryID(c, "staff_id"); err != nil {
		return response.Error(c, err)
	}
	if filter.From, err = queryTime(c, "from"); err != nil {
		return response.Error(c, err)
	}
	if filter.To, err = queryUntil(c, "to"); err != nil {
		return response.Error(c, err)
	}

	shifts, err := h.shiftService.GetShifts(filter, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, shifts)
}

// GetOpenShifts lists shifts still in progress
// GET /api/shifts/open
func (h *ShiftHandler) GetOpenShifts(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	shifts, err := h.shiftService.GetShifts(model.ShiftFilter{Status: model.ShiftOpen}, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, shifts)
}

// GetShift returns a single shift
// GET /api/shifts/:id
func (h *ShiftHandler) GetShift(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	shift, err := h.shiftService.GetShiftByID(id, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, shift)
}

// GetStaffShifts lists one staff member's shifts
// GET /api/shifts/staff/:staff_id
func (h *ShiftHandler) GetStaffShifts(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	staffID, err := paramID(c, "staff_id")
	if err != nil {
		return response.Error(c, err)
	}

	shifts, err := h.shiftService.GetShiftsByStaff(staffID, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, shifts)
}

// DeleteShift soft-deletes a shift
// DELETE /api/shifts/:id
func (h *ShiftHandler) DeleteShift(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.shiftService.DeleteShift(id, a); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Shift deleted successfully")
}
