package handler

import (
	"github.com/gofiber/fiber/v2"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
)

type SalaryHandler struct {
	salaryService service.SalaryService
}

func NewSalaryHandler(salaryService service.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaryService: salaryService}
}

// GetSalaries lists salary records, filtered by ?status=&staff_id=
// GET /api/salary
func (h *SalaryHandler) GetSalaries(c *fiber.Ctx) error {
	var filter model.SalaryFilter
	switch status := model.PaymentStatus(c.Query("status")); status {
	case "", model.PaymentPending, model.PaymentPaid:
		filter.Status = status
	default:
		return response.Error(c, apperror.Validation("status must be pending or paid"))
	}
	staffID, err := queryID(c, "staff_id")
	if err != nil {
		return response.Error(c, err)
	}
	filter.StaffID = staffID

	records, err := h.salaryService.GetSalaries(filter)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, records)
}

// GET /api/salary/summary
func (h *SalaryHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.salaryService.Summary()
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, summary)
}

// GET /api/salary/:id
func (h *SalaryHandler) GetSalary(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	record, err := h.salaryService.GetSalaryByID(id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, record)
}

// CreateSalary derives the salary of a closed shift that has none
// POST /api/salary
func (h *SalaryHandler) CreateSalary(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req service.CreateSalaryRequest
	if err := parseBody(c, &req); err != nil {
		return response.Error(c, err)
	}

	record, err := h.salaryService.CreateForShift(&req, a)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, record, "Salary record created successfully")
}

// MarkPaid flips a pending record to paid
// PUT /api/salary/:id/pay
func (h *SalaryHandler) MarkPaid(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	record, err := h.salaryService.MarkPaid(id, a)
	if err != nil {
		return response.Error(c, err)
	}
	return c.JSON(response.Envelope{Success: true, Data: record, Message: "Salary marked as paid"})
}

// DELETE /api/salary/:id
func (h *SalaryHandler) DeleteSalary(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.Error(c, err)
	}
	if err := h.salaryService.DeleteSalary(id, a); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Salary record deleted successfully")
}
