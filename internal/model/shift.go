package model

import (
	"time"

	"github.com/google/uuid"
)

// ShiftStatus is the lifecycle state of a shift. Closed is terminal.
type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// Shift is one staff member's work period, opened by a manager at login and
// closed once at logout.
type Shift struct {
	BaseModel
	StaffID uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_id"`
	Staff   *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`

	WorkRoleID uuid.UUID `gorm:"type:uuid;not null" json:"work_role_id"`
	WorkRole   string    `gorm:"type:varchar(50);not null" json:"work_role"`

	LoginTime  time.Time   `gorm:"not null;index" json:"login_time"`
	LogoutTime *time.Time  `json:"logout_time"`
	Status     ShiftStatus `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`

	// Set once by the close operation and never recomputed.
	ActualHours     *float64 `json:"actual_hours"`
	DeductionReason string   `gorm:"type:text" json:"deduction_reason,omitempty"`

	OpenedBy string `gorm:"type:varchar(64);not null" json:"opened_by"`
	ClosedBy string `gorm:"type:varchar(64)" json:"closed_by,omitempty"`
}

// TableName specifies the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

func (s *Shift) IsOpen() bool { return s.Status == ShiftOpen }

// ShiftResponse for API responses
type ShiftResponse struct {
	ID              uuid.UUID   `json:"id"`
	StaffID         uuid.UUID   `json:"staff_id"`
	StaffName       string      `json:"staff_name,omitempty"`
	WorkRole        string      `json:"work_role"`
	LoginTime       time.Time   `json:"login_time"`
	LogoutTime      *time.Time  `json:"logout_time"`
	Status          ShiftStatus `json:"status"`
	ActualHours     *float64    `json:"actual_hours"`
	DeductionReason string      `json:"deduction_reason,omitempty"`
	OpenedBy        string      `json:"opened_by"`
	ClosedBy        string      `json:"closed_by,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ToResponse converts Shift to ShiftResponse
func (s *Shift) ToResponse() ShiftResponse {
	response := ShiftResponse{
		ID:              s.ID,
		StaffID:         s.StaffID,
		WorkRole:        s.WorkRole,
		LoginTime:       s.LoginTime,
		LogoutTime:      s.LogoutTime,
		Status:          s.Status,
		ActualHours:     s.ActualHours,
		DeductionReason: s.DeductionReason,
		OpenedBy:        s.OpenedBy,
		ClosedBy:        s.ClosedBy,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}

	if s.Staff != nil {
		response.StaffName = s.Staff.FullName
	}

	return response
}

// ShiftFilter narrows shift listings.
type ShiftFilter struct {
	Status  ShiftStatus
	StaffID *uuid.UUID
	From    *time.Time
	To      *time.Time
}
