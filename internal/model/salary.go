package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// SalaryRecord is the pay derived from exactly one closed shift. Only the
// payment fields change after creation.
type SalaryRecord struct {
	BaseModel
	ShiftID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"shift_id"`
	Shift   *Shift    `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
	StaffID uuid.UUID `gorm:"type:uuid;not null;index" json:"staff_id"`
	Staff   *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`

	WorkRole   string  `gorm:"type:varchar(50);not null" json:"work_role"`
	Hours      float64 `gorm:"not null" json:"hours"`
	HourlyRate float64 `gorm:"not null" json:"hourly_rate"`
	Amount     float64 `gorm:"not null" json:"amount"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"payment_status"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	PaidBy        string        `gorm:"type:varchar(64)" json:"paid_by,omitempty"`
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}

type SalaryFilter struct {
	Status  PaymentStatus
	StaffID *uuid.UUID
}

type SalarySummary struct {
	PendingCount  int64   `json:"pending_count"`
	PendingAmount float64 `json:"pending_amount"`
	PaidCount     int64   `json:"paid_count"`
	PaidAmount    float64 `json:"paid_amount"`
}
