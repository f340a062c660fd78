package model

import "time"

type Expense struct {
	BaseModel
	Category    string    `gorm:"type:varchar(100);not null;index" json:"category" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount" validate:"gt=0"`
	ExpenseDate time.Time `gorm:"type:date;not null;index" json:"expense_date"`
	PaidTo      string    `gorm:"type:varchar(255)" json:"paid_to"`
}

func (Expense) TableName() string {
	return "expenses"
}
