package model

import (
	"time"

	"gorm.io/gorm"

	"crudefi-api/internal/depreciation"
)

// Asset is factory equipment or property. BookValue is derived on every read
// from the depreciation schedule and is never written to the table.
type Asset struct {
	BaseModel
	Name               string              `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category           string              `gorm:"type:varchar(100)" json:"category"`
	Cost               float64             `gorm:"not null" json:"cost" validate:"gte=0"`
	PurchaseDate       time.Time           `gorm:"type:date;not null" json:"purchase_date" validate:"required"`
	UsefulLifeYears    int                 `gorm:"not null" json:"useful_life_years" validate:"gte=1,lte=100"`
	DepreciationMethod depreciation.Method `gorm:"type:varchar(20);not null;default:'straight-line'" json:"depreciation_method" validate:"omitempty,oneof=straight-line declining-balance"`
	SerialNumber       string              `gorm:"type:varchar(100)" json:"serial_number,omitempty"`
	Location           string              `gorm:"type:varchar(255)" json:"location,omitempty"`

	BookValue *float64 `gorm:"-" json:"book_value,omitempty"`
}

func (Asset) TableName() string {
	return "assets"
}

// DepreciationInput adapts the asset for the depreciation package.
func (a *Asset) DepreciationInput() depreciation.Input {
	method := a.DepreciationMethod
	if method == "" {
		method = depreciation.StraightLine
	}
	return depreciation.Input{
		Cost:            a.Cost,
		PurchaseDate:    a.PurchaseDate,
		UsefulLifeYears: a.UsefulLifeYears,
		Method:          method,
	}
}

// FillBookValue sets BookValue as of t. Invalid depreciation data leaves it nil.
func (a *Asset) FillBookValue(t time.Time) {
	v, err := depreciation.BookValueAt(a.DepreciationInput(), t)
	if err != nil {
		a.BookValue = nil
		return
	}
	a.BookValue = &v
}

func (a *Asset) AfterFind(tx *gorm.DB) error {
	a.FillBookValue(time.Now())
	return nil
}
