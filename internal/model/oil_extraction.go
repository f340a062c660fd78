package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OilExtraction logs one pressing run and its yield.
type OilExtraction struct {
	BaseModel
	FruitID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"fruit_id" validate:"uuid_required"`
	Fruit           *Fruit         `gorm:"foreignKey:FruitID" json:"fruit,omitempty" validate:"-"`
	DeliveryID      *uuid.UUID     `gorm:"type:uuid;index" json:"delivery_id,omitempty"`
	Delivery        *FruitDelivery `gorm:"foreignKey:DeliveryID" json:"delivery,omitempty" validate:"-"`
	InputWeightKg   float64        `gorm:"not null" json:"input_weight_kg" validate:"gt=0"`
	OilOutputLiters float64        `gorm:"not null" json:"oil_output_liters" validate:"gte=0"`
	YieldPercent    float64        `gorm:"not null" json:"yield_percent"`
	ExtractionDate  time.Time      `gorm:"not null;index" json:"extraction_date"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
}

func (OilExtraction) TableName() string {
	return "oil_extractions"
}

func (e *OilExtraction) ComputeYield() {
	if e.InputWeightKg <= 0 {
		e.YieldPercent = 0
		return
	}
	e.YieldPercent = round2(e.OilOutputLiters / e.InputWeightKg * 100)
}

func (e *OilExtraction) BeforeSave(tx *gorm.DB) error {
	e.ComputeYield()
	return nil
}
