package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FruitDelivery records fruit received from a supplier. TotalCost is always
// weight times price and is recomputed on every save.
type FruitDelivery struct {
	BaseModel
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier     *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty" validate:"-"`
	FruitID      uuid.UUID `gorm:"type:uuid;not null;index" json:"fruit_id" validate:"uuid_required"`
	Fruit        *Fruit    `gorm:"foreignKey:FruitID" json:"fruit,omitempty" validate:"-"`
	WeightKg     float64   `gorm:"not null" json:"weight_kg" validate:"gt=0"`
	PricePerKg   float64   `gorm:"not null" json:"price_per_kg" validate:"gte=0"`
	TotalCost    float64   `gorm:"not null" json:"total_cost"`
	DeliveryDate time.Time `gorm:"not null;index" json:"delivery_date"`
	ReceivedBy   string    `gorm:"type:varchar(255)" json:"received_by"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
}

func (FruitDelivery) TableName() string {
	return "fruit_deliveries"
}

func (d *FruitDelivery) ComputeTotal() {
	d.TotalCost = round2(d.WeightKg * d.PricePerKg)
}

func (d *FruitDelivery) BeforeSave(tx *gorm.DB) error {
	d.ComputeTotal()
	return nil
}
