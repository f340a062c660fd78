package model

type Fruit struct {
	BaseModel
	Name              string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	Description       string  `gorm:"type:text" json:"description"`
	DefaultPricePerKg float64 `gorm:"not null;default:0" json:"default_price_per_kg" validate:"gte=0"`
}

func (Fruit) TableName() string {
	return "fruits"
}
