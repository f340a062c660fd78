package model

type Supplier struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone    string `gorm:"type:varchar(20)" json:"phone"`
	Email    string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Location string `gorm:"type:varchar(255)" json:"location"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
