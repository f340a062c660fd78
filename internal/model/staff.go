package model

import "github.com/google/uuid"

// Staff is a factory worker who clocks shifts. A staff record may be linked
// to a login user so that user can see their own shifts.
type Staff struct {
	BaseModel
	FullName   string     `gorm:"type:varchar(255);not null" json:"full_name" validate:"required"`
	Phone      string     `gorm:"type:varchar(20)" json:"phone"`
	WorkRoleID uuid.UUID  `gorm:"type:uuid;not null;index" json:"work_role_id" validate:"uuid_required"`
	WorkRole   *WorkRole  `gorm:"foreignKey:WorkRoleID" json:"work_role,omitempty" validate:"-"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	IsActive   bool       `gorm:"not null" json:"is_active"`
}

func (Staff) TableName() string {
	return "staff"
}
