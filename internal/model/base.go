package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and standard Audit Trails
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // Soft Delete support

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(64)" json:"created_by"`
	UpdatedBy string `gorm:"type:varchar(64)" json:"updated_by"`
	DeletedBy string `gorm:"type:varchar(64)" json:"-"`
}

// BeforeCreate generates the UUID unless the caller already set one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// Stamp sets the audit fields for a create (when ID is nil) or an update.
func (base *BaseModel) Stamp(actor string) {
	if base.ID == uuid.Nil && base.CreatedBy == "" {
		base.CreatedBy = actor
	}
	base.UpdatedBy = actor
}

// Auditable is implemented by every model embedding BaseModel.
type Auditable interface {
	Stamp(actor string)
}

// Base gives generic code access to the embedded BaseModel.
func (base *BaseModel) Base() *BaseModel { return base }

// Entity is satisfied by a pointer to any model embedding BaseModel.
type Entity interface {
	Auditable
	Base() *BaseModel
}
