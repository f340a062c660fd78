package repository

import (
	"crudefi-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffRepository interface {
	CrudRepository[model.Staff]
	FindByUserID(userID uuid.UUID) (*model.Staff, error)
	// FindForUpdate loads the staff row inside tx and locks it until tx ends.
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Staff, error)
}

type staffRepo struct {
	CrudRepository[model.Staff]
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{
		CrudRepository: NewCrudRepo[model.Staff](db, "full_name ASC", "WorkRole"),
		db:             db,
	}
}

func (r *staffRepo) FindByUserID(userID uuid.UUID) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.Preload("WorkRole").Where("user_id = ?", userID).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Staff, error) {
	var staff model.Staff
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&staff, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}
