package repository

import (
	"errors"

	"crudefi-api/internal/model"

	"gorm.io/gorm"
)

type WorkRoleRepository interface {
	CrudRepository[model.WorkRole]
	FindByCode(code string) (*model.WorkRole, error)
	SeedDefaults(roles []model.WorkRole) (int, error)
}

type workRoleRepo struct {
	CrudRepository[model.WorkRole]
	db *gorm.DB
}

func NewWorkRoleRepo(db *gorm.DB) WorkRoleRepository {
	return &workRoleRepo{
		CrudRepository: NewCrudRepo[model.WorkRole](db, "code ASC"),
		db:             db,
	}
}

func (r *workRoleRepo) FindByCode(code string) (*model.WorkRole, error) {
	var role model.WorkRole
	if err := r.db.Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// SeedDefaults inserts the roles whose code is not present yet and returns how
// many were created.
func (r *workRoleRepo) SeedDefaults(roles []model.WorkRole) (int, error) {
	created := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, role := range roles {
			var existing model.WorkRole
			err := tx.Where("code = ?", role.Code).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			role := role
			role.CreatedBy = "system"
			role.UpdatedBy = "system"
			if err := tx.Create(&role).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}
