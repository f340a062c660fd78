package repository

import (
	"crudefi-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	Create(tx *gorm.DB, shift *model.Shift) error
	// Delete soft-deletes the shift using tx, or the repository's own handle
	// when tx is nil.
	Delete(tx *gorm.DB, id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Shift, error)
	FindAll(filter model.ShiftFilter) ([]model.Shift, error)

	// FindOpenByStaff returns the open shift of a staff member, or
	// gorm.ErrRecordNotFound when there is none.
	FindOpenByStaff(tx *gorm.DB, staffID uuid.UUID) (*model.Shift, error)

	// Close writes the closing fields only while the row is still open.
	// It reports false when another close got there first.
	Close(tx *gorm.DB, shift *model.Shift) (bool, error)
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db}
}

func (r *shiftRepo) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *shiftRepo) Create(tx *gorm.DB, shift *model.Shift) error {
	return tx.Omit("Staff").Create(shift).Error
}

func (r *shiftRepo) Delete(tx *gorm.DB, id uuid.UUID, deletedBy string) error {
	if tx == nil {
		tx = r.db
	}
	return softDelete(tx, &model.Shift{}, id, deletedBy)
}

func (r *shiftRepo) FindByID(id uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.Preload("Staff").First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) FindAll(filter model.ShiftFilter) ([]model.Shift, error) {
	var shifts []model.Shift

	query := r.db.Preload("Staff")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StaffID != nil {
		query = query.Where("staff_id = ?", *filter.StaffID)
	}
	if filter.From != nil {
		query = query.Where("login_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("login_time < ?", *filter.To)
	}

	if err := query.Order("login_time DESC").Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) FindOpenByStaff(tx *gorm.DB, staffID uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	if err := tx.Where("staff_id = ? AND status = ?", staffID, model.ShiftOpen).First(&shift).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) Close(tx *gorm.DB, shift *model.Shift) (bool, error) {
	res := tx.Model(&model.Shift{}).
		Where("id = ? AND status = ?", shift.ID, model.ShiftOpen).
		Updates(map[string]interface{}{
			"logout_time":      shift.LogoutTime,
			"actual_hours":     shift.ActualHours,
			"deduction_reason": shift.DeductionReason,
			"closed_by":        shift.ClosedBy,
			"updated_by":       shift.ClosedBy,
			"status":           model.ShiftClosed,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
