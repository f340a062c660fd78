package repository

import (
	"time"

	"crudefi-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalaryRepository interface {
	Create(tx *gorm.DB, record *model.SalaryRecord) error
	FindByID(id uuid.UUID) (*model.SalaryRecord, error)
	FindByShiftID(tx *gorm.DB, shiftID uuid.UUID) (*model.SalaryRecord, error)
	FindAll(filter model.SalaryFilter) ([]model.SalaryRecord, error)
	// MarkPaid flips a pending record to paid. It reports false when the
	// record was not pending.
	MarkPaid(id uuid.UUID, paidBy string, at time.Time) (bool, error)
	// DeletePending removes a record only while it is pending. tx may be nil.
	DeletePending(tx *gorm.DB, id uuid.UUID) (bool, error)
	Summary() (*model.SalarySummary, error)
}

type salaryRepo struct {
	db *gorm.DB
}

func NewSalaryRepo(db *gorm.DB) SalaryRepository {
	return &salaryRepo{db}
}

// Create inserts record using tx, or the repository's own handle when tx is nil.
func (r *salaryRepo) Create(tx *gorm.DB, record *model.SalaryRecord) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Omit("Shift", "Staff").Create(record).Error
}

func (r *salaryRepo) FindByID(id uuid.UUID) (*model.SalaryRecord, error) {
	var record model.SalaryRecord
	if err := r.db.Preload("Staff").First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *salaryRepo) FindByShiftID(tx *gorm.DB, shiftID uuid.UUID) (*model.SalaryRecord, error) {
	if tx == nil {
		tx = r.db
	}
	var record model.SalaryRecord
	if err := tx.Where("shift_id = ?", shiftID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *salaryRepo) FindAll(filter model.SalaryFilter) ([]model.SalaryRecord, error) {
	var records []model.SalaryRecord

	query := r.db.Preload("Staff")
	if filter.Status != "" {
		query = query.Where("payment_status = ?", filter.Status)
	}
	if filter.StaffID != nil {
		query = query.Where("staff_id = ?", *filter.StaffID)
	}

	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *salaryRepo) MarkPaid(id uuid.UUID, paidBy string, at time.Time) (bool, error) {
	res := r.db.Model(&model.SalaryRecord{}).
		Where("id = ? AND payment_status = ?", id, model.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentPaid,
			"paid_at":        at,
			"paid_by":        paidBy,
			"updated_by":     paidBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeletePending hard-deletes so the shift can be derived again.
func (r *salaryRepo) DeletePending(tx *gorm.DB, id uuid.UUID) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.Unscoped().
		Where("id = ? AND payment_status = ?", id, model.PaymentPending).
		Delete(&model.SalaryRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *salaryRepo) Summary() (*model.SalarySummary, error) {
	var rows []struct {
		PaymentStatus model.PaymentStatus
		Count         int64
		Total         float64
	}
	err := r.db.Model(&model.SalaryRecord{}).
		Select("payment_status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &model.SalarySummary{}
	for _, row := range rows {
		switch row.PaymentStatus {
		case model.PaymentPending:
			summary.PendingCount = row.Count
			summary.PendingAmount = row.Total
		case model.PaymentPaid:
			summary.PaidCount = row.Count
			summary.PaidAmount = row.Total
		}
	}
	return summary, nil
}
