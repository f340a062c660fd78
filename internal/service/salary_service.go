package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/payroll"
	"crudefi-api/internal/repository"
	"crudefi-api/internal/ws"
)

var (
	ErrSalaryNotFound      = errors.New("salary record not found")
	ErrSalaryAlreadyPaid   = errors.New("salary already paid")
	ErrSalaryExists        = errors.New("salary already exists for this shift")
	ErrShiftStillOpen      = errors.New("shift is still open")
	ErrPaidSalaryImmutable = errors.New("paid salary records cannot be deleted")
)

type SalaryService interface {
	CreateForShift(req *CreateSalaryRequest, actor Actor) (*model.SalaryRecord, error)
	MarkPaid(id uuid.UUID, actor Actor) (*model.SalaryRecord, error)
	GetSalaries(filter model.SalaryFilter) ([]model.SalaryRecord, error)
	GetSalaryByID(id uuid.UUID) (*model.SalaryRecord, error)
	DeleteSalary(id uuid.UUID, actor Actor) error
	Summary() (*model.SalarySummary, error)
}

type CreateSalaryRequest struct {
	ShiftID uuid.UUID `json:"shift_id" validate:"uuid_required"`
}

type salaryService struct {
	salaryRepo   repository.SalaryRepository
	shiftRepo    repository.ShiftRepository
	workRoleRepo repository.WorkRoleRepository
	notifier     Notifier
	now          func() time.Time
}

func NewSalaryService(
	salaryRepo repository.SalaryRepository,
	shiftRepo repository.ShiftRepository,
	workRoleRepo repository.WorkRoleRepository,
	notifier Notifier,
) SalaryService {
	return &salaryService{
		salaryRepo:   salaryRepo,
		shiftRepo:    shiftRepo,
		workRoleRepo: workRoleRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

// newSalaryRecord derives the pay for a closed shift.
func newSalaryRecord(shift *model.Shift, rate float64, actor Actor) *model.SalaryRecord {
	hours := 0.0
	if shift.ActualHours != nil {
		hours = *shift.ActualHours
	}
	record := &model.SalaryRecord{
		ShiftID:       shift.ID,
		StaffID:       shift.StaffID,
		WorkRole:      shift.WorkRole,
		Hours:         hours,
		HourlyRate:    rate,
		Amount:        payroll.SalaryAmount(hours, rate),
		PaymentStatus: model.PaymentPending,
	}
	record.Stamp(actor.AuditName())
	return record
}

func (s *salaryService) CreateForShift(req *CreateSalaryRequest, actor Actor) (*model.SalaryRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	shift, err := s.shiftRepo.FindByID(req.ShiftID)
	if err != nil {
		return nil, storeError(err, ErrShiftNotFound.Error())
	}
	if shift.IsOpen() || shift.ActualHours == nil {
		return nil, apperror.Wrap(apperror.KindValidation, ErrShiftStillOpen)
	}

	if _, err := s.salaryRepo.FindByShiftID(nil, shift.ID); err == nil {
		return nil, apperror.Wrap(apperror.KindValidation, ErrSalaryExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal(err)
	}

	role, err := s.workRoleRepo.FindByID(shift.WorkRoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindValidation, ErrWorkRoleNotFound)
		}
		return nil, apperror.Internal(err)
	}
	rate, err := payroll.EffectiveHourlyRate(role.HourlyRate, role.BaseDailyRate)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, err)
	}

	record := newSalaryRecord(shift, rate, actor)
	if err := s.salaryRepo.Create(nil, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.KindValidation, ErrSalaryExists)
		}
		return nil, apperror.Internal(err)
	}

	created, err := s.salaryRepo.FindByID(record.ID)
	if err != nil {
		return nil, storeError(err, ErrSalaryNotFound.Error())
	}
	s.notify(created, "salary_created")
	return created, nil
}

func (s *salaryService) MarkPaid(id uuid.UUID, actor Actor) (*model.SalaryRecord, error) {
	record, err := s.salaryRepo.FindByID(id)
	if err != nil {
		return nil, storeError(err, ErrSalaryNotFound.Error())
	}
	if record.PaymentStatus == model.PaymentPaid {
		return nil, apperror.Wrap(apperror.KindValidation, ErrSalaryAlreadyPaid)
	}

	paid, err := s.salaryRepo.MarkPaid(id, actor.AuditName(), s.now())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !paid {
		return nil, apperror.Wrap(apperror.KindValidation, ErrSalaryAlreadyPaid)
	}

	updated, err := s.salaryRepo.FindByID(id)
	if err != nil {
		return nil, storeError(err, ErrSalaryNotFound.Error())
	}
	s.notify(updated, "salary_paid")
	return updated, nil
}

func (s *salaryService) GetSalaries(filter model.SalaryFilter) ([]model.SalaryRecord, error) {
	records, err := s.salaryRepo.FindAll(filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return records, nil
}

func (s *salaryService) GetSalaryByID(id uuid.UUID) (*model.SalaryRecord, error) {
	record, err := s.salaryRepo.FindByID(id)
	if err != nil {
		return nil, storeError(err, ErrSalaryNotFound.Error())
	}
	return record, nil
}

func (s *salaryService) DeleteSalary(id uuid.UUID, actor Actor) error {
	record, err := s.salaryRepo.FindByID(id)
	if err != nil {
		return storeError(err, ErrSalaryNotFound.Error())
	}
	if record.PaymentStatus == model.PaymentPaid {
		return apperror.Wrap(apperror.KindValidation, ErrPaidSalaryImmutable)
	}

	deleted, err := s.salaryRepo.DeletePending(nil, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if !deleted {
		return apperror.Wrap(apperror.KindValidation, ErrPaidSalaryImmutable)
	}
	s.notify(record, "salary_deleted")
	return nil
}

func (s *salaryService) Summary() (*model.SalarySummary, error) {
	summary, err := s.salaryRepo.Summary()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return summary, nil
}

func (s *salaryService) notify(record *model.SalaryRecord, action string) {
	publish(s.notifier, ws.Event{
		Type:    "salary_notification",
		Action:  action,
		Message: fmt.Sprintf("Salary %s: %.2f for %.2f hours", record.PaymentStatus, record.Amount, record.Hours),
		Data:    record,
	})
}
