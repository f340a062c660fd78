package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/payroll"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/repository"
	"crudefi-api/internal/ws"
)

var (
	ErrShiftNotFound         = errors.New("shift not found")
	ErrStaffNotFound         = errors.New("staff not found")
	ErrStaffInactive         = errors.New("cannot open a shift for an inactive staff member")
	ErrWorkRoleNotFound      = errors.New("work role not found")
	ErrShiftAlreadyOpen      = errors.New("staff member already has an open shift")
	ErrShiftAlreadyClosed    = errors.New("shift already closed")
	ErrUnauthorizedShiftView = errors.New("you can only view your own shifts")
	ErrShiftSalaryPaid       = errors.New("shift has a paid salary and cannot be deleted")
)

type ShiftService interface {
	OpenShift(req *OpenShiftRequest, actor Actor) (*model.Shift, error)
	CloseShift(shiftID uuid.UUID, req *CloseShiftRequest, actor Actor) (*model.Shift, error)
	DeleteShift(shiftID uuid.UUID, actor Actor) error
	GetShiftByID(id uuid.UUID, actor Actor) (*model.ShiftResponse, error)
	GetShifts(filter model.ShiftFilter, actor Actor) ([]model.ShiftResponse, error)
	GetShiftsByStaff(staffID uuid.UUID, actor Actor) ([]model.ShiftResponse, error)
}

type OpenShiftRequest struct {
	StaffID   uuid.UUID  `json:"staff_id" validate:"uuid_required"`
	WorkRole  string     `json:"work_role" validate:"omitempty,max=50"`
	LoginTime *time.Time `json:"login_time"`
}

type CloseShiftRequest struct {
	LogoutTime      *time.Time `json:"logout_time"`
	DeductionReason string     `json:"deduction_reason" validate:"max=1000"`
}

type shiftService struct {
	shiftRepo    repository.ShiftRepository
	staffRepo    repository.StaffRepository
	workRoleRepo repository.WorkRoleRepository
	salaryRepo   repository.SalaryRepository
	notifier     Notifier
	now          func() time.Time
}

func NewShiftService(
	shiftRepo repository.ShiftRepository,
	staffRepo repository.StaffRepository,
	workRoleRepo repository.WorkRoleRepository,
	salaryRepo repository.SalaryRepository,
	notifier Notifier,
) ShiftService {
	return &shiftService{
		shiftRepo:    shiftRepo,
		staffRepo:    staffRepo,
		workRoleRepo: workRoleRepo,
		salaryRepo:   salaryRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *shiftService) OpenShift(req *OpenShiftRequest, actor Actor) (*model.Shift, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Staff must exist and be active
	staff, err := s.staffRepo.FindByID(req.StaffID)
	if err != nil {
		return nil, storeError(err, ErrStaffNotFound.Error())
	}
	if !staff.IsActive {
		return nil, apperror.Wrap(apperror.KindValidation, ErrStaffInactive)
	}

	// 3. Resolve the work role, falling back to the staff member's own
	role, err := s.resolveWorkRole(req.WorkRole, staff)
	if err != nil {
		return nil, err
	}

	loginTime := s.now()
	if req.LoginTime != nil {
		loginTime = *req.LoginTime
	}

	shift := &model.Shift{
		StaffID:    staff.ID,
		WorkRoleID: role.ID,
		WorkRole:   role.Code,
		LoginTime:  loginTime,
		Status:     model.ShiftOpen,
		OpenedBy:   actor.AuditName(),
	}
	shift.Stamp(actor.AuditName())

	// 4. Lock the staff row so two managers cannot open shifts side by side
	err = s.shiftRepo.Transaction(func(tx *gorm.DB) error {
		if _, err := s.staffRepo.FindForUpdate(tx, staff.ID); err != nil {
			return err
		}
		if _, err := s.shiftRepo.FindOpenByStaff(tx, staff.ID); err == nil {
			return apperror.Wrap(apperror.KindValidation, ErrShiftAlreadyOpen)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.shiftRepo.Create(tx, shift)
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindValidation {
			return nil, err
		}
		return nil, storeError(err, ErrStaffNotFound.Error())
	}

	created, err := s.shiftRepo.FindByID(shift.ID)
	if err != nil {
		return nil, storeError(err, ErrShiftNotFound.Error())
	}

	go s.notifyShift(created, "shift_opened",
		fmt.Sprintf("%s clocked in as %s", staffName(created), created.WorkRole))

	return created, nil
}

func (s *shiftService) resolveWorkRole(code string, staff *model.Staff) (*model.WorkRole, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		role, err := s.workRoleRepo.FindByID(staff.WorkRoleID)
		if err != nil {
			return nil, s.workRoleError(err)
		}
		return role, nil
	}
	role, err := s.workRoleRepo.FindByCode(code)
	if err != nil {
		return nil, s.workRoleError(err)
	}
	return role, nil
}

func (s *shiftService) workRoleError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(apperror.KindValidation, ErrWorkRoleNotFound)
	}
	return apperror.Internal(err)
}

func (s *shiftService) CloseShift(shiftID uuid.UUID, req *CloseShiftRequest, actor Actor) (*model.Shift, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Find the open shift
	shift, err := s.shiftRepo.FindByID(shiftID)
	if err != nil {
		return nil, storeError(err, ErrShiftNotFound.Error())
	}
	if !shift.IsOpen() {
		return nil, apperror.Wrap(apperror.KindValidation, ErrShiftAlreadyClosed)
	}

	// 3. Worked hours with break deduction, cap and minimum
	logout := s.now()
	if req.LogoutTime != nil {
		logout = *req.LogoutTime
	}
	hours, err := payroll.ComputeShiftHours(shift.LoginTime, logout)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, err)
	}
	reason := strings.TrimSpace(req.DeductionReason)
	if err := hours.CheckDeductionReason(reason); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, err)
	}

	// 4. Pay rate of the work role the shift was opened with
	role, err := s.workRoleRepo.FindByID(shift.WorkRoleID)
	if err != nil {
		return nil, s.workRoleError(err)
	}
	rate, err := payroll.EffectiveHourlyRate(role.HourlyRate, role.BaseDailyRate)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, err)
	}

	actual := hours.AdjustedHours
	shift.LogoutTime = &logout
	shift.ActualHours = &actual
	shift.DeductionReason = reason
	shift.ClosedBy = actor.AuditName()

	// 5. Close and derive the salary together
	err = s.shiftRepo.Transaction(func(tx *gorm.DB) error {
		closed, err := s.shiftRepo.Close(tx, shift)
		if err != nil {
			return err
		}
		if !closed {
			return apperror.Wrap(apperror.KindValidation, ErrShiftAlreadyClosed)
		}
		return s.salaryRepo.Create(tx, newSalaryRecord(shift, rate, actor))
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindValidation {
			return nil, err
		}
		return nil, storeError(err, ErrShiftNotFound.Error())
	}

	closed, err := s.shiftRepo.FindByID(shift.ID)
	if err != nil {
		return nil, storeError(err, ErrShiftNotFound.Error())
	}

	go s.notifyShift(closed, "shift_closed",
		fmt.Sprintf("%s clocked out after %.2f paid hours", staffName(closed), actual))

	return closed, nil
}

func (s *shiftService) DeleteShift(shiftID uuid.UUID, actor Actor) error {
	shift, err := s.shiftRepo.FindByID(shiftID)
	if err != nil {
		return storeError(err, ErrShiftNotFound.Error())
	}

	// A pending salary goes with its shift. A paid one pins the shift.
	err = s.shiftRepo.Transaction(func(tx *gorm.DB) error {
		record, err := s.salaryRepo.FindByShiftID(tx, shiftID)
		switch {
		case err == nil:
			deleted, err := s.salaryRepo.DeletePending(tx, record.ID)
			if err != nil {
				return err
			}
			if !deleted {
				return apperror.Wrap(apperror.KindValidation, ErrShiftSalaryPaid)
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return s.shiftRepo.Delete(tx, shiftID, actor.AuditName())
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindValidation {
			return err
		}
		return storeError(err, ErrShiftNotFound.Error())
	}

	go s.notifyShift(shift, "shift_deleted", fmt.Sprintf("Shift of %s was deleted", staffName(shift)))
	return nil
}

func (s *shiftService) GetShiftByID(id uuid.UUID, actor Actor) (*model.ShiftResponse, error) {
	shift, err := s.shiftRepo.FindByID(id)
	if err != nil {
		return nil, storeError(err, ErrShiftNotFound.Error())
	}

	if actor.Role == permission.RoleStaff {
		own, err := s.ownStaffID(actor)
		if err != nil {
			return nil, err
		}
		if own == nil || *own != shift.StaffID {
			return nil, apperror.Wrap(apperror.KindForbidden, ErrUnauthorizedShiftView)
		}
	}

	response := shift.ToResponse()
	return &response, nil
}

func (s *shiftService) GetShifts(filter model.ShiftFilter, actor Actor) ([]model.ShiftResponse, error) {
	if actor.Role == permission.RoleStaff {
		own, err := s.ownStaffID(actor)
		if err != nil {
			return nil, err
		}
		if own == nil {
			return []model.ShiftResponse{}, nil
		}
		filter.StaffID = own
	}

	shifts, err := s.shiftRepo.FindAll(filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return toShiftResponses(shifts), nil
}

func (s *shiftService) GetShiftsByStaff(staffID uuid.UUID, actor Actor) ([]model.ShiftResponse, error) {
	if actor.Role == permission.RoleStaff {
		own, err := s.ownStaffID(actor)
		if err != nil {
			return nil, err
		}
		if own == nil || *own != staffID {
			return nil, apperror.Wrap(apperror.KindForbidden, ErrUnauthorizedShiftView)
		}
	}

	if _, err := s.staffRepo.FindByID(staffID); err != nil {
		return nil, storeError(err, ErrStaffNotFound.Error())
	}

	shifts, err := s.shiftRepo.FindAll(model.ShiftFilter{StaffID: &staffID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return toShiftResponses(shifts), nil
}

// ownStaffID returns the staff record linked to the actor's user, or nil.
func (s *shiftService) ownStaffID(actor Actor) (*uuid.UUID, error) {
	staff, err := s.staffRepo.FindByUserID(actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &staff.ID, nil
}

func toShiftResponses(shifts []model.Shift) []model.ShiftResponse {
	responses := make([]model.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		responses = append(responses, shifts[i].ToResponse())
	}
	return responses
}

func staffName(shift *model.Shift) string {
	if shift.Staff != nil {
		return shift.Staff.FullName
	}
	return shift.StaffID.String()
}

// notifyShift tells every dashboard about the change and the staff member's
// own login, when one is linked.
func (s *shiftService) notifyShift(shift *model.Shift, action, message string) {
	if s.notifier == nil {
		return
	}
	event := ws.Event{
		Type:    "shift_notification",
		Action:  action,
		Message: message,
		Data:    shift.ToResponse(),
	}
	s.notifier.Publish(event)

	if shift.Staff != nil && shift.Staff.UserID != nil {
		s.notifier.PublishTo([]string{shift.Staff.UserID.String()}, ws.Event{
			Type:    "my_shift",
			Action:  action,
			Message: message,
			Data:    shift.ToResponse(),
		})
	}
}
