package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/repository"
)

type (
	SupplierService   = CrudService[model.Supplier, *model.Supplier]
	FruitService      = CrudService[model.Fruit, *model.Fruit]
	DeliveryService   = CrudService[model.FruitDelivery, *model.FruitDelivery]
	ExtractionService = CrudService[model.OilExtraction, *model.OilExtraction]
	ExpenseService    = CrudService[model.Expense, *model.Expense]
	WorkRoleService   = CrudService[model.WorkRole, *model.WorkRole]
	StaffService      = CrudService[model.Staff, *model.Staff]
)

func NewSupplierService(repo repository.CrudRepository[model.Supplier]) *SupplierService {
	return NewCrudService[model.Supplier, *model.Supplier](repo, "supplier", Hooks[model.Supplier]{}, nil)
}

func NewFruitService(repo repository.CrudRepository[model.Fruit]) *FruitService {
	return NewCrudService[model.Fruit, *model.Fruit](repo, "fruit", Hooks[model.Fruit]{
		Prepare: func(f *model.Fruit, _ bool, _ Actor) error {
			f.Name = strings.TrimSpace(f.Name)
			return nil
		},
	}, nil)
}

// NewDeliveryService checks the supplier and fruit references and prices the
// delivery at the fruit's default rate when no price is given.
func NewDeliveryService(
	repo repository.CrudRepository[model.FruitDelivery],
	suppliers repository.CrudRepository[model.Supplier],
	fruits repository.CrudRepository[model.Fruit],
	notifier Notifier,
) *DeliveryService {
	return NewCrudService[model.FruitDelivery, *model.FruitDelivery](repo, "fruit delivery", Hooks[model.FruitDelivery]{
		Event: "delivery_recorded",
		Prepare: func(d *model.FruitDelivery, creating bool, actor Actor) error {
			if err := mustExist(suppliers.Exists(d.SupplierID)); err != nil {
				return referenceError(err, "supplier not found")
			}
			fruit, err := fruits.FindByID(d.FruitID)
			if err != nil {
				return referenceError(err, "fruit not found")
			}
			if creating && d.PricePerKg == 0 {
				d.PricePerKg = fruit.DefaultPricePerKg
			}
			if d.DeliveryDate.IsZero() {
				d.DeliveryDate = time.Now()
			}
			if d.ReceivedBy == "" {
				d.ReceivedBy = actor.DisplayName()
			}
			d.ComputeTotal()
			return nil
		},
	}, notifier)
}

func NewExtractionService(
	repo repository.CrudRepository[model.OilExtraction],
	fruits repository.CrudRepository[model.Fruit],
	deliveries repository.CrudRepository[model.FruitDelivery],
	notifier Notifier,
) *ExtractionService {
	return NewCrudService[model.OilExtraction, *model.OilExtraction](repo, "oil extraction", Hooks[model.OilExtraction]{
		Event: "extraction_recorded",
		Prepare: func(e *model.OilExtraction, _ bool, _ Actor) error {
			if err := mustExist(fruits.Exists(e.FruitID)); err != nil {
				return referenceError(err, "fruit not found")
			}
			if e.DeliveryID != nil {
				if err := mustExist(deliveries.Exists(*e.DeliveryID)); err != nil {
					return referenceError(err, "fruit delivery not found")
				}
			}
			if e.ExtractionDate.IsZero() {
				e.ExtractionDate = time.Now()
			}
			e.ComputeYield()
			return nil
		},
	}, notifier)
}

func NewExpenseService(repo repository.CrudRepository[model.Expense]) *ExpenseService {
	return NewCrudService[model.Expense, *model.Expense](repo, "expense", Hooks[model.Expense]{
		Prepare: func(e *model.Expense, _ bool, _ Actor) error {
			if e.ExpenseDate.IsZero() {
				e.ExpenseDate = time.Now()
			}
			return nil
		},
	}, nil)
}

func NewWorkRoleService(repo repository.WorkRoleRepository) *WorkRoleService {
	return NewCrudService[model.WorkRole, *model.WorkRole](repo, "work role", Hooks[model.WorkRole]{
		Prepare: func(r *model.WorkRole, _ bool, _ Actor) error {
			r.Code = strings.ToLower(strings.TrimSpace(r.Code))
			if r.HourlyRate <= 0 && r.BaseDailyRate <= 0 {
				return apperror.Validation("work role needs a base_daily_rate or an hourly_rate")
			}
			return nil
		},
	}, nil)
}

func NewStaffService(repo repository.StaffRepository, roles repository.WorkRoleRepository, users repository.UserRepository) *StaffService {
	return NewCrudService[model.Staff, *model.Staff](repo, "staff", Hooks[model.Staff]{
		Defaults: func(s *model.Staff) {
			s.IsActive = true
		},
		Prepare: func(s *model.Staff, _ bool, _ Actor) error {
			if err := mustExist(roles.Exists(s.WorkRoleID)); err != nil {
				return referenceError(err, ErrWorkRoleNotFound.Error())
			}
			if s.UserID != nil {
				if _, err := users.FindByID(*s.UserID); err != nil {
					return referenceError(err, ErrUserNotFound.Error())
				}
			}
			return nil
		},
	}, nil)
}

var errMissingReference = errors.New("referenced record does not exist")

func mustExist(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return errMissingReference
	}
	return nil
}

// referenceError reports a dangling foreign key as a validation error.
func referenceError(err error, msg string) error {
	if errors.Is(err, errMissingReference) || errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Validation(msg)
	}
	return apperror.Internal(err)
}
