package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/ws"
	"crudefi-api/pkg/validator"
)

// Actor is the authenticated caller a service acts on behalf of.
type Actor struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     permission.Role
}

// SystemActor stamps records written by seeding and CLI tools.
var SystemActor = Actor{Email: "system", FullName: "system", Role: permission.RoleAdmin}

// AuditName is the value written to created_by, updated_by and friends.
func (a Actor) AuditName() string {
	if a.UserID == uuid.Nil {
		return a.Email
	}
	return a.UserID.String()
}

// DisplayName prefers the full name.
func (a Actor) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Email
}

// Notifier pushes events to connected dashboard clients.
type Notifier interface {
	Publish(event ws.Event)
	PublishTo(userIDs []string, event ws.Event)
}

func publish(n Notifier, event ws.Event) {
	if n == nil {
		return
	}
	go n.Publish(event)
}

func publishTo(n Notifier, userIDs []string, event ws.Event) {
	if n == nil || len(userIDs) == 0 {
		return
	}
	go n.PublishTo(userIDs, event)
}

// validate runs the struct tags and reports failures as a validation error
// whose details list every failing field.
func validate(req interface{}) error {
	err := validator.Check(req)
	if err == nil {
		return nil
	}
	var verr *validator.Error
	if errors.As(err, &verr) {
		return &apperror.Error{Kind: apperror.KindValidation, Message: verr.Message, Details: verr.Fields}
	}
	return apperror.Wrap(apperror.KindValidation, err)
}

// storeError translates a repository error at the service boundary.
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Validation("a record with the same unique value already exists")
	default:
		return apperror.Internal(err)
	}
}
