package service

import (
	"github.com/google/uuid"

	"crudefi-api/internal/model"
	"crudefi-api/internal/repository"
	"crudefi-api/internal/ws"
)

// EntityPtr is satisfied by *T for any model T embedding BaseModel.
type EntityPtr[T any] interface {
	*T
	model.Entity
}

// Hooks customize a CrudService. Prepare runs after tag validation and before
// the write; it may fill defaults and check references. creating is false on
// update.
type Hooks[T any] struct {
	Prepare func(item *T, creating bool, actor Actor) error
	// Event names the notification pushed after a successful create. Empty
	// disables notifications.
	Event string
	// Defaults fills a fresh item before a request body is decoded onto it,
	// so fields the body omits keep their default and explicit zero values
	// survive.
	Defaults func(item *T)
}

// CrudService implements list/get/create/update/delete for a plain entity.
type CrudService[T any, PT EntityPtr[T]] struct {
	repo     repository.CrudRepository[T]
	name     string
	hooks    Hooks[T]
	notifier Notifier
}

func NewCrudService[T any, PT EntityPtr[T]](repo repository.CrudRepository[T], name string, hooks Hooks[T], notifier Notifier) *CrudService[T, PT] {
	return &CrudService[T, PT]{repo: repo, name: name, hooks: hooks, notifier: notifier}
}

func (s *CrudService[T, PT]) notFound() string {
	return s.name + " not found"
}

// New returns an empty item with the resource defaults applied.
func (s *CrudService[T, PT]) New() *T {
	item := new(T)
	if s.hooks.Defaults != nil {
		s.hooks.Defaults(item)
	}
	return item
}

func (s *CrudService[T, PT]) List() ([]T, error) {
	items, err := s.repo.FindAll()
	if err != nil {
		return nil, storeError(err, s.notFound())
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *CrudService[T, PT]) Get(id uuid.UUID) (*T, error) {
	item, err := s.repo.FindByID(id)
	if err != nil {
		return nil, storeError(err, s.notFound())
	}
	return item, nil
}

func (s *CrudService[T, PT]) Create(item *T, actor Actor) (*T, error) {
	base := PT(item).Base()
	*base = model.BaseModel{}

	if err := s.prepare(item, true, actor); err != nil {
		return nil, err
	}
	PT(item).Stamp(actor.AuditName())

	if err := s.repo.Create(item); err != nil {
		return nil, storeError(err, s.notFound())
	}

	created, err := s.Get(base.ID)
	if err != nil {
		return nil, err
	}
	if s.hooks.Event != "" {
		publish(s.notifier, ws.Event{Type: s.hooks.Event, Action: "created", Data: created})
	}
	return created, nil
}

// Update loads the record, lets apply overwrite fields on it (typically by
// decoding a request body onto it) and saves the result. Identity and
// creation audit fields survive whatever apply does.
func (s *CrudService[T, PT]) Update(id uuid.UUID, apply func(item *T) error, actor Actor) (*T, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	original := *PT(item).Base()

	if err := apply(item); err != nil {
		return nil, err
	}
	base := PT(item).Base()
	base.ID = original.ID
	base.CreatedAt = original.CreatedAt
	base.CreatedBy = original.CreatedBy
	base.DeletedAt = original.DeletedAt
	base.DeletedBy = original.DeletedBy

	if err := s.prepare(item, false, actor); err != nil {
		return nil, err
	}
	PT(item).Stamp(actor.AuditName())

	if err := s.repo.Update(item); err != nil {
		return nil, storeError(err, s.notFound())
	}
	return s.Get(id)
}

func (s *CrudService[T, PT]) Delete(id uuid.UUID, actor Actor) error {
	return storeError(s.repo.Delete(id, actor.AuditName()), s.notFound())
}

func (s *CrudService[T, PT]) prepare(item *T, creating bool, actor Actor) error {
	if err := validate(item); err != nil {
		return err
	}
	if s.hooks.Prepare != nil {
		return s.hooks.Prepare(item, creating, actor)
	}
	return nil
}
