package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CrudRepository covers the plain list/get/create/update/delete entities.
type CrudRepository[T any] interface {
	Create(item *T) error
	Update(item *T) error
	FindByID(id uuid.UUID) (*T, error)
	FindAll() ([]T, error)
	Delete(id uuid.UUID, deletedBy string) error
	Exists(id uuid.UUID) (bool, error)
}

type crudRepo[T any] struct {
	db       *gorm.DB
	order    string
	preloads []string
}

// NewCrudRepo builds a repository for T. Listings are sorted by order and the
// named associations are preloaded on every read.
func NewCrudRepo[T any](db *gorm.DB, order string, preloads ...string) CrudRepository[T] {
	if order == "" {
		order = "created_at DESC"
	}
	return &crudRepo[T]{db: db, order: order, preloads: preloads}
}

func (r *crudRepo[T]) query() *gorm.DB {
	q := r.db
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

// Create inserts item only. Nested associations are never written through it.
func (r *crudRepo[T]) Create(item *T) error {
	return r.db.Omit(clause.Associations).Create(item).Error
}

func (r *crudRepo[T]) Update(item *T) error {
	return r.db.Omit(clause.Associations).Save(item).Error
}

func (r *crudRepo[T]) FindByID(id uuid.UUID) (*T, error) {
	var item T
	if err := r.query().First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *crudRepo[T]) FindAll() ([]T, error) {
	var items []T
	if err := r.query().Order(r.order).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Delete soft-deletes the row and records who did it.
func (r *crudRepo[T]) Delete(id uuid.UUID, deletedBy string) error {
	return softDelete(r.db, new(T), id, deletedBy)
}

func (r *crudRepo[T]) Exists(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func softDelete(db *gorm.DB, model interface{}, id uuid.UUID, deletedBy string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(model).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(model, "id = ?", id).Error
	})
}
