// Package postgres implements the store interfaces on GORM and PostgreSQL.
// Soft-deleted rows are hidden by the gorm soft_delete plugin.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps GORM errors onto the store sentinels.
func translate(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("failed to %s: %w", action, store.ErrConflict)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

// paginate counts q and loads one ordered page of it into dest.
func paginate[T any](q *gorm.DB, p store.Page, dest *[]T) (store.PageResult[T], error) {
	p = p.Normalize()

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return store.PageResult[T]{}, err
	}
	if err := q.Order(p.OrderBy()).Offset(p.Offset()).Limit(p.Limit).Find(dest).Error; err != nil {
		return store.PageResult[T]{}, err
	}
	return store.NewPageResult(*dest, p, total), nil
}
