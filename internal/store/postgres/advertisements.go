package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error {
	return translate(s.conn(ctx).Create(ad).Error, "create advertisement")
}

func (s *Store) FindAdvertisement(ctx context.Context, id uuid.UUID) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := s.conn(ctx).First(&ad, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find advertisement")
	}
	return &ad, nil
}

func (s *Store) FindAdvertisementByName(ctx context.Context, name string) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := s.conn(ctx).Where("name = ?", name).First(&ad).Error; err != nil {
		return nil, translate(err, "find advertisement")
	}
	return &ad, nil
}

func (s *Store) ListAdvertisements(ctx context.Context) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	err := s.conn(ctx).Order("created_at ASC").Find(&ads).Error
	return ads, translate(err, "list advertisements")
}

func (s *Store) PaginateAdvertisements(ctx context.Context, p store.Page) (store.PageResult[models.Advertisement], error) {
	var ads []models.Advertisement
	res, err := paginate(s.conn(ctx).Model(&models.Advertisement{}), p, &ads)
	return res, translate(err, "paginate advertisements")
}

func (s *Store) UpdateAdvertisement(ctx context.Context, id uuid.UUID, update store.AdvertisementUpdate) (*models.Advertisement, error) {
	if cols := update.Columns(); len(cols) > 0 {
		res := s.conn(ctx).Model(&models.Advertisement{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, translate(res.Error, "update advertisement")
		}
		if res.RowsAffected == 0 {
			return nil, store.ErrNotFound
		}
	}
	return s.FindAdvertisement(ctx, id)
}

func (s *Store) SoftDeleteAdvertisement(ctx context.Context, id uuid.UUID) error {
	res := s.conn(ctx).Delete(&models.Advertisement{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete advertisement")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// increment bumps a counter column in a single UPDATE so concurrent hits are not lost.
func (s *Store) increment(ctx context.Context, id uuid.UUID, column string) error {
	res := s.conn(ctx).Model(&models.Advertisement{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return translate(res.Error, "increment "+column)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return s.increment(ctx, id, "views")
}

func (s *Store) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	return s.increment(ctx, id, "clicks")
}
