package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func orderedCards(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (s *Store) CreateRecommendation(ctx context.Context, rec *models.Recommendation) error {
	return translate(s.conn(ctx).Omit("Cards").Create(rec).Error, "create recommendation")
}

func (s *Store) FindRecommendation(ctx context.Context, kind string, id uuid.UUID) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := s.conn(ctx).Preload("Cards", orderedCards).
		Where("kind = ?", kind).
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "find recommendation")
	}
	return &rec, nil
}

func (s *Store) FindRecommendationByName(ctx context.Context, kind, name string) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := s.conn(ctx).Where("kind = ? AND name = ?", kind, name).First(&rec).Error; err != nil {
		return nil, translate(err, "find recommendation")
	}
	return &rec, nil
}

func (s *Store) ListRecommendations(ctx context.Context, kind string) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := s.conn(ctx).Preload("Cards", orderedCards).
		Where("kind = ?", kind).
		Order("created_at ASC").
		Find(&recs).Error
	return recs, translate(err, "list recommendations")
}

func (s *Store) PaginateRecommendations(ctx context.Context, kind string, p store.Page) (store.PageResult[models.Recommendation], error) {
	var recs []models.Recommendation
	q := s.conn(ctx).Model(&models.Recommendation{}).Where("kind = ?", kind)
	res, err := paginate(q, p, &recs)
	return res, translate(err, "paginate recommendations")
}

func (s *Store) CountRecommendations(ctx context.Context, kind string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Recommendation{}).Where("kind = ?", kind).Count(&count).Error
	return count, translate(err, "count recommendations")
}

func (s *Store) UpdateRecommendation(ctx context.Context, kind string, id uuid.UUID, update store.RecommendationUpdate) (*models.Recommendation, error) {
	if cols := update.Columns(); len(cols) > 0 {
		res := s.conn(ctx).Model(&models.Recommendation{}).
			Where("id = ? AND kind = ?", id, kind).
			Updates(cols)
		if res.Error != nil {
			return nil, translate(res.Error, "update recommendation")
		}
		if res.RowsAffected == 0 {
			return nil, store.ErrNotFound
		}
	}
	return s.FindRecommendation(ctx, kind, id)
}

func (s *Store) SoftDeleteRecommendation(ctx context.Context, kind string, id uuid.UUID) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("kind = ?", kind).Delete(&models.Recommendation{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "delete recommendation")
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		if err := tx.Where("owner_id = ?", id).Delete(&models.Card{}).Error; err != nil {
			return translate(err, "delete cards")
		}
		return nil
	})
}

// ownerExists checks inside tx that the live recommendation id of kind exists.
func ownerExists(tx *gorm.DB, kind string, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Recommendation{}).Where("id = ? AND kind = ?", id, kind).Count(&count).Error; err != nil {
		return translate(err, "find card owner")
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nextPosition(tx *gorm.DB, ownerID uuid.UUID) (int, error) {
	var max int
	err := tx.Model(&models.Card{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, translate(err, "compute card position")
	}
	return max + 1, nil
}

func (s *Store) CreateCard(ctx context.Context, kind string, ownerID uuid.UUID, card *models.Card) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownerExists(tx, kind, ownerID); err != nil {
			return err
		}
		pos, err := nextPosition(tx, ownerID)
		if err != nil {
			return err
		}
		card.OwnerKind = kind
		card.OwnerID = ownerID
		card.Position = pos
		return translate(tx.Create(card).Error, "create card")
	})
}

func (s *Store) FindCard(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	var card models.Card
	if err := s.conn(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find card")
	}
	return &card, nil
}

func (s *Store) ListCards(ctx context.Context, kind string, ownerID uuid.UUID) ([]models.Card, error) {
	var cards []models.Card
	err := s.conn(ctx).
		Where("owner_kind = ? AND owner_id = ?", kind, ownerID).
		Order("position ASC").
		Find(&cards).Error
	return cards, translate(err, "list cards")
}

func (s *Store) UpdateCard(ctx context.Context, id uuid.UUID, update store.CardUpdate) (*models.Card, error) {
	if cols := update.Columns(); len(cols) > 0 {
		res := s.conn(ctx).Model(&models.Card{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, translate(res.Error, "update card")
		}
		if res.RowsAffected == 0 {
			return nil, store.ErrNotFound
		}
	}
	return s.FindCard(ctx, id)
}

func (s *Store) MoveCard(ctx context.Context, id uuid.UUID, toKind string, toOwnerID uuid.UUID) (*models.Card, error) {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ownerExists(tx, toKind, toOwnerID); err != nil {
			return err
		}
		pos, err := nextPosition(tx, toOwnerID)
		if err != nil {
			return err
		}
		res := tx.Model(&models.Card{}).Where("id = ?", id).Updates(map[string]interface{}{
			"owner_kind": toKind,
			"owner_id":   toOwnerID,
			"position":   pos,
		})
		if res.Error != nil {
			return translate(res.Error, "move card")
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindCard(ctx, id)
}

func (s *Store) SoftDeleteCard(ctx context.Context, id uuid.UUID) error {
	res := s.conn(ctx).Delete(&models.Card{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete card")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountCards(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Card{}).Count(&count).Error
	return count, translate(err, "count cards")
}

func (s *Store) CardAt(ctx context.Context, offset int) (*models.Card, error) {
	var card models.Card
	err := s.conn(ctx).Order("created_at ASC, id ASC").Offset(offset).Limit(1).Take(&card).Error
	if err != nil {
		return nil, translate(err, "load card")
	}
	return &card, nil
}
