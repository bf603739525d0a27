package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/eligibility"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/selector"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrRecommendationNotFound = apperr.New(apperr.NotFound, "recommendation not found")
	ErrRecommendationName     = apperr.New(apperr.Conflict, "recommendation name already in use")
	ErrCardNotFound           = apperr.New(apperr.NotFound, "card not found")
	ErrNoCards                = apperr.New(apperr.NotFound, "no cards available")
	ErrUnknownKind            = apperr.New(apperr.BadRequest, "unknown recommendation kind")
)

type RecommendationService struct {
	content store.ContentStore
	users   store.UserStore
	rng     selector.Rand
}

func NewRecommendationService(content store.ContentStore, users store.UserStore, rng selector.Rand) *RecommendationService {
	if rng == nil {
		rng = selector.Default()
	}
	return &RecommendationService{content: content, users: users, rng: rng}
}

func checkKind(kind string) error {
	if kind != models.KindBase && kind != models.KindInformative {
		return ErrUnknownKind
	}
	return nil
}

func criteriaError(err error) error {
	return apperr.BadRequestf("%s", err.Error())
}

func (s *RecommendationService) profileOf(ctx context.Context, p authctx.Principal) (eligibility.Profile, error) {
	user, err := s.users.FindUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return eligibility.Profile{}, ErrUserNotFound
		}
		return eligibility.Profile{}, apperr.Internalf(err, "failed to load user")
	}
	return user.Profile(), nil
}

func recommendationCriteria(r models.Recommendation) eligibility.Criteria {
	return r.Criteria()
}

// Eligible returns the live items of kind that match the caller's profile.
func (s *RecommendationService) Eligible(ctx context.Context, p authctx.Principal, kind string) ([]models.Recommendation, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	profile, err := s.profileOf(ctx, p)
	if err != nil {
		return nil, err
	}
	recs, err := s.content.ListRecommendations(ctx, kind)
	if err != nil {
		return nil, apperr.Internalf(err, "failed to list recommendations")
	}
	return eligibility.Filter(profile, recs, recommendationCriteria), nil
}

// RandomCard draws one card uniformly from every card of eligible content.
// When nothing is eligible, any live card may be returned.
func (s *RecommendationService) RandomCard(ctx context.Context, p authctx.Principal) (*models.Card, error) {
	var pool []models.Card
	for _, kind := range []string{models.KindBase, models.KindInformative} {
		recs, err := s.Eligible(ctx, p, kind)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			pool = append(pool, r.Cards...)
		}
	}

	if card, ok := selector.Uniform(pool, s.rng); ok {
		return &card, nil
	}

	total, err := s.content.CountCards(ctx)
	if err != nil {
		return nil, apperr.Internalf(err, "failed to count cards")
	}
	if total == 0 {
		return nil, ErrNoCards
	}
	card, err := s.content.CardAt(ctx, s.rng.Intn(int(total)))
	if errors.Is(err, store.ErrNotFound) {
		// a card was deleted between count and fetch
		return nil, ErrNoCards
	}
	if err != nil {
		return nil, apperr.Internalf(err, "failed to load card")
	}
	return card, nil
}

func (s *RecommendationService) Create(ctx context.Context, kind string, req *dto.CreateRecommendationRequest) (*models.Recommendation, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	rec := &models.Recommendation{
		Kind:               kind,
		Name:               req.Name,
		Description:        req.Description,
		IsGeneric:          kind == models.KindInformative && req.IsGeneric,
		AirQualityCategory: req.AirQualityCategory,
		AgeBrackets:        req.AgeBrackets,
		Genders:            req.Genders,
		Diseases:           req.Diseases,
		EnergySources:      req.EnergySources,
		RequiresPregnancy:  req.RequiresPregnancy,
		RequiresChildren:   req.RequiresChildren,
		ChildrenDiseases:   req.ChildrenDiseases,
	}
	if err := rec.Criteria().Check(); err != nil {
		return nil, criteriaError(err)
	}

	if err := s.content.CreateRecommendation(ctx, rec); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrRecommendationName
		}
		return nil, apperr.Internalf(err, "failed to create recommendation")
	}
	rec.Cards = []models.Card{}
	return rec, nil
}

func (s *RecommendationService) Get(ctx context.Context, kind string, id uuid.UUID) (*models.Recommendation, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	rec, err := s.content.FindRecommendation(ctx, kind, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRecommendationNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "failed to load recommendation")
	}
	return rec, nil
}

func (s *RecommendationService) Paginate(ctx context.Context, kind string, p store.Page) (store.PageResult[models.Recommendation], error) {
	if err := checkKind(kind); err != nil {
		return store.PageResult[models.Recommendation]{}, err
	}
	res, err := s.content.PaginateRecommendations(ctx, kind, p.Normalize())
	if err != nil {
		return res, apperr.Internalf(err, "failed to list recommendations")
	}
	return res, nil
}

// Update applies the present fields. The merged criteria must still satisfy
// the write-time invariants.
func (s *RecommendationService) Update(ctx context.Context, kind string, id uuid.UUID, req *dto.UpdateRecommendationRequest) (*models.Recommendation, error) {
	current, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	update := store.RecommendationUpdate{
		Name:               req.Name,
		Description:        req.Description,
		AirQualityCategory: req.AirQualityCategory,
		AgeBrackets:        req.AgeBrackets,
		Genders:            req.Genders,
		Diseases:           req.Diseases,
		EnergySources:      req.EnergySources,
		RequiresPregnancy:  req.RequiresPregnancy,
		RequiresChildren:   req.RequiresChildren,
		ChildrenDiseases:   req.ChildrenDiseases,
	}
	if kind == models.KindInformative {
		update.IsGeneric = req.IsGeneric
	}

	merged := *current
	update.Apply(&merged)
	if err := merged.Criteria().Check(); err != nil {
		return nil, criteriaError(err)
	}

	rec, err := s.content.UpdateRecommendation(ctx, kind, id, update)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrRecommendationNotFound
	case errors.Is(err, store.ErrConflict):
		return nil, ErrRecommendationName
	case err != nil:
		return nil, apperr.Internalf(err, "failed to update recommendation")
	}
	return rec, nil
}

// Delete soft-deletes the item together with its cards.
func (s *RecommendationService) Delete(ctx context.Context, kind string, id uuid.UUID) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	err := s.content.SoftDeleteRecommendation(ctx, kind, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrRecommendationNotFound
	}
	if err != nil {
		return apperr.Internalf(err, "failed to delete recommendation")
	}
	return nil
}

func (s *RecommendationService) CreateCard(ctx context.Context, kind string, ownerID uuid.UUID, req *dto.CreateCardRequest) (*models.Card, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	card := &models.Card{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		Link:     req.Link,
	}
	err := s.content.CreateCard(ctx, kind, ownerID, card)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRecommendationNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "failed to create card")
	}
	return card, nil
}

func (s *RecommendationService) ListCards(ctx context.Context, kind string, ownerID uuid.UUID) ([]models.Card, error) {
	if _, err := s.Get(ctx, kind, ownerID); err != nil {
		return nil, err
	}
	cards, err := s.content.ListCards(ctx, kind, ownerID)
	if err != nil {
		return nil, apperr.Internalf(err, "failed to list cards")
	}
	return cards, nil
}

func (s *RecommendationService) UpdateCard(ctx context.Context, id uuid.UUID, req *dto.UpdateCardRequest) (*models.Card, error) {
	card, err := s.content.UpdateCard(ctx, id, store.CardUpdate{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		Link:     req.Link,
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "failed to update card")
	}
	return card, nil
}

// MoveCard re-parents a card to another recommendation, possibly of the other kind.
func (s *RecommendationService) MoveCard(ctx context.Context, id uuid.UUID, req *dto.MoveCardRequest) (*models.Card, error) {
	if err := checkKind(req.Kind); err != nil {
		return nil, err
	}
	if _, err := s.content.FindCard(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, apperr.Internalf(err, "failed to load card")
	}

	card, err := s.content.MoveCard(ctx, id, req.Kind, req.OwnerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRecommendationNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "failed to move card")
	}
	return card, nil
}

func (s *RecommendationService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	err := s.content.SoftDeleteCard(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrCardNotFound
	}
	if err != nil {
		return apperr.Internalf(err, "failed to delete card")
	}
	return nil
}
