package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/eligibility"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store/memory"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecommendationFixture(t *testing.T) (*memory.Store, *RecommendationService) {
	t.Helper()
	st := memory.New()
	return st, NewRecommendationService(st, st, rand.New(rand.NewSource(7)))
}

func asthmaticUser(t *testing.T, st *memory.Store) *models.User {
	return createUser(t, st, func(u *models.User) {
		u.AgeBracket = eligibility.Age25To34
		u.Gender = eligibility.GenderMale
		u.Diseases = pq.StringArray{"asthma"}
		u.CurrentAQI = 160
	})
}

func mustCreate(t *testing.T, svc *RecommendationService, kind string, req dto.CreateRecommendationRequest) *models.Recommendation {
	t.Helper()
	rec, err := svc.Create(context.Background(), kind, &req)
	require.NoError(t, err)
	return rec
}

func mustCard(t *testing.T, svc *RecommendationService, kind string, owner uuid.UUID, title string) *models.Card {
	t.Helper()
	card, err := svc.CreateCard(context.Background(), kind, owner, &dto.CreateCardRequest{Title: title})
	require.NoError(t, err)
	return card
}

func TestEligible_FiltersByProfile(t *testing.T) {
	st, svc := newRecommendationFixture(t)
	user := asthmaticUser(t, st)

	asthma := mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{
		Name: "Stay indoors", Diseases: []string{"asthma"}, AirQualityCategory: string(eligibility.CategoryUnhealthy),
	})
	mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{
		Name: "Pregnancy care", Genders: []string{eligibility.GenderFemale}, RequiresPregnancy: true,
	})
	open := mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{Name: "Drink water"})

	recs, err := svc.Eligible(context.Background(), principal(user), models.KindBase)
	require.NoError(t, err)

	var ids []uuid.UUID
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uuid.UUID{asthma.ID, open.ID}, ids)
}

func TestEligible_GenericInformativeMatchesEveryone(t *testing.T) {
	st, svc := newRecommendationFixture(t)
	user := createUser(t, st, nil)

	generic := mustCreate(t, svc, models.KindInformative, dto.CreateRecommendationRequest{
		Name: "What is PM2.5", IsGeneric: true, Diseases: []string{"copd"},
	})

	recs, err := svc.Eligible(context.Background(), principal(user), models.KindInformative)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, generic.ID, recs[0].ID)
}

func TestEligible_UnknownKind(t *testing.T) {
	st, svc := newRecommendationFixture(t)
	user := createUser(t, st, nil)

	_, err := svc.Eligible(context.Background(), principal(user), "other")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRandomCard_DrawsFromEligibleContent(t *testing.T) {
	st, svc := newRecommendationFixture(t)
	user := asthmaticUser(t, st)

	match := mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{Name: "Asthma", Diseases: []string{"asthma"}})
	other := mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{Name: "Elderly", AgeBrackets: []string{eligibility.Age65Plus}})
	info := mustCreate(t, svc, models.KindInformative, dto.CreateRecommendationRequest{Name: "Generic", IsGeneric: true})

	allowed := map[uuid.UUID]bool{}
	for _, c := range []*models.Card{
		mustCard(t, svc, models.KindBase, match.ID, "a1"),
		mustCard(t, svc, models.KindBase, match.ID, "a2"),
		mustCard(t, svc, models.KindInformative, info.ID, "g1"),
	} {
		allowed[c.ID] = true
	}
	excluded := mustCard(t, svc, models.KindBase, other.ID, "e1")

	for i := 0; i < 50; i++ {
		card, err := svc.RandomCard(context.Background(), principal(user))
		require.NoError(t, err)
		assert.True(t, allowed[card.ID])
		assert.NotEqual(t, excluded.ID, card.ID)
	}
}

func TestRandomCard_FallsBackToAnyCard(t *testing.T) {
	st, svc := newRecommendationFixture(t)
	user := asthmaticUser(t, st)

	other := mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{Name: "Elderly", AgeBrackets: []string{eligibility.Age65Plus}})
	only := mustCard(t, svc, models.KindBase, other.ID, "e1")

	card, err := svc.RandomCard(context.Background(), principal(user))
	require.NoError(t, err)
	assert.Equal(t, only.ID, card.ID)
}

func TestRandomCard_NoCards(t *testing.T) {
	st, svc := newRecommendationFixture(t)
	user := asthmaticUser(t, st)

	_, err := svc.RandomCard(context.Background(), principal(user))
	assert.ErrorIs(t, err, ErrNoCards)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestCreate_RejectsBrokenCriteria(t *testing.T) {
	_, svc := newRecommendationFixture(t)

	_, err := svc.Create(context.Background(), models.KindBase, &dto.CreateRecommendationRequest{Name: "x", RequiresPregnancy: true})
	assert.True(t, apperr.IsKind(err, apperr.BadRequest))

	_, err = svc.Create(context.Background(), models.KindBase, &dto.CreateRecommendationRequest{Name: "y", ChildrenDiseases: []string{"asthma"}})
	assert.True(t, apperr.IsKind(err, apperr.BadRequest))
}

func TestCreate_NameUniquePerKind(t *testing.T) {
	_, svc := newRecommendationFixture(t)
	mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{Name: "Masks"})

	_, err := svc.Create(context.Background(), models.KindBase, &dto.CreateRecommendationRequest{Name: "Masks"})
	assert.ErrorIs(t, err, ErrRecommendationName)

	_, err = svc.Create(context.Background(), models.KindInformative, &dto.CreateRecommendationRequest{Name: "Masks"})
	assert.NoError(t, err)
}

func TestUpdate_ChecksMergedCriteria(t *testing.T) {
	_, svc := newRecommendationFixture(t)
	rec := mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{Name: "Moms", Genders: []string{eligibility.GenderFemale}, RequiresPregnancy: true})

	males := []string{eligibility.GenderMale}
	_, err := svc.Update(context.Background(), models.KindBase, rec.ID, &dto.UpdateRecommendationRequest{Genders: &males})
	assert.True(t, apperr.IsKind(err, apperr.BadRequest))

	name := "Mothers"
	updated, err := svc.Update(context.Background(), models.KindBase, rec.ID, &dto.UpdateRecommendationRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mothers", updated.Name)
	assert.True(t, updated.RequiresPregnancy)
}

func TestDelete_CascadesToCards(t *testing.T) {
	_, svc := newRecommendationFixture(t)
	ctx := context.Background()
	rec := mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{Name: "Gone"})
	card := mustCard(t, svc, models.KindBase, rec.ID, "c1")

	require.NoError(t, svc.Delete(ctx, models.KindBase, rec.ID))

	_, err := svc.Get(ctx, models.KindBase, rec.ID)
	assert.ErrorIs(t, err, ErrRecommendationNotFound)
	_, err = svc.UpdateCard(ctx, card.ID, &dto.UpdateCardRequest{})
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, models.KindBase, rec.ID), ErrRecommendationNotFound)
}

func TestMoveCard_AcrossKinds(t *testing.T) {
	_, svc := newRecommendationFixture(t)
	ctx := context.Background()
	from := mustCreate(t, svc, models.KindBase, dto.CreateRecommendationRequest{Name: "From"})
	to := mustCreate(t, svc, models.KindInformative, dto.CreateRecommendationRequest{Name: "To"})
	card := mustCard(t, svc, models.KindBase, from.ID, "moving")

	moved, err := svc.MoveCard(ctx, card.ID, &dto.MoveCardRequest{Kind: models.KindInformative, OwnerID: to.ID})
	require.NoError(t, err)
	assert.Equal(t, to.ID, moved.OwnerID)

	fromCards, err := svc.ListCards(ctx, models.KindBase, from.ID)
	require.NoError(t, err)
	assert.Empty(t, fromCards)

	toCards, err := svc.ListCards(ctx, models.KindInformative, to.ID)
	require.NoError(t, err)
	require.Len(t, toCards, 1)
	assert.Equal(t, card.ID, toCards[0].ID)

	_, err = svc.MoveCard(ctx, card.ID, &dto.MoveCardRequest{Kind: models.KindBase, OwnerID: uuid.New()})
	assert.ErrorIs(t, err, ErrRecommendationNotFound)
	_, err = svc.MoveCard(ctx, uuid.New(), &dto.MoveCardRequest{Kind: models.KindBase, OwnerID: from.ID})
	assert.ErrorIs(t, err, ErrCardNotFound)
}
