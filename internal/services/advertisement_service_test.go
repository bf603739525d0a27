package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvertisementRandom_CountsViews(t *testing.T) {
	st := memory.New()
	svc := NewAdvertisementService(st, rand.New(rand.NewSource(42)))
	ctx := context.Background()

	heavy, err := svc.Create(ctx, &dto.CreateAdvertisementRequest{Name: "heavy", Priority: 5})
	require.NoError(t, err)
	light, err := svc.Create(ctx, &dto.CreateAdvertisementRequest{Name: "light", Priority: 1})
	require.NoError(t, err)

	const draws = 600
	counts := map[uuid.UUID]int{}
	for i := 0; i < draws; i++ {
		ad, err := svc.Random(ctx)
		require.NoError(t, err)
		counts[ad.ID]++
	}

	h, err := svc.Get(ctx, heavy.ID)
	require.NoError(t, err)
	l, err := svc.Get(ctx, light.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(counts[heavy.ID]), h.Views)
	assert.Equal(t, int64(counts[light.ID]), l.Views)
	assert.Equal(t, int64(draws), h.Views+l.Views)
	assert.Greater(t, h.Views, l.Views*3)
}

func TestAdvertisementRandom_Empty(t *testing.T) {
	svc := NewAdvertisementService(memory.New(), nil)

	_, err := svc.Random(context.Background())
	assert.ErrorIs(t, err, ErrNoAdvertisements)
}

func TestAdvertisementClick(t *testing.T) {
	st := memory.New()
	svc := NewAdvertisementService(st, nil)
	ctx := context.Background()

	ad, err := svc.Create(ctx, &dto.CreateAdvertisementRequest{Name: "clicky", Priority: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Click(ctx, ad.ID))
	require.NoError(t, svc.Click(ctx, ad.ID))
	got, err := svc.Get(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Clicks)

	assert.ErrorIs(t, svc.Click(ctx, uuid.New()), ErrAdvertisementNotFound)
}

func TestAdvertisementPriorityBounds(t *testing.T) {
	svc := NewAdvertisementService(memory.New(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateAdvertisementRequest{Name: "zero", Priority: 0})
	assert.True(t, apperr.IsKind(err, apperr.BadRequest))

	ad, err := svc.Create(ctx, &dto.CreateAdvertisementRequest{Name: "ok", Priority: 20})
	require.NoError(t, err)

	tooHigh := 21
	_, err = svc.Update(ctx, ad.ID, &dto.UpdateAdvertisementRequest{Priority: &tooHigh})
	assert.True(t, apperr.IsKind(err, apperr.BadRequest))
}

func TestAdvertisementDelete(t *testing.T) {
	svc := NewAdvertisementService(memory.New(), nil)
	ctx := context.Background()

	ad, err := svc.Create(ctx, &dto.CreateAdvertisementRequest{Name: "bye", Priority: 2})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, ad.ID))

	_, err = svc.Random(ctx)
	assert.ErrorIs(t, err, ErrNoAdvertisements)

	// the name is free again once the ad is deleted
	_, err = svc.Create(ctx, &dto.CreateAdvertisementRequest{Name: "bye", Priority: 2})
	assert.NoError(t, err)
}
