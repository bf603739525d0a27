package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/eligibility"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }

func TestProfileUpdate_PartialFields(t *testing.T) {
	st := memory.New()
	svc := NewProfileService(st, st)
	user := createUser(t, st, func(u *models.User) { u.CurrentAQI = 120 })
	ctx := context.Background()

	diseases := []string{"asthma"}
	resp, err := svc.Update(ctx, principal(user), &dto.UpdateProfileRequest{
		Gender:   strPtr(eligibility.GenderFemale),
		Diseases: &diseases,
	})
	require.NoError(t, err)
	assert.Equal(t, eligibility.GenderFemale, resp.Gender)
	assert.Equal(t, []string{"asthma"}, resp.Diseases)
	assert.Equal(t, string(eligibility.CategoryUnhealthySensitive), resp.AirQualityCategory)

	resp, err = svc.Update(ctx, principal(user), &dto.UpdateProfileRequest{IsPregnant: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, resp.IsPregnant)
	assert.Equal(t, []string{"asthma"}, resp.Diseases, "untouched fields are kept")
	assert.Equal(t, []string{}, resp.EnergySources)
}

func TestProfileUpdate_Invariants(t *testing.T) {
	st := memory.New()
	svc := NewProfileService(st, st)
	user := createUser(t, st, func(u *models.User) { u.Gender = eligibility.GenderMale })
	ctx := context.Background()

	_, err := svc.Update(ctx, principal(user), &dto.UpdateProfileRequest{IsPregnant: boolPtr(true)})
	assert.ErrorIs(t, err, ErrPregnantGender)

	kids := []string{"asthma"}
	_, err = svc.Update(ctx, principal(user), &dto.UpdateProfileRequest{ChildrenDiseases: &kids})
	assert.ErrorIs(t, err, ErrChildrenDiseases)

	resp, err := svc.Update(ctx, principal(user), &dto.UpdateProfileRequest{HasChildren: boolPtr(true), ChildrenDiseases: &kids})
	require.NoError(t, err)
	assert.True(t, resp.HasChildren)
}

func TestProfileUpdate_StationChangeRefreshesAQI(t *testing.T) {
	st := memory.New()
	svc := NewProfileService(st, st)
	ctx := context.Background()
	user := createUser(t, st, func(u *models.User) {
		u.StationID = "istanbul"
		u.CurrentAQI = 40
	})
	require.NoError(t, st.UpsertReading(ctx, &models.AirQualityReading{StationID: "ankara", AQI: 180, MeasuredAt: base}))

	resp, err := svc.Update(ctx, principal(user), &dto.UpdateProfileRequest{StationID: strPtr("ankara")})
	require.NoError(t, err)
	assert.Equal(t, "ankara", resp.StationID)
	assert.Equal(t, 180, resp.CurrentAQI)
	assert.Equal(t, string(eligibility.CategoryUnhealthy), resp.AirQualityCategory)

	resp, err = svc.Update(ctx, principal(user), &dto.UpdateProfileRequest{StationID: strPtr("izmir")})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentAQI, "no stored reading for the new station")

	stored, err := st.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentAQI)
}

func TestProfileUpdate_SameStationKeepsAQI(t *testing.T) {
	st := memory.New()
	svc := NewProfileService(st, st)
	user := createUser(t, st, func(u *models.User) {
		u.StationID = "istanbul"
		u.CurrentAQI = 75
	})

	resp, err := svc.Update(context.Background(), principal(user), &dto.UpdateProfileRequest{StationID: strPtr("istanbul")})
	require.NoError(t, err)
	assert.Equal(t, 75, resp.CurrentAQI)
}

func TestProfileGet_DeletedUser(t *testing.T) {
	st := memory.New()
	svc := NewProfileService(st, st)
	user := createUser(t, st, nil)
	require.NoError(t, st.SoftDeleteUser(context.Background(), user.ID))

	_, err := svc.Get(context.Background(), principal(user))
	assert.ErrorIs(t, err, ErrUserNotFound)
}
