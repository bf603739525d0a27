package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/eligibility"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/store"
)

var (
	ErrPregnantGender   = apperr.New(apperr.BadRequest, "is_pregnant requires gender female")
	ErrChildrenDiseases = apperr.New(apperr.BadRequest, "children_diseases requires has_children")
)

type ProfileService struct {
	users    store.UserStore
	readings store.AirQualityStore
}

func NewProfileService(users store.UserStore, readings store.AirQualityStore) *ProfileService {
	return &ProfileService{users: users, readings: readings}
}

func (s *ProfileService) Get(ctx context.Context, p authctx.Principal) (*dto.ProfileResponse, error) {
	user, err := s.users.FindUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internalf(err, "failed to load user")
	}
	resp := profileResponse(user)
	return &resp, nil
}

// Update changes the fields present in req. Pregnancy is only kept for
// female profiles. A station change takes the new station's latest AQI, or
// zero until the next ingestion when none is stored.
func (s *ProfileService) Update(ctx context.Context, p authctx.Principal, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	current, err := s.users.FindUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internalf(err, "failed to load user")
	}

	update := store.ProfileUpdate{
		AgeBracket:       req.AgeBracket,
		Gender:           req.Gender,
		Diseases:         req.Diseases,
		EnergySources:    req.EnergySources,
		IsPregnant:       req.IsPregnant,
		HasChildren:      req.HasChildren,
		ChildrenDiseases: req.ChildrenDiseases,
		StationID:        req.StationID,
	}

	if req.StationID != nil && *req.StationID != current.StationID {
		aqi, err := s.stationAQI(ctx, *req.StationID)
		if err != nil {
			return nil, err
		}
		update.CurrentAQI = &aqi
	}

	merged := *current
	update.Apply(&merged)
	if merged.IsPregnant && merged.Gender != eligibility.GenderFemale {
		return nil, ErrPregnantGender
	}
	if len(merged.ChildrenDiseases) > 0 && !merged.HasChildren {
		return nil, ErrChildrenDiseases
	}

	user, err := s.users.UpdateProfile(ctx, p.UserID, update)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "failed to update profile")
	}
	resp := profileResponse(user)
	return &resp, nil
}

func (s *ProfileService) stationAQI(ctx context.Context, stationID string) (int, error) {
	if stationID == "" {
		return 0, nil
	}
	reading, err := s.readings.LatestReading(ctx, stationID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.Internalf(err, "failed to load air quality reading")
	}
	return reading.AQI, nil
}

func profileResponse(u *models.User) dto.ProfileResponse {
	return dto.NewProfileResponse(u, string(eligibility.CategoryForAQI(u.CurrentAQI)))
}
