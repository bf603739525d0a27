package dto

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/google/uuid"
)

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	AgeBracket       *string   `json:"age_bracket" validate:"omitempty,agebracket"`
	Gender           *string   `json:"gender" validate:"omitempty,gender"`
	Diseases         *[]string `json:"diseases" validate:"omitempty,dive,disease"`
	EnergySources    *[]string `json:"energy_sources" validate:"omitempty,dive,energysource"`
	IsPregnant       *bool     `json:"is_pregnant"`
	HasChildren      *bool     `json:"has_children"`
	ChildrenDiseases *[]string `json:"children_diseases" validate:"omitempty,dive,disease"`
	StationID        *string   `json:"station_id" validate:"omitempty,max=100"`
}

type ProfileResponse struct {
	ID                    uuid.UUID  `json:"id"`
	Email                 string     `json:"email"`
	AgeBracket            string     `json:"age_bracket"`
	Gender                string     `json:"gender"`
	Diseases              []string   `json:"diseases"`
	EnergySources         []string   `json:"energy_sources"`
	IsPregnant            bool       `json:"is_pregnant"`
	HasChildren           bool       `json:"has_children"`
	ChildrenDiseases      []string   `json:"children_diseases"`
	CurrentAQI            int        `json:"current_aqi"`
	AirQualityCategory    string     `json:"air_quality_category"`
	StationID             string     `json:"station_id"`
	CurrentSubscriptionID *uuid.UUID `json:"current_subscription_id"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func NewProfileResponse(u *models.User, category string) ProfileResponse {
	return ProfileResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		AgeBracket:            u.AgeBracket,
		Gender:                u.Gender,
		Diseases:              nonNil(u.Diseases),
		EnergySources:         nonNil(u.EnergySources),
		IsPregnant:            u.IsPregnant,
		HasChildren:           u.HasChildren,
		ChildrenDiseases:      nonNil(u.ChildrenDiseases),
		CurrentAQI:            u.CurrentAQI,
		AirQualityCategory:    category,
		StationID:             u.StationID,
		CurrentSubscriptionID: u.CurrentSubscriptionID,
	}
}
