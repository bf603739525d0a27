package dto

import "github.com/google/uuid"

type CreateRecommendationRequest struct {
	Name               string   `json:"name" validate:"required,max=255"`
	Description        string   `json:"description"`
	IsGeneric          bool     `json:"is_generic"`
	AirQualityCategory string   `json:"air_quality_category" validate:"omitempty,aqcategory"`
	AgeBrackets        []string `json:"age_brackets" validate:"omitempty,dive,agebracket"`
	Genders            []string `json:"genders" validate:"omitempty,dive,gender"`
	Diseases           []string `json:"diseases" validate:"omitempty,dive,disease"`
	EnergySources      []string `json:"energy_sources" validate:"omitempty,dive,energysource"`
	RequiresPregnancy  bool     `json:"requires_pregnancy"`
	RequiresChildren   bool     `json:"requires_children"`
	ChildrenDiseases   []string `json:"children_diseases" validate:"omitempty,dive,disease"`
}

type UpdateRecommendationRequest struct {
	Name               *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Description        *string   `json:"description"`
	IsGeneric          *bool     `json:"is_generic"`
	AirQualityCategory *string   `json:"air_quality_category" validate:"omitempty,aqcategory"`
	AgeBrackets        *[]string `json:"age_brackets" validate:"omitempty,dive,agebracket"`
	Genders            *[]string `json:"genders" validate:"omitempty,dive,gender"`
	Diseases           *[]string `json:"diseases" validate:"omitempty,dive,disease"`
	EnergySources      *[]string `json:"energy_sources" validate:"omitempty,dive,energysource"`
	RequiresPregnancy  *bool     `json:"requires_pregnancy"`
	RequiresChildren   *bool     `json:"requires_children"`
	ChildrenDiseases   *[]string `json:"children_diseases" validate:"omitempty,dive,disease"`
}

type CreateCardRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url" validate:"omitempty,url,max=1024"`
	Link     string `json:"link" validate:"omitempty,url,max=1024"`
}

type UpdateCardRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=255"`
	Body     *string `json:"body"`
	ImageURL *string `json:"image_url" validate:"omitempty,url,max=1024"`
	Link     *string `json:"link" validate:"omitempty,url,max=1024"`
}

type MoveCardRequest struct {
	Kind    string    `json:"kind" validate:"required,oneof=base informative"`
	OwnerID uuid.UUID `json:"owner_id" validate:"required"`
}

type CreateAdvertisementRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=1024"`
	WebLink     string `json:"web_link" validate:"omitempty,url,max=1024"`
	IOSLink     string `json:"ios_link" validate:"omitempty,url,max=1024"`
	AndroidLink string `json:"android_link" validate:"omitempty,url,max=1024"`
	Priority    int    `json:"priority" validate:"required,min=1,max=20"`
}

type UpdateAdvertisementRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=1024"`
	WebLink     *string `json:"web_link" validate:"omitempty,url,max=1024"`
	IOSLink     *string `json:"ios_link" validate:"omitempty,url,max=1024"`
	AndroidLink *string `json:"android_link" validate:"omitempty,url,max=1024"`
	Priority    *int    `json:"priority" validate:"omitempty,min=1,max=20"`
}
