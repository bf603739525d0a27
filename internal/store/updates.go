package store

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/models"
	"github.com/lib/pq"
)

// ProfileUpdate changes the matching profile of a user. Nil fields are left untouched.
type ProfileUpdate struct {
	AgeBracket       *string
	Gender           *string
	Diseases         *[]string
	EnergySources    *[]string
	IsPregnant       *bool
	HasChildren      *bool
	ChildrenDiseases *[]string
	StationID        *string
	CurrentAQI       *int
}

func (u ProfileUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "age_bracket", u.AgeBracket)
	setString(cols, "gender", u.Gender)
	setArray(cols, "diseases", u.Diseases)
	setArray(cols, "energy_sources", u.EnergySources)
	setBool(cols, "is_pregnant", u.IsPregnant)
	setBool(cols, "has_children", u.HasChildren)
	setArray(cols, "children_diseases", u.ChildrenDiseases)
	setString(cols, "station_id", u.StationID)
	if u.CurrentAQI != nil {
		cols["current_aqi"] = *u.CurrentAQI
	}
	return cols
}

func (u ProfileUpdate) Apply(user *models.User) {
	applyString(&user.AgeBracket, u.AgeBracket)
	applyString(&user.Gender, u.Gender)
	applyArray(&user.Diseases, u.Diseases)
	applyArray(&user.EnergySources, u.EnergySources)
	applyBool(&user.IsPregnant, u.IsPregnant)
	applyBool(&user.HasChildren, u.HasChildren)
	applyArray(&user.ChildrenDiseases, u.ChildrenDiseases)
	applyString(&user.StationID, u.StationID)
	if u.CurrentAQI != nil {
		user.CurrentAQI = *u.CurrentAQI
	}
}

type RecommendationUpdate struct {
	Name               *string
	Description        *string
	IsGeneric          *bool
	AirQualityCategory *string
	AgeBrackets        *[]string
	Genders            *[]string
	Diseases           *[]string
	EnergySources      *[]string
	RequiresPregnancy  *bool
	RequiresChildren   *bool
	ChildrenDiseases   *[]string
}

func (u RecommendationUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", u.Name)
	setString(cols, "description", u.Description)
	setBool(cols, "is_generic", u.IsGeneric)
	setString(cols, "air_quality_category", u.AirQualityCategory)
	setArray(cols, "age_brackets", u.AgeBrackets)
	setArray(cols, "genders", u.Genders)
	setArray(cols, "diseases", u.Diseases)
	setArray(cols, "energy_sources", u.EnergySources)
	setBool(cols, "requires_pregnancy", u.RequiresPregnancy)
	setBool(cols, "requires_children", u.RequiresChildren)
	setArray(cols, "children_diseases", u.ChildrenDiseases)
	return cols
}

func (u RecommendationUpdate) Apply(rec *models.Recommendation) {
	applyString(&rec.Name, u.Name)
	applyString(&rec.Description, u.Description)
	applyBool(&rec.IsGeneric, u.IsGeneric)
	applyString(&rec.AirQualityCategory, u.AirQualityCategory)
	applyArray(&rec.AgeBrackets, u.AgeBrackets)
	applyArray(&rec.Genders, u.Genders)
	applyArray(&rec.Diseases, u.Diseases)
	applyArray(&rec.EnergySources, u.EnergySources)
	applyBool(&rec.RequiresPregnancy, u.RequiresPregnancy)
	applyBool(&rec.RequiresChildren, u.RequiresChildren)
	applyArray(&rec.ChildrenDiseases, u.ChildrenDiseases)
}

type CardUpdate struct {
	Title    *string
	Body     *string
	ImageURL *string
	Link     *string
}

func (u CardUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "title", u.Title)
	setString(cols, "body", u.Body)
	setString(cols, "image_url", u.ImageURL)
	setString(cols, "link", u.Link)
	return cols
}

func (u CardUpdate) Apply(card *models.Card) {
	applyString(&card.Title, u.Title)
	applyString(&card.Body, u.Body)
	applyString(&card.ImageURL, u.ImageURL)
	applyString(&card.Link, u.Link)
}

type AdvertisementUpdate struct {
	Name        *string
	Description *string
	ImageURL    *string
	WebLink     *string
	IOSLink     *string
	AndroidLink *string
	Priority    *int
}

func (u AdvertisementUpdate) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", u.Name)
	setString(cols, "description", u.Description)
	setString(cols, "image_url", u.ImageURL)
	setString(cols, "web_link", u.WebLink)
	setString(cols, "ios_link", u.IOSLink)
	setString(cols, "android_link", u.AndroidLink)
	if u.Priority != nil {
		cols["priority"] = *u.Priority
	}
	return cols
}

func (u AdvertisementUpdate) Apply(ad *models.Advertisement) {
	applyString(&ad.Name, u.Name)
	applyString(&ad.Description, u.Description)
	applyString(&ad.ImageURL, u.ImageURL)
	applyString(&ad.WebLink, u.WebLink)
	applyString(&ad.IOSLink, u.IOSLink)
	applyString(&ad.AndroidLink, u.AndroidLink)
	if u.Priority != nil {
		ad.Priority = *u.Priority
	}
}

func setString(cols map[string]interface{}, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}

func setBool(cols map[string]interface{}, column string, v *bool) {
	if v != nil {
		cols[column] = *v
	}
}

func setArray(cols map[string]interface{}, column string, v *[]string) {
	if v != nil {
		cols[column] = pq.StringArray(*v)
	}
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func applyArray(dst *pq.StringArray, v *[]string) {
	if v != nil {
		*dst = append(pq.StringArray{}, *v...)
	}
}
