package models

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/eligibility"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/plugin/soft_delete"
)

// Recommendation kinds share one table; name uniqueness is scoped per kind.
const (
	KindBase        = "base"
	KindInformative = "informative"
)

type Recommendation struct {
	Base
	Kind        string `gorm:"size:20;not null;uniqueIndex:idx_recommendations_kind_name_live,priority:1,where:is_deleted = 0" json:"kind"`
	Name        string `gorm:"size:255;not null;uniqueIndex:idx_recommendations_kind_name_live,priority:2,where:is_deleted = 0" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsGeneric   bool   `gorm:"default:false" json:"is_generic"`

	AirQualityCategory string         `gorm:"size:30" json:"air_quality_category,omitempty"`
	AgeBrackets        pq.StringArray `gorm:"type:text[]" json:"age_brackets"`
	Genders            pq.StringArray `gorm:"type:text[]" json:"genders"`
	Diseases           pq.StringArray `gorm:"type:text[]" json:"diseases"`
	EnergySources      pq.StringArray `gorm:"type:text[]" json:"energy_sources"`
	RequiresPregnancy  bool           `gorm:"default:false" json:"requires_pregnancy"`
	RequiresChildren   bool           `gorm:"default:false" json:"requires_children"`
	ChildrenDiseases   pq.StringArray `gorm:"type:text[]" json:"children_diseases"`

	Cards []Card `gorm:"foreignKey:OwnerID" json:"cards"`

	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0;index" json:"-"`
}

// Criteria returns the targeting rules of the item. Generic items match everyone.
func (r *Recommendation) Criteria() eligibility.Criteria {
	if r.IsGeneric {
		return eligibility.Criteria{}
	}
	return eligibility.Criteria{
		AirQualityCategory: eligibility.Category(r.AirQualityCategory),
		AgeBrackets:        r.AgeBrackets,
		Genders:            r.Genders,
		Diseases:           r.Diseases,
		EnergySources:      r.EnergySources,
		RequiresPregnancy:  r.RequiresPregnancy,
		RequiresChildren:   r.RequiresChildren,
		ChildrenDiseases:   r.ChildrenDiseases,
	}
}

// Card is an ordered piece of content owned by exactly one recommendation.
type Card struct {
	Base
	OwnerKind string    `gorm:"size:20;not null" json:"owner_kind"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_cards_owner_position,priority:1" json:"owner_id"`
	Position  int       `gorm:"not null;default:0;index:idx_cards_owner_position,priority:2" json:"position"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	ImageURL  string    `gorm:"size:1024" json:"image_url"`
	Link      string    `gorm:"size:1024" json:"link"`

	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0;index" json:"-"`
}
