package models

import (
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/eligibility"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/plugin/soft_delete"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds credentials plus the health profile used for recommendation matching.
type User struct {
	Base
	Email        string  `gorm:"not null;size:255;uniqueIndex:idx_users_email_live,where:is_deleted = 0" json:"email"`
	Password     string  `gorm:"not null" json:"-"`
	Role         string  `gorm:"size:20;default:'user'" json:"role"`
	AppleUserID  *string `gorm:"size:255;index" json:"-"`
	AuthProvider string  `gorm:"size:50;default:'email'" json:"-"`

	AgeBracket       string         `gorm:"size:20" json:"age_bracket"`
	Gender           string         `gorm:"size:20" json:"gender"`
	Diseases         pq.StringArray `gorm:"type:text[]" json:"diseases"`
	EnergySources    pq.StringArray `gorm:"type:text[]" json:"energy_sources"`
	IsPregnant       bool           `gorm:"default:false" json:"is_pregnant"`
	HasChildren      bool           `gorm:"default:false" json:"has_children"`
	ChildrenDiseases pq.StringArray `gorm:"type:text[]" json:"children_diseases"`
	CurrentAQI       int            `gorm:"column:current_aqi;default:0" json:"current_aqi"`
	StationID        string         `gorm:"size:100;index" json:"station_id"`

	CurrentSubscriptionID *uuid.UUID    `gorm:"type:uuid" json:"current_subscription_id"`
	CurrentSubscription   *Subscription `gorm:"foreignKey:CurrentSubscriptionID" json:"-"`

	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0;index" json:"-"`
}

// Profile projects the fields consulted by recommendation matching.
func (u *User) Profile() eligibility.Profile {
	return eligibility.Profile{
		AgeBracket:       u.AgeBracket,
		Gender:           u.Gender,
		Diseases:         u.Diseases,
		EnergySources:    u.EnergySources,
		IsPregnant:       u.IsPregnant,
		HasChildren:      u.HasChildren,
		ChildrenDiseases: u.ChildrenDiseases,
		AQI:              u.CurrentAQI,
	}
}
