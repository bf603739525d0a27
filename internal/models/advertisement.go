package models

import "gorm.io/plugin/soft_delete"

const (
	MinAdPriority = 1
	MaxAdPriority = 20
)

type Advertisement struct {
	Base
	Name        string `gorm:"size:255;not null;uniqueIndex:idx_advertisements_name_live,where:is_deleted = 0" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"size:1024" json:"image_url"`
	WebLink     string `gorm:"size:1024" json:"web_link"`
	IOSLink     string `gorm:"column:ios_link;size:1024" json:"ios_link"`
	AndroidLink string `gorm:"size:1024" json:"android_link"`
	Priority    int    `gorm:"not null;default:1" json:"priority"`
	Clicks      int64  `gorm:"not null;default:0" json:"clicks"`
	Views       int64  `gorm:"not null;default:0" json:"views"`

	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0;index" json:"-"`
}
