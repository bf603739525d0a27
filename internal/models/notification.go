package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

type Notification struct {
	Base
	Title  string         `gorm:"size:255;not null" json:"title"`
	Body   string         `gorm:"type:text;not null" json:"body"`
	Topic  string         `gorm:"size:100;not null;index" json:"topic"`
	Data   datatypes.JSON `gorm:"type:jsonb" json:"data"`
	Sent   bool           `gorm:"default:false" json:"sent"`
	SentAt *time.Time     `json:"sent_at,omitempty"`

	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0;index" json:"-"`
}
