package models

import "gorm.io/datatypes"

const (
	CronjobAirQuality   = "air_quality"
	CronjobPredictions  = "predictions"
	CronjobRevalidation = "subscription_revalidation"
	CronjobLogCleanup   = "log_cleanup"
)

// Cronjob is an append-only audit record for one scheduled job execution.
type Cronjob struct {
	Base
	Type    string         `gorm:"size:50;not null;index" json:"type"`
	Success bool           `gorm:"not null" json:"success"`
	Payload datatypes.JSON `gorm:"type:jsonb" json:"payload"`
}
