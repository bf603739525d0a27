package models

import "time"

type AirQualityReading struct {
	Base
	StationID         string    `gorm:"size:100;not null;uniqueIndex:idx_aq_readings_station_time,priority:1" json:"station_id"`
	City              string    `gorm:"size:255" json:"city"`
	AQI               int       `gorm:"column:aqi;not null" json:"aqi"`
	DominantPollutant string    `gorm:"size:20" json:"dominant_pollutant"`
	MeasuredAt        time.Time `gorm:"not null;uniqueIndex:idx_aq_readings_station_time,priority:2" json:"measured_at"`
}

// AirQualityPrediction is one pollutant's forecast for one station and day (YYYY-MM-DD).
type AirQualityPrediction struct {
	Base
	StationID string `gorm:"size:100;not null;uniqueIndex:idx_aq_predictions_key,priority:1" json:"station_id"`
	Pollutant string `gorm:"size:20;not null;uniqueIndex:idx_aq_predictions_key,priority:2" json:"pollutant"`
	Day       string `gorm:"size:10;not null;uniqueIndex:idx_aq_predictions_key,priority:3" json:"day"`
	Avg       int    `json:"avg"`
	Min       int    `json:"min"`
	Max       int    `json:"max"`
}
