package dto

import "time"

type AirQualityResponse struct {
	StationID         string    `json:"station_id"`
	City              string    `json:"city"`
	AQI               int       `json:"aqi"`
	Category          string    `json:"category"`
	DominantPollutant string    `json:"dominant_pollutant"`
	MeasuredAt        time.Time `json:"measured_at"`
}

type CronjobQuery struct {
	Type string `query:"type" validate:"omitempty,oneof=air_quality predictions subscription_revalidation log_cleanup"`
}
