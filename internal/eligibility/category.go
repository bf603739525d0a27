package eligibility

import "math"

// Category is an air-quality band on the US EPA AQI scale.
type Category string

const (
	CategoryGood               Category = "good"
	CategoryModerate           Category = "moderate"
	CategoryUnhealthySensitive Category = "unhealthy_sensitive"
	CategoryUnhealthy          Category = "unhealthy"
	CategoryVeryUnhealthy      Category = "very_unhealthy"
	CategoryHazardous          Category = "hazardous"
)

type band struct {
	category Category
	min, max int
}

// bands are contiguous and ordered; the first and last bands are open ended.
var bands = []band{
	{CategoryGood, math.MinInt, 50},
	{CategoryModerate, 51, 100},
	{CategoryUnhealthySensitive, 101, 150},
	{CategoryUnhealthy, 151, 200},
	{CategoryVeryUnhealthy, 201, 300},
	{CategoryHazardous, 301, math.MaxInt},
}

// Categories lists every valid category in ascending severity.
func Categories() []Category {
	out := make([]Category, len(bands))
	for i, b := range bands {
		out[i] = b.category
	}
	return out
}

// CategoryForAQI returns the band containing aqi. Negative values are
// treated as good.
func CategoryForAQI(aqi int) Category {
	for _, b := range bands {
		if aqi <= b.max {
			return b.category
		}
	}
	return CategoryHazardous
}

// Contains reports whether aqi falls inside the band. An unknown category
// contains nothing.
func (c Category) Contains(aqi int) bool {
	for _, b := range bands {
		if b.category == c {
			return aqi >= b.min && aqi <= b.max
		}
	}
	return false
}

func (c Category) Valid() bool {
	for _, b := range bands {
		if b.category == c {
			return true
		}
	}
	return false
}
