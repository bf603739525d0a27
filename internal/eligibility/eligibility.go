// Package eligibility decides which recommendation items apply to a user profile.
package eligibility

import "errors"

var (
	ErrPregnancyRequiresFemale         = errors.New("requires_pregnancy needs genders to include female")
	ErrChildrenDiseasesRequireChildren = errors.New("children_diseases needs requires_children")
)

// Profile is the subset of a user consulted when matching content.
type Profile struct {
	AgeBracket       string
	Gender           string
	Diseases         []string
	EnergySources    []string
	IsPregnant       bool
	HasChildren      bool
	ChildrenDiseases []string
	AQI              int
}

// Criteria are the targeting rules of one content item. Empty fields impose
// no constraint.
type Criteria struct {
	AirQualityCategory Category
	AgeBrackets        []string
	Genders            []string
	Diseases           []string
	EnergySources      []string
	RequiresPregnancy  bool
	RequiresChildren   bool
	ChildrenDiseases   []string
}

// Check validates the write-time invariants of c.
func (c Criteria) Check() error {
	if c.RequiresPregnancy && !IsOneOf(GenderFemale, c.Genders) {
		return ErrPregnancyRequiresFemale
	}
	if len(c.ChildrenDiseases) > 0 && !c.RequiresChildren {
		return ErrChildrenDiseasesRequireChildren
	}
	return nil
}

// Eligible reports whether every non-empty criterion matches the profile.
// Set criteria need a non-empty intersection with the profile's values.
func Eligible(p Profile, c Criteria) bool {
	if c.AirQualityCategory != "" && !c.AirQualityCategory.Contains(p.AQI) {
		return false
	}
	if len(c.AgeBrackets) > 0 && !IsOneOf(p.AgeBracket, c.AgeBrackets) {
		return false
	}
	if len(c.Genders) > 0 && !IsOneOf(p.Gender, c.Genders) {
		return false
	}
	if len(c.Diseases) > 0 && !intersects(c.Diseases, p.Diseases) {
		return false
	}
	if len(c.EnergySources) > 0 && !intersects(c.EnergySources, p.EnergySources) {
		return false
	}
	if c.RequiresPregnancy && !p.IsPregnant {
		return false
	}
	if c.RequiresChildren && !p.HasChildren {
		return false
	}
	if len(c.ChildrenDiseases) > 0 && !intersects(c.ChildrenDiseases, p.ChildrenDiseases) {
		return false
	}
	return true
}

// Filter returns the items eligible for p, preserving their order.
func Filter[T any](p Profile, items []T, criteriaOf func(T) Criteria) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Eligible(p, criteriaOf(item)) {
			out = append(out, item)
		}
	}
	return out
}

func intersects(want, have []string) bool {
	if len(have) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(have))
	for _, v := range have {
		set[v] = struct{}{}
	}
	for _, v := range want {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
