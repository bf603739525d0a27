package eligibility

const (
	AgeUnder18 = "under_18"
	Age18To24  = "18_24"
	Age25To34  = "25_34"
	Age35To44  = "35_44"
	Age45To54  = "45_54"
	Age55To64  = "55_64"
	Age65Plus  = "65_plus"
)

const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOther  = "other"
)

var (
	AgeBrackets = []string{AgeUnder18, Age18To24, Age25To34, Age35To44, Age45To54, Age55To64, Age65Plus}

	Genders = []string{GenderFemale, GenderMale, GenderOther}

	Diseases = []string{
		"asthma",
		"copd",
		"allergic_rhinitis",
		"heart_disease",
		"hypertension",
		"diabetes",
		"lung_cancer",
		"bronchitis",
	}

	EnergySources = []string{
		"electricity",
		"natural_gas",
		"coal",
		"wood",
		"lpg",
		"solar",
		"heating_oil",
	}
)

// IsOneOf reports whether v is a member of values.
func IsOneOf(v string, values []string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
