package domain

// DefaultSelection names the prefecture/city pair preselected for first-time
// visitors. The city half is sticky only to its own prefecture: switching to
// any other prefecture always defaults to that prefecture's first city.
type DefaultSelection struct {
	Prefecture string
	City       string
}

// DefaultPrefectureIndex returns the index of the prefecture named wanted,
// scanning in document order with exact name matching. When the name is not
// present the first entry is selected instead and found is false so the
// caller can surface a warning; selection itself never fails.
func DefaultPrefectureIndex(d Directory, wanted string) (index int, found bool) {
	for i, p := range d.Prefectures {
		if p.Name == wanted {
			return i, true
		}
	}
	return 0, false
}

// CitiesFor returns the city list of the first prefecture with the given
// name, or nil when no prefecture matches. An empty result is a legitimate
// empty-selection state, not an error.
func CitiesFor(d Directory, prefectureName string) []City {
	for _, p := range d.Prefectures {
		if p.Name == prefectureName {
			return p.Cities
		}
	}
	return nil
}

// DefaultCityIndex computes the default position within cities for the
// currently selected prefecture.
//
// The sticky default city applies only when selectedPrefecture is the
// designated default prefecture; every other prefecture defaults to index 0.
// This asymmetry is deliberate: the preset city name is only meaningful
// inside its own prefecture and must never be matched elsewhere.
//
// found is false only when the sticky rule applied but the designated city
// was missing from the list (the caller should warn); in every other case it
// is true.
func DefaultCityIndex(cities []City, selectedPrefecture string, defaults DefaultSelection) (index int, found bool) {
	if selectedPrefecture != defaults.Prefecture {
		return 0, true
	}
	for i, c := range cities {
		if c.Name == defaults.City {
			return i, true
		}
	}
	return 0, false
}

// ResolveCode returns the location code of the first city with the given
// name. ok is false when the list is empty or no name matches; callers must
// treat that as "selection incomplete", not as a failure.
func ResolveCode(cities []City, selectedCityName string) (code string, ok bool) {
	for _, c := range cities {
		if c.Name == selectedCityName {
			return c.ID, true
		}
	}
	return "", false
}
