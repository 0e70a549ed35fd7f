package engine

import "math"

// clamp01 clips x to the unit interval.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// academicFit maps the distance between the student's score and the
// college average to [0,1]. Symmetric: being over-qualified is not worse
// than being under-qualified, only more distant.
func academicFit(sat, satAvg, tolerance float64) float64 {
	d := math.Abs(sat-satAvg) / tolerance
	if d > 1 {
		d = 1
	}
	return 1 - d
}

// costFit maps tuition relative to the budget ceiling to [0,1]. Callers
// must only invoke this with budget > 0; a zero budget excludes the cost
// factor entirely. Free tuition scores a full 1.0.
func costFit(tuition, budget float64) float64 {
	return clamp01(1 - tuition/budget)
}

// locationFit is 1.0 when the college location matches a preference or the
// preference set is empty (unconstrained), else 0.
func locationFit(location string, prefs []string) float64 {
	if len(prefs) == 0 {
		return 1
	}
	for _, p := range prefs {
		if p == location {
			return 1
		}
	}
	return 0
}
