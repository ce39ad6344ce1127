package chart

import (
	"math"

	"stellium/internal/domain/astro"
)

// Aspects finds all angular relationships between the supplied body
// positions. Pairs are enumerated in input order (i < j), angle pseudo-bodies
// are skipped, and each pair is assigned to the first matching definition in
// the aspect table, so at most one aspect is emitted per pair. For fixed
// inputs the result set is exactly reproducible.
func Aspects(positions []astro.BodyPosition) []astro.Aspect {
	aspects := []astro.Aspect{}
	for i := 0; i < len(positions); i++ {
		if astro.Body(positions[i].Name).IsAngle() {
			continue
		}
		for j := i + 1; j < len(positions); j++ {
			if astro.Body(positions[j].Name).IsAngle() {
				continue
			}
			sep := separation(positions[i].Longitude, positions[j].Longitude)
			for _, def := range astro.AspectTable {
				deviation := math.Abs(sep - def.Angle)
				if deviation <= def.Orb {
					aspects = append(aspects, astro.Aspect{
						BodyA:      positions[i].Name,
						BodyB:      positions[j].Name,
						Type:       def.Type,
						Orb:        math.Round(deviation*10) / 10,
						Separation: sep,
					})
					break
				}
			}
		}
	}
	return aspects
}

// separation folds the absolute angular distance between two longitudes to
// at most 180 degrees. Longitudes outside [0,360) are wrapped first, so
// caller-supplied values like 370 or -10 measure the same as 10 and 350.
func separation(a, b float64) float64 {
	d := math.Abs(normalize(a) - normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
