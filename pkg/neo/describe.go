package neo

import "fmt"

// ShortDescription is the one-line summary shown under an object's name,
// e.g. "diameter 0.4 km". Missing diameters render as "-".
func (o NearEarthObject) ShortDescription() string {
	avg := "-"
	if ed, ok := o.EstimatedDiameter.Get(); ok {
		if km, ok := ed.Kilometers.Get(); ok {
			if v, ok := km.Avg().Get(); ok {
				avg = fmt.Sprintf("%.1f", v)
			}
		}
	}
	return "diameter " + avg + " km"
}

// DisplayName returns the object's name, falling back to its ID.
func (o NearEarthObject) DisplayName() string {
	return o.Name.Or(o.ID)
}

// Hazardous reports the hazard flag, treating absent as false.
func (o NearEarthObject) Hazardous() bool {
	return o.IsPotentiallyHazardous.Or(false)
}
