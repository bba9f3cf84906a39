// Package neo holds the NeoWs data model. Every field except an object's ID
// may be absent in upstream payloads.
package neo

import "github.com/neofeed/neofeed/pkg/optional"

type Links struct {
	Next     optional.Value[string] `json:"next,omitzero"`
	Previous optional.Value[string] `json:"previous,omitzero"`
	Self     optional.Value[string] `json:"self,omitzero"`
}

// Feed is one page of the feed endpoint. NearEarthObjects is keyed by
// YYYY-MM-DD and carries no ordering.
type Feed struct {
	Links            optional.Value[Links]        `json:"links,omitzero"`
	ElementCount     optional.Value[int]          `json:"element_count,omitzero"`
	NearEarthObjects map[string][]NearEarthObject `json:"near_earth_objects,omitempty"`
}

type Diameter struct {
	Min optional.Value[float64] `json:"estimated_diameter_min,omitzero"`
	Max optional.Value[float64] `json:"estimated_diameter_max,omitzero"`
}

// Avg is the midpoint of Min and Max, absent unless both are present.
func (d Diameter) Avg() optional.Value[float64] {
	lo, ok1 := d.Min.Get()
	hi, ok2 := d.Max.Get()
	if !ok1 || !ok2 {
		return optional.None[float64]()
	}
	return optional.Of((lo + hi) / 2)
}

type EstimatedDiameter struct {
	Kilometers optional.Value[Diameter] `json:"kilometers,omitzero"`
	Meters     optional.Value[Diameter] `json:"meters,omitzero"`
	Miles      optional.Value[Diameter] `json:"miles,omitzero"`
	Feet       optional.Value[Diameter] `json:"feet,omitzero"`
}

type RelativeVelocity struct {
	KilometersPerSecond optional.Value[string] `json:"kilometers_per_second,omitzero"`
	KilometersPerHour   optional.Value[string] `json:"kilometers_per_hour,omitzero"`
	MilesPerHour        optional.Value[string] `json:"miles_per_hour,omitzero"`
}

type MissDistance struct {
	Astronomical optional.Value[string] `json:"astronomical,omitzero"`
	Lunar        optional.Value[string] `json:"lunar,omitzero"`
	Kilometers   optional.Value[string] `json:"kilometers,omitzero"`
	Miles        optional.Value[string] `json:"miles,omitzero"`
}

type CloseApproachData struct {
	CloseApproachDate      string                           `json:"close_approach_date"`
	CloseApproachDateFull  optional.Value[string]           `json:"close_approach_date_full,omitzero"`
	EpochDateCloseApproach int64                            `json:"epoch_date_close_approach"`
	RelativeVelocity       optional.Value[RelativeVelocity] `json:"relative_velocity,omitzero"`
	MissDistance           optional.Value[MissDistance]     `json:"miss_distance,omitzero"`
	OrbitingBody           optional.Value[string]           `json:"orbiting_body,omitzero"`
}

type NearEarthObject struct {
	ID                     string                            `json:"id"`
	Links                  optional.Value[Links]             `json:"links,omitzero"`
	NeoReferenceID         optional.Value[string]            `json:"neo_reference_id,omitzero"`
	Name                   optional.Value[string]            `json:"name,omitzero"`
	NasaJPLURL             optional.Value[string]            `json:"nasa_jpl_url,omitzero"`
	AbsoluteMagnitudeH     optional.Value[float64]           `json:"absolute_magnitude_h,omitzero"`
	EstimatedDiameter      optional.Value[EstimatedDiameter] `json:"estimated_diameter,omitzero"`
	IsPotentiallyHazardous optional.Value[bool]              `json:"is_potentially_hazardous_asteroid,omitzero"`
	IsSentryObject         optional.Value[bool]              `json:"is_sentry_object,omitzero"`
	CloseApproachData      []CloseApproachData               `json:"close_approach_data,omitempty"`
}

// LookupResponse is the envelope returned by the object lookup endpoint.
type LookupResponse struct {
	NearEarthObject *NearEarthObject `json:"nearEarthObject"`
}
