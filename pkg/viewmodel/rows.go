package viewmodel

import (
	"sort"
	"strings"

	"github.com/neofeed/neofeed/pkg/neo"
	"github.com/neofeed/neofeed/pkg/optional"
)

// Row is one label/value line of the detail screen.
type Row struct {
	Title  string
	Detail string
}

type field struct {
	key string
	get func(o *neo.NearEarthObject) any
}

// optionalAny unwraps a present value, or returns nil.
func optionalAny[T any](v optional.Value[T]) any {
	if x, ok := v.Get(); ok {
		return x
	}
	return nil
}

// objectFields lists every field of a NearEarthObject in declaration order.
// Only those whose value turns out to be a string become rows.
var objectFields = []field{
	{"id", func(o *neo.NearEarthObject) any { return o.ID }},
	{"links", func(o *neo.NearEarthObject) any { return optionalAny(o.Links) }},
	{"neo_reference_id", func(o *neo.NearEarthObject) any { return optionalAny(o.NeoReferenceID) }},
	{"name", func(o *neo.NearEarthObject) any { return optionalAny(o.Name) }},
	{"nasa_jpl_url", func(o *neo.NearEarthObject) any { return optionalAny(o.NasaJPLURL) }},
	{"absolute_magnitude_h", func(o *neo.NearEarthObject) any { return optionalAny(o.AbsoluteMagnitudeH) }},
	{"estimated_diameter", func(o *neo.NearEarthObject) any { return optionalAny(o.EstimatedDiameter) }},
	{"is_potentially_hazardous_asteroid", func(o *neo.NearEarthObject) any { return optionalAny(o.IsPotentiallyHazardous) }},
	{"is_sentry_object", func(o *neo.NearEarthObject) any { return optionalAny(o.IsSentryObject) }},
	{"close_approach_data", func(o *neo.NearEarthObject) any { return o.CloseApproachData }},
}

// BuildRows returns the display rows for o, sorted by field name. Fields
// without a string value are left out.
func BuildRows(o *neo.NearEarthObject) []Row {
	if o == nil {
		return nil
	}
	type kv struct{ key, value string }
	var kvs []kv
	for _, f := range objectFields {
		if s, ok := f.get(o).(string); ok {
			kvs = append(kvs, kv{f.key, s})
		}
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].key < kvs[j].key })

	rows := make([]Row, len(kvs))
	for i, e := range kvs {
		rows[i] = Row{Title: strings.ReplaceAll(e.key, "_", " "), Detail: e.value}
	}
	return rows
}
