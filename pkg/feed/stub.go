package feed

import (
	"context"
	"sync"
	"time"

	"github.com/neofeed/neofeed/pkg/neo"
	"github.com/neofeed/neofeed/pkg/optional"
)

// Stub is a deterministic in-process Service. By default every FetchFeed
// returns one page keyed by the requested day holding SampleObjects, and
// FetchObject returns the sample with the matching ID.
//
// FeedFunc and ObjectFunc override the defaults.
type Stub struct {
	FeedFunc   func(end time.Time) Result[*neo.Feed]
	ObjectFunc func(id string) Result[*neo.NearEarthObject]

	mu          sync.Mutex
	feedCalls   []time.Time
	objectCalls []string
}

func (s *Stub) FetchFeed(ctx context.Context, end time.Time) <-chan Result[*neo.Feed] {
	s.mu.Lock()
	s.feedCalls = append(s.feedCalls, end)
	fn := s.FeedFunc
	s.mu.Unlock()

	if fn == nil {
		fn = SampleFeed
	}
	return async(func() Result[*neo.Feed] { return fn(end) })
}

func (s *Stub) FetchObject(ctx context.Context, id string) <-chan Result[*neo.NearEarthObject] {
	s.mu.Lock()
	s.objectCalls = append(s.objectCalls, id)
	fn := s.ObjectFunc
	s.mu.Unlock()

	if fn == nil {
		fn = SampleObject
	}
	return async(func() Result[*neo.NearEarthObject] { return fn(id) })
}

// FeedCalls returns the end dates requested so far.
func (s *Stub) FeedCalls() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.feedCalls...)
}

// ObjectCalls returns the identifiers requested so far.
func (s *Stub) ObjectCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.objectCalls...)
}

// SampleFeed builds a one-day page for end.
func SampleFeed(end time.Time) Result[*neo.Feed] {
	objs := SampleObjects()
	return Result[*neo.Feed]{Value: &neo.Feed{
		ElementCount:     optional.Of(len(objs)),
		NearEarthObjects: map[string][]neo.NearEarthObject{neo.APIFormat(end): objs},
	}}
}

// SampleObject looks id up among SampleObjects; unknown IDs yield a nil
// object, as the lookup endpoint does.
func SampleObject(id string) Result[*neo.NearEarthObject] {
	for _, o := range SampleObjects() {
		if o.ID == id {
			return Result[*neo.NearEarthObject]{Value: &o}
		}
	}
	return Result[*neo.NearEarthObject]{}
}

func SampleObjects() []neo.NearEarthObject {
	km := func(lo, hi float64) optional.Value[neo.EstimatedDiameter] {
		return optional.Of(neo.EstimatedDiameter{
			Kilometers: optional.Of(neo.Diameter{Min: optional.Of(lo), Max: optional.Of(hi)}),
		})
	}
	return []neo.NearEarthObject{
		{
			ID:                     "2000433",
			NeoReferenceID:         optional.Of("2000433"),
			Name:                   optional.Of("433 Eros (A898 PA)"),
			NasaJPLURL:             optional.Of("https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=2000433"),
			AbsoluteMagnitudeH:     optional.Of(10.38),
			EstimatedDiameter:      km(22.0, 49.2),
			IsPotentiallyHazardous: optional.Of(false),
			IsSentryObject:         optional.Of(false),
		},
		{
			ID:                     "3542519",
			NeoReferenceID:         optional.Of("3542519"),
			Name:                   optional.Of("(2010 PK9)"),
			NasaJPLURL:             optional.Of("https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=3542519"),
			AbsoluteMagnitudeH:     optional.Of(21.9),
			EstimatedDiameter:      km(0.11, 0.24),
			IsPotentiallyHazardous: optional.Of(true),
		},
	}
}
