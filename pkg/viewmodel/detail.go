package viewmodel

import (
	"context"
	"sync"

	"github.com/neofeed/neofeed/pkg/feed"
	"github.com/neofeed/neofeed/pkg/neo"
)

const laneAppear = 0

type DetailStateKind int

const (
	DetailSuccess DetailStateKind = iota
	DetailFailure
	DetailShare
)

func (k DetailStateKind) String() string {
	switch k {
	case DetailSuccess:
		return "success"
	case DetailFailure:
		return "failure"
	case DetailShare:
		return "share"
	}
	return "unknown"
}

// DetailViewState is one emission of the detail screen. Object may be nil on
// success when the lookup found nothing.
type DetailViewState struct {
	Kind   DetailStateKind
	Object *neo.NearEarthObject
	Err    error
}

// sameAs reports whether s would render identically to prev. Successes
// compare by object ID; failures and shares compare by kind alone.
func (s DetailViewState) sameAs(prev DetailViewState) bool {
	if s.Kind != prev.Kind {
		return false
	}
	if s.Kind == DetailSuccess {
		return objectID(s.Object) == objectID(prev.Object)
	}
	return true
}

func objectID(o *neo.NearEarthObject) string {
	if o == nil {
		return ""
	}
	return o.ID
}

type DetailInput struct {
	OnAppear <-chan struct{}
	OnShare  <-chan struct{}
}

type DetailOutput struct {
	ViewState <-chan DetailViewState
}

// Detail is the view-model of a single object's screen.
type Detail struct {
	feed feed.Service
	log  Logger

	mu     sync.RWMutex
	object neo.NearEarthObject
	rows   []Row
}

func NewDetail(obj neo.NearEarthObject, svc feed.Service, log Logger) *Detail {
	return &Detail{feed: svc, log: orNop(log), object: obj, rows: BuildRows(&obj)}
}

// Title is the object's name, or "No name".
func (d *Detail) Title() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.object.Name.Or("No name")
}

func (d *Detail) ShortDescription() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.object.ShortDescription()
}

func (d *Detail) Object() neo.NearEarthObject {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.object
}

func (d *Detail) Rows() []Row {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Row(nil), d.rows...)
}

// Transform merges the appear and share triggers into one view-state stream.
// Each appear refetches the held object, superseding any fetch still in
// flight. Consecutive states that would render the same are emitted once.
func (d *Detail) Transform(ctx context.Context, in DetailInput) DetailOutput {
	out := make(chan DetailViewState)
	go d.run(ctx, in, out)
	return DetailOutput{ViewState: out}
}

func (d *Detail) run(ctx context.Context, in DetailInput, out chan<- DetailViewState) {
	l := newLanes[feed.Result[*neo.NearEarthObject]](1)
	defer func() {
		l.stop()
		close(out)
	}()

	var (
		last    DetailViewState
		emitted bool
	)
	emit := func(s DetailViewState) bool {
		if emitted && s.sameAs(last) {
			d.log.Debugf("dropping duplicate %s state", s.Kind)
			return true
		}
		select {
		case out <- s:
			last, emitted = s, true
			return true
		case <-ctx.Done():
			return false
		}
	}

	appear, share := in.OnAppear, in.OnShare
	for appear != nil || share != nil || !l.idle() {
		select {
		case <-ctx.Done():
			return

		case _, ok := <-appear:
			if !ok {
				appear = nil
				continue
			}
			id := d.Object().ID
			d.log.Debugf("fetching object %s", id)
			l.dispatch(ctx, laneAppear, func(ctx context.Context) feed.Result[*neo.NearEarthObject] {
				return feed.Await(ctx, d.feed.FetchObject(ctx, id))
			})

		case _, ok := <-share:
			if !ok {
				share = nil
				continue
			}
			obj := d.Object()
			if !emit(DetailViewState{Kind: DetailShare, Object: &obj}) {
				return
			}

		case c := <-l.done:
			if ctx.Err() != nil {
				return
			}
			if !l.settle(c) {
				d.log.Debugf("discarding superseded lookup")
				continue
			}
			if !emit(d.apply(c.value)) {
				return
			}
		}
	}
}

func (d *Detail) apply(res feed.Result[*neo.NearEarthObject]) DetailViewState {
	if res.Err != nil {
		d.log.Warnf("lookup failed: %v", res.Err)
		return DetailViewState{Kind: DetailFailure, Err: res.Err}
	}
	if res.Value == nil {
		return DetailViewState{Kind: DetailSuccess}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.object = *res.Value
	d.rows = BuildRows(res.Value)
	obj := d.object
	return DetailViewState{Kind: DetailSuccess, Object: &obj}
}
