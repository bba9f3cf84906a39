package viewmodel

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/neofeed/neofeed/pkg/feed"
	"github.com/neofeed/neofeed/pkg/neo"
)

const (
	laneRefresh = iota
	laneLoadMore
)

// HomeSection is one day of the feed, ready for display.
type HomeSection struct {
	Date    time.Time
	Objects []neo.NearEarthObject
}

type HomeStateKind int

const (
	HomeSuccess HomeStateKind = iota
	HomeFailure
)

// HomeViewState is one emission of the home screen's output stream. On
// success Sections is a snapshot of all accumulated sections.
type HomeViewState struct {
	Kind     HomeStateKind
	Sections []HomeSection
	Err      error
}

// HomeInput carries the two trigger streams. Either may be nil.
type HomeInput struct {
	OnRefresh  <-chan struct{}
	OnLoadMore <-chan struct{}
}

type HomeOutput struct {
	ViewState <-chan HomeViewState
}

// Home is the paginated feed view-model. Refresh loads the page for today;
// each load-more walks one day further into the past and appends its page.
type Home struct {
	feed feed.Service
	log  Logger
	now  func() time.Time

	mu            sync.RWMutex
	anchorDate    time.Time
	isLoadingMore bool
	sections      []HomeSection
}

func NewHome(svc feed.Service, log Logger) *Home {
	h := &Home{feed: svc, log: orNop(log), now: time.Now}
	h.anchorDate = h.now()
	return h
}

// AnchorDate is the day of the most recently applied page.
func (h *Home) AnchorDate() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.anchorDate
}

// IsLoadingMore is true while a load-more fetch is outstanding. The UI uses
// it to avoid firing load-more again while the spinner is visible.
func (h *Home) IsLoadingMore() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.isLoadingMore
}

func (h *Home) Sections() []HomeSection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]HomeSection(nil), h.sections...)
}

// Transform subscribes to in and returns the merged view-state stream. States
// are emitted in the order fetches complete. Each trigger cancels the
// previous in-flight fetch of the same kind, and its late result is dropped.
// Refresh and load-more are not ordered against each other.
//
// The output is closed when ctx ends, or once both inputs are closed and no
// fetch is outstanding.
func (h *Home) Transform(ctx context.Context, in HomeInput) HomeOutput {
	out := make(chan HomeViewState)
	go h.run(ctx, in, out)
	return HomeOutput{ViewState: out}
}

func (h *Home) run(ctx context.Context, in HomeInput, out chan<- HomeViewState) {
	l := newLanes[feed.Result[*neo.Feed]](2)
	defer func() {
		l.stop()
		h.mu.Lock()
		h.isLoadingMore = false
		h.mu.Unlock()
		close(out)
	}()

	refresh, loadMore := in.OnRefresh, in.OnLoadMore
	for refresh != nil || loadMore != nil || !l.idle() {
		select {
		case <-ctx.Done():
			return

		case _, ok := <-refresh:
			if !ok {
				refresh = nil
				continue
			}
			end := h.beginRefresh()
			h.log.Debugf("refresh: fetching feed for %s", neo.APIFormat(end))
			l.dispatch(ctx, laneRefresh, h.fetch(end))

		case _, ok := <-loadMore:
			if !ok {
				loadMore = nil
				continue
			}
			end := h.beginLoadMore()
			h.log.Debugf("load more: fetching feed for %s", neo.APIFormat(end))
			l.dispatch(ctx, laneLoadMore, h.fetch(end))

		case c := <-l.done:
			if ctx.Err() != nil {
				return
			}
			if !l.settle(c) {
				h.log.Debugf("discarding superseded response (lane %d)", c.lane)
				continue
			}
			var state HomeViewState
			if c.lane == laneRefresh {
				state = h.applyRefresh(c.value)
			} else {
				state = h.applyLoadMore(c.value)
			}
			select {
			case out <- state:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Home) fetch(end time.Time) func(context.Context) feed.Result[*neo.Feed] {
	return func(ctx context.Context) feed.Result[*neo.Feed] {
		return feed.Await(ctx, h.feed.FetchFeed(ctx, end))
	}
}

func (h *Home) beginRefresh() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.anchorDate = h.now()
	return h.anchorDate
}

func (h *Home) beginLoadMore() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isLoadingMore = true
	return neo.DayBefore(h.anchorDate)
}

func (h *Home) applyRefresh(res feed.Result[*neo.Feed]) HomeViewState {
	if err := resultError(res); err != nil {
		h.log.Warnf("refresh failed: %v", err)
		return HomeViewState{Kind: HomeFailure, Err: err}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.sections = h.sectionsFrom(res.Value)
	return HomeViewState{Kind: HomeSuccess, Sections: append([]HomeSection(nil), h.sections...)}
}

func (h *Home) applyLoadMore(res feed.Result[*neo.Feed]) HomeViewState {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isLoadingMore = false

	if err := resultError(res); err != nil {
		h.log.Warnf("load more failed: %v", err)
		return HomeViewState{Kind: HomeFailure, Err: err}
	}

	h.anchorDate = neo.DayBefore(h.anchorDate)
	h.sections = append(h.sections, h.sectionsFrom(res.Value)...)
	return HomeViewState{Kind: HomeSuccess, Sections: append([]HomeSection(nil), h.sections...)}
}

func resultError(res feed.Result[*neo.Feed]) error {
	if res.Err != nil {
		return res.Err
	}
	if res.Value == nil {
		return feed.ErrEmptyFeed
	}
	return nil
}

// sectionsFrom turns a page into sections, newest day first. Keys that are
// not calendar dates are skipped. Callers hold h.mu.
func (h *Home) sectionsFrom(f *neo.Feed) []HomeSection {
	loc := h.anchorDate.Location()
	out := make([]HomeSection, 0, len(f.NearEarthObjects))
	for key, objs := range f.NearEarthObjects {
		date, err := neo.ParseAPIDate(key, loc)
		if err != nil {
			h.log.Debugf("skipping malformed date key %q", key)
			continue
		}
		out = append(out, HomeSection{Date: date, Objects: objs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
