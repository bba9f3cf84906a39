package viewmodel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/neofeed/neofeed/pkg/feed"
	"github.com/neofeed/neofeed/pkg/neo"
	"github.com/neofeed/neofeed/pkg/network"
	"github.com/neofeed/neofeed/pkg/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, time.December, 29, 9, 30, 0, 0, time.UTC)

func newTestHome(svc feed.Service, now ...time.Time) *Home {
	h := NewHome(svc, nil)
	var mu sync.Mutex
	h.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now[0]
		if len(now) > 1 {
			now = now[1:]
		}
		return t
	}
	h.anchorDate = now[0]
	return h
}

type homeHarness struct {
	refresh  chan struct{}
	loadMore chan struct{}
	out      <-chan HomeViewState
	cancel   context.CancelFunc
}

func startHome(t *testing.T, h *Home) *homeHarness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hh := &homeHarness{refresh: make(chan struct{}), loadMore: make(chan struct{}), cancel: cancel}
	hh.out = h.Transform(ctx, HomeInput{OnRefresh: hh.refresh, OnLoadMore: hh.loadMore}).ViewState
	return hh
}

func (hh *homeHarness) next(t *testing.T) HomeViewState {
	t.Helper()
	select {
	case s, ok := <-hh.out:
		require.True(t, ok, "view state stream closed")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for view state")
	}
	return HomeViewState{}
}

// drain closes the inputs and returns everything emitted until the output
// closes.
func (hh *homeHarness) drain(t *testing.T) []HomeViewState {
	t.Helper()
	close(hh.refresh)
	close(hh.loadMore)
	var states []HomeViewState
	for {
		select {
		case s, ok := <-hh.out:
			if !ok {
				return states
			}
			states = append(states, s)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for view state stream to close")
		}
	}
}

func sectionDates(sections []HomeSection) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = neo.APIFormat(s.Date)
	}
	return out
}

func TestHomeRefreshBuildsSections(t *testing.T) {
	obj := neo.NearEarthObject{ID: "2000433", Name: optional.Of("433 Eros (A898 PA)")}
	stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
		return feed.Result[*neo.Feed]{Value: &neo.Feed{
			ElementCount:     optional.Of(1),
			NearEarthObjects: map[string][]neo.NearEarthObject{"2024-12-29": {obj}},
		}}
	}}
	h := newTestHome(stub, day)
	hh := startHome(t, h)

	hh.refresh <- struct{}{}
	s := hh.next(t)

	require.Equal(t, HomeSuccess, s.Kind)
	require.Len(t, s.Sections, 1)
	assert.True(t, s.Sections[0].Date.Equal(time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []neo.NearEarthObject{obj}, s.Sections[0].Objects)
	assert.Equal(t, s.Sections, h.Sections())
	require.Len(t, stub.FeedCalls(), 1)
	assert.Equal(t, "2024-12-29", neo.APIFormat(stub.FeedCalls()[0]))
}

func TestHomeRefreshSortsAndSkipsMalformedKeys(t *testing.T) {
	stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
		return feed.Result[*neo.Feed]{Value: &neo.Feed{NearEarthObjects: map[string][]neo.NearEarthObject{
			"2024-12-27": {{ID: "a"}},
			"2024-12-29": {{ID: "b"}},
			"garbage":    {{ID: "c"}},
			"2024-12-28": {{ID: "d"}},
		}}}
	}}
	hh := startHome(t, newTestHome(stub, day))

	hh.refresh <- struct{}{}
	s := hh.next(t)

	require.Equal(t, HomeSuccess, s.Kind)
	assert.Equal(t, []string{"2024-12-29", "2024-12-28", "2024-12-27"}, sectionDates(s.Sections))
}

func TestHomeNilFeedKeepsSections(t *testing.T) {
	var mu sync.Mutex
	empty := false
	stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
		mu.Lock()
		defer mu.Unlock()
		if empty {
			return feed.Result[*neo.Feed]{}
		}
		return feed.SampleFeed(end)
	}}
	h := newTestHome(stub, day)
	hh := startHome(t, h)

	hh.refresh <- struct{}{}
	first := hh.next(t)
	require.Equal(t, HomeSuccess, first.Kind)

	mu.Lock()
	empty = true
	mu.Unlock()

	hh.refresh <- struct{}{}
	s := hh.next(t)
	assert.Equal(t, HomeFailure, s.Kind)
	assert.ErrorIs(t, s.Err, feed.ErrEmptyFeed)
	assert.Equal(t, first.Sections, h.Sections())
}

func TestHomeLoadMoreWalksBackOneDay(t *testing.T) {
	stub := &feed.Stub{}
	h := newTestHome(stub, day)
	hh := startHome(t, h)

	hh.refresh <- struct{}{}
	require.Equal(t, HomeSuccess, hh.next(t).Kind)

	hh.loadMore <- struct{}{}
	s := hh.next(t)
	require.Equal(t, HomeSuccess, s.Kind)
	assert.Equal(t, []string{"2024-12-29", "2024-12-28"}, sectionDates(s.Sections))
	assert.Equal(t, "2024-12-28", neo.APIFormat(h.AnchorDate()))

	hh.loadMore <- struct{}{}
	s = hh.next(t)
	assert.Equal(t, []string{"2024-12-29", "2024-12-28", "2024-12-27"}, sectionDates(s.Sections))
	assert.Equal(t, "2024-12-27", neo.APIFormat(h.AnchorDate()))

	// Refresh resets the anchor and replaces every section.
	hh.refresh <- struct{}{}
	s = hh.next(t)
	assert.Equal(t, []string{"2024-12-29"}, sectionDates(s.Sections))
	assert.Equal(t, "2024-12-29", neo.APIFormat(h.AnchorDate()))
}

func TestHomeLoadMoreAcrossYearBoundary(t *testing.T) {
	stub := &feed.Stub{}
	h := newTestHome(stub, time.Date(2025, time.January, 1, 0, 5, 0, 0, time.UTC))
	hh := startHome(t, h)

	hh.loadMore <- struct{}{}
	s := hh.next(t)
	require.Equal(t, HomeSuccess, s.Kind)
	assert.Equal(t, []string{"2024-12-31"}, sectionDates(s.Sections))
}

func TestHomeIsLoadingMoreLifecycle(t *testing.T) {
	gate := make(chan struct{})
	stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
		<-gate
		return feed.SampleFeed(end)
	}}
	h := newTestHome(stub, day)
	hh := startHome(t, h)

	assert.False(t, h.IsLoadingMore())
	hh.loadMore <- struct{}{}
	assert.Eventually(t, h.IsLoadingMore, time.Second, 5*time.Millisecond)

	close(gate)
	s := hh.next(t)
	require.Equal(t, HomeSuccess, s.Kind)
	assert.False(t, h.IsLoadingMore())
}

func TestHomeLoadMoreFailureLeavesState(t *testing.T) {
	var mu sync.Mutex
	fail := false
	stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return feed.Result[*neo.Feed]{Err: &network.DataLoadingError{StatusCode: 401, Body: []byte(`{}`)}}
		}
		return feed.SampleFeed(end)
	}}
	h := newTestHome(stub, day)
	hh := startHome(t, h)

	hh.refresh <- struct{}{}
	before := hh.next(t)
	require.Equal(t, HomeSuccess, before.Kind)

	mu.Lock()
	fail = true
	mu.Unlock()

	hh.loadMore <- struct{}{}
	s := hh.next(t)
	require.Equal(t, HomeFailure, s.Kind)
	assert.Equal(t, 401, network.StatusCode(s.Err))
	assert.False(t, h.IsLoadingMore())
	assert.Equal(t, "2024-12-29", neo.APIFormat(h.AnchorDate()))
	assert.Equal(t, before.Sections, h.Sections())
}

func TestHomeLatestRefreshWins(t *testing.T) {
	first := time.Date(2024, time.December, 28, 9, 0, 0, 0, time.UTC)
	second := day
	gates := map[string]chan struct{}{
		neo.APIFormat(first):  make(chan struct{}),
		neo.APIFormat(second): make(chan struct{}),
	}
	stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
		<-gates[neo.APIFormat(end)]
		return feed.SampleFeed(end)
	}}
	h := newTestHome(stub, first, second)
	hh := startHome(t, h)

	hh.refresh <- struct{}{}
	hh.refresh <- struct{}{}

	close(gates[neo.APIFormat(second)])
	s := hh.next(t)
	require.Equal(t, HomeSuccess, s.Kind)
	assert.Equal(t, []string{"2024-12-29"}, sectionDates(s.Sections))

	close(gates[neo.APIFormat(first)])
	assert.Empty(t, hh.drain(t), "superseded refresh must not be applied")
	assert.Equal(t, []string{"2024-12-29"}, sectionDates(h.Sections()))
}

func TestHomeLatestLoadMoreWins(t *testing.T) {
	release := make(chan struct{})
	stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
		<-release
		return feed.SampleFeed(end)
	}}
	h := newTestHome(stub, day)
	hh := startHome(t, h)

	hh.loadMore <- struct{}{}
	assert.Eventually(t, h.IsLoadingMore, time.Second, 5*time.Millisecond)
	hh.loadMore <- struct{}{}
	assert.Eventually(t, func() bool { return len(stub.FeedCalls()) == 2 }, time.Second, 5*time.Millisecond)

	// Both fetches target the same day: the anchor only moves on success.
	for _, c := range stub.FeedCalls() {
		assert.Equal(t, "2024-12-28", neo.APIFormat(c))
	}

	close(release)
	s := hh.next(t)
	require.Equal(t, HomeSuccess, s.Kind)
	assert.Equal(t, []string{"2024-12-28"}, sectionDates(s.Sections))
	assert.False(t, h.IsLoadingMore())
	assert.Equal(t, "2024-12-28", neo.APIFormat(h.AnchorDate()))

	assert.Empty(t, hh.drain(t), "superseded load more must not be applied")
	assert.Equal(t, []string{"2024-12-28"}, sectionDates(h.Sections()))
	assert.Equal(t, "2024-12-28", neo.APIFormat(h.AnchorDate()))
}

func TestHomeRefreshAndLoadMoreInFlight(t *testing.T) {
	for _, tc := range []struct {
		name  string
		order []string
		want  [][]string
	}{
		{
			name:  "load more lands first",
			order: []string{"2024-12-28", "2024-12-29"},
			want:  [][]string{{"2024-12-28"}, {"2024-12-29"}},
		},
		{
			name:  "refresh lands first",
			order: []string{"2024-12-29", "2024-12-28"},
			want:  [][]string{{"2024-12-29"}, {"2024-12-29", "2024-12-28"}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gates := map[string]chan struct{}{
				"2024-12-28": make(chan struct{}),
				"2024-12-29": make(chan struct{}),
			}
			stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
				<-gates[neo.APIFormat(end)]
				return feed.SampleFeed(end)
			}}
			h := newTestHome(stub, day)
			hh := startHome(t, h)

			hh.refresh <- struct{}{}
			hh.loadMore <- struct{}{}
			assert.Eventually(t, func() bool { return len(stub.FeedCalls()) == 2 }, time.Second, 5*time.Millisecond)

			// Neither lane supersedes the other; each result is applied as
			// it arrives.
			for i, date := range tc.order {
				close(gates[date])
				s := hh.next(t)
				require.Equal(t, HomeSuccess, s.Kind)
				assert.Equal(t, tc.want[i], sectionDates(s.Sections))
			}

			assert.Empty(t, hh.drain(t))
			assert.False(t, h.IsLoadingMore())
			assert.Equal(t, "2024-12-28", neo.APIFormat(h.AnchorDate()))
			assert.Equal(t, tc.want[len(tc.want)-1], sectionDates(h.Sections()))
		})
	}
}

func TestHomeCancelClosesOutput(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	stub := &feed.Stub{FeedFunc: func(end time.Time) feed.Result[*neo.Feed] {
		<-gate
		return feed.SampleFeed(end)
	}}
	h := newTestHome(stub, day)
	hh := startHome(t, h)

	hh.loadMore <- struct{}{}
	assert.Eventually(t, h.IsLoadingMore, time.Second, 5*time.Millisecond)
	hh.cancel()

	select {
	case _, ok := <-hh.out:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("output not closed after cancel")
	}
	assert.False(t, h.IsLoadingMore())
}
