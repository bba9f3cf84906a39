package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neofeed/neofeed/internal/config"
	"github.com/neofeed/neofeed/internal/utils"
	"github.com/neofeed/neofeed/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.Log.SetOutput(io.Discard)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.New(config.Dev)
	cfg.BaseURL = server.URL + "/neo/rest/v1/"
	cfg.APIKey = "TEST_KEY"
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestFetchFeedRequestsSingleDay(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/rest/v1/feed", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2024-12-29", q.Get("start_date"))
		assert.Equal(t, "2024-12-29", q.Get("end_date"))
		assert.Equal(t, "TEST_KEY", q.Get("api_key"))
		w.Write([]byte(`{"element_count":1,"near_earth_objects":{"2024-12-29":[{"id":"1","name":"X"}]}}`))
	})

	end := time.Date(2024, 12, 29, 18, 0, 0, 0, time.UTC)
	res := Await(context.Background(), c.FetchFeed(context.Background(), end))
	require.NoError(t, res.Err)
	require.NotNil(t, res.Value)
	assert.Equal(t, 1, res.Value.ElementCount.Or(0))
	assert.Len(t, res.Value.NearEarthObjects["2024-12-29"], 1)
}

func TestFetchFeedNullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	res := Await(context.Background(), c.FetchFeed(context.Background(), time.Now()))
	require.NoError(t, res.Err)
	assert.Nil(t, res.Value)
}

func TestFetchFeedUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"API_KEY_MISSING","message":"No api_key was supplied."}}`))
	})

	res := Await(context.Background(), c.FetchFeed(context.Background(), time.Now()))
	require.Error(t, res.Err)
	assert.Nil(t, res.Value)
	var dle *network.DataLoadingError
	require.ErrorAs(t, res.Err, &dle)
	assert.Equal(t, http.StatusUnauthorized, dle.StatusCode)
}

func TestFetchObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/rest/v1/lookup.php", r.URL.Path)
		switch r.URL.Query().Get("i") {
		case "2000433":
			w.Write([]byte(`{"nearEarthObject":{"id":"2000433","name":"433 Eros"}}`))
		default:
			w.Write([]byte(`{"nearEarthObject":null}`))
		}
	})

	res := Await(context.Background(), c.FetchObject(context.Background(), "2000433"))
	require.NoError(t, res.Err)
	require.NotNil(t, res.Value)
	assert.Equal(t, "433 Eros", res.Value.Name.Or(""))

	res = Await(context.Background(), c.FetchObject(context.Background(), "missing"))
	require.NoError(t, res.Err)
	assert.Nil(t, res.Value)
}

func TestFetchObjectDecodingError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	res := Await(context.Background(), c.FetchObject(context.Background(), "1"))
	var de *network.DecodingError
	assert.ErrorAs(t, res.Err, &de)
}

func TestAwaitContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	never := make(chan Result[int])
	res := Await(ctx, never)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestAwaitClosedChannel(t *testing.T) {
	ch := make(chan Result[int])
	close(ch)
	assert.ErrorIs(t, Await(context.Background(), ch).Err, ErrUnknown)
}

func TestStubDefaults(t *testing.T) {
	s := &Stub{}
	end := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	res := Await(context.Background(), s.FetchFeed(context.Background(), end))
	require.NoError(t, res.Err)
	assert.Len(t, res.Value.NearEarthObjects["2025-01-02"], len(SampleObjects()))
	assert.Equal(t, []time.Time{end}, s.FeedCalls())

	obj := Await(context.Background(), s.FetchObject(context.Background(), "3542519"))
	require.NoError(t, obj.Err)
	require.NotNil(t, obj.Value)
	assert.True(t, obj.Value.Hazardous())

	obj = Await(context.Background(), s.FetchObject(context.Background(), "nope"))
	assert.Nil(t, obj.Value)
	assert.Equal(t, []string{"3542519", "nope"}, s.ObjectCalls())
}
