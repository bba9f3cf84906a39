package feed

import (
	"context"
	"errors"
	"time"

	"github.com/neofeed/neofeed/internal/config"
	"github.com/neofeed/neofeed/pkg/neo"
	"github.com/neofeed/neofeed/pkg/network"
)

// Client implements Service over the NeoWs HTTP API.
type Client struct {
	net *network.Service
	cfg *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("feed: nil config")
	}
	n, err := network.NewService(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{net: n, cfg: cfg}, nil
}

// FeedResource requests the single-day window ending at end. A JSON null
// body decodes to a nil feed.
func FeedResource(cfg *config.Config, end time.Time) network.Resource[*neo.Feed] {
	day := neo.APIFormat(end)
	return network.NewResource[*neo.Feed](cfg.BaseURL, cfg.FeedPath,
		network.Param{Key: "start_date", Value: day},
		network.Param{Key: "end_date", Value: day},
	)
}

// ObjectResource looks up one object by identifier.
func ObjectResource(cfg *config.Config, id string) network.Resource[neo.LookupResponse] {
	return network.NewResource[neo.LookupResponse](cfg.BaseURL, cfg.LookupPath,
		network.Param{Key: "i", Value: id},
	)
}

func (c *Client) FetchFeed(ctx context.Context, end time.Time) <-chan Result[*neo.Feed] {
	r := FeedResource(c.cfg, end)
	return async(func() Result[*neo.Feed] {
		f, err := network.Load(ctx, c.net, r)
		if err != nil {
			return Result[*neo.Feed]{Err: err}
		}
		return Result[*neo.Feed]{Value: f}
	})
}

func (c *Client) FetchObject(ctx context.Context, id string) <-chan Result[*neo.NearEarthObject] {
	r := ObjectResource(c.cfg, id)
	return async(func() Result[*neo.NearEarthObject] {
		env, err := network.Load(ctx, c.net, r)
		if err != nil {
			return Result[*neo.NearEarthObject]{Err: err}
		}
		return Result[*neo.NearEarthObject]{Value: env.NearEarthObject}
	})
}
