// Package app wires the services a front end needs for a given environment.
package app

import (
	"errors"

	"github.com/neofeed/neofeed/internal/config"
	"github.com/neofeed/neofeed/internal/utils"
	"github.com/neofeed/neofeed/pkg/feed"
	"github.com/neofeed/neofeed/pkg/neo"
	"github.com/neofeed/neofeed/pkg/viewmodel"
)

type Dependencies struct {
	Config *config.Config
	Feed   feed.Service
	Log    viewmodel.Logger
}

// NewDependencies selects the feed service for cfg.Environment: the test
// environment gets the in-process stub, everything else talks to the API.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	d := &Dependencies{Config: cfg, Log: utils.Log}
	if cfg.Environment == config.Test {
		utils.Log.Debug("Using stub feed service")
		d.Feed = &feed.Stub{}
		return d, nil
	}
	c, err := feed.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	d.Feed = c
	return d, nil
}

func (d *Dependencies) Home() *viewmodel.Home {
	return viewmodel.NewHome(d.Feed, d.Log)
}

// Detail builds the detail view-model for an object known only by ID.
func (d *Dependencies) Detail(id string) *viewmodel.Detail {
	return viewmodel.NewDetail(neo.NearEarthObject{ID: id}, d.Feed, d.Log)
}
