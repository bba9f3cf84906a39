package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/neofeed/neofeed/internal/config"
	"github.com/neofeed/neofeed/pkg/feed"
	"github.com/neofeed/neofeed/pkg/neo"
)

func main() {
	// Usage: go run *.go -apikey "your_nasa_api_key" -date 2024-12-29

	keyFlag := flag.String("apikey", config.DefaultAPIKey, "NASA API key")
	dateFlag := flag.String("date", "", "Day to fetch (YYYY-MM-DD, default today)")

	// Parse the command-line flags
	flag.Parse()

	day := time.Now()
	if *dateFlag != "" {
		d, err := neo.ParseAPIDate(*dateFlag, time.Local)
		if err != nil {
			fmt.Println("Invalid -date, expected YYYY-MM-DD:", err)
			return
		}
		day = d
	}

	cfg := config.New(config.Prod)
	cfg.APIKey = *keyFlag

	client, err := feed.NewClient(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	res := feed.Await(context.Background(), client.FetchFeed(context.Background(), day))
	if res.Err != nil {
		fmt.Println(res.Err)
		return
	}
	if res.Value == nil {
		fmt.Println(feed.ErrEmptyFeed)
		return
	}

	for date, objs := range res.Value.NearEarthObjects {
		for _, o := range objs {
			fmt.Println(date, o.ID, o.DisplayName(), o.ShortDescription())
		}
	}
}
