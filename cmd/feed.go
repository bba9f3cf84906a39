package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/neofeed/neofeed/internal/utils"
	"github.com/neofeed/neofeed/pkg/output"
	"github.com/neofeed/neofeed/pkg/viewmodel"
	"github.com/spf13/cobra"
)

type feedOptions struct {
	pages     int
	flags     string
	delimiter string
	json      bool
	hazards   bool
}

// feedCmd refreshes the feed and then loads --pages-1 older days, the same
// triggers a scrolling list would fire.
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the near-Earth object feed, newest day first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'neofeed feed --help'", args[0])
		}

		var opts feedOptions
		opts.pages, _ = cmd.Flags().GetInt("pages")
		opts.flags, _ = cmd.Flags().GetString("output")
		opts.delimiter, _ = cmd.Flags().GetString("delimiter")
		opts.json, _ = cmd.Flags().GetBool("json")
		opts.hazards, _ = cmd.Flags().GetBool("hazards")

		if opts.pages < 1 {
			return fmt.Errorf("--pages must be at least 1")
		}
		if !opts.json {
			if err := output.ValidateFlags(opts.flags); err != nil {
				return err
			}
		}

		deps, err := dependencies()
		if err != nil {
			return err
		}
		return runFeed(cmd.Context(), cmd.OutOrStdout(), deps.Home(), opts)
	},
}

// runFeed drives home through one refresh and opts.pages-1 load-mores and
// prints the resulting sections to w. A failed load-more ends paging early
// but still prints what was loaded.
func runFeed(ctx context.Context, w io.Writer, home *viewmodel.Home, opts feedOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	refresh := make(chan struct{})
	loadMore := make(chan struct{})
	states := home.Transform(ctx, viewmodel.HomeInput{OnRefresh: refresh, OnLoadMore: loadMore}).ViewState

	next := func(trigger chan<- struct{}) (viewmodel.HomeViewState, error) {
		select {
		case trigger <- struct{}{}:
		case <-ctx.Done():
			return viewmodel.HomeViewState{}, ctx.Err()
		}
		s, ok := <-states
		if !ok {
			return viewmodel.HomeViewState{}, ctx.Err()
		}
		return s, nil
	}

	s, err := next(refresh)
	if err != nil {
		return err
	}
	if s.Kind == viewmodel.HomeFailure {
		return fmt.Errorf("refresh failed: %w", s.Err)
	}
	for i := 1; i < opts.pages; i++ {
		s, err = next(loadMore)
		if err != nil {
			return err
		}
		if s.Kind == viewmodel.HomeFailure {
			utils.Log.Warnf("Stopping after %d page(s): %v", i, s.Err)
			break
		}
	}

	sections := home.Sections()
	if opts.json {
		return output.WriteJSON(w, sections)
	}
	return output.PrintSections(w, sections, opts.flags, opts.delimiter, opts.hazards)
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().IntP("pages", "p", 1, "Number of days to fetch, walking back from today")
	feedCmd.Flags().StringP("output", "o", output.DefaultFlags, "Output flags. Supported: d (date), i (id), n (name), s (short description), m (absolute magnitude), u (JPL URL). Can be combined. Example: -o dinu")
	feedCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for txt output format")
	feedCmd.Flags().Bool("json", false, "Print sections as JSON")
	feedCmd.Flags().Bool("hazards", true, "Prefix potentially hazardous objects with [HAZARDOUS]")
}
