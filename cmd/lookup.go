package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/neofeed/neofeed/internal/utils"
	"github.com/neofeed/neofeed/pkg/output"
	"github.com/neofeed/neofeed/pkg/share"
	"github.com/neofeed/neofeed/pkg/storage"
	"github.com/neofeed/neofeed/pkg/viewmodel"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Show the details of one object, optionally sharing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doShare, _ := cmd.Flags().GetBool("share")
		shareLog, _ := cmd.Flags().GetString("sharelog")

		deps, err := dependencies()
		if err != nil {
			return err
		}

		var sink share.Sink
		if doShare {
			dbPath, err := utils.GetAbsDBPath(shareLog)
			if err != nil {
				return err
			}
			db, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			utils.Log.Debugf("Recording shares in %s", dbPath)
			sink = share.Multi(share.WriterSink{W: cmd.OutOrStdout()}, db.Sink())
		}

		return runLookup(cmd.Context(), cmd.OutOrStdout(), deps.Detail(args[0]), args[0], sink)
	},
}

// runLookup loads the object behind detail, prints its rows to w and, when
// sink is non-nil, shares it through sink.
func runLookup(ctx context.Context, w io.Writer, detail *viewmodel.Detail, id string, sink share.Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appear := make(chan struct{})
	shareCh := make(chan struct{})
	states := detail.Transform(ctx, viewmodel.DetailInput{OnAppear: appear, OnShare: shareCh}).ViewState

	next := func(trigger chan<- struct{}) (viewmodel.DetailViewState, error) {
		select {
		case trigger <- struct{}{}:
		case <-ctx.Done():
			return viewmodel.DetailViewState{}, ctx.Err()
		}
		s, ok := <-states
		if !ok {
			return viewmodel.DetailViewState{}, ctx.Err()
		}
		return s, nil
	}

	s, err := next(appear)
	if err != nil {
		return err
	}
	switch {
	case s.Kind == viewmodel.DetailFailure:
		return fmt.Errorf("lookup failed: %w", s.Err)
	case s.Object == nil:
		return fmt.Errorf("object %s not found", id)
	}

	if err := output.PrintRows(w, detail.Title()+" ("+detail.ShortDescription()+")", detail.Rows()); err != nil {
		return err
	}
	if sink == nil {
		return nil
	}

	s, err = next(shareCh)
	if err != nil {
		return err
	}
	p := share.FromObject(*s.Object)
	fmt.Fprintln(w)
	if err := sink.Share(ctx, p); err != nil {
		return err
	}
	utils.Log.Debugf("Shared %s", p.ID)
	return nil
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().Bool("share", false, "Print the share payload and record it in the share log")
	lookupCmd.Flags().String("sharelog", "", "Path to the share log SQLite file (default: ~/.config/neofeed/shares.sqlite)")
}
