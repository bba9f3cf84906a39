package cmd

import (
	"fmt"
	"os"

	"github.com/neofeed/neofeed/internal/utils"
	"github.com/neofeed/neofeed/pkg/storage"
	"github.com/spf13/cobra"
)

var sharesCmd = &cobra.Command{
	Use:   "shares",
	Short: "Show recently shared objects (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath, _ := cmd.Flags().GetString("dbpath")
		limit, _ := cmd.Flags().GetInt("limit")
		dbPath, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		entries, err := db.ListRecentShares(cmd.Context(), limit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			ts := e.SharedAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-8s  %s  %s  hazardous=%t\n", ts, e.ObjectID, e.Name, e.URL, e.Hazardous)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sharesCmd)
	sharesCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: ~/.config/neofeed/shares.sqlite)")
	sharesCmd.Flags().Int("limit", 50, "Number of recent shares to show")
}
