package main

import (
	"fmt"

	"github.com/relaypoint/jdb"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print Store.Stats()",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := jdb.Open(dbPath(), jdb.Options{Log: logger})
			if err != nil {
				return err
			}
			defer db.Close()

			s := db.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reads:      %d\n", s.Reads)
			fmt.Fprintf(out, "writes:     %d\n", s.Writes)
			fmt.Fprintf(out, "commits:    %d\n", s.Commits)
			fmt.Fprintf(out, "aborts:     %d\n", s.Aborts)
			fmt.Fprintf(out, "corruption: %d\n", s.Corruption)
			fmt.Fprintf(out, "size_bytes: %d\n", s.SizeBytes)
			return nil
		},
	}
}
