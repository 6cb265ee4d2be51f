package main

import (
	"fmt"

	"github.com/relaypoint/jdb"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check invariants I1-I5 across the whole keyspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := jdb.Open(dbPath(), jdb.Options{Log: logger})
			if err != nil {
				return err
			}
			defer db.Close()

			verifyErr := db.View(func(tx *jdb.Tx) error {
				return jdb.Verify(tx)
			})
			if verifyErr != nil {
				return verifyErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
