package main

import (
	"github.com/relaypoint/jdb"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every stored record as key<TAB>payload, in codec order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := jdb.Open(dbPath(), jdb.Options{Log: logger})
			if err != nil {
				return err
			}
			defer db.Close()

			return db.View(func(tx *jdb.Tx) error {
				return tx.Dump(cmd.OutOrStdout())
			})
		},
	}
}
