package main

import (
	"errors"

	"github.com/relaypoint/jdb"
	"github.com/spf13/cobra"
)

// getOrNil is Get, except a missing-key error (including "store root does
// not exist" on a brand-new store) is reported as no child rather than an
// error, so set can lazily create intermediate containers.
func getOrNil(v *jdb.View, step jdb.Step) (*jdb.View, error) {
	_, child, err := v.Get(step)
	if errors.Is(err, jdb.ErrMissingKey) {
		return nil, nil
	}
	return child, err
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <json>",
		Short: "Assign a JSON literal at a path, in one committed transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := jdb.ParsePath(args[0])
			if err != nil {
				return err
			}
			val, err := jdb.ValueFromJSON([]byte(args[1]))
			if err != nil {
				return err
			}
			if len(path) == 0 {
				return errors.New("jdbtool: set requires a non-root path, e.g. .key or [0]")
			}
			db, err := jdb.Open(dbPath(), jdb.Options{Log: logger, Verbose: rootVerbose()})
			if err != nil {
				return err
			}
			defer db.Close()

			return db.Update(func(tx *jdb.Tx) error {
				parent := tx.Root()
				for _, step := range path[:len(path)-1] {
					child, err := getOrNil(parent, step)
					if err != nil {
						return err
					}
					if child == nil {
						if err := parent.Set(step, jdb.Object()); err != nil {
							return err
						}
						if child, err = getOrNil(parent, step); err != nil {
							return err
						}
					}
					parent = child
				}
				return parent.Set(path[len(path)-1], val)
			})
		},
	}
}
