package main

import (
	"encoding/json"
	"fmt"

	"github.com/relaypoint/jdb"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Print the JSON value at a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := jdb.ParsePath(args[0])
			if err != nil {
				return err
			}
			db, err := jdb.Open(dbPath(), jdb.Options{Log: logger})
			if err != nil {
				return err
			}
			defer db.Close()

			var raw any
			err = db.View(func(tx *jdb.Tx) error {
				root := tx.Root()
				val, err := walkGet(root, path)
				if err != nil {
					return err
				}
				raw = val.Raw()
				return nil
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(raw)
		},
	}
}

// walkGet descends v by path, materializing the final step.
func walkGet(v *jdb.View, path jdb.Path) (jdb.Value, error) {
	if len(path) == 0 {
		return v.Materialize()
	}
	for i, step := range path {
		val, child, err := v.Get(step)
		if err != nil {
			return jdb.Value{}, err
		}
		if i == len(path)-1 {
			if child != nil {
				return child.Materialize()
			}
			return val, nil
		}
		if child == nil {
			return jdb.Value{}, fmt.Errorf("jdbtool: %v is a scalar, cannot descend further", step)
		}
		v = child
	}
	panic("unreachable")
}
