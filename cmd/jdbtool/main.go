// Command jdbtool is a small inspection and scripting CLI over a jdb store:
// get/set a path, dump the raw keyspace, verify invariants, and report
// Stats(). It is a convenience binary over the public API, not a wire
// protocol of its own.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
