package jdb

import (
	"bufio"
	"io"
)

// dumpUpperBound is larger than any byte our codec ever emits (keys are
// built from '.', '[', ']', '=', '"', digits, and JSON-quoted UTF-8 key
// text, none of which contains 0xFF), so scanning up to it walks the
// entire keyspace in codec order.
var dumpUpperBound = []byte{0xFF}

// Dump writes every stored record as a "key<TAB>payload\n" line, in codec
// key order, for debugging and for the CLI's `dump` command. It bypasses
// the Graph View entirely and reads the raw keyspace, so it surfaces
// corruption that Verify would also catch, without failing partway through.
func (tx *Tx) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range tx.buf.scan(nil, dumpUpperBound) {
		if _, err := bw.Write(e.Key); err != nil {
			return engineErr(err, "writing dump key")
		}
		if err := bw.WriteByte('\t'); err != nil {
			return engineErr(err, "writing dump separator")
		}
		if _, err := bw.Write(e.Value); err != nil {
			return engineErr(err, "writing dump payload")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return engineErr(err, "writing dump newline")
		}
	}
	return bw.Flush()
}
