package jdb

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Tx is a transaction scope over the store: a storageTx plus the
// bufferedStore overlay that gives it read-your-writes semantics. Tx is
// not safe for concurrent use — the core assumes a single logical writer
// (spec §5).
type Tx struct {
	db        *DB
	stx       storageTx
	buf       *bufferedStore
	startTime time.Time
}

func newTx(db *DB, stx storageTx, bucket storageBucket) *Tx {
	return &Tx{
		db:        db,
		stx:       stx,
		buf:       newBufferedStore(bucket),
		startTime: time.Now(),
	}
}

// Writable reports whether this transaction may mutate the store.
func (tx *Tx) Writable() bool { return tx.stx.Writable() }

// Root returns a live Graph View of the store's root container. Its kind
// reflects whatever is already on disk; on a brand-new empty store the
// kind is provisional and resolved by the first call to Set (see
// View.ensureLive).
func (tx *Tx) Root() *View {
	v := &View{tx: tx, path: nil, kind: KindObject}
	if _, ok := tx.buf.get(encodeKey(nil, KindArray)); ok {
		v.kind = KindArray
	}
	return v
}

// panicked wraps a recovered panic as an error, the way a managed
// transaction must in order to still run its deferred rollback.
type panicked struct {
	reason any
	stack  string
}

func (p panicked) Error() string {
	return fmt.Sprintf("jdb: panic in transaction: %v\n\n%s", p.reason, p.stack)
}

func safelyCall(fn func(*Tx) error, tx *Tx) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked{p, string(debug.Stack())}
		}
	}()
	return fn(tx)
}
