package jdb

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.etcd.io/bbolt"
)

const trackTxns = true

// DB is the public facade over the core: the store.open/root/commit/abort
// /close surface described in spec.md §6. It owns a storage adapter (bbolt
// by default; an in-memory adapter for tests) plus process-local counters.
type DB struct {
	st      storage
	logf    func(format string, args ...any)
	log     *slog.Logger
	verbose bool

	lastSize     atomic.Int64
	ReadCount    atomic.Uint64
	WriteCount   atomic.Uint64
	CommitCount  atomic.Uint64
	AbortCount   atomic.Uint64
	CorruptCount atomic.Uint64

	txns     []*Tx
	txnsLock sync.Mutex

	metrics *storeMetrics
}

// Options configures Open. Logf and Log are both accepted so callers that
// already have a printf-style logger (tests, scripts) don't need to adapt
// to slog, while the CLI facade wires a real *slog.Logger.
type Options struct {
	Logf      func(format string, args ...any)
	Log       *slog.Logger
	Verbose   bool
	IsTesting bool
	MmapSize  int
}

// Open opens (creating if necessary) a store backed by a bbolt file at
// path.
func Open(path string, opt Options) (*DB, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 1024
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("jdb: opening %s: %w", path, err)
	}

	return newDB(newBoltStorage(bdb), opt)
}

// OpenMem opens a store backed entirely by an in-memory snapshot engine,
// for tests and short-lived tools that don't need a file on disk.
func OpenMem(opt Options) (*DB, error) {
	return newDB(newMemStorage(), opt)
}

func newDB(st storage, opt Options) (*DB, error) {
	log := opt.Log
	if log == nil {
		log = slog.Default()
	}
	db := &DB{
		st:      st,
		logf:    opt.Logf,
		log:     log,
		verbose: opt.Verbose,
		metrics: newStoreMetrics(),
	}
	if err := db.ensureSchema(); err != nil {
		db.st.Close()
		return nil, err
	}
	return db, nil
}

// ensureSchema creates the records bucket and the metadata document on
// first open.
func (db *DB) ensureSchema() error {
	return db.update(func(tx *Tx) error {
		return ensureMeta(tx)
	})
}

func (db *DB) Close() error {
	return db.st.Close()
}

func (db *DB) Size() int64 {
	return db.lastSize.Load()
}

// Stats returns a point-in-time snapshot of the process-local counters,
// mirroring what's also exported via VictoriaMetrics (see monitoring.go).
func (db *DB) Stats() Stats {
	return Stats{
		Reads:      db.ReadCount.Load(),
		Writes:     db.WriteCount.Load(),
		Commits:    db.CommitCount.Load(),
		Aborts:     db.AbortCount.Load(),
		Corruption: db.CorruptCount.Load(),
		SizeBytes:  db.Size(),
	}
}

func (db *DB) addTx(tx *Tx) {
	if !trackTxns {
		return
	}
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()
	db.txns = append(db.txns, tx)
}

func (db *DB) removeTx(tx *Tx) {
	if !trackTxns {
		return
	}
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()
	for i, t := range db.txns {
		if t == tx {
			n := len(db.txns)
			db.txns[i] = db.txns[n-1]
			db.txns[n-1] = nil
			db.txns = db.txns[:n-1]
			return
		}
	}
}

// View runs f in a read-only transaction scoped to the call: f's return
// value decides nothing, since a read-only transaction is always rolled
// back, but a non-nil error still propagates.
func (db *DB) View(f func(tx *Tx) error) error {
	return db.run(false, f)
}

// Update runs f in a writable transaction: commit on a nil return, abort
// on any error or panic (spec §5's "one of commit or abort runs on every
// exit path").
func (db *DB) Update(f func(tx *Tx) error) error {
	return db.update(f)
}

func (db *DB) update(f func(tx *Tx) error) error {
	return db.run(true, f)
}

func (db *DB) run(writable bool, f func(tx *Tx) error) error {
	stx, err := db.st.BeginTx(writable)
	if err != nil {
		return engineErr(err, "beginning transaction")
	}

	var bucket storageBucket
	if writable {
		bucket, err = stx.CreateBucket(recordsBucket)
		if err != nil {
			stx.Rollback()
			return engineErr(err, "opening records bucket")
		}
	} else if bucket = stx.Bucket(recordsBucket); bucket == nil {
		// Nothing has ever been written: reads see an empty keyspace.
		bucket = emptyBucket{}
	}

	tx := newTx(db, stx, bucket)
	db.addTx(tx)
	defer db.removeTx(tx)

	funcErr := safelyCall(f, tx)

	if !writable {
		stx.Rollback()
		return funcErr
	}

	if funcErr != nil {
		stx.Rollback()
		db.AbortCount.Add(1)
		db.recordAbort()
		return funcErr
	}

	pendingCount := len(tx.buf.pending)
	if err := tx.buf.commit(); err != nil {
		stx.Rollback()
		db.AbortCount.Add(1)
		db.recordAbort()
		return err
	}
	if err := stx.Commit(); err != nil {
		db.AbortCount.Add(1)
		db.recordAbort()
		return engineErr(err, "committing transaction")
	}
	db.CommitCount.Add(1)
	db.recordCommit(pendingCount)
	db.lastSize.Store(stx.Size())
	return nil
}
