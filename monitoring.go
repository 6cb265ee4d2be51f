package jdb

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// Stats is a plain point-in-time snapshot of DB's counters, for callers
// that don't want to scrape a metrics.Set directly (tests, the CLI's
// `stats` command).
type Stats struct {
	Reads      uint64
	Writes     uint64
	Commits    uint64
	Aborts     uint64
	Corruption uint64
	SizeBytes  int64
}

// storeMetrics holds one DB's process-local VictoriaMetrics counters and
// histograms, registered in a private set (rather than the global default
// registry) so multiple DBs opened in one process, as tests routinely do,
// never collide on metric names.
type storeMetrics struct {
	set *metrics.Set

	reads      *metrics.Counter
	writes     *metrics.Counter
	commits    *metrics.Counter
	aborts     *metrics.Counter
	corruption *metrics.Counter
	commitSize *metrics.Histogram
}

var storeMetricsSeq int

func newStoreMetrics() *storeMetrics {
	storeMetricsSeq++
	set := metrics.NewSet()
	sm := &storeMetrics{
		set:        set,
		reads:      set.NewCounter(fmt.Sprintf(`jdb_reads_total{store="%d"}`, storeMetricsSeq)),
		writes:     set.NewCounter(fmt.Sprintf(`jdb_writes_total{store="%d"}`, storeMetricsSeq)),
		commits:    set.NewCounter(fmt.Sprintf(`jdb_commits_total{store="%d"}`, storeMetricsSeq)),
		aborts:     set.NewCounter(fmt.Sprintf(`jdb_aborts_total{store="%d"}`, storeMetricsSeq)),
		corruption: set.NewCounter(fmt.Sprintf(`jdb_corruption_total{store="%d"}`, storeMetricsSeq)),
		commitSize: set.NewHistogram(fmt.Sprintf(`jdb_commit_size_records{store="%d"}`, storeMetricsSeq)),
	}
	return sm
}

// WritePrometheus appends this DB's metrics in Prometheus exposition
// format, for embedding in a host process's own /metrics handler.
func (db *DB) WritePrometheus(w io.Writer) {
	db.metrics.set.WritePrometheus(w)
}

func (db *DB) recordRead()           { db.ReadCount.Add(1); db.metrics.reads.Inc() }
func (db *DB) recordWrite()          { db.WriteCount.Add(1); db.metrics.writes.Inc() }
func (db *DB) recordCorruption()     { db.CorruptCount.Add(1); db.metrics.corruption.Inc() }
func (db *DB) recordCommit(size int) { db.metrics.commits.Inc(); db.metrics.commitSize.Update(float64(size)) }
func (db *DB) recordAbort()          { db.metrics.aborts.Inc() }
