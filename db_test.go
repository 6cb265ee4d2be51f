package jdb

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDB_UpdateCommitsAcrossTransactions(t *testing.T) {
	db := openTestDB(t)
	if err := db.Update(func(tx *Tx) error {
		return tx.Root().Set(Key("a"), Number(1))
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := db.View(func(tx *Tx) error {
		val, _, err := tx.Root().Get(Key("a"))
		if err != nil {
			return err
		}
		if val.Number() != 1 {
			t.Fatalf("Get(a) = %v, wanted 1", val.Raw())
		}
		return nil
	}); err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestDB_UpdateAbortsOnError(t *testing.T) {
	db := openTestDB(t)
	sentinel := errors.New("boom")
	err := db.Update(func(tx *Tx) error {
		if err := tx.Root().Set(Key("a"), Number(1)); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Update error = %v, wanted the sentinel error", err)
	}
	if err := db.View(func(tx *Tx) error {
		if _, _, err := tx.Root().Get(Key("a")); !errors.Is(err, ErrMissingKey) {
			t.Fatalf("Get(a) after aborted Update = %v, wanted ErrMissingKey", err)
		}
		return nil
	}); err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestDB_UpdateAbortsOnPanic(t *testing.T) {
	db := openTestDB(t)
	err := db.Update(func(tx *Tx) error {
		if err := tx.Root().Set(Key("a"), Number(1)); err != nil {
			return err
		}
		panic("deliberate")
	})
	if err == nil {
		t.Fatalf("Update that panicked returned nil error")
	}
	if !strings.Contains(err.Error(), "deliberate") {
		t.Fatalf("Update panic error = %v, wanted it to mention the panic reason", err)
	}
	if err := db.View(func(tx *Tx) error {
		if _, _, err := tx.Root().Get(Key("a")); !errors.Is(err, ErrMissingKey) {
			t.Fatalf("Get(a) after panicking Update = %v, wanted ErrMissingKey", err)
		}
		return nil
	}); err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestDB_ViewOnNeverWrittenStoreReportsMissingRoot(t *testing.T) {
	db := openTestDB(t)
	if err := db.View(func(tx *Tx) error {
		_, err := tx.Root().Iterate()
		if !errors.Is(err, ErrMissingKey) {
			t.Fatalf("Iterate() on a never-written store = %v, wanted ErrMissingKey (no root yet)", err)
		}
		return nil
	}); err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestDB_StatsTracksReadsWritesAndCommits(t *testing.T) {
	db := openTestDB(t)
	if err := db.Update(func(tx *Tx) error {
		return tx.Root().Set(Key("a"), Number(1))
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := db.View(func(tx *Tx) error {
		_, _, err := tx.Root().Get(Key("a"))
		return err
	}); err != nil {
		t.Fatalf("View: %v", err)
	}

	stats := db.Stats()
	if stats.Writes == 0 {
		t.Fatalf("Stats().Writes = 0, wanted at least 1 after a Set")
	}
	if stats.Reads == 0 {
		t.Fatalf("Stats().Reads = 0, wanted at least 1 after a Get")
	}
	if stats.Commits == 0 {
		t.Fatalf("Stats().Commits = 0, wanted at least 1 after a successful Update")
	}
}

func TestDB_StatsTracksAborts(t *testing.T) {
	db := openTestDB(t)
	sentinel := errors.New("boom")
	_ = db.Update(func(tx *Tx) error { return sentinel })
	if db.Stats().Aborts == 0 {
		t.Fatalf("Stats().Aborts = 0, wanted at least 1 after a failed Update")
	}
}

func TestDB_WritePrometheusIncludesCounters(t *testing.T) {
	db := openTestDB(t)
	if err := db.Update(func(tx *Tx) error {
		return tx.Root().Set(Key("a"), Number(1))
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	var buf bytes.Buffer
	db.WritePrometheus(&buf)
	if !strings.Contains(buf.String(), "jdb_writes_total") {
		t.Fatalf("WritePrometheus output missing jdb_writes_total: %s", buf.String())
	}
}

func TestDB_SeparateMemStoresDoNotCrossOver(t *testing.T) {
	// Each OpenMem store is its own isolated keyspace.
	a := openTestDB(t)
	b := openTestDB(t)
	if err := a.Update(func(tx *Tx) error {
		return tx.Root().Set(Key("only-in-a"), Number(1))
	}); err != nil {
		t.Fatalf("Update on a: %v", err)
	}
	if err := b.View(func(tx *Tx) error {
		if _, _, err := tx.Root().Get(Key("only-in-a")); !errors.Is(err, ErrMissingKey) {
			t.Fatalf("Get on b saw a's write: err = %v", err)
		}
		return nil
	}); err != nil {
		t.Fatalf("View on b: %v", err)
	}
}
