package jdb

import (
	"bytes"
	"strings"
	"testing"
)

func TestDump_EmptyStoreProducesNoLines(t *testing.T) {
	db := openTestDB(t)
	var buf bytes.Buffer
	if err := db.View(func(tx *Tx) error {
		return tx.Dump(&buf)
	}); err != nil {
		t.Fatalf("View: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("Dump on an empty store wrote %q, wanted nothing", buf.String())
	}
}

func TestDump_WritesOneTabSeparatedLinePerRecord(t *testing.T) {
	db := openTestDB(t)
	if err := db.Update(func(tx *Tx) error {
		return tx.Root().Set(Key("a"), Number(1))
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var buf bytes.Buffer
	if err := db.View(func(tx *Tx) error {
		return tx.Dump(&buf)
	}); err != nil {
		t.Fatalf("View: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// One record for the root's own object marker, one for the scalar child.
	if len(lines) != 2 {
		t.Fatalf("Dump wrote %d lines, wanted 2: %q", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "\t") {
			t.Fatalf("Dump line %q has no tab separator", line)
		}
	}
	if !strings.Contains(buf.String(), `."a"=`) {
		t.Fatalf("Dump output missing the scalar's key: %q", buf.String())
	}
}

func TestDump_OutputIsInCodecKeyOrder(t *testing.T) {
	db := openTestDB(t)
	if err := db.Update(func(tx *Tx) error {
		root := tx.Root()
		for _, k := range []string{"z", "a", "m"} {
			if err := root.Set(Key(k), Number(1)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var buf bytes.Buffer
	if err := db.View(func(tx *Tx) error {
		return tx.Dump(&buf)
	}); err != nil {
		t.Fatalf("View: %v", err)
	}

	text := buf.String()
	ia := strings.Index(text, `."a"=`)
	im := strings.Index(text, `."m"=`)
	iz := strings.Index(text, `."z"=`)
	if ia < 0 || im < 0 || iz < 0 {
		t.Fatalf("Dump output missing expected keys: %q", text)
	}
	if !(ia < im && im < iz) {
		t.Fatalf("Dump keys out of codec order: a@%d m@%d z@%d", ia, im, iz)
	}
}
