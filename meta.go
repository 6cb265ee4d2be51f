package jdb

import (
	"github.com/vmihailenco/msgpack/v5"
)

const (
	metaBucketName = "meta"
	metaKeyName    = "meta"

	currentFormatVersion = 1
)

// StoreMetadata is a small non-normative bookkeeping document kept outside
// the path-encoded keyspace, in its own bucket: it never participates in
// the I1-I5 invariants checked by Verify, since it describes the store
// itself rather than a node in the graph.
type StoreMetadata struct {
	FormatVersion int   `msgpack:"format_version"`
	OpenCount     int64 `msgpack:"open_count"`
	RootKind      int8  `msgpack:"root_kind"`
}

// ensureMeta loads the metadata document (creating it with defaults if
// absent) and bumps OpenCount, all within tx so it commits atomically with
// the rest of the bucket-creation work Open performs on first use.
func ensureMeta(tx *Tx) error {
	bucket, err := tx.stx.CreateBucket(metaBucketName)
	if err != nil {
		return engineErr(err, "opening metadata bucket")
	}
	var meta StoreMetadata
	if raw := bucket.Get([]byte(metaKeyName)); raw != nil {
		if err := msgpack.Unmarshal(raw, &meta); err != nil {
			return corruptionErr(nil, err, "decoding store metadata")
		}
		if meta.FormatVersion != currentFormatVersion {
			return engineErr(nil, "store metadata format version %d unsupported, expected %d", meta.FormatVersion, currentFormatVersion)
		}
	} else {
		meta = StoreMetadata{FormatVersion: currentFormatVersion}
	}
	meta.OpenCount++

	encoded, err := msgpack.Marshal(&meta)
	if err != nil {
		return engineErr(err, "encoding store metadata")
	}
	if err := bucket.Put([]byte(metaKeyName), encoded); err != nil {
		return engineErr(err, "writing store metadata")
	}
	return nil
}

// Metadata reads the current store metadata document.
func (tx *Tx) Metadata() (StoreMetadata, error) {
	bucket := tx.stx.Bucket(metaBucketName)
	if bucket == nil {
		return StoreMetadata{}, corruptionErr(nil, nil, "metadata bucket missing")
	}
	raw := bucket.Get([]byte(metaKeyName))
	if raw == nil {
		return StoreMetadata{}, corruptionErr(nil, nil, "metadata document missing")
	}
	var meta StoreMetadata
	if err := msgpack.Unmarshal(raw, &meta); err != nil {
		return StoreMetadata{}, corruptionErr(nil, err, "decoding store metadata")
	}
	return meta, nil
}

// recordRootKind updates the metadata's RootKind hint, called opportunistically
// whenever the root's kind is first established. Best-effort: a stale hint
// here never causes a wrong answer, since the authoritative root kind is
// always derived from the root marker record itself (see Tx.Root).
func recordRootKind(tx *Tx, kind Kind) error {
	bucket := tx.stx.Bucket(metaBucketName)
	if bucket == nil {
		return nil
	}
	meta, err := tx.Metadata()
	if err != nil {
		return nil
	}
	meta.RootKind = int8(kind)
	encoded, err := msgpack.Marshal(&meta)
	if err != nil {
		return nil
	}
	return bucket.Put([]byte(metaKeyName), encoded)
}
