package jdb

import "sort"

const recordsBucket = "records"

// pendingEntry is the latest decision recorded for one key in a
// bufferedStore: either a value to write, or a tombstone.
type pendingEntry struct {
	Seq       uint64
	Value     []byte
	Tombstone bool
}

// bufferedStore overlays an in-memory pending map and range-tombstone set
// on top of a storageBucket, giving every read within a transaction
// read-your-writes visibility of not-yet-committed changes without paying
// for a round trip to the KV engine on every write. Nothing is visible to
// other transactions until commit flushes pending state into the bucket
// and the underlying storageTx commits.
type bufferedStore struct {
	bucket  storageBucket
	pending map[string]pendingEntry
	ranges  tombstoneSet
	seq     uint64
}

func newBufferedStore(bucket storageBucket) *bufferedStore {
	return &bufferedStore{bucket: bucket, pending: make(map[string]pendingEntry)}
}

func (bs *bufferedStore) nextSeq() uint64 {
	bs.seq++
	return bs.seq
}

// get returns the value at key and whether it exists, honoring pending
// writes, tombstones, and range tombstones ahead of the underlying bucket.
func (bs *bufferedStore) get(key []byte) (value []byte, ok bool) {
	if pe, found := bs.pending[string(key)]; found {
		if pe.Tombstone {
			return nil, false
		}
		return pe.Value, true
	}
	if _, covered := bs.ranges.coveringSeq(key); covered {
		return nil, false
	}
	v := bs.bucket.Get(key)
	if v == nil {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (bs *bufferedStore) put(key, value []byte) {
	bs.pending[string(key)] = pendingEntry{
		Seq:   bs.nextSeq(),
		Value: append([]byte(nil), value...),
	}
}

func (bs *bufferedStore) erase(key []byte) {
	bs.pending[string(key)] = pendingEntry{Seq: bs.nextSeq(), Tombstone: true}
}

// eraseRange marks every key in [lo, hi) as deleted: it drops any pending
// point entries that fall inside the interval (a tombstone added now
// supersedes any earlier point decision for a key it covers) and records a
// range tombstone for everything else, including keys not yet known to the
// transaction at all.
func (bs *bufferedStore) eraseRange(lo, hi []byte) {
	seq := bs.nextSeq()
	for k := range bs.pending {
		if bcmp([]byte(k), lo) >= 0 && bcmp([]byte(k), hi) < 0 {
			delete(bs.pending, k)
		}
	}
	bs.ranges.add(seq, lo, hi)
}

// entry is one (key, value) pair surfaced by scan, already resolved against
// pending state and tombstones.
type entry struct {
	Key   []byte
	Value []byte
}

// scan returns every live record with key in [lo, hi), in ascending key
// order, merging pending writes over the underlying bucket and excluding
// anything covered by a range tombstone (unless a pending write for that
// exact key was recorded after the tombstone, which eraseRange already
// guarantees is never the case: a later tombstone always drops the earlier
// point entry it covers, so any point entry present now postdates every
// tombstone that could otherwise have covered it).
func (bs *bufferedStore) scan(lo, hi []byte) []entry {
	merged := make(map[string][]byte)
	overlapping := bs.ranges.overlapping(lo, hi)

	cur := bs.bucket.Cursor()
	for k, v := cur.Seek(lo); k != nil && bcmp(k, hi) < 0; k, v = cur.Next() {
		if coveredByAny(overlapping, k) {
			continue
		}
		merged[string(k)] = append([]byte(nil), v...)
	}

	for k, pe := range bs.pending {
		kb := []byte(k)
		if bcmp(kb, lo) < 0 || bcmp(kb, hi) >= 0 {
			continue
		}
		if pe.Tombstone {
			delete(merged, k)
			continue
		}
		merged[k] = pe.Value
	}

	out := make([]entry, 0, len(merged))
	for k, v := range merged {
		out = append(out, entry{Key: []byte(k), Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return bcmp(out[i].Key, out[j].Key) < 0 })
	return out
}

// commit flushes all pending state into the underlying bucket: point writes
// become Put/Delete calls, and range tombstones are realized by scanning
// and deleting whatever they cover. Call this inside the owning storageTx
// immediately before that transaction commits; bufferedStore itself never
// touches transaction boundaries.
func (bs *bufferedStore) commit() error {
	if len(bs.ranges.ranges) > 0 {
		lo, hi := bs.ranges.ranges[0].Lo, bs.ranges.ranges[0].Hi
		for _, rt := range bs.ranges.ranges[1:] {
			if bcmp(rt.Lo, lo) < 0 {
				lo = rt.Lo
			}
			if bcmp(rt.Hi, hi) > 0 {
				hi = rt.Hi
			}
		}
		overlapping := bs.ranges.overlapping(lo, hi)
		cur := bs.bucket.Cursor()
		var toDelete [][]byte
		for k, _ := cur.Seek(lo); k != nil && bcmp(k, hi) < 0; k, _ = cur.Next() {
			if coveredByAny(overlapping, k) {
				toDelete = append(toDelete, append([]byte(nil), k...))
			}
		}
		for _, k := range toDelete {
			if err := bs.bucket.Delete(k); err != nil {
				return engineErr(err, "deleting range-tombstoned key %x", k)
			}
		}
	}

	keys := make([]string, 0, len(bs.pending))
	for k := range bs.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		pe := bs.pending[k]
		if pe.Tombstone {
			if err := bs.bucket.Delete([]byte(k)); err != nil {
				return engineErr(err, "deleting key %x", []byte(k))
			}
			continue
		}
		if err := bs.bucket.Put([]byte(k), pe.Value); err != nil {
			return engineErr(err, "writing key %x", []byte(k))
		}
	}

	bs.abort()
	return nil
}

// abort discards all pending state without touching the underlying bucket.
func (bs *bufferedStore) abort() {
	bs.pending = make(map[string]pendingEntry)
	bs.ranges.reset()
	bs.seq = 0
}

// emptyBucket stands in for the records bucket inside a read-only
// transaction opened before anything has ever been written: CreateBucket
// is unavailable on a read-only storageTx, and there's nothing to open.
type emptyBucket struct{}

func (emptyBucket) Get(key []byte) []byte       { return nil }
func (emptyBucket) Put(key, value []byte) error { panic("jdb: write to emptyBucket") }
func (emptyBucket) Delete(key []byte) error     { panic("jdb: write to emptyBucket") }
func (emptyBucket) Cursor() storageCursor       { return emptyCursor{} }
func (emptyBucket) Stats() bucketStats          { return bucketStats{} }
func (emptyBucket) KeyCount() int               { return 0 }

type emptyCursor struct{}

func (emptyCursor) First() (key, value []byte)           { return nil, nil }
func (emptyCursor) Last() (key, value []byte)            { return nil, nil }
func (emptyCursor) Seek(seek []byte) (key, value []byte) { return nil, nil }
func (emptyCursor) Next() (key, value []byte)            { return nil, nil }
func (emptyCursor) Prev() (key, value []byte)            { return nil, nil }
func (emptyCursor) Delete() error                        { panic("jdb: delete on emptyCursor") }
