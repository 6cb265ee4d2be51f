package jdb

import "sort"

// rangeTombstone marks every key in [Lo, Hi) as deleted as of Seq. Range
// tombstones accumulate in a bufferedStore across erase_range calls (a
// container delete or array-tail shift issues one per affected interval)
// and are cleared on commit/abort along with the rest of the pending state.
type rangeTombstone struct {
	Seq    uint64
	Lo, Hi []byte
}

func (rt rangeTombstone) covers(key []byte) bool {
	return bcmp(key, rt.Lo) >= 0 && bcmp(key, rt.Hi) < 0
}

func (rt rangeTombstone) overlaps(lo, hi []byte) bool {
	return bcmp(rt.Lo, hi) < 0 && bcmp(lo, rt.Hi) < 0
}

// tombstoneSet holds the accumulated range tombstones for a transaction's
// pending state. Lookups are linear; a transaction's pending range count is
// expected to stay small (one per container delete or array shift), so this
// favors simplicity over a tree-shaped interval index.
type tombstoneSet struct {
	ranges []rangeTombstone
}

func (ts *tombstoneSet) add(seq uint64, lo, hi []byte) {
	ts.ranges = append(ts.ranges, rangeTombstone{Seq: seq, Lo: append([]byte(nil), lo...), Hi: append([]byte(nil), hi...)})
}

// coveringSeq returns the highest Seq of any tombstone covering key, and
// whether any tombstone covers it at all.
func (ts *tombstoneSet) coveringSeq(key []byte) (seq uint64, covered bool) {
	for _, rt := range ts.ranges {
		if rt.covers(key) && (!covered || rt.Seq > seq) {
			seq, covered = rt.Seq, true
		}
	}
	return seq, covered
}

// overlapping returns the tombstones that overlap [lo, hi), sorted by Lo,
// for use when merge-scanning a range: the caller treats every engine or
// pending key inside one of these intervals as deleted unless a pending
// point write with a higher Seq says otherwise.
func (ts *tombstoneSet) overlapping(lo, hi []byte) []rangeTombstone {
	var out []rangeTombstone
	for _, rt := range ts.ranges {
		if rt.overlaps(lo, hi) {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return bcmp(out[i].Lo, out[j].Lo) < 0 })
	return out
}

func (ts *tombstoneSet) reset() { ts.ranges = nil }

// coveredByAny reports whether key falls in any of the given tombstones,
// which the caller has typically narrowed with overlapping first so this
// only has to check the intervals that could possibly matter.
func coveredByAny(ranges []rangeTombstone, key []byte) bool {
	for _, rt := range ranges {
		if rt.covers(key) {
			return true
		}
	}
	return false
}

func bcmp(a, b []byte) int {
	switch {
	case string(a) < string(b):
		return -1
	case string(a) > string(b):
		return 1
	default:
		return 0
	}
}
