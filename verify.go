package jdb

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Verify walks the entire keyspace and checks invariants I1-I5 from
// spec.md §3, aggregating every violation it finds via go-multierror
// rather than stopping at the first one. A nil return means the store is
// internally consistent.
func Verify(tx *Tx) error {
	var errs *multierror.Error

	root := tx.Root()
	if _, ok := tx.buf.get(encodeKey(nil, root.kind)); !ok {
		// No root marker: valid only if the keyspace holds no records at all.
		if len(tx.buf.scan(nil, dumpUpperBound)) > 0 {
			return corruptionErr(nil, nil, "records present but no root container marker")
		}
		return nil
	}

	errs = verifyContainer(tx, root.path, root.kind, errs)
	if err := errs.ErrorOrNil(); err != nil {
		return corruptionErr(nil, err, "%d invariant violation(s)", len(errs.Errors))
	}
	return nil
}

// verifyContainer recursively checks one container's direct children
// (I1-I3), recursing into nested containers, and returns errs with any new
// violations appended.
func verifyContainer(tx *Tx, path Path, kind Kind, errs *multierror.Error) *multierror.Error {
	v := &View{tx: tx, path: path, kind: kind}

	if kind == KindArray {
		n, err := v.arrayLength()
		if err != nil {
			return multierror.Append(errs, err)
		}
		seen := map[int]bool{}
		lo, hi := containerRange(path, KindArray)
		for _, e := range tx.buf.scan(lo, hi) {
			step, remainder, ok := decodeChild(lo, e.Key)
			if !ok {
				continue // v's own marker
			}
			if !step.IsIndex() {
				errs = multierror.Append(errs, fmt.Errorf("jdb: array at %s has an object-key child %v", path, step))
				continue
			}
			if seen[step.IndexVal()] {
				continue // already descended into this element via its first record
			}
			seen[step.IndexVal()] = true
			errs = verifyChildRecord(tx, path, step, remainder, errs)
		}
		for i := 0; i < n; i++ {
			if !seen[i] {
				errs = multierror.Append(errs, fmt.Errorf("jdb: array at %s (length %d) missing element [%d]", path, n, i))
			}
		}
		for i := range seen {
			if i < 0 || i >= n {
				errs = multierror.Append(errs, fmt.Errorf("jdb: array at %s (length %d) has an out-of-range element [%d]", path, n, i))
			}
		}
		return errs
	}

	lo, hi := containerRange(path, KindObject)
	seenKeys := map[string]bool{}
	for _, e := range tx.buf.scan(lo, hi) {
		step, remainder, ok := decodeChild(lo, e.Key)
		if !ok {
			continue
		}
		if step.IsIndex() {
			errs = multierror.Append(errs, fmt.Errorf("jdb: object at %s has an array-index child %v", path, step))
			continue
		}
		if seenKeys[step.KeyStr()] {
			continue // already descended into this child via its first record
		}
		seenKeys[step.KeyStr()] = true
		errs = verifyChildRecord(tx, path, step, remainder, errs)
	}
	return errs
}

// verifyChildRecord checks I1/I2 for one direct child given the remainder
// bytes decoded from its first (smallest) key, then recurses for containers.
func verifyChildRecord(tx *Tx, parent Path, step Step, remainder []byte, errs *multierror.Error) *multierror.Error {
	childPath := parent.Child(step)
	if len(remainder) == 0 {
		return multierror.Append(errs, fmt.Errorf("jdb: child %s has no marker or scalar record of its own", childPath))
	}
	switch remainder[0] {
	case suffixScalar:
		if len(remainder) != 1 {
			return multierror.Append(errs, fmt.Errorf("jdb: scalar child %s has descendant records beyond its '=' record", childPath))
		}
		val, ok := tx.buf.get(encodeKey(childPath, KindNull))
		if !ok {
			return multierror.Append(errs, fmt.Errorf("jdb: scalar child %s marker disappeared mid-scan", childPath))
		}
		if _, err := decodeScalar(val); err != nil {
			return multierror.Append(errs, fmt.Errorf("jdb: scalar child %s failed to decode: %w", childPath, err))
		}
		return errs
	case suffixObject, suffixArray:
		if len(remainder) != 1 {
			// The child's first record is a descendant, not its own marker.
			errs = multierror.Append(errs, fmt.Errorf("jdb: container child %s has descendant records but no marker of its own", childPath))
		}
		if remainder[0] == suffixObject {
			return verifyContainer(tx, childPath, KindObject, errs)
		}
		return verifyContainer(tx, childPath, KindArray, errs)
	default:
		return multierror.Append(errs, fmt.Errorf("jdb: child %s has an unrecognized kind-suffix byte %q", childPath, remainder[0]))
	}
}
