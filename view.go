package jdb

import (
	"log/slog"
	"strconv"
)

// View is a live handle (tx, path, kind) onto a container in the graph.
// Construction never reads data; every method below reads or writes on
// demand through the owning transaction's bufferedStore. A View obtained
// from Get remains valid until its own path is deleted by a sibling
// operation in the same transaction, at which point it becomes stale and
// every subsequent method fails with ErrStaleView.
type View struct {
	tx   *Tx
	path Path
	kind Kind
}

// Child is one entry yielded by Iterate: exactly one of Value (scalar) or
// View (nested container) is meaningful, matching the union Get returns.
type Child struct {
	Step  Step
	Value Value
	View  *View
}

func (c Child) IsContainer() bool { return c.View != nil }

// Path returns the view's own path, mainly for diagnostics.
func (v *View) Path() Path { return v.path.Clone() }

// Kind returns whether this view is an object or array.
func (v *View) Kind() Kind { return v.kind }

func stepEqual(a, b Step) bool {
	if a.IsIndex() != b.IsIndex() {
		return false
	}
	if a.IsIndex() {
		return a.IndexVal() == b.IndexVal()
	}
	return a.KeyStr() == b.KeyStr()
}

func (v *View) ownMarkerKey() []byte { return encodeKey(v.path, v.kind) }

func (v *View) corrupt(path Path, cause error, format string, args ...any) error {
	v.tx.db.recordCorruption()
	v.tx.db.log.LogAttrs(nil, slog.LevelError, "jdb: corruption detected",
		hexAttr("marker", v.ownMarkerKey()), slog.String("path", path.String()))
	return corruptionErr(path, cause, format, args...)
}

// checkLive verifies the view's own marker still exists, without creating
// anything. Used by every read-only operation.
func (v *View) checkLive() error {
	if _, ok := v.tx.buf.get(v.ownMarkerKey()); ok {
		return nil
	}
	if len(v.path) == 0 {
		return errf(KindMissingKey, nil, nil, "store root does not exist (empty store)")
	}
	return staleViewErr(v.path)
}

// ensureLive verifies the view's own marker exists, creating it if the view
// is the root and the store is still empty. step shapes the root's kind on
// first creation: an index step makes the root an array, a key step makes
// it an object. Non-root views never auto-create; an absent marker there
// always means the view went stale.
func (v *View) ensureLive(step Step) error {
	if _, ok := v.tx.buf.get(v.ownMarkerKey()); ok {
		return nil
	}
	if len(v.path) != 0 {
		return staleViewErr(v.path)
	}
	if step.IsIndex() {
		v.kind = KindArray
	} else {
		v.kind = KindObject
	}
	if err := v.writeOwnMarker(0); err != nil {
		return err
	}
	_ = recordRootKind(v.tx, v.kind)
	return nil
}

func (v *View) writeOwnMarker(arrayLen int) error {
	var payload []byte
	if v.kind == KindArray {
		payload = strconv.AppendInt(nil, int64(arrayLen), 10)
	}
	v.tx.buf.put(v.ownMarkerKey(), payload)
	return nil
}

func (v *View) arrayLength() (int, error) {
	payload, ok := v.tx.buf.get(v.ownMarkerKey())
	if !ok {
		return 0, staleViewErr(v.path)
	}
	if len(payload) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(string(payload))
	if err != nil {
		return 0, v.corrupt(v.path, err, "array length marker %q is not a decimal integer", payload)
	}
	return n, nil
}

func (v *View) checkStepKind(step Step) error {
	if v.kind == KindArray && !step.IsIndex() {
		return typeMismatchErr(v.path, KindArray, KindObject)
	}
	if v.kind == KindObject && step.IsIndex() {
		return typeMismatchErr(v.path, KindObject, KindArray)
	}
	return nil
}

// Length returns the number of direct children: for an array, the decimal
// length marker; for an object, the count of distinct direct children
// discovered by scanning the container's range.
func (v *View) Length() (int, error) {
	if err := v.checkLive(); err != nil {
		return 0, err
	}
	if v.kind == KindArray {
		return v.arrayLength()
	}
	children, err := v.iterateObject()
	if err != nil {
		return 0, err
	}
	return len(children), nil
}

// Contains reports whether a direct child exists at step.
func (v *View) Contains(step Step) (bool, error) {
	if err := v.checkLive(); err != nil {
		return false, err
	}
	if err := v.checkStepKind(step); err != nil {
		return false, err
	}
	if v.kind == KindArray {
		n, err := v.arrayLength()
		if err != nil {
			return false, err
		}
		return step.IndexVal() >= 0 && step.IndexVal() < n, nil
	}
	childPath := v.path.Child(step)
	_, _, found, err := lookupChild(v.tx, childPath)
	if err != nil {
		return false, err
	}
	return found, nil
}

// childKind distinguishes which of the three possible records exists at a
// child path.
type childKind int

const (
	childNone childKind = iota
	childScalar
	childObject
	childArray
)

func lookupChild(tx *Tx, childPath Path) (kind childKind, payload []byte, found bool, err error) {
	if val, ok := tx.buf.get(encodeKey(childPath, KindNull)); ok {
		return childScalar, val, true, nil
	}
	if val, ok := tx.buf.get(encodeKey(childPath, KindObject)); ok {
		return childObject, val, true, nil
	}
	if val, ok := tx.buf.get(encodeKey(childPath, KindArray)); ok {
		return childArray, val, true, nil
	}
	return childNone, nil, false, nil
}

// Get returns the child at step: value is meaningful iff the child is a
// scalar, child is meaningful iff it is a container. Exactly one is set on
// success.
func (v *View) Get(step Step) (value Value, child *View, err error) {
	v.tx.db.recordRead()
	if err := v.checkLive(); err != nil {
		return Value{}, nil, err
	}
	if err := v.checkStepKind(step); err != nil {
		return Value{}, nil, err
	}
	if v.kind == KindArray {
		n, err := v.arrayLength()
		if err != nil {
			return Value{}, nil, err
		}
		if step.IndexVal() < 0 || step.IndexVal() >= n {
			return Value{}, nil, outOfRangeErr(v.path, step.IndexVal(), n)
		}
	}
	childPath := v.path.Child(step)
	kind, payload, found, err := lookupChild(v.tx, childPath)
	if err != nil {
		return Value{}, nil, err
	}
	if !found {
		return Value{}, nil, missingKeyErr(v.path, step)
	}
	switch kind {
	case childScalar:
		val, err := decodeScalar(payload)
		if err != nil {
			return Value{}, nil, v.corrupt(childPath, err, "decoding scalar payload")
		}
		return val, nil, nil
	case childObject:
		return Value{}, &View{tx: v.tx, path: childPath, kind: KindObject}, nil
	case childArray:
		return Value{}, &View{tx: v.tx, path: childPath, kind: KindArray}, nil
	default:
		return Value{}, nil, missingKeyErr(v.path, step)
	}
}

// getValueDeep returns the full materialized Value at step, recursing into
// containers. Used internally by array shifting and by Materialize.
func (v *View) getValueDeep(step Step) (Value, error) {
	val, child, err := v.Get(step)
	if err != nil {
		return Value{}, err
	}
	if child == nil {
		return val, nil
	}
	return child.Materialize()
}

// Materialize reads the view's entire subtree into an in-memory Value.
func (v *View) Materialize() (Value, error) {
	if err := v.checkLive(); err != nil {
		return Value{}, err
	}
	if v.kind == KindArray {
		n, err := v.arrayLength()
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, n)
		for i := 0; i < n; i++ {
			val, err := v.getValueDeep(Index(i))
			if err != nil {
				return Value{}, err
			}
			items[i] = val
		}
		return Array(items...), nil
	}
	children, err := v.iterateObject()
	if err != nil {
		return Value{}, err
	}
	members := make([]Member, 0, len(children))
	for _, c := range children {
		val := c.Value
		if c.View != nil {
			val, err = c.View.Materialize()
			if err != nil {
				return Value{}, err
			}
		}
		members = append(members, Member{Key: c.Step.KeyStr(), Value: val})
	}
	return Object(members...), nil
}

// eraseExisting removes whatever record(s) currently live at childPath,
// whatever their kind, so a fresh assignment can start from nothing.
func (v *View) eraseExisting(childPath Path) {
	buf := v.tx.buf
	if _, ok := buf.get(encodeKey(childPath, KindNull)); ok {
		buf.erase(encodeKey(childPath, KindNull))
	}
	if _, ok := buf.get(encodeKey(childPath, KindObject)); ok {
		lo, hi := containerRange(childPath, KindObject)
		buf.eraseRange(lo, hi)
	}
	if _, ok := buf.get(encodeKey(childPath, KindArray)); ok {
		lo, hi := containerRange(childPath, KindArray)
		buf.eraseRange(lo, hi)
	}
}

// assignValue implements steps 1-4 of the assignment protocol for a single
// child path: erase whatever is there, then write value (deep-copying any
// nested containers as fresh children).
func assignValue(tx *Tx, path Path, value Value) error {
	(&View{tx: tx}).eraseExisting(path)

	switch value.Kind() {
	case KindObject, KindArray:
		// handled below
	default:
		if err := validateScalar(value); err != nil {
			return err
		}
		payload, err := encodeScalar(value)
		if err != nil {
			return err
		}
		tx.buf.put(encodeKey(path, KindNull), payload)
		return nil
	}

	if value.Kind() == KindObject {
		tx.buf.put(encodeKey(path, KindObject), nil)
		for _, m := range value.Members() {
			if err := assignValue(tx, path.Child(Key(m.Key)), m.Value); err != nil {
				return err
			}
		}
		return nil
	}

	// array
	items := value.Items()
	tx.buf.put(encodeKey(path, KindArray), strconv.AppendInt(nil, int64(len(items)), 10))
	for i, item := range items {
		if err := assignValue(tx, path.Child(Index(i)), item); err != nil {
			return err
		}
	}
	return nil
}

// Set implements the assignment protocol (spec §4.4) for a direct child of
// this view.
func (v *View) Set(step Step, value Value) error {
	if !v.tx.Writable() {
		return notWritableErr(v.path)
	}
	v.tx.db.recordWrite()
	if err := v.ensureLive(step); err != nil {
		return err
	}
	if err := v.checkStepKind(step); err != nil {
		return err
	}
	if v.tx.db.verbose && v.tx.db.logf != nil {
		v.tx.db.logf("jdb: SET %s%v", v.path, step)
	}

	if v.kind == KindArray {
		n, err := v.arrayLength()
		if err != nil {
			return err
		}
		idx := step.IndexVal()
		if idx < 0 || idx > n {
			return outOfRangeErr(v.path, idx, n)
		}
		childPath := v.path.Child(step)
		if err := assignValue(v.tx, childPath, value); err != nil {
			return err
		}
		if idx == n {
			return v.writeOwnMarker(n + 1)
		}
		return nil
	}

	childPath := v.path.Child(step)
	return assignValue(v.tx, childPath, value)
}

// Append is sugar for Set(Index(Length()), value) on an array view.
func (v *View) Append(value Value) error {
	if v.kind != KindArray {
		return typeMismatchErr(v.path, KindArray, v.kind)
	}
	n, err := v.Length()
	if err != nil {
		return err
	}
	return v.Set(Index(n), value)
}

// Delete removes the child at step. For a container child this erases its
// full subtree range and its own marker; for an array this also shifts the
// tail down by one position to keep the array dense (spec §4.4's array
// mutation policy).
func (v *View) Delete(step Step) error {
	if !v.tx.Writable() {
		return notWritableErr(v.path)
	}
	if err := v.checkLive(); err != nil {
		return err
	}
	if err := v.checkStepKind(step); err != nil {
		return err
	}
	if v.tx.db.logf != nil {
		v.tx.db.logf("jdb: DELETE %s%v", v.path, step)
	}

	if v.kind == KindObject {
		childPath := v.path.Child(step)
		_, _, found, err := lookupChild(v.tx, childPath)
		if err != nil {
			return err
		}
		if !found {
			return missingKeyErr(v.path, step)
		}
		v.eraseExisting(childPath)
		return nil
	}

	n, err := v.arrayLength()
	if err != nil {
		return err
	}
	idx := step.IndexVal()
	if idx < 0 || idx >= n {
		return outOfRangeErr(v.path, idx, n)
	}
	for j := idx; j < n-1; j++ {
		val, err := v.getValueDeep(Index(j + 1))
		if err != nil {
			return err
		}
		if err := assignValue(v.tx, v.path.Child(Index(j)), val); err != nil {
			return err
		}
	}
	v.eraseExisting(v.path.Child(Index(n - 1)))
	return v.writeOwnMarker(n - 1)
}

// Insert inserts value at idx, shifting elements idx..length-1 up by one
// (spec §4.4's array mutation policy: insertion rewrites the tail).
func (v *View) Insert(idx int, value Value) error {
	if !v.tx.Writable() {
		return notWritableErr(v.path)
	}
	if v.kind != KindArray {
		return typeMismatchErr(v.path, KindArray, v.kind)
	}
	n, err := v.arrayLength()
	if err != nil {
		return err
	}
	if idx < 0 || idx > n {
		return outOfRangeErr(v.path, idx, n)
	}
	if err := v.writeOwnMarker(n + 1); err != nil {
		return err
	}
	for j := n; j > idx; j-- {
		val, err := v.getValueDeep(Index(j - 1))
		if err != nil {
			return err
		}
		if err := assignValue(v.tx, v.path.Child(Index(j)), val); err != nil {
			return err
		}
	}
	return assignValue(v.tx, v.path.Child(Index(idx)), value)
}

// iterateObject scans the container's full range and groups consecutive
// records by their shared first decoded step, yielding one Child per
// distinct direct child in codec key order.
func (v *View) iterateObject() ([]Child, error) {
	lo, hi := containerRange(v.path, KindObject)
	entries := v.tx.buf.scan(lo, hi)

	var children []Child
	i := 0
	for i < len(entries) {
		step, remainder, ok := decodeChild(lo, entries[i].Key)
		if !ok {
			// v's own marker record.
			i++
			continue
		}
		if len(remainder) != 1 {
			return nil, v.corrupt(v.path, nil, "child %v has descendant records but no marker of its own", step)
		}
		childPath := v.path.Child(step)
		var c Child
		c.Step = step
		switch remainder[0] {
		case suffixScalar:
			val, err := decodeScalar(entries[i].Value)
			if err != nil {
				return nil, v.corrupt(childPath, err, "decoding scalar payload")
			}
			c.Value = val
		case suffixObject:
			c.View = &View{tx: v.tx, path: childPath, kind: KindObject}
		case suffixArray:
			c.View = &View{tx: v.tx, path: childPath, kind: KindArray}
		default:
			return nil, v.corrupt(childPath, nil, "unrecognized kind suffix %q", remainder[0])
		}
		children = append(children, c)

		i++
		for i < len(entries) {
			s2, _, ok2 := decodeChild(lo, entries[i].Key)
			if !ok2 || !stepEqual(s2, step) {
				break
			}
			i++
		}
	}
	return children, nil
}

// iterateArray is the array counterpart of iterateObject: point-lookups
// over 0..length-1, since the marker already carries an authoritative
// count.
func (v *View) iterateArray() ([]Child, error) {
	n, err := v.arrayLength()
	if err != nil {
		return nil, err
	}
	children := make([]Child, n)
	for i := 0; i < n; i++ {
		val, child, err := v.Get(Index(i))
		if err != nil {
			return nil, err
		}
		children[i] = Child{Step: Index(i), Value: val, View: child}
	}
	return children, nil
}

// Iterate yields every direct child in codec order (objects) or index
// order (arrays).
func (v *View) Iterate() ([]Child, error) {
	if err := v.checkLive(); err != nil {
		return nil, err
	}
	if v.kind == KindArray {
		return v.iterateArray()
	}
	return v.iterateObject()
}
