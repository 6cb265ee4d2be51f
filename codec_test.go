package jdb

import "testing"

func TestEncodeKey_RootMarkers(t *testing.T) {
	if got := string(encodeKey(nil, KindObject)); got != "." {
		t.Fatalf("root object marker = %q, wanted %q", got, ".")
	}
	if got := string(encodeKey(nil, KindArray)); got != "[" {
		t.Fatalf("root array marker = %q, wanted %q", got, "[")
	}
}

func TestEncodeKey_NestedShapes(t *testing.T) {
	p := Path{Key("a"), Key("b"), Key("c"), Index(0), Index(1)}
	got := string(encodeKey(p, KindNumber))
	want := `."a"."b"."c"[0][1]=`
	if got != want {
		t.Fatalf("encodeKey = %q, wanted %q", got, want)
	}

	objChild := string(encodeKey(Path{Key("a")}, KindObject))
	if objChild != `."a".` {
		t.Fatalf("nested object marker = %q, wanted %q", objChild, `."a".`)
	}

	arrChild := string(encodeKey(Path{Key("a")}, KindArray))
	if arrChild != `."a"[` {
		t.Fatalf("nested array marker = %q, wanted %q", arrChild, `."a"[`)
	}
}

func TestEncodeKey_QuotingEscapesKeys(t *testing.T) {
	p := Path{Key(`weird"key`)}
	got := string(encodeKey(p, KindString))
	want := `."weird\"key"=`
	if got != want {
		t.Fatalf("encodeKey = %q, wanted %q", got, want)
	}
}

func TestContainerRange_OrderingInvariants(t *testing.T) {
	// lo(P) must equal P's own marker key; hi(P) must sort strictly after
	// every descendant of P and strictly after lo(P) itself.
	p := Path{Key("a")}
	lo, hi := containerRange(p, KindObject)
	if string(lo) != `."a".` {
		t.Fatalf("lo = %q, wanted %q", lo, `."a".`)
	}
	if string(hi) <= string(lo) {
		t.Fatalf("hi (%q) must sort after lo (%q)", hi, lo)
	}

	child := string(encodeKey(Path{Key("a"), Key("b")}, KindString))
	grandchild := string(encodeKey(Path{Key("a"), Key("b"), Key("c")}, KindString))
	sibling := string(encodeKey(Path{Key("z")}, KindString))

	if child < string(lo) || child >= string(hi) {
		t.Fatalf("direct child %q must be within [%q, %q)", child, lo, hi)
	}
	if grandchild < string(lo) || grandchild >= string(hi) {
		t.Fatalf("grandchild %q must be within [%q, %q)", grandchild, lo, hi)
	}
	if sibling >= string(lo) && sibling < string(hi) {
		t.Fatalf("unrelated sibling %q must NOT be within [%q, %q)", sibling, lo, hi)
	}
}

func TestDecodeChild_PeelsOneStep(t *testing.T) {
	parent := Path{Key("a")}
	prefix := markerKey(parent, KindObject)

	childKey := encodeKey(Path{Key("a"), Key("b")}, KindString)
	step, remainder, ok := decodeChild(prefix, childKey)
	if !ok {
		t.Fatalf("decodeChild(%q) = not ok, wanted a child step", childKey)
	}
	if step.IsIndex() || step.KeyStr() != "b" {
		t.Fatalf("decodeChild step = %v, wanted Key(\"b\")", step)
	}
	if string(remainder) != "=" {
		t.Fatalf("remainder = %q, wanted %q", remainder, "=")
	}

	grandchildKey := encodeKey(Path{Key("a"), Key("b"), Key("c")}, KindString)
	step2, remainder2, ok2 := decodeChild(prefix, grandchildKey)
	if !ok2 || step2.KeyStr() != "b" {
		t.Fatalf("decodeChild on grandchild key must still report first step 'b', got %v ok=%v", step2, ok2)
	}
	if string(remainder2) != `."c"=` {
		t.Fatalf("remainder for grandchild = %q, wanted %q", remainder2, `."c"=`)
	}

	_, _, ok3 := decodeChild(prefix, prefix)
	if ok3 {
		t.Fatalf("decodeChild on the parent's own marker key must report ok=false")
	}
}

func TestDecodeChild_ArrayIndex(t *testing.T) {
	parent := Path{Key("arr")}
	prefix := markerKey(parent, KindArray)
	childKey := encodeKey(Path{Key("arr"), Index(3)}, KindBool)

	step, remainder, ok := decodeChild(prefix, childKey)
	if !ok {
		t.Fatalf("decodeChild(%q) = not ok", childKey)
	}
	if !step.IsIndex() || step.IndexVal() != 3 {
		t.Fatalf("decodeChild step = %v, wanted Index(3)", step)
	}
	if string(remainder) != "=" {
		t.Fatalf("remainder = %q, wanted %q", remainder, "=")
	}
}

func TestIsMarkerKey(t *testing.T) {
	p := Path{Key("a")}
	mk := markerKey(p, KindObject)
	if !isMarkerKey(p, KindObject, mk) {
		t.Fatalf("isMarkerKey(own marker) = false, wanted true")
	}
	child := encodeKey(Path{Key("a"), Key("b")}, KindString)
	if isMarkerKey(p, KindObject, child) {
		t.Fatalf("isMarkerKey(child key) = true, wanted false")
	}
}
