package jdb

import (
	"errors"
	"strings"
	"testing"
)

func TestError_IsMatchesByKindOnly(t *testing.T) {
	err := missingKeyErr(Path{Key("a")}, Key("b"))
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("errors.Is(err, ErrMissingKey) = false, wanted true")
	}
	if errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("errors.Is(err, ErrTypeMismatch) = true, wanted false")
	}
}

func TestError_UnwrapAndAs(t *testing.T) {
	inner := errors.New("boom")
	err := corruptionErr(Path{Key("a")}, inner, "decoding failed")
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("err = %T, wanted *Error", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is(err, inner) = false, wanted true")
	}
	if de.Kind != KindCorruption {
		t.Fatalf("Kind = %v, wanted KindCorruption", de.Kind)
	}
}

func TestError_ErrorStringIncludesPathAndMessage(t *testing.T) {
	err := typeMismatchErr(Path{Key("a"), Index(0)}, KindObject, KindArray)
	s := err.Error()
	if !strings.Contains(s, `."a"[0]`) {
		t.Fatalf("Error() = %q, wanted it to include the path", s)
	}
	if !strings.Contains(s, "type mismatch") {
		t.Fatalf("Error() = %q, wanted it to include the kind", s)
	}
}

func TestOutOfRangeErr(t *testing.T) {
	err := outOfRangeErr(Path{Key("xs")}, 5, 3)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("errors.Is(err, ErrOutOfRange) = false, wanted true")
	}
	if !strings.Contains(err.Error(), "index 5") || !strings.Contains(err.Error(), "length 3") {
		t.Fatalf("Error() = %q, wanted index/length detail", err.Error())
	}
}

func TestErrKind_String(t *testing.T) {
	cases := map[ErrKind]string{
		KindMissingKey:   "missing key",
		KindTypeMismatch: "type mismatch",
		KindOutOfRange:   "out of range",
		KindInvalidValue: "invalid value",
		KindStaleView:    "stale view",
		KindCorruption:   "corruption",
		KindEngine:       "engine error",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%v.String() = %q, wanted %q", k, got, want)
		}
	}
}
