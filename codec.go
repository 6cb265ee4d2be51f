package jdb

import (
	"encoding/json"
	"strconv"
)

// Kind suffix bytes, normative per spec.md §4.2/§6.
const (
	suffixScalar = '=' // 0x3D
	suffixObject = '.' // 0x2E
	suffixArray  = '[' // 0x5B
)

func kindSuffixByte(k Kind) byte {
	switch k {
	case KindObject:
		return suffixObject
	case KindArray:
		return suffixArray
	default:
		return suffixScalar
	}
}

// encodeDescentPrefix appends the step-encoding of every step in path to buf
// and returns the result. This is "the descent prefix": path bytes with no
// kind suffix.
func encodeDescentPrefix(buf []byte, path Path) []byte {
	for _, step := range path {
		buf = encodeStep(buf, step)
	}
	return buf
}

func encodeStep(buf []byte, step Step) []byte {
	if step.IsIndex() {
		buf = append(buf, suffixArray)
		buf = strconv.AppendInt(buf, int64(step.IndexVal()), 10)
		buf = append(buf, ']')
		return buf
	}
	buf = append(buf, suffixObject)
	// JSON-encoded string, double-quoted with standard escaping.
	quoted := must(json.Marshal(step.KeyStr()))
	return append(buf, quoted...)
}

// encodeKey returns the full encoded key for path+kind: the descent prefix
// followed by the kind suffix.
func encodeKey(path Path, kind Kind) []byte {
	buf := keyBytesPool.Get().([]byte)
	buf = encodeDescentPrefix(buf, path)
	buf = append(buf, kindSuffixByte(kind))
	out := append([]byte(nil), buf...)
	releaseKeyBytes(buf)
	return out
}

// markerKey is encodeKey(path, kind) for a container kind: the key at which
// the container's own marker record lives.
func markerKey(path Path, kind Kind) []byte {
	return encodeKey(path, kind)
}

// containerRange returns [lo, hi) bounding every record that is either the
// container's own marker at path, or a descendant of it. Per spec.md §4.2:
// lo(P) is P's own marker key, hi(P) is lo(P) with its last byte
// lexicographically incremented. Callers that want descendants only (not
// the marker itself) must recognize and skip the entry whose key equals lo
// exactly — see decodeChild.
func containerRange(path Path, kind Kind) (lo, hi []byte) {
	lo = markerKey(path, kind)
	hi = append([]byte(nil), lo...)
	if !inc(hi) {
		// lo ends in 0xFF repeated, which never happens for our alphabet
		// (quotes, digits, brackets, dots, '='), but fall back to an
		// unbounded upper edge just in case.
		hi = append(hi, 0xFF)
	}
	return lo, hi
}

// decodeChild strips parent's own marker-key prefix from key and parses the
// single next step. parentPrefix always ends in the parent's own kind-suffix
// byte ('.' for an object, '[' for an array), and that byte is exactly the
// leading byte of every direct child's step encoding too — so once
// parentPrefix is stripped, what remains starts directly at the child's own
// content (a quoted key, or index digits), not at a fresh suffix byte. ok is
// false if key equals the parent's marker key exactly (i.e. key has no
// further step — it's the parent's own record, not a child). remainder is
// whatever bytes follow the parsed step: for a child that is itself a scalar
// this is exactly one byte (the '=' suffix); for a container child it is the
// child's own kind-suffix byte optionally followed by further nested path
// bytes belonging to grandchildren.
func decodeChild(parentPrefix []byte, key []byte) (step Step, remainder []byte, ok bool) {
	if len(key) <= len(parentPrefix) {
		return Step{}, nil, false
	}
	rest := key[len(parentPrefix):]
	switch {
	case rest[0] == '"':
		var s string
		consumed, err := decodeJSONStringPrefix(rest, &s)
		if err != nil {
			return Step{}, nil, false
		}
		return Key(s), rest[consumed:], true
	case rest[0] >= '0' && rest[0] <= '9':
		i := 0
		for i < len(rest) && rest[i] != ']' {
			i++
		}
		if i >= len(rest) {
			return Step{}, nil, false
		}
		n, err := strconv.Atoi(string(rest[:i]))
		if err != nil || n < 0 {
			return Step{}, nil, false
		}
		return Index(n), rest[i+1:], true
	default:
		return Step{}, nil, false
	}
}

// decodeJSONStringPrefix decodes a double-quoted JSON string starting at
// the beginning of buf, writing the decoded value to *out and returning the
// number of bytes consumed (including both quotes).
func decodeJSONStringPrefix(buf []byte, out *string) (int, error) {
	if len(buf) == 0 || buf[0] != '"' {
		return 0, &Error{Kind: KindCorruption, Msg: "expected opening quote"}
	}
	i := 1
	for i < len(buf) {
		switch buf[i] {
		case '\\':
			i += 2
		case '"':
			i++
			var decoded string
			if err := json.Unmarshal(buf[:i], &decoded); err != nil {
				return 0, err
			}
			*out = decoded
			return i, nil
		default:
			i++
		}
	}
	return 0, &Error{Kind: KindCorruption, Msg: "unterminated JSON string in key"}
}

// isMarkerKey reports whether key equals exactly the marker key for path
// (i.e. decoding it against path's own prefix yields no further step).
func isMarkerKey(path Path, kind Kind, key []byte) bool {
	mk := markerKey(path, kind)
	return len(key) == len(mk) && string(key) == string(mk)
}
