package jdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Kind tags a Value (or a stored marker) with the JSON-algebra type it
// holds. The dynamic value is represented as this explicit tagged sum
// rather than as untyped any, per the design notes: implementers should
// model the algebra as a sum type, not an untyped bag.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// IsContainer reports whether this kind is stored via a container marker
// (object/array) rather than a single scalar record.
func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

// Value is an in-memory JSON value: exactly one of null, boolean, number,
// string, ordered object, or array, per the JSON value algebra. Object and
// Array values are deep-copied on assignment into the store (see Set), so
// a Value handed to the store is never aliased by the store afterwards.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	obj  []Member
	arr  []Value
}

// Member is a single key/value pair of an ordered object Value, preserving
// insertion order the way the JSON algebra requires.
type Member struct {
	Key   string
	Value Value
}

func Null() Value                 { return Value{kind: KindNull} }
func Bool(v bool) Value            { return Value{kind: KindBool, b: v} }
func Number(v float64) Value       { return Value{kind: KindNumber, n: v} }
func String(v string) Value        { return Value{kind: KindString, s: v} }

func Object(members ...Member) Value {
	return Value{kind: KindObject, obj: members}
}

func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: items}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) Bool() bool     { return v.b }
func (v Value) Number() float64 { return v.n }
func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	return fmt.Sprintf("%v", v.Raw())
}

// Len returns the number of members/elements for a container Value, 0 for
// scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.obj)
	case KindArray:
		return len(v.arr)
	default:
		return 0
	}
}

func (v Value) Members() []Member { return v.obj }
func (v Value) Items() []Value    { return v.arr }

// Raw converts the Value to a plain Go any (map[string]any / []any / string
// / float64 / bool / nil), mainly for logging and JSON re-encoding.
func (v Value) Raw() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Raw()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for _, m := range v.obj {
			out[m.Key] = m.Value.Raw()
		}
		return out
	default:
		return nil
	}
}

// ValueFromJSON parses a single JSON literal (as accepted by the CLI's set
// subcommand) into the value algebra. Object member order follows the order
// encoding/json's tokenizer visits them in, i.e. textual order in the input.
func ValueFromJSON(raw []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v Value
	if err := decodeJSONValue(dec, &v); err != nil {
		return Value{}, invalidValueErr(nil, err.Error())
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder, out *Value) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var members []Member
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := keyTok.(string)
				var mv Value
				if err := decodeJSONValue(dec, &mv); err != nil {
					return err
				}
				members = append(members, Member{Key: key, Value: mv})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return err
			}
			*out = Object(members...)
		case '[':
			var items []Value
			for dec.More() {
				var iv Value
				if err := decodeJSONValue(dec, &iv); err != nil {
					return err
				}
				items = append(items, iv)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return err
			}
			*out = Array(items...)
		}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return err
		}
		*out = Number(f)
	case string:
		*out = String(t)
	case bool:
		*out = Bool(t)
	case nil:
		*out = Null()
	}
	return nil
}

// validateScalar rejects values outside the JSON algebra: non-finite
// numbers (NaN/Inf have no JSON textual encoding).
func validateScalar(v Value) error {
	if v.kind == KindNumber && (math.IsNaN(v.n) || math.IsInf(v.n, 0)) {
		return invalidValueErr(nil, "number is not finite")
	}
	return nil
}
