package jdb

import "encoding/json"

// encodeScalar renders a scalar Value (null/bool/number/string) to its
// stored payload: plain JSON text, the same as any other JSON encoder would
// produce for a single value. Containers never reach here — they are
// represented by marker records, not by an encoded blob. Encoding borrows a
// scratch buffer from valueBytesPool rather than letting json.Marshal
// allocate its own, since this runs on every scalar write.
func encodeScalar(v Value) ([]byte, error) {
	if v.Kind() == KindNull {
		return []byte("null"), nil
	}
	bb := &bytesBuilder{Buf: valueBytesPool.Get().([]byte)}
	defer func() { releaseValueBytes(bb.Buf) }()

	enc := json.NewEncoder(bb)
	enc.SetEscapeHTML(false)
	var err error
	switch v.Kind() {
	case KindBool:
		err = enc.Encode(v.Bool())
	case KindNumber:
		err = enc.Encode(v.Number())
	case KindString:
		err = enc.Encode(v.s)
	default:
		return nil, invalidValueErr(nil, "encodeScalar called on a container value")
	}
	if err != nil {
		return nil, err
	}
	// json.Encoder.Encode appends a trailing newline; the stored payload
	// should be exactly the JSON literal.
	out := make([]byte, len(bb.Buf)-1)
	copy(out, bb.Buf)
	return out, nil
}

// decodeScalar parses a stored scalar payload back into a Value. A decode
// failure means the store is corrupt: every byte sequence under a '='
// suffix was produced by encodeScalar and must round-trip.
func decodeScalar(payload []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Value{}, err
	}
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	default:
		return Value{}, invalidValueErr(nil, "scalar payload decoded to a non-scalar JSON value")
	}
}
