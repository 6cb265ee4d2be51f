package jdb

import (
	"math"
	"testing"
)

func TestValue_Constructors(t *testing.T) {
	if Null().Kind() != KindNull || !Null().IsNull() {
		t.Fatalf("Null() did not produce a KindNull value")
	}
	if !Bool(true).Bool() {
		t.Fatalf("Bool(true).Bool() = false")
	}
	if Number(3.5).Number() != 3.5 {
		t.Fatalf("Number(3.5).Number() = %v", Number(3.5).Number())
	}
	if String("hi").String() != "hi" {
		t.Fatalf("String(\"hi\").String() = %q", String("hi").String())
	}
}

func TestValue_ObjectPreservesMemberOrder(t *testing.T) {
	obj := Object(Member{Key: "b", Value: Number(1)}, Member{Key: "a", Value: Number(2)})
	members := obj.Members()
	if len(members) != 2 || members[0].Key != "b" || members[1].Key != "a" {
		t.Fatalf("Members() = %v, wanted order [b a]", members)
	}
	if obj.Len() != 2 {
		t.Fatalf("Object Len() = %d, wanted 2", obj.Len())
	}
}

func TestValue_ArrayItemsAndLen(t *testing.T) {
	arr := Array(Number(1), String("x"), Bool(false))
	if arr.Len() != 3 {
		t.Fatalf("Array Len() = %d, wanted 3", arr.Len())
	}
	items := arr.Items()
	if items[0].Number() != 1 || items[1].String() != "x" || items[2].Bool() != false {
		t.Fatalf("Items() = %v", items)
	}
}

func TestValue_LenOnScalarIsZero(t *testing.T) {
	if Number(1).Len() != 0 || String("x").Len() != 0 || Null().Len() != 0 {
		t.Fatalf("Len() on a scalar must be 0")
	}
}

func TestValue_RawConvertsNestedContainers(t *testing.T) {
	v := Object(
		Member{Key: "n", Value: Number(1)},
		Member{Key: "arr", Value: Array(Bool(true), Null())},
	)
	raw, ok := v.Raw().(map[string]any)
	if !ok {
		t.Fatalf("Raw() = %T, wanted map[string]any", v.Raw())
	}
	if raw["n"] != float64(1) {
		t.Fatalf("raw[\"n\"] = %v, wanted 1", raw["n"])
	}
	arr, ok := raw["arr"].([]any)
	if !ok || len(arr) != 2 || arr[0] != true || arr[1] != nil {
		t.Fatalf("raw[\"arr\"] = %v, wanted [true nil]", raw["arr"])
	}
}

func TestValidateScalar_RejectsNonFiniteNumbers(t *testing.T) {
	if err := validateScalar(Number(1.0)); err != nil {
		t.Fatalf("validateScalar(1.0): %v", err)
	}
	if err := validateScalar(Number(math.NaN())); err == nil {
		t.Fatalf("validateScalar(NaN) = nil, wanted an error")
	}
	if err := validateScalar(Number(math.Inf(1))); err == nil {
		t.Fatalf("validateScalar(+Inf) = nil, wanted an error")
	}
}

func TestValueFromJSON_Scalars(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"null", KindNull},
		{"true", KindBool},
		{"42", KindNumber},
		{`"hi"`, KindString},
	}
	for _, c := range cases {
		v, err := ValueFromJSON([]byte(c.in))
		if err != nil {
			t.Fatalf("ValueFromJSON(%q): %v", c.in, err)
		}
		if v.Kind() != c.kind {
			t.Fatalf("ValueFromJSON(%q).Kind() = %v, wanted %v", c.in, v.Kind(), c.kind)
		}
	}
}

func TestValueFromJSON_ObjectPreservesTextualOrder(t *testing.T) {
	v, err := ValueFromJSON([]byte(`{"z": 1, "a": 2, "m": 3}`))
	if err != nil {
		t.Fatalf("ValueFromJSON: %v", err)
	}
	members := v.Members()
	want := []string{"z", "a", "m"}
	for i, k := range want {
		if members[i].Key != k {
			t.Fatalf("Members()[%d].Key = %q, wanted %q", i, members[i].Key, k)
		}
	}
}

func TestValueFromJSON_NestedArraysAndObjects(t *testing.T) {
	v, err := ValueFromJSON([]byte(`{"a": [1, {"b": false}, null]}`))
	if err != nil {
		t.Fatalf("ValueFromJSON: %v", err)
	}
	if v.Kind() != KindObject || v.Len() != 1 {
		t.Fatalf("top-level value = %v", v.Raw())
	}
	arr := v.Members()[0].Value
	if arr.Kind() != KindArray || arr.Len() != 3 {
		t.Fatalf("arr = %v, wanted a 3-element array", arr.Raw())
	}
	if arr.Items()[0].Number() != 1 {
		t.Fatalf("arr[0] = %v, wanted 1", arr.Items()[0].Raw())
	}
	nested := arr.Items()[1]
	if nested.Kind() != KindObject || nested.Members()[0].Key != "b" || nested.Members()[0].Value.Bool() {
		t.Fatalf("arr[1] = %v, wanted {b: false}", nested.Raw())
	}
	if !arr.Items()[2].IsNull() {
		t.Fatalf("arr[2] = %v, wanted null", arr.Items()[2].Raw())
	}
}

func TestValueFromJSON_EmptyContainers(t *testing.T) {
	obj, err := ValueFromJSON([]byte(`{}`))
	if err != nil || obj.Kind() != KindObject || obj.Len() != 0 {
		t.Fatalf("ValueFromJSON({}) = %v, err=%v", obj.Raw(), err)
	}
	arr, err := ValueFromJSON([]byte(`[]`))
	if err != nil || arr.Kind() != KindArray || arr.Len() != 0 {
		t.Fatalf("ValueFromJSON([]) = %v, err=%v", arr.Raw(), err)
	}
}

func TestValueFromJSON_RejectsGarbage(t *testing.T) {
	if _, err := ValueFromJSON([]byte(`{not json`)); err == nil {
		t.Fatalf("ValueFromJSON(garbage) = nil error, wanted an error")
	}
}
