package jsontext_test

import (
	"testing"

	j "github.com/goccy/go-json"

	"github.com/reoring/jsonschema/internal/jsontext"
)

func TestDecodePreservesMemberOrder(t *testing.T) {
	v, err := jsontext.DecodeBytes([]byte(`{"z":1,"a":{"y":2,"b":3},"m":[true,null]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj, ok := v.(*jsontext.Object)
	if !ok {
		t.Fatalf("top level should be an ordered object, got %T", v)
	}
	names := obj.Names()
	if len(names) != 3 || names[0] != "z" || names[1] != "a" || names[2] != "m" {
		t.Fatalf("member order = %v", names)
	}
	inner, _ := obj.Get("a")
	innerObj := inner.(*jsontext.Object)
	if got := innerObj.Names(); got[0] != "y" || got[1] != "b" {
		t.Fatalf("nested order = %v", got)
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	if _, err := jsontext.DecodeBytes([]byte(`{} {}`)); err == nil {
		t.Fatalf("trailing data should be rejected")
	}
}

func TestMarshalKeepsOrder(t *testing.T) {
	v, err := jsontext.DecodeBytes([]byte(`{"b":1,"a":2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := j.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"b":1,"a":2}` {
		t.Fatalf("marshal order = %s", out)
	}
}

func TestNumberEquality(t *testing.T) {
	cases := []struct {
		a, b  any
		equal bool
	}{
		{j.Number("1"), 1.0, true},
		{j.Number("1.0"), 1, true},
		{j.Number("0.1"), 0.2, false},
		{int64(5), uint8(5), true},
	}
	for _, tc := range cases {
		if got := jsontext.Equal(tc.a, tc.b); got != tc.equal {
			t.Fatalf("Equal(%v, %v) = %v", tc.a, tc.b, got)
		}
	}
}

func TestDeepEquality(t *testing.T) {
	a, _ := jsontext.DecodeBytes([]byte(`{"x":[1,{"y":"z"}]}`))
	b := map[string]any{"x": []any{1.0, map[string]any{"y": "z"}}}
	if !jsontext.Equal(a, b) {
		t.Fatalf("ordered and plain representations should compare equal")
	}
	c := map[string]any{"x": []any{1.0, map[string]any{"y": "w"}}}
	if jsontext.Equal(a, c) {
		t.Fatalf("different leaf values must not compare equal")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		v    any
		want jsontext.Kind
	}{
		{nil, jsontext.KindNull},
		{true, jsontext.KindBool},
		{"s", jsontext.KindString},
		{j.Number("3"), jsontext.KindNumber},
		{3.5, jsontext.KindNumber},
		{[]any{}, jsontext.KindArray},
		{map[string]any{}, jsontext.KindObject},
		{jsontext.NewObject(), jsontext.KindObject},
	}
	for _, tc := range cases {
		if got := jsontext.KindOf(tc.v); got != tc.want {
			t.Fatalf("KindOf(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}
