package jsontext

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"

	j "github.com/goccy/go-json"
)

// Kind classifies a decoded JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
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
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Object is a JSON object that remembers member insertion order. Decoded
// schema documents depend on the order to keep keyword positions stable.
type Object struct {
	names  []string
	values map[string]any
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Set stores a member, appending the name on first insertion.
func (o *Object) Set(name string, v any) {
	if _, ok := o.values[name]; !ok {
		o.names = append(o.names, name)
	}
	o.values[name] = v
}

// Get returns the member value and whether it exists.
func (o *Object) Get(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Len reports the member count.
func (o *Object) Len() int { return len(o.names) }

// Names returns member names in insertion order. The slice is shared; callers
// must not mutate it.
func (o *Object) Names() []string { return o.names }

// MarshalJSON writes members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range o.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := j.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := j.Marshal(o.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeBytes decodes a single JSON document into ordered values: objects
// become *Object, arrays []any, numbers j.Number, plus string/bool/nil.
func DecodeBytes(b []byte) (any, error) {
	return DecodeReader(bytes.NewReader(b))
}

// DecodeReader decodes a single JSON document from r.
func DecodeReader(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return v, nil
}

func decodeValue(dec *j.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *j.Decoder, tok j.Token) (any, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return t, nil
	case j.Number:
		return t, nil
	case float64:
		return j.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case bool:
		return t, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *j.Decoder) (*Object, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
}

func decodeArray(dec *j.Decoder) ([]any, error) {
	arr := []any{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return arr, nil
		}
		v, err := decodeFromToken(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// KindOf reports the JSON kind of v. Values produced by DecodeBytes and the
// common Go shapes (map[string]any, float64, int, ...) are all recognized.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case j.Number, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case []any:
		return KindArray
	case *Object, map[string]any:
		return KindObject
	}
	return KindNull
}

// IsNumber reports whether v is a JSON number.
func IsNumber(v any) bool { return v != nil && KindOf(v) == KindNumber }

// Number converts a numeric value to a rational for exact comparison.
func Number(v any) (*big.Rat, bool) {
	switch t := v.(type) {
	case j.Number:
		r, ok := new(big.Rat).SetString(string(t))
		return r, ok
	case float64:
		return new(big.Rat).SetFloat64(t), true
	case float32:
		return new(big.Rat).SetFloat64(float64(t)), true
	case int:
		return new(big.Rat).SetInt64(int64(t)), true
	case int8:
		return new(big.Rat).SetInt64(int64(t)), true
	case int16:
		return new(big.Rat).SetInt64(int64(t)), true
	case int32:
		return new(big.Rat).SetInt64(int64(t)), true
	case int64:
		return new(big.Rat).SetInt64(t), true
	case uint:
		return new(big.Rat).SetUint64(uint64(t)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(t)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(t)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(t)), true
	case uint64:
		return new(big.Rat).SetUint64(t), true
	}
	return nil, false
}

// ObjectMembers returns the member names of an object value in a stable
// order: insertion order for *Object, sorted for plain maps.
func ObjectMembers(v any) []string {
	switch t := v.(type) {
	case *Object:
		return t.Names()
	case map[string]any:
		names := make([]string, 0, len(t))
		for k := range t {
			names = append(names, k)
		}
		sort.Strings(names)
		return names
	}
	return nil
}

// ObjectGet looks up a member on either object representation.
func ObjectGet(v any, name string) (any, bool) {
	switch t := v.(type) {
	case *Object:
		return t.Get(name)
	case map[string]any:
		val, ok := t[name]
		return val, ok
	}
	return nil, false
}

// Equal compares two JSON values structurally. Numbers compare by value, so
// 1, 1.0 and j.Number("1") are equal.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindNull:
		return a == nil && b == nil
	case KindBool:
		return a.(bool) == b.(bool)
	case KindString:
		return a.(string) == b.(string)
	case KindNumber:
		ra, ok1 := Number(a)
		rb, ok2 := Number(b)
		return ok1 && ok2 && ra.Cmp(rb) == 0
	case KindArray:
		aa, ba := a.([]any), b.([]any)
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !Equal(aa[i], ba[i]) {
				return false
			}
		}
		return true
	case KindObject:
		na, nb := ObjectMembers(a), ObjectMembers(b)
		if len(na) != len(nb) {
			return false
		}
		for _, name := range na {
			va, _ := ObjectGet(a, name)
			vb, ok := ObjectGet(b, name)
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return false
}
