package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FieldKind tags the scalar held by a FieldValue.
type FieldKind uint8

const (
	KindNull FieldKind = iota
	KindString
	KindNumber
	KindBool
)

// FieldValue is a tagged scalar taken from a spreadsheet cell: string, number, boolean or null.
type FieldValue struct {
	Kind FieldKind
	Str  string
	Num  float64
	Bool bool
}

func NullValue() FieldValue { return FieldValue{Kind: KindNull} }
func StringValue(s string) FieldValue { return FieldValue{Kind: KindString, Str: s} }
func NumberValue(n float64) FieldValue { return FieldValue{Kind: KindNumber, Num: n} }
func BoolValue(b bool) FieldValue { return FieldValue{Kind: KindBool, Bool: b} }

// IsNull reports whether the value is null.
func (v FieldValue) IsNull() bool { return v.Kind == KindNull }

// IsEmpty reports whether the value is null or an empty string.
func (v FieldValue) IsEmpty() bool {
	return v.Kind == KindNull || (v.Kind == KindString && v.Str == "")
}

// String returns the text form of the value. Null renders as "".
func (v FieldValue) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// MarshalJSON encodes the value as the matching JSON scalar.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return nil, fmt.Errorf("field value: unsupported number %v", v.Num)
		}
		return strconv.AppendFloat(nil, v.Num, 'f', -1, 64), nil
	case KindBool:
		return strconv.AppendBool(nil, v.Bool), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar. Objects and arrays are rejected.
func (v *FieldValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		return fmt.Errorf("field value: empty input")
	case string(b) == "null":
		*v = NullValue()
	case string(b) == "true":
		*v = BoolValue(true)
	case string(b) == "false":
		*v = BoolValue(false)
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("field value: unsupported JSON %s", b)
		}
		*v = NumberValue(n)
	}
	return nil
}

// Fields is an insertion-ordered mapping from column name to FieldValue.
// The zero value is an empty mapping ready to use.
type Fields struct {
	keys   []string
	values map[string]FieldValue
}

// Set stores v under key. Overwriting an existing key keeps its original position.
func (f *Fields) Set(key string, v FieldValue) {
	if f.values == nil {
		f.values = make(map[string]FieldValue)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

// Get returns the value stored under key.
func (f Fields) Get(key string) (FieldValue, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (f Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f Fields) Len() int { return len(f.keys) }

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	var out Fields
	for _, k := range f.keys {
		out.Set(k, f.values[k])
	}
	return out
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := f.values[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (f *Fields) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = Fields{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields: expected JSON object")
	}

	var out Fields
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("fields: expected string key, got %v", kt)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v FieldValue
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("fields: %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}
