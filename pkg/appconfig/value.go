package appconfig

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindMapping
	KindSequence
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is one node of a configuration tree. The zero Value is null.
type Value struct {
	kind    Kind
	mapping map[string]Value
	seq     []Value
	str     string
	num     json.Number
	boolean bool
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string held by v, if any.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns v as an int when it is an integral number.
func (v Value) AsInt() (int, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := strconv.Atoi(v.num.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

// Len returns the number of children of a mapping or sequence.
func (v Value) Len() int {
	switch v.kind {
	case KindMapping:
		return len(v.mapping)
	case KindSequence:
		return len(v.seq)
	}
	return 0
}

// child resolves one path segment against v.
func (v Value) child(segment string) (Value, error) {
	switch v.kind {
	case KindMapping:
		c, ok := v.mapping[segment]
		if !ok {
			return Value{}, fmt.Errorf("key %q: %w", segment, ErrKeyNotFound)
		}
		return c, nil
	case KindSequence:
		idx, err := strconv.Atoi(segment)
		if err != nil {
			return Value{}, fmt.Errorf("segment %q is not a sequence index: %w", segment, ErrKeyNotFound)
		}
		if idx < 0 || idx >= len(v.seq) {
			return Value{}, fmt.Errorf("index %d out of range [0,%d): %w", idx, len(v.seq), ErrKeyNotFound)
		}
		return v.seq[idx], nil
	default:
		return Value{}, fmt.Errorf("segment %q under %s value: %w", segment, v.kind, ErrKeyNotFound)
	}
}

// Interface converts the subtree rooted at v into plain Go values:
// map[string]any, []any, string, json.Number, bool or nil. The result
// shares nothing with v.
func (v Value) Interface() any {
	switch v.kind {
	case KindMapping:
		out := make(map[string]any, len(v.mapping))
		for k, c := range v.mapping {
			out[k] = c.Interface()
		}
		return out
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, c := range v.seq {
			out[i] = c.Interface()
		}
		return out
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.boolean
	}
	return nil
}

// fromAny builds a Value tree from decoded JSON or a caller supplied map.
func fromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Value{}, nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, c := range t {
			cv, err := fromAny(c)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = cv
		}
		return Value{kind: KindMapping, mapping: m}, nil
	case []any:
		s := make([]Value, len(t))
		for i, c := range t {
			cv, err := fromAny(c)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			s[i] = cv
		}
		return Value{kind: KindSequence, seq: s}, nil
	case []string:
		s := make([]Value, len(t))
		for i, c := range t {
			s[i] = Value{kind: KindString, str: c}
		}
		return Value{kind: KindSequence, seq: s}, nil
	case string:
		return Value{kind: KindString, str: t}, nil
	case bool:
		return Value{kind: KindBool, boolean: t}, nil
	case json.Number:
		return Value{kind: KindNumber, num: t}, nil
	case int:
		return Value{kind: KindNumber, num: json.Number(strconv.Itoa(t))}, nil
	case int64:
		return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(t, 10))}, nil
	case float64:
		return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(t, 'g', -1, 64))}, nil
	default:
		// Typed maps, slices and other numeric widths go through their JSON form.
		data, err := json.Marshal(t)
		if err != nil {
			return Value{}, fmt.Errorf("unsupported configuration value of type %T: %w", raw, err)
		}
		decoded, err := decodeJSON(data)
		if err != nil {
			return Value{}, fmt.Errorf("unsupported configuration value of type %T: %w", raw, err)
		}
		return fromAny(decoded)
	}
}
