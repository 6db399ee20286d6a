// Package payload ingests the lookup service's JSON response. Every mapping
// key is case-folded exactly once here, and every value is coerced into a
// tagged Value, so nothing downstream deals with raw interface{} trees or
// with key casing.
package payload

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the shape of a Value.
type Kind int

const (
	Missing Kind = iota
	Scalar
	List
	Object
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Object:
		return "object"
	default:
		return "missing"
	}
}

// Value is one JSON value after ingestion. JSON null becomes Missing.
type Value struct {
	kind   Kind
	scalar string
	items  []Value
	object Record
}

// ScalarValue builds a scalar from its display form.
func ScalarValue(s string) Value { return Value{kind: Scalar, scalar: s} }

// ListValue builds a list value.
func ListValue(items ...Value) Value { return Value{kind: List, items: items} }

// ObjectValue builds an object value.
func ObjectValue(r Record) Value { return Value{kind: Object, object: r} }

func (v Value) Kind() Kind { return v.kind }

// Text returns the scalar's display form; ok is false for other kinds.
func (v Value) Text() (string, bool) {
	return v.scalar, v.kind == Scalar
}

// Object returns the record held by an object value.
func (v Value) Object() (Record, bool) {
	return v.object, v.kind == Object
}

// Items applies the coercion rule: a list yields its elements, a scalar or
// object yields itself as a singleton, and a missing value yields nothing.
func (v Value) Items() []Value {
	switch v.kind {
	case List:
		return v.items
	case Scalar, Object:
		return []Value{v}
	default:
		return nil
	}
}

// Blank reports whether v is missing or an empty scalar.
func (v Value) Blank() bool {
	return v.kind == Missing || (v.kind == Scalar && v.scalar == "")
}

// Record is a JSON object whose keys have been lowercased.
type Record struct {
	keys   []string
	fields map[string]Value
}

// NewRecord folds raw into a Record. Keys that collide after lowercasing are
// merged into one list in lexical order of the raw keys.
func NewRecord(raw map[string]interface{}) Record {
	rawKeys := make([]string, 0, len(raw))
	for k := range raw {
		rawKeys = append(rawKeys, k)
	}
	sort.Strings(rawKeys)

	r := Record{fields: make(map[string]Value, len(raw))}
	for _, k := range rawKeys {
		r.set(strings.ToLower(k), FromJSON(raw[k]))
	}
	return r
}

func (r *Record) set(key string, v Value) {
	prev, exists := r.fields[key]
	if !exists {
		r.keys = append(r.keys, key)
		r.fields[key] = v
		return
	}
	merged := append(append([]Value{}, prev.Items()...), v.Items()...)
	r.fields[key] = ListValue(merged...)
}

// Get looks key up case-insensitively; absent keys are Missing.
func (r Record) Get(key string) Value {
	return r.fields[strings.ToLower(key)]
}

// Keys returns the folded keys in ingestion order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r Record) Len() int { return len(r.keys) }

// FromJSON converts a decoded JSON value (as produced by encoding/json into
// interface{}) into a Value.
func FromJSON(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Value{}
	case string:
		return ScalarValue(v)
	case json.Number:
		return ScalarValue(v.String())
	case float64:
		return ScalarValue(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		return ScalarValue(strconv.FormatBool(v))
	case []interface{}:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, FromJSON(item))
		}
		return ListValue(items...)
	case map[string]interface{}:
		return ObjectValue(NewRecord(v))
	default:
		return ScalarValue(fmt.Sprint(v))
	}
}
