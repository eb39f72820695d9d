package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	// KindAbsent marks a value that could not be resolved.
	// It is distinct from KindNull, which is an explicit JSON null.
	KindAbsent Kind = iota
	// KindNull is an explicit JSON null.
	KindNull
	// KindString is a string scalar.
	KindString
	// KindNumber is a numeric scalar (JSON numbers are untyped; we carry float64).
	KindNumber
	// KindBool is a boolean scalar.
	KindBool
	// KindList is an ordered sequence of Values.
	KindList
	// KindDocument is a string-keyed mapping of Values.
	KindDocument
)

// String returns the kind name for logging and error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindDocument:
		return "document"
	default:
		return "absent"
	}
}

// Value is an immutable tagged value representing one node of a listing
// document: a mapping, a sequence, a scalar, or the explicit absent marker.
// The zero Value is the absent marker.
//
// Field and Index never fail; walking past a missing key or a non-container
// yields absent. This lets path resolution proceed without nil checks at
// every step.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	doc  map[string]Value
}

// Absent returns the explicit absent marker.
func Absent() Value {
	return Value{}
}

// Null returns an explicit JSON null value.
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a string scalar Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric scalar Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean scalar Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// List returns a sequence Value holding the given elements.
func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

// Document returns a mapping Value holding the given fields.
func Document(fields map[string]Value) Value {
	return Value{kind: KindDocument, doc: fields}
}

// FromJSON decodes raw JSON into a Value tree.
// Arbitrary nesting is accepted as-is; no schema validation is performed.
func FromJSON(data []byte) (Value, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Absent(), err
	}
	return fromAny(decoded), nil
}

// fromAny converts a value produced by encoding/json into a Value.
func fromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case float64:
		return Number(t)
	case bool:
		return Bool(t)
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = fromAny(e)
		}
		return Value{kind: KindList, list: elems}
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, e := range t {
			fields[k] = fromAny(e)
		}
		return Value{kind: KindDocument, doc: fields}
	default:
		// encoding/json never produces other types when decoding into any.
		return Absent()
	}
}

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the value is the absent marker.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Field returns the named child of a document value.
// Any other kind, or a missing key, yields absent.
func (v Value) Field(key string) Value {
	if v.kind != KindDocument {
		return Absent()
	}
	child, ok := v.doc[key]
	if !ok {
		return Absent()
	}
	return child
}

// Index returns the i-th element of a list value.
// Any other kind, or an out-of-range index, yields absent.
func (v Value) Index(i int) Value {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Absent()
	}
	return v.list[i]
}

// Len returns the element count for lists, the field count for documents,
// and zero for everything else.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindDocument:
		return len(v.doc)
	default:
		return 0
	}
}

// Elements returns the elements of a list value, or nil for other kinds.
// The returned slice must not be modified.
func (v Value) Elements() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Str returns the string payload of a string scalar, or "" for other kinds.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Num returns the numeric payload of a number scalar, or 0 for other kinds.
func (v Value) Num() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.num
}

// Boolean returns the payload of a boolean scalar, or false for other kinds.
func (v Value) Boolean() bool {
	return v.kind == KindBool && v.b
}

// Text renders the value for human-readable output.
// Integral numbers render without a decimal point (42, not 42.000000).
// Absent and null render as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		// Lists render as their element count; callers wanting element text
		// should join elements explicitly.
		return "[" + strconv.Itoa(len(v.list)) + " elements]"
	case KindDocument:
		return "{" + strconv.Itoa(len(v.doc)) + " fields}"
	default:
		return ""
	}
}

// SQL returns the value in a form accepted by database/sql drivers.
// Absent and null map to NULL, numbers stay numeric, booleans become 0/1.
// Containers are not storable and map to NULL.
func (v Value) SQL() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		if v.b {
			return int64(1)
		}
		return int64(0)
	default:
		return nil
	}
}
