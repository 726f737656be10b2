// Package schema provides the inferred structural description of a JSON
// value and the merge rules that fold repeated occurrences into one summary.
package schema

import (
	"fmt"
	"sort"

	"github.com/mcncl/jsonshape/internal/token"
)

// MaxExamples is the number of distinct literals kept per scalar.
const MaxExamples = 4

// Kind identifies the variant of a Value. Constants are declared in
// rendering precedence order.
type Kind uint8

const (
	Null Kind = iota + 1
	Boolean
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "Null"
	case Boolean:
		return "Boolean"
	case Number:
		return "Number"
	case String:
		return "String"
	case Array:
		return "Array"
	case Object:
		return "Object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is one node of an inferred schema. Which fields are meaningful
// depends on Kind:
//
//	Number, String: Examples, Truncated
//	Array:          Elements, MinLen, MaxLen
//	Object:         Fields
//	Null, Boolean:  none
type Value struct {
	Kind Kind

	// Examples holds distinct literal texts in the order first seen.
	Examples  []string
	Truncated bool

	Fields map[string]Field

	// Elements are the alternatives observed among array members. No two
	// of them can be merged with each other.
	Elements []Value
	MinLen   int
	MaxLen   int
}

// Field is the set of alternatives observed under one object key.
type Field struct {
	Alternatives []Value
	Optional     bool
}

// FromToken creates the value a single token starts. Scalars are complete;
// ObjectOpen and ArrayOpen yield empty containers for the parser to fill.
func FromToken(tok token.Token) (Value, error) {
	switch tok.Kind {
	case token.String:
		return Value{Kind: String, Examples: []string{tok.Text}}, nil
	case token.Number:
		return Value{Kind: Number, Examples: []string{tok.Text}}, nil
	case token.Boolean:
		return Value{Kind: Boolean}, nil
	case token.Null:
		return Value{Kind: Null}, nil
	case token.ObjectOpen:
		return Value{Kind: Object, Fields: map[string]Field{}}, nil
	case token.ArrayOpen:
		return Value{Kind: Array}, nil
	default:
		return Value{}, fmt.Errorf("token %s does not start a value", tok)
	}
}

// Merge combines two values of the same kind into a new value. It reports
// false when the kinds differ; that is an expected outcome, not an error.
// Neither operand is modified.
func Merge(a, b Value) (Value, bool) {
	if a.Kind != b.Kind {
		return Value{}, false
	}

	switch a.Kind {
	case Number, String:
		return mergeScalars(a, b), true
	case Object:
		return mergeObjects(a, b), true
	case Array:
		return mergeArrays(a, b), true
	default:
		return a, true
	}
}

func mergeScalars(a, b Value) Value {
	examples := make([]string, len(a.Examples), max(len(a.Examples), MaxExamples))
	copy(examples, a.Examples)
	truncated := a.Truncated || b.Truncated

	for _, ex := range b.Examples {
		if contains(examples, ex) {
			continue
		}
		if len(examples) >= MaxExamples {
			truncated = true
			break
		}
		examples = append(examples, ex)
	}

	return Value{Kind: a.Kind, Examples: examples, Truncated: truncated}
}

func mergeObjects(a, b Value) Value {
	fields := make(map[string]Field, len(a.Fields)+len(b.Fields))

	for key, left := range a.Fields {
		right, ok := b.Fields[key]
		if !ok {
			fields[key] = Field{Alternatives: cloneAll(left.Alternatives), Optional: true}
			continue
		}
		alts := cloneAll(left.Alternatives)
		for _, v := range right.Alternatives {
			alts = Reconcile(alts, v.Clone())
		}
		fields[key] = Field{Alternatives: alts, Optional: left.Optional || right.Optional}
	}

	for key, right := range b.Fields {
		if _, ok := a.Fields[key]; ok {
			continue
		}
		fields[key] = Field{Alternatives: cloneAll(right.Alternatives), Optional: true}
	}

	return Value{Kind: Object, Fields: fields}
}

func mergeArrays(a, b Value) Value {
	elems := cloneAll(a.Elements)
	for _, v := range b.Elements {
		elems = Reconcile(elems, v.Clone())
	}

	return Value{
		Kind:     Array,
		Elements: elems,
		MinLen:   min(a.MinLen, b.MinLen),
		MaxLen:   max(a.MaxLen, b.MaxLen),
	}
}

// Reconcile folds v into a list of alternatives: v replaces the first
// alternative it merges with, or is appended when it merges with none.
// The returned slice may share its backing array with alts.
func Reconcile(alts []Value, v Value) []Value {
	for i, alt := range alts {
		if merged, ok := Merge(alt, v); ok {
			alts[i] = merged
			return alts
		}
	}
	return append(alts, v)
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	out := Value{
		Kind:      v.Kind,
		Truncated: v.Truncated,
		MinLen:    v.MinLen,
		MaxLen:    v.MaxLen,
	}
	if v.Examples != nil {
		out.Examples = append([]string(nil), v.Examples...)
	}
	if v.Elements != nil {
		out.Elements = cloneAll(v.Elements)
	}
	if v.Fields != nil {
		out.Fields = make(map[string]Field, len(v.Fields))
		for key, f := range v.Fields {
			out.Fields[key] = Field{Alternatives: cloneAll(f.Alternatives), Optional: f.Optional}
		}
	}
	return out
}

// SortedExamples returns the examples in lexicographic order.
func (v Value) SortedExamples() []string {
	out := append([]string(nil), v.Examples...)
	sort.Strings(out)
	return out
}

// SortedKeys returns the object keys in lexicographic order.
func (v Value) SortedKeys() []string {
	keys := make([]string, 0, len(v.Fields))
	for key := range v.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SortByKind returns a copy of alts ordered null, boolean, number, string,
// array, object.
func SortByKind(alts []Value) []Value {
	out := append([]Value(nil), alts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Size returns the number of nodes in the tree rooted at v.
func (v Value) Size() int {
	n := 1
	for _, e := range v.Elements {
		n += e.Size()
	}
	for _, f := range v.Fields {
		for _, alt := range f.Alternatives {
			n += alt.Size()
		}
	}
	return n
}

func cloneAll(vs []Value) []Value {
	if vs == nil {
		return nil
	}
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
