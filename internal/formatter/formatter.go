// Package formatter renders an inferred schema as indented text.
//
// The layout is stable for a given schema: object keys are sorted, scalar
// examples are sorted, and alternatives are ordered null, boolean, number,
// string, array, object. Output from two runs over the same document can
// therefore be diffed.
package formatter

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonshape/internal/schema"
)

const indentUnit = "    "

// Formatter renders schema values.
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders v without a trailing newline.
func (f *Formatter) Format(v schema.Value) string {
	var b strings.Builder
	f.writeValue(&b, v, 0)
	return b.String()
}

func (f *Formatter) writeValue(b *strings.Builder, v schema.Value, depth int) {
	switch v.Kind {
	case schema.Null:
		b.WriteString("null")
	case schema.Boolean:
		b.WriteString("Boolean")
	case schema.Number, schema.String:
		f.writeScalar(b, v)
	case schema.Array:
		f.writeArray(b, v, depth)
	case schema.Object:
		f.writeObject(b, v, depth)
	default:
		fmt.Fprintf(b, "<%s>", v.Kind)
	}
}

// writeScalar renders e.g. `String ("a", "b", ...)`.
func (f *Formatter) writeScalar(b *strings.Builder, v schema.Value) {
	b.WriteString(v.Kind.String())
	b.WriteString(" (")
	b.WriteString(strings.Join(v.SortedExamples(), ", "))
	if v.Truncated {
		if len(v.Examples) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteString(")")
}

func (f *Formatter) writeArray(b *strings.Builder, v schema.Value, depth int) {
	if v.MinLen == v.MaxLen {
		fmt.Fprintf(b, "Array (len %d) ", v.MinLen)
	} else {
		fmt.Fprintf(b, "Array (len %d..%d) ", v.MinLen, v.MaxLen)
	}

	if len(v.Elements) == 0 {
		b.WriteString("[]")
		return
	}

	b.WriteString("[\n")
	for _, elem := range schema.SortByKind(v.Elements) {
		writeIndent(b, depth+1)
		f.writeValue(b, elem, depth+1)
		b.WriteString(",\n")
	}
	writeIndent(b, depth)
	b.WriteString("]")
}

func (f *Formatter) writeObject(b *strings.Builder, v schema.Value, depth int) {
	if len(v.Fields) == 0 {
		b.WriteString("{}")
		return
	}

	b.WriteString("{\n")
	for _, key := range v.SortedKeys() {
		writeIndent(b, depth+1)
		fmt.Fprintf(b, "\"%s\": ", key)
		f.writeField(b, v.Fields[key], depth+1)
		b.WriteString(",\n")
	}
	writeIndent(b, depth)
	b.WriteString("}")
}

// writeField renders a key's value: a single alternative inline, several
// as a parenthesised tuple.
func (f *Formatter) writeField(b *strings.Builder, field schema.Field, depth int) {
	if field.Optional {
		b.WriteString("optional ")
	}

	if len(field.Alternatives) == 1 {
		f.writeValue(b, field.Alternatives[0], depth)
		return
	}

	b.WriteString("(\n")
	for _, alt := range schema.SortByKind(field.Alternatives) {
		writeIndent(b, depth+1)
		f.writeValue(b, alt, depth+1)
		b.WriteString(",\n")
	}
	writeIndent(b, depth)
	b.WriteString(")")
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}
