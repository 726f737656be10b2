package schema

import (
	"fmt"
	"testing"

	"github.com/mcncl/jsonshape/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(examples ...string) Value {
	return Value{Kind: Number, Examples: examples}
}

func str(examples ...string) Value {
	return Value{Kind: String, Examples: examples}
}

func arr(minLen, maxLen int, elems ...Value) Value {
	return Value{Kind: Array, Elements: elems, MinLen: minLen, MaxLen: maxLen}
}

func obj(fields map[string]Field) Value {
	return Value{Kind: Object, Fields: fields}
}

func req(alts ...Value) Field {
	return Field{Alternatives: alts}
}

func opt(alts ...Value) Field {
	return Field{Alternatives: alts, Optional: true}
}

func TestFromToken(t *testing.T) {
	tests := []struct {
		name string
		tok  token.Token
		want Value
	}{
		{name: "string keeps quotes", tok: token.Token{Kind: token.String, Text: `"a"`}, want: str(`"a"`)},
		{name: "number", tok: token.Token{Kind: token.Number, Text: "1.5"}, want: num("1.5")},
		{name: "boolean", tok: token.Token{Kind: token.Boolean}, want: Value{Kind: Boolean}},
		{name: "null", tok: token.Token{Kind: token.Null}, want: Value{Kind: Null}},
		{name: "object", tok: token.Token{Kind: token.ObjectOpen}, want: Value{Kind: Object, Fields: map[string]Field{}}},
		{name: "array", tok: token.Token{Kind: token.ArrayOpen}, want: arr(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromToken(tt.tok)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromToken_RejectsPunctuation(t *testing.T) {
	for _, kind := range []token.Kind{token.ObjectClose, token.ArrayClose, token.Colon, token.Comma} {
		t.Run(kind.String(), func(t *testing.T) {
			_, err := FromToken(token.Token{Kind: kind})
			assert.Error(t, err)
		})
	}
}

func TestMerge_KindMismatch(t *testing.T) {
	values := []Value{
		{Kind: Null},
		{Kind: Boolean},
		num("1"),
		str(`"a"`),
		arr(0, 0),
		obj(map[string]Field{}),
	}

	for i, a := range values {
		for j, b := range values {
			_, ok := Merge(a, b)
			assert.Equal(t, i == j, ok, "Merge(%s, %s)", a.Kind, b.Kind)
		}
	}
}

func TestMerge_Scalars(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{
			name: "union of examples",
			a:    num("1", "2"),
			b:    num("2", "3"),
			want: num("1", "2", "3"),
		},
		{
			name: "cap reached exactly",
			a:    str(`"a"`, `"b"`),
			b:    str(`"c"`, `"d"`),
			want: str(`"a"`, `"b"`, `"c"`, `"d"`),
		},
		{
			name: "fifth distinct example truncates",
			a:    num("1", "2", "3", "4"),
			b:    num("5"),
			want: Value{Kind: Number, Examples: []string{"1", "2", "3", "4"}, Truncated: true},
		},
		{
			name: "known example at the cap does not truncate",
			a:    num("1", "2", "3", "4"),
			b:    num("4"),
			want: num("1", "2", "3", "4"),
		},
		{
			name: "new example after a known one still truncates",
			a:    num("1", "2", "3", "4"),
			b:    num("1", "9"),
			want: Value{Kind: Number, Examples: []string{"1", "2", "3", "4"}, Truncated: true},
		},
		{
			name: "truncation propagates from the right",
			a:    num("1"),
			b:    Value{Kind: Number, Examples: []string{"1"}, Truncated: true},
			want: Value{Kind: Number, Examples: []string{"1"}, Truncated: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Merge(tt.a, tt.b)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_ExampleCapNeverExceeded(t *testing.T) {
	acc := num("0")
	for i := 1; i < 20; i++ {
		var ok bool
		acc, ok = Merge(acc, num(fmt.Sprint(i)))
		require.True(t, ok)
		assert.LessOrEqual(t, len(acc.Examples), MaxExamples)
		if i >= MaxExamples {
			assert.True(t, acc.Truncated, "truncated after %d distinct examples", i+1)
		}
	}

	// Once set, truncation survives merges that add nothing new.
	acc, _ = Merge(acc, num("0"))
	assert.True(t, acc.Truncated)
	assert.Equal(t, []string{"0", "1", "2", "3"}, acc.Examples)
}

func TestMerge_NullaryKinds(t *testing.T) {
	got, ok := Merge(Value{Kind: Boolean}, Value{Kind: Boolean})
	require.True(t, ok)
	assert.Equal(t, Value{Kind: Boolean}, got)

	got, ok = Merge(Value{Kind: Null}, Value{Kind: Null})
	require.True(t, ok)
	assert.Equal(t, Value{Kind: Null}, got)
}

func TestMerge_Objects(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{
			name: "key missing on the right becomes optional",
			a:    obj(map[string]Field{"a": req(num("1")), "b": req(num("2"))}),
			b:    obj(map[string]Field{"a": req(num("1"))}),
			want: obj(map[string]Field{"a": req(num("1")), "b": opt(num("2"))}),
		},
		{
			name: "key missing on the left becomes optional",
			a:    obj(map[string]Field{"a": req(num("1"))}),
			b:    obj(map[string]Field{"a": req(num("1")), "b": req(num("2"))}),
			want: obj(map[string]Field{"a": req(num("1")), "b": opt(num("2"))}),
		},
		{
			name: "optionality is sticky",
			a:    obj(map[string]Field{"a": opt(num("1"))}),
			b:    obj(map[string]Field{"a": req(num("2"))}),
			want: obj(map[string]Field{"a": opt(num("1", "2"))}),
		},
		{
			name: "incompatible values become alternatives",
			a:    obj(map[string]Field{"id": req(num("1"))}),
			b:    obj(map[string]Field{"id": req(str(`"x"`))}),
			want: obj(map[string]Field{"id": req(num("1"), str(`"x"`))}),
		},
		{
			name: "right alternatives fold into matching left ones",
			a:    obj(map[string]Field{"id": req(num("1"), str(`"x"`))}),
			b:    obj(map[string]Field{"id": req(str(`"y"`), Value{Kind: Null})}),
			want: obj(map[string]Field{"id": req(num("1"), str(`"x"`, `"y"`), Value{Kind: Null})}),
		},
		{
			name: "nested objects merge",
			a:    obj(map[string]Field{"u": req(obj(map[string]Field{"n": req(str(`"a"`))}))}),
			b:    obj(map[string]Field{"u": req(obj(map[string]Field{"m": req(Value{Kind: Boolean})}))}),
			want: obj(map[string]Field{"u": req(obj(map[string]Field{
				"n": opt(str(`"a"`)),
				"m": opt(Value{Kind: Boolean}),
			}))}),
		},
		{
			name: "empty objects",
			a:    obj(map[string]Field{}),
			b:    obj(map[string]Field{}),
			want: obj(map[string]Field{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Merge(tt.a, tt.b)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_Arrays(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{
			name: "length range widens",
			a:    arr(2, 3, num("1")),
			b:    arr(1, 5, num("2")),
			want: arr(1, 5, num("1", "2")),
		},
		{
			name: "disjoint ranges",
			a:    arr(0, 0),
			b:    arr(7, 7, str(`"a"`)),
			want: arr(0, 7, str(`"a"`)),
		},
		{
			name: "incompatible elements append",
			a:    arr(1, 1, num("1")),
			b:    arr(2, 2, Value{Kind: Null}, num("2")),
			want: arr(1, 2, num("1", "2"), Value{Kind: Null}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Merge(tt.a, tt.b)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_DoesNotModifyOperands(t *testing.T) {
	a := obj(map[string]Field{
		"list": req(arr(1, 1, num("1"))),
		"only": req(str(`"a"`)),
	})
	b := obj(map[string]Field{
		"list": req(arr(2, 2, num("2"), Value{Kind: Null})),
		"more": req(obj(map[string]Field{"x": req(num("3"))})),
	})
	aBefore, bBefore := a.Clone(), b.Clone()

	merged, ok := Merge(a, b)
	require.True(t, ok)
	assert.Equal(t, aBefore, a)
	assert.Equal(t, bBefore, b)

	// Mutating the result must not reach back into b either.
	more := merged.Fields["more"].Alternatives[0]
	more.Fields["x"] = req(Value{Kind: Boolean})
	assert.Equal(t, bBefore, b)
}

func TestReconcile(t *testing.T) {
	var alts []Value
	alts = Reconcile(alts, num("1"))
	alts = Reconcile(alts, str(`"a"`))
	alts = Reconcile(alts, num("2"))
	alts = Reconcile(alts, Value{Kind: Boolean})
	alts = Reconcile(alts, str(`"a"`))

	assert.Equal(t, []Value{num("1", "2"), str(`"a"`), {Kind: Boolean}}, alts)
}

func TestSortByKind(t *testing.T) {
	in := []Value{obj(nil), str(`"a"`), arr(0, 0), num("1"), {Kind: Boolean}, {Kind: Null}}

	got := SortByKind(in)

	kinds := make([]Kind, len(got))
	for i, v := range got {
		kinds[i] = v.Kind
	}
	assert.Equal(t, []Kind{Null, Boolean, Number, String, Array, Object}, kinds)
	assert.Equal(t, Object, in[0].Kind, "input order is left alone")
}

func TestValue_SortedHelpers(t *testing.T) {
	v := num("10", "2", "-1")
	assert.Equal(t, []string{"-1", "10", "2"}, v.SortedExamples())
	assert.Equal(t, []string{"10", "2", "-1"}, v.Examples)

	o := obj(map[string]Field{"b": req(num("1")), "a": req(num("1")), "B": req(num("1"))})
	assert.Equal(t, []string{"B", "a", "b"}, o.SortedKeys())
}

func TestValue_Size(t *testing.T) {
	v := arr(2, 2, obj(map[string]Field{"a": req(num("1"), str(`"x"`))}), Value{Kind: Null})
	assert.Equal(t, 5, v.Size())
}
