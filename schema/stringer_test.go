package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	str := builtin("string")
	num := builtin("number")
	boolean := builtin("boolean")

	tests := []struct {
		name     string
		typ      *Type
		expected string
	}{
		{"nil", nil, "<nil>"},
		{"placeholder", Placeholder("a.T"), "a.T"},
		{"named", &Type{Name: "Player", Kind: KindStruct}, "Player"},
		{"array", &Type{Kind: KindArray, Elem: str}, "string[]"},
		{"fixed array", &Type{Kind: KindArray, Elem: num, Len: 4}, "number[4]"},
		{"map", &Type{Kind: KindMap, Key: str, Elem: num}, "Record<string, number>"},
		{"union", &Type{Kind: KindUnion, Types: []*Type{str, num}}, "string | number"},
		{"intersection", &Type{Kind: KindIntersection, Types: []*Type{str, num}}, "string & number"},
		{"anonymous struct", &Type{Kind: KindStruct}, "{...}"},
		{
			"function",
			&Type{Kind: KindFunction, Ins: []Argument{{Name: "name", Type: str}}, Outs: []*Type{boolean}},
			"(name: string) => boolean",
		},
		{
			"variadic function",
			&Type{
				Kind:       KindFunction,
				IsVariadic: true,
				Ins:        []Argument{{Name: "points", Type: &Type{Kind: KindArray, Elem: num, IsVariadic: true}}},
				Outs:       []*Type{num},
			},
			"(...points: number[]) => number",
		},
		{"no results", &Type{Kind: KindFunction}, "() => void"},
		{"several results", &Type{Kind: KindFunction, Outs: []*Type{num, str}}, "() => [number, string]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeString(tt.typ))
		})
	}
}

func TestTypeString_DepthLimit(t *testing.T) {
	loop := &Type{Kind: KindArray}
	loop.Elem = loop

	assert.Contains(t, TypeString(loop), "...")
}

func TestFieldPaths(t *testing.T) {
	f := newGameFixture()

	guild := &Type{Name: "Guild", PkgPath: "game/guild.ts", Kind: KindStruct}
	guild.Fields = []Field{
		{Name: "Members", Type: &Type{Kind: KindArray, Elem: f.player}},
	}

	paths := FieldPaths(guild, 3)

	require.Contains(t, paths, "Guild.Members")
	require.Contains(t, paths, "Guild.Members[].Name")
	assert.Equal(t, "Tags", paths["Guild.Members[].Tags"].Name)

	assert.Empty(t, FieldPaths(f.str, 3))
	assert.Len(t, FieldPaths(guild, 0), 1)
}
