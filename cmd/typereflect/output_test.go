package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typereflect/schema"
)

func sampleSchema() *schema.Schema {
	str := &schema.Type{Name: "string", PkgPath: schema.OriginInternal, Kind: schema.KindType}
	num := &schema.Type{Name: "number", PkgPath: schema.OriginInternal, Kind: schema.KindType}

	player := &schema.Type{
		Name:       "Player",
		PkgPath:    "game/player.ts",
		Kind:       schema.KindStruct,
		Visibility: schema.VisibilityExported,
		Comment:    "A participant.",
		Fields: []schema.Field{
			{Name: "Name", Type: str, Visibility: schema.VisibilityPublic},
			{Name: "Score", Type: num, Optional: true, Visibility: schema.VisibilityReadonly},
		},
	}
	player.Methods = []schema.Field{{
		Name: "Rename",
		Type: &schema.Type{Kind: schema.KindFunction, Ins: []schema.Argument{{Name: "name", Type: str}}},
		Self: player,
	}}

	score := &schema.Type{
		Name:       "Score",
		PkgPath:    "game/player.ts",
		Kind:       schema.KindUnion,
		Types:      []*schema.Type{num, str},
		Visibility: schema.VisibilityExported,
	}

	s := schema.New()
	s.Put("game/player.Player", player)
	s.Put("game/player.Score", score)
	s.Put("<internal>.string", str)

	return s
}

func TestFindType(t *testing.T) {
	s := sampleSchema()

	for _, name := range []string{"game/player.Player", "src/game/player.Player", "player.Player", "Player"} {
		typ, err := findType(s, name)
		require.NoError(t, err, name)
		assert.Equal(t, "Player", typ.Name)
	}

	_, err := findType(s, "Playr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean Player")
}

func TestWriteList(t *testing.T) {
	var buf bytes.Buffer
	writeList(&buf, sampleSchema(), false)

	out := buf.String()
	assert.Contains(t, out, "game/player.Player")
	assert.Contains(t, out, "number | string")
	assert.NotContains(t, out, "<internal>.string")

	buf.Reset()
	writeList(&buf, sampleSchema(), true)
	assert.Contains(t, buf.String(), "<internal>.string")
}

func TestWriteType(t *testing.T) {
	typ, err := findType(sampleSchema(), "Player")
	require.NoError(t, err)

	var buf bytes.Buffer
	writeType(&buf, typ, 1)

	out := buf.String()
	assert.Contains(t, out, "game/player.Player (struct, exported)")
	assert.Contains(t, out, "// A participant.")
	assert.Contains(t, out, "Name: string\n")
	assert.Contains(t, out, "Score?: number  [readonly]")
	assert.Contains(t, out, "Rename(name: string) => void")
	assert.Contains(t, out, "paths:")
}
