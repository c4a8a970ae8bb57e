package schema

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertFlat fails if any Type-valued slot below a top-level entry holds
// something other than a placeholder.
func assertFlat(t *testing.T, s *Schema) {
	t.Helper()

	s.Range(func(key string, top *Type) bool {
		Walk(&Schema{types: map[string]*Type{key: top}, keys: []string{key}}, func(n *Type, slot Slot) *Type {
			if slot.Owner != nil && !n.IsPlaceholder() {
				t.Errorf("%s: slot %s[%d].%s is not a placeholder: %s", key, slot.Key, slot.Index, slot.Member, spew.Sdump(n))
			}

			return n
		})

		return true
	})
}

func TestFlatten_ReplacesReferences(t *testing.T) {
	f := newGameFixture()

	flat := Flatten(f.schema)
	assertFlat(t, flat)

	player := flat.Lookup("game/player.Player")
	require.NotNil(t, player)
	assert.NotSame(t, f.player, player, "Flatten must clone")

	assert.Equal(t, Placeholder("<internal>.string"), player.Fields[0].Type)
	assert.Equal(t, Placeholder("game/player.Score"), player.Fields[1].Type)
	// Methods are visited before fields, so the method signature is named first.
	assert.Equal(t, Placeholder("<unknown>.Anonymous"), player.Methods[0].Type)
	assert.Equal(t, Placeholder("<unknown>.Anonymous2"), player.Fields[2].Type)
	assert.Equal(t, Placeholder("game/player.Player"), player.Methods[0].Self)

	entity := flat.Lookup("game/entity.Entity")
	require.NotNil(t, entity)
	assert.Equal(t, []*Type{Placeholder("game/player.Player")}, entity.Extends)

	tags := flat.Lookup("<unknown>.Anonymous2")
	require.NotNil(t, tags)
	assert.Equal(t, KindArray, tags.Kind)
	assert.Equal(t, OriginUnknown, tags.PkgPath)

	rename := flat.Lookup("<unknown>.Anonymous")
	require.NotNil(t, rename)
	assert.Equal(t, KindFunction, rename.Kind)
	assert.Equal(t, Placeholder("<internal>.boolean"), rename.Outs[0])
}

func TestFlatten_DoesNotModifyInput(t *testing.T) {
	f := newGameFixture()

	Flatten(f.schema)

	assert.Same(t, f.str, f.player.Fields[0].Type)
	assert.Same(t, f.player, f.player.Methods[0].Self)
	assert.Empty(t, f.rename.Name)
	assert.Empty(t, f.rename.PkgPath)
}

func TestFlatten_Idempotent(t *testing.T) {
	f := newGameFixture()

	once := Flatten(f.schema)
	twice := Flatten(once)

	assert.Equal(t, once.Keys(), twice.Keys())

	for _, k := range once.Keys() {
		assert.Equal(t, once.Lookup(k), twice.Lookup(k), k)
	}
}

func TestFlatten_SharedNodeRegisteredOnce(t *testing.T) {
	shared := &Type{Kind: KindArray, Elem: builtin("string")}
	a := &Type{Name: "A", PkgPath: "a.ts", Kind: KindStruct, Fields: []Field{{Name: "X", Type: shared}}}
	b := &Type{Name: "B", PkgPath: "a.ts", Kind: KindStruct, Fields: []Field{{Name: "Y", Type: shared}}}

	s := New()
	s.Put("a.A", a)
	s.Put("a.B", b)

	flat := Flatten(s)

	assert.Equal(t, []string{"a.A", "<unknown>.Anonymous", "<internal>.string", "a.B"}, flat.Keys())
	assert.Equal(t, flat.Lookup("a.A").Fields[0].Type, flat.Lookup("a.B").Fields[0].Type)
}

func TestRelativize(t *testing.T) {
	s := New()
	guild := &Type{Name: "Guild", PkgPath: "/src/game/guild.ts", Kind: KindStruct}
	player := &Type{
		Name:    "Player",
		PkgPath: "/src/game/player.ts",
		Kind:    KindStruct,
		Fields: []Field{
			{Name: "Guild", Type: guild},
			{Name: "Name", Type: builtin("string")},
		},
	}
	s.Put(player.FQN(), player)
	s.Put(guild.FQN(), guild)

	flat := Flatten(s)
	flat.Relativize("/src")

	require.Equal(t, []string{"game/player.Player", "game/guild.Guild", "<internal>.string"}, flat.Keys())

	p := flat.Lookup("game/player.Player")
	require.NotNil(t, p)
	assert.Equal(t, "game/player.ts", p.PkgPath)
	assert.Equal(t, "game/player.Player", p.FQN())
	assert.Equal(t, Placeholder("game/guild.Guild"), p.Fields[0].Type)
	assert.Equal(t, Placeholder("<internal>.string"), p.Fields[1].Type)

	Resolve(flat)
	assert.Empty(t, Unresolved(flat))
	assert.Same(t, flat.Lookup("game/guild.Guild"), p.Fields[0].Type)
}

func TestRelativize_WholeSegmentsOnly(t *testing.T) {
	s := New()
	s.Put("/srcx/a.T", &Type{Name: "T", PkgPath: "/srcx/a.ts", Kind: KindStruct})

	s.Relativize("/src/")

	assert.Equal(t, []string{"/srcx/a.T"}, s.Keys())
}
