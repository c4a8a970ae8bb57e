package declfile

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typereflect/builder"
	"typereflect/internal/diagnostic"
	"typereflect/schema"
)

const playerYAML = `
imports:
  - from: ./guild
    names: [Guild, {name: Rank, as: GuildRank}]
decls:
  - struct: Player
    exported: true
    comment: A participant.
    props:
      - {name: Name, type: string}
      - {name: Score, type: number, optional: true}
      - {name: Tags, type: {array: string}}
      - {name: Guild, type: Guild}
      - {name: Rank, type: GuildRank, access: readonly}
    methods:
      - name: Award
        params: [{name: points, type: {array: number}, rest: true}]
        results: [void]
  - alias: Status
    exported: true
    type: {union: ["active", "banned", {literal: null}]}
  - func: NewPlayer
    exported: true
    params: [{name: name, type: string}]
    results: [Player]
`

const guildYAML = `
imports:
  - from: ./player
    names: [Player]
decls:
  - interface: Guild
    exported: true
    props:
      - {name: Members, type: {array: Player}}
      - {name: Ranks, type: {map: [string, Rank]}}
  - alias: Rank
    exported: true
    type: number
  - enum: Color
`

func gameFS() fstest.MapFS {
	return fstest.MapFS{
		"models/player.yaml": {Data: []byte(playerYAML)},
		"models/guild.yml":   {Data: []byte(guildYAML)},
		"README.md":          {Data: []byte("not a descriptor")},
	}
}

func TestParse(t *testing.T) {
	u, err := Parse("models/player.yaml", []byte(playerYAML))
	require.NoError(t, err)

	assert.Equal(t, "models/player.yaml", u.Path)
	require.Len(t, u.Decls, 4)

	imp, ok := u.Decls[0].(*builder.Import)
	require.True(t, ok)
	assert.Equal(t, "./guild", imp.From)
	assert.Equal(t, []builder.ImportSpec{{Name: "Guild"}, {Name: "Rank", As: "GuildRank"}}, imp.Names)

	player, ok := u.Decls[1].(*builder.Struct)
	require.True(t, ok)
	assert.Equal(t, "Player", player.Name)
	assert.True(t, player.Exported)
	assert.Equal(t, "A participant.", player.Comment)
	require.Len(t, player.Props, 5)
	assert.Equal(t, &builder.Keyword{Name: "string"}, player.Props[0].Type)
	assert.True(t, player.Props[1].Optional)
	assert.Equal(t, &builder.Array{Elem: &builder.Keyword{Name: "string"}}, player.Props[2].Type)
	assert.Equal(t, &builder.Ref{Name: "Guild"}, player.Props[3].Type)
	assert.Equal(t, schema.VisibilityReadonly, player.Props[4].Access)

	require.Len(t, player.Methods, 1)
	award := player.Methods[0].Signature
	require.Len(t, award.Params, 1)
	assert.True(t, award.Params[0].Rest)
	assert.Equal(t, []builder.Node{&builder.Keyword{Name: "void"}}, award.Results)

	status, ok := u.Decls[2].(*builder.Alias)
	require.True(t, ok)
	assert.Equal(t, &builder.Union{Types: []builder.Node{
		&builder.Literal{Text: `"active"`},
		&builder.Literal{Text: `"banned"`},
		&builder.Literal{Text: "null"},
	}}, status.Type)

	fn, ok := u.Decls[3].(*builder.Func)
	require.True(t, ok)
	assert.Equal(t, "NewPlayer", fn.Name)
	assert.Equal(t, []builder.Node{&builder.Ref{Name: "Player"}}, fn.Results)
}

func TestParse_TypeExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want builder.Node
	}{
		{"keyword", "any", &builder.Keyword{Name: "any"}},
		{"reference", "Date", &builder.Ref{Name: "Date"}},
		{"number literal", "42", &builder.Literal{Text: "42"}},
		{"bool literal", "true", &builder.Literal{Text: "true"}},
		{"fixed array", "{array: number, len: 3}", &builder.Array{Elem: &builder.Keyword{Name: "number"}, Len: 3}},
		{"intersection", "{intersection: [A, B]}", &builder.Intersection{Types: []builder.Node{&builder.Ref{Name: "A"}, &builder.Ref{Name: "B"}}}},
		{"generic ref", "{ref: Record, args: [string, number]}", &builder.Ref{
			Name: "Record",
			Args: []builder.Node{&builder.Keyword{Name: "string"}, &builder.Keyword{Name: "number"}},
		}},
		{"foreign ref", "{ref: Guild, from: ./guild}", &builder.Ref{Name: "Guild", From: "./guild"}},
		{"self ref", `{ref: ""}`, &builder.Ref{}},
		{"ident", "{ident: Player}", &builder.Ident{Name: "Player"}},
		{"anonymous struct", "{struct: {props: [{name: x, type: number}]}}", &builder.Struct{
			Props: []builder.Prop{{Name: "x", Type: &builder.Keyword{Name: "number"}}},
		}},
		{"function type", "{func: {params: [{name: v, type: string}], results: [boolean]}}", &builder.Func{
			Params:  []builder.Param{{Name: "v", Type: &builder.Keyword{Name: "string"}}},
			Results: []builder.Node{&builder.Keyword{Name: "boolean"}},
		}},
		{"unknown form", "{tuple: [a, b]}", &builder.Unsupported{Kind: "tuple"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Parse("u.yaml", []byte("decls:\n  - alias: T\n    type: "+tt.expr+"\n"))
			require.NoError(t, err)
			require.Len(t, u.Decls, 1)

			alias, ok := u.Decls[0].(*builder.Alias)
			require.True(t, ok)
			assert.Equal(t, tt.want, alias.Type)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "decls: [unclosed"},
		{"decl is a scalar", "decls:\n  - Player\n"},
		{"alias without type", "decls:\n  - alias: T\n"},
		{"map arity", "decls:\n  - alias: T\n    type: {map: [string]}\n"},
		{"union not a list", "decls:\n  - alias: T\n    type: {union: string}\n"},
		{"import without name", "imports:\n  - from: ./x\n    names: [{as: y}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("u.yaml", []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestFrontend_Unit(t *testing.T) {
	fe := New(gameFS())

	u, err := fe.Unit("models/player")
	require.NoError(t, err)
	assert.Equal(t, "models/player.yaml", u.Path)

	u, err = fe.Unit("./models/guild")
	require.NoError(t, err)
	assert.Equal(t, "models/guild.yml", u.Path)

	_, err = fe.Unit("models/missing")
	assert.ErrorIs(t, err, builder.ErrUnitNotFound)
}

func TestDiscover(t *testing.T) {
	paths, err := Discover(gameFS(), "models/*.yaml", "models/*.yml", "models/*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"models/guild.yml", "models/player.yaml"}, paths)

	_, err = Discover(gameFS(), "[")
	assert.Error(t, err)
}

func TestBuild_Descriptors(t *testing.T) {
	ctx := builder.NewContext(New(gameFS()))

	s, err := ctx.Build("models/player.yaml")
	require.NoError(t, err)

	player := s.Lookup("Player")
	require.NotNil(t, player)
	assert.Equal(t, "models/player.Player", player.FQN())

	guild := player.Field("Guild").Type
	require.NotNil(t, guild)
	assert.Equal(t, "models/guild.Guild", guild.FQN())
	assert.Same(t, player, guild.Field("Members").Type.Elem, "import cycle resolves to the same node")

	rank := player.Field("Rank").Type
	assert.Same(t, guild.Field("Ranks").Type.Elem, rank)
	assert.Same(t, rank, s.Lookup("GuildRank"))

	award := player.Method("Award")
	require.NotNil(t, award)
	assert.True(t, award.Type.IsVariadic)
	assert.Same(t, player, award.Self)

	status := s.Lookup("Status")
	require.NotNil(t, status)
	assert.Equal(t, schema.KindUnion, status.Kind)
	require.Len(t, status.Types, 3)
	assert.Equal(t, schema.OriginUnknown, status.Types[0].PkgPath)
	assert.Equal(t, schema.OriginInternal, status.Types[2].PkgPath)

	assert.Equal(t, []string{"models/player.yaml", "models/guild.yml"}, ctx.Units())

	unhandled := ctx.Diagnostics().ByCode(diagnostic.CodeUnhandledKind)
	require.Len(t, unhandled, 1)
	assert.Equal(t, "Color", unhandled[0].Name)
}
