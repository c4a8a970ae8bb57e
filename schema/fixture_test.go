package schema

// gameFixture is a small resolved graph shaped like a builder result:
// Player has a method whose Self points back at Player, Entity extends
// Player, and Score is a union alias.
type gameFixture struct {
	schema *Schema

	str, num, boolean, object *Type

	player, entity, score, rename *Type
}

func builtin(name string) *Type {
	return &Type{Name: name, PkgPath: OriginInternal, Kind: KindType}
}

func newGameFixture() *gameFixture {
	f := &gameFixture{
		str:     builtin("string"),
		num:     builtin("number"),
		boolean: builtin("boolean"),
		object:  builtin("object"),
	}

	f.score = &Type{
		Name:       "Score",
		PkgPath:    "game/player.ts",
		Kind:       KindUnion,
		Types:      []*Type{f.num, f.str},
		Visibility: VisibilityExported,
	}

	f.player = &Type{
		Name:       "Player",
		PkgPath:    "game/player.ts",
		Kind:       KindStruct,
		Visibility: VisibilityExported,
	}

	f.rename = &Type{
		Kind: KindFunction,
		Ins:  []Argument{{Name: "name", Type: f.str}},
		Outs: []*Type{f.boolean},
	}

	f.player.Fields = []Field{
		{Name: "Name", Type: f.str},
		{Name: "Score", Type: f.score, Optional: true},
		{Name: "Tags", Type: &Type{Kind: KindArray, Elem: f.str}},
	}
	f.player.Methods = []Field{
		{Name: "Rename", Type: f.rename, Self: f.player},
	}

	f.entity = &Type{
		Name:       "Entity",
		PkgPath:    "game/entity.ts",
		Kind:       KindStruct,
		Extends:    []*Type{f.player},
		Visibility: VisibilityExported,
	}

	s := New()
	s.Put(f.player.FQN(), f.player)
	s.Put(f.entity.FQN(), f.entity)
	s.Put(f.score.FQN(), f.score)
	s.Put(f.str.FQN(), f.str)
	s.Put(f.num.FQN(), f.num)
	s.Put(f.boolean.FQN(), f.boolean)
	s.Put(f.object.FQN(), f.object)

	f.schema = s

	return f
}
