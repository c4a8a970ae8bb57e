package identity

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typereflect/schema"
)

type player struct {
	Name string
}

type guild struct{}

type taggedEntity struct {
	fqn string
}

func (e taggedEntity) ReflectFQN() string { return e.fqn }

func TestDeriveFQN(t *testing.T) {
	tests := []struct {
		location string
		name     string
		expected string
	}{
		{"game/player.go", "Player", "game/player.Player"},
		{"/src/game/player.go:12:7", "Player", "/src/game/player.Player"},
		{"file:///src/game/player.ts:3:1", "Player", "/src/game/player.Player"},
		{"file://game/player.ts", "Player", "game/player.Player"},
		{"file:///C:/src/player.ts:1:1", "Player", "C:/src/player.Player"},
		{`C:\src\game\player.go:4:2`, "Player", "C:/src/game/player.Player"},
		{"pkg.v2/player.go", "Player", "pkg.v2/player.Player"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveFQN(tt.location, tt.name))
		})
	}
}

func TestRegistry_BindExplicit(t *testing.T) {
	r := NewRegistry()

	fqn := r.Bind(player{}, `game\player.Player`)
	assert.Equal(t, "game/player.Player", fqn)

	// Values, pointers and reflect.Type share one binding.
	assert.Equal(t, fqn, r.FQNOf(player{}))
	assert.Equal(t, fqn, r.FQNOf(&player{}))
	assert.Equal(t, fqn, r.FQNOf(reflect.TypeOf(player{})))

	assert.Empty(t, r.FQNOf(guild{}))
	assert.Empty(t, r.FQNOf(nil))

	r.Unbind(&player{})
	assert.Empty(t, r.FQNOf(player{}))
}

func TestRegistry_BindDerived(t *testing.T) {
	r := NewRegistry()

	fqn := r.Bind(&guild{})
	assert.True(t, strings.HasSuffix(fqn, "identity/identity_test.guild"), fqn)
	assert.Equal(t, fqn, r.FQNOf(guild{}))

	// Unnamed types cannot be derived.
	assert.Empty(t, r.Bind(struct{ X int }{}))
}

func TestBind_Default(t *testing.T) {
	t.Cleanup(func() { Default.Unbind(player{}) })

	fqn := Bind(player{})
	assert.True(t, strings.HasSuffix(fqn, "identity/identity_test.player"), fqn)
	assert.Equal(t, fqn, FQNOf(&player{}))
}

func TestRegistry_TaggedWins(t *testing.T) {
	r := NewRegistry()
	r.Bind(taggedEntity{}, "game/entity.Entity")

	assert.Equal(t, "game/special.Boss", r.FQNOf(taggedEntity{fqn: "game/special.Boss"}))
	assert.Equal(t, "game/entity.Entity", r.FQNOf(taggedEntity{}))
}

func TestTypeOf_RelativizedSchema(t *testing.T) {
	s := schema.New()
	playerType := &schema.Type{Name: "Player", PkgPath: "file.ts", Kind: schema.KindStruct}
	s.Put("file.Player", playerType)

	r := NewRegistry()
	r.Bind(player{}, "pkg/file.Player")

	assert.Same(t, playerType, r.TypeOf(s, player{}))
	assert.Same(t, playerType, r.TypeOf(s, &player{}))

	assert.Nil(t, r.TypeOf(s, guild{}))
	assert.Nil(t, r.TypeOf(nil, player{}))

	r.Bind(player{}, "pkg/other.Player")
	assert.Nil(t, r.TypeOf(s, player{}))
}

func TestTypeOf_Default(t *testing.T) {
	t.Cleanup(func() { Default.Unbind(guild{}) })

	s := schema.New()
	guildType := &schema.Type{Name: "Guild", PkgPath: "game/guild.go", Kind: schema.KindStruct}
	s.Put(guildType.FQN(), guildType)

	Bind(guild{}, "/abs/root/game/guild.Guild")
	require.Same(t, guildType, TypeOf(s, guild{}))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			r.Bind(player{}, "game/player.Player")
			_ = r.FQNOf(player{})
		}()
	}

	wg.Wait()
	assert.Equal(t, "game/player.Player", r.FQNOf(player{}))
}
