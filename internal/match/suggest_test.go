package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	candidates := []string{"Player", "Guild", "Entity", "Players", "player", "Mover"}

	got := Suggest("Plyer", candidates, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, []string{"Player", "player", "Players"}, got)

	assert.Empty(t, Suggest("Zzzzzz", candidates, 3))
	assert.Len(t, Suggest("Plyer", candidates, 0), 3)
}

func TestSuggest_QualifiedCandidates(t *testing.T) {
	candidates := []string{"game/player.Player", "game/entity.Entity", "game/player.Player"}

	assert.Equal(t, []string{"game/player.Player"}, Suggest("Playr", candidates, 5))
}

func TestRank_SkipsExactName(t *testing.T) {
	ranked := Rank("Guild", []string{"Guild", "Build"})

	require.Len(t, ranked, 1)
	assert.Equal(t, "Build", ranked[0].Name)
	assert.InDelta(t, 0.8, ranked[0].Score, 0.001)
}
