package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent case-folds s and drops separators, so "player_name",
// "PlayerName" and "player-name" all normalize to "playername".
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// LastSegment returns the part of a qualified name after the last "/" or ".",
// so "game/player.Player" yields "Player".
func LastSegment(name string) string {
	if i := strings.LastIndexAny(name, "/."); i >= 0 {
		return name[i+1:]
	}

	return name
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '$'
}
