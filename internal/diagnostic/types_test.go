package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(9).String())
}

func TestDiagnostics_Add(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddWarning(CodeUnresolvedIdentifier, "unresolved identifier Plyer", "game/player.go", "Plyer", "Player")
	d.AddInfo(CodeUnhandledKind, "skipped chan", "game/entity.go", "Events")

	assert.True(t, d.IsValid())
	assert.Equal(t, 2, d.Len())

	d.AddError(CodeUnresolvedUnit, "unit not found", "game/missing.go", "")

	assert.True(t, d.HasErrors())
	require.Error(t, d.Error())
	assert.Equal(t, "game/missing.go: [unresolved-unit] unit not found", d.Error().Error())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, SeverityError, all[0].Severity)

	byCode := d.ByCode(CodeUnresolvedIdentifier)
	require.Len(t, byCode, 1)
	assert.Equal(t, []string{"Player"}, byCode[0].Suggestions)
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{"message only", Diagnostic{Message: "boom"}, "boom"},
		{"code", Diagnostic{Code: "x", Message: "boom"}, "[x] boom"},
		{
			"full",
			Diagnostic{Code: CodeUnresolvedIdentifier, Message: "unknown Plyer", Unit: "a.go", Name: "Plyer", Suggestions: []string{"Player", "Layer"}},
			"a.go Plyer: [unresolved-identifier] unknown Plyer (did you mean Player, Layer?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diag.String())
		})
	}
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddWarning(CodeMissingParent, "bare reference", "a.go", "")
	b.AddError(CodeUnresolvedImport, "import failed", "b.go", "x")
	b.AddInfo(CodeUnhandledKind, "skipped", "b.go", "y")

	a.Merge(b)

	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Infos, 1)
}
