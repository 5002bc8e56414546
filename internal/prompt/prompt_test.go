package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"o\n":    true,
		"OUI\n":  true,
		"y\n":    true,
		"n\n":    false,
		"\n":     false,
		"":       false,
		"peut\n": false,
	} {
		var out bytes.Buffer
		got, err := NewTerminal(strings.NewReader(input), &out).Confirm("Supprimer ?")
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
		assert.Contains(t, out.String(), "Supprimer ? [o/N]")
	}
}

func TestTerminalPrompt(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("\n  rapport  \n"), &out)

	answer, ok, err := term.Prompt("Nom du fichier", "Fiche_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Fiche_1", answer, "empty line keeps the default")

	answer, ok, err = term.Prompt("Nom du fichier", "Fiche_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "rapport", answer)

	_, ok, err = term.Prompt("Nom du fichier", "Fiche_1")
	require.NoError(t, err)
	assert.False(t, ok, "end of input cancels")
}

func TestTerminalPasswordFromPipe(t *testing.T) {
	var out bytes.Buffer
	pw, err := NewTerminal(strings.NewReader("s3cret\n"), &out).Password("Mot de passe")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
}
