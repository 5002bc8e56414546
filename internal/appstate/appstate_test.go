package appstate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nested", "state.yaml"))
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, "", s.Token())

	_, err = s.RequireSession()
	assert.True(t, errors.Is(err, apperrors.ErrAuth))
}

func TestSignInPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remontee", "state.yaml")
	s, err := Load(path)
	require.NoError(t, err)

	user := models.User{ID: "42", Nom: "ADMIN", Prenom: "Admin", Email: "admin@mim.fr", Role: models.RoleAdmin}
	require.NoError(t, s.SignIn("tok", user))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := Load(path)
	require.NoError(t, err)
	sess, err := reloaded.RequireSession()
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, user, sess.User)

	require.NoError(t, reloaded.SignOut())
	again, err := Load(path)
	require.NoError(t, err)
	assert.False(t, again.Authenticated())
}

func TestSignInRejectsEmptyToken(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	assert.True(t, errors.Is(s.SignIn("", models.User{}), apperrors.ErrValidation))
	assert.False(t, s.Authenticated())
}

func TestThemeToggleAndPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	s, err := Load(path)
	require.NoError(t, err)

	theme, err := s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, reloaded.Theme())

	theme, err = reloaded.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	assert.True(t, errors.Is(reloaded.SetTheme("sepia"), apperrors.ErrValidation))
	assert.Equal(t, ThemeLight, reloaded.Theme())
}

func TestLoad_UnknownThemeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme())
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
