// Package appstate holds the client's persisted session and theme. The state
// is loaded once, changed only through its named operations, and written
// back to disk after every change.
package appstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"gopkg.in/yaml.v3"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Session is the signed-in admin.
type Session struct {
	Token string      `yaml:"token"`
	User  models.User `yaml:"user"`
}

type fileFormat struct {
	Session *Session `yaml:"session,omitempty"`
	Theme   Theme    `yaml:"theme"`
}

// Store is the single owner of the client state.
type Store struct {
	path    string
	session *Session
	theme   Theme
}

// DefaultPath is $XDG_CONFIG_HOME/remontee/state.yaml (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "remontee", "state.yaml"), nil
}

// Load reads the state at path. A missing file yields an empty state with the
// light theme; an unreadable theme value falls back to light as well.
func Load(path string) (*Store, error) {
	s := &Store{path: path, theme: ThemeLight}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	if f.Session != nil && f.Session.Token != "" {
		s.session = f.Session
	}
	if f.Theme.Valid() {
		s.theme = f.Theme
	}
	return s, nil
}

func (s *Store) save() error {
	data, err := yaml.Marshal(fileFormat{Session: s.session, Theme: s.theme})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	// 0600: the file holds a bearer token
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (s *Store) Path() string {
	return s.path
}

// Session returns the current session, or nil when signed out.
func (s *Store) Session() *Session {
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

func (s *Store) Authenticated() bool {
	return s.session != nil
}

func (s *Store) Token() string {
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// RequireSession is the admin route guard.
func (s *Store) RequireSession() (*Session, error) {
	if s.session == nil {
		return nil, apperrors.New(apperrors.ErrorCodeAuth, "Veuillez vous connecter (remontee login)")
	}
	return s.Session(), nil
}

func (s *Store) SignIn(token string, user models.User) error {
	if token == "" {
		return apperrors.Validation("Jeton de session vide")
	}
	s.session = &Session{Token: token, User: user}
	return s.save()
}

func (s *Store) SignOut() error {
	s.session = nil
	return s.save()
}

func (s *Store) Theme() Theme {
	return s.theme
}

func (s *Store) SetTheme(t Theme) error {
	if !t.Valid() {
		return apperrors.Newf(apperrors.ErrorCodeValidation, "Thème inconnu: %q (light ou dark)", t)
	}
	s.theme = t
	return s.save()
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Store) ToggleTheme() (Theme, error) {
	next := ThemeDark
	if s.theme == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}
