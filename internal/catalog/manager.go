package catalog

import (
	"context"
	"strings"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/prompt"
)

// AdminAPI is the subset of the client used by Manager.
type AdminAPI interface {
	ListAllTypes(ctx context.Context) ([]models.ProblemType, error)
	CreateType(ctx context.Context, label string) (*models.ProblemType, error)
	SetTypeActive(ctx context.Context, id int, active bool) (*models.ProblemType, error)
	DeleteType(ctx context.Context, id int) error
}

// Manager is the admin view of the catalog. It keeps a local copy of the
// list and updates it after each successful call.
type Manager struct {
	api     AdminAPI
	confirm prompt.Confirmer
	types   []models.ProblemType
}

func NewManager(api AdminAPI, confirm prompt.Confirmer) *Manager {
	return &Manager{api: api, confirm: confirm}
}

func (m *Manager) Load(ctx context.Context) error {
	types, err := m.api.ListAllTypes(ctx)
	if err != nil {
		return err
	}
	m.types = types
	return nil
}

// Types returns a copy of the local list.
func (m *Manager) Types() []models.ProblemType {
	out := make([]models.ProblemType, len(m.types))
	copy(out, m.types)
	return out
}

func (m *Manager) index(id int) int {
	for i, t := range m.types {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Create uppercases the label, creates it and reloads the list.
func (m *Manager) Create(ctx context.Context, label string) (*models.ProblemType, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return nil, apperrors.Validation("Le libellé est obligatoire")
	}
	pt, err := m.api.CreateType(ctx, label)
	if err != nil {
		return nil, err
	}
	if err := m.Load(ctx); err != nil {
		m.types = append(m.types, *pt)
	}
	return pt, nil
}

// Toggle flips is_active. The local flag changes before the call and is
// restored if the call fails.
func (m *Manager) Toggle(ctx context.Context, id int) (*models.ProblemType, error) {
	i := m.index(id)
	if i < 0 {
		return nil, apperrors.Newf(apperrors.ErrorCodeNotFound, "Type #%d introuvable", id)
	}
	before := m.types[i]
	m.types[i].IsActive = !before.IsActive

	pt, err := m.api.SetTypeActive(ctx, id, !before.IsActive)
	if err != nil {
		if j := m.index(id); j >= 0 {
			m.types[j] = before
		}
		return nil, err
	}
	m.types[i] = *pt
	return pt, nil
}

// Delete asks for confirmation, then removes the type permanently.
// A declined confirmation returns apperrors.ErrCancelled.
func (m *Manager) Delete(ctx context.Context, id int) error {
	ok, err := m.confirm.Confirm("Êtes-vous sûr de vouloir supprimer ce type ? Cette action est irréversible.")
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCancelled
	}
	if err := m.api.DeleteType(ctx, id); err != nil {
		return err
	}
	if i := m.index(id); i >= 0 {
		m.types = append(m.types[:i], m.types[i+1:]...)
	}
	return nil
}
