package triage

import (
	"context"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/prompt"
)

// DeleteQuestion is asked before a record is deleted.
const DeleteQuestion = "Êtes-vous sûr de vouloir supprimer cette remontée ? Cette action est irréversible."

var errNotLoaded = apperrors.New(apperrors.ErrorCodeNotFound, "Aucune remontée chargée")

func invalidStatus(s models.Status) error {
	return apperrors.Newf(apperrors.ErrorCodeValidation, "Statut invalide: %q", s)
}

// ListAPI is the subset of the client used by Dashboard.
type ListAPI interface {
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
	UpdateStatus(ctx context.Context, id int, status models.Status) (*models.Feedback, error)
	DeleteFeedback(ctx context.Context, id int) error
}

// Dashboard is the admin list view. It holds the full list as returned by
// the server; filters are applied on read.
type Dashboard struct {
	api     ListAPI
	confirm prompt.Confirmer
	list    []models.Feedback
}

func NewDashboard(api ListAPI, confirm prompt.Confirmer) *Dashboard {
	return &Dashboard{api: api, confirm: confirm}
}

// Load replaces the local list. On failure the previous list is kept.
func (d *Dashboard) Load(ctx context.Context) error {
	list, err := d.api.ListFeedback(ctx)
	if err != nil {
		return err
	}
	d.list = list
	return nil
}

// All returns a copy of the full list in server order.
func (d *Dashboard) All() []models.Feedback {
	return d.snapshot()
}

func (d *Dashboard) Visible(f Filter) []models.Feedback {
	return f.Apply(d.list)
}

func (d *Dashboard) Counts() Counts {
	return CountStatuses(d.list)
}

func (d *Dashboard) snapshot() []models.Feedback {
	out := make([]models.Feedback, len(d.list))
	copy(out, d.list)
	return out
}

func (d *Dashboard) index(id int) int {
	for i, fb := range d.list {
		if fb.ID == id {
			return i
		}
	}
	return -1
}

// ChangeStatus sets the status locally, then on the server. When the call
// fails the list is restored to what it was before and the error returned.
func (d *Dashboard) ChangeStatus(ctx context.Context, id int, status models.Status) (*models.Feedback, error) {
	if !status.Valid() {
		return nil, invalidStatus(status)
	}
	before := d.snapshot()
	if i := d.index(id); i >= 0 {
		d.list[i].Status = status
	}

	updated, err := d.api.UpdateStatus(ctx, id, status)
	if err != nil {
		d.list = before
		return nil, err
	}
	if i := d.index(id); i >= 0 {
		d.list[i] = *updated
	}
	return updated, nil
}

// Delete asks DeleteQuestion first; a declined confirmation returns
// apperrors.ErrCancelled without calling the server.
func (d *Dashboard) Delete(ctx context.Context, id int) error {
	ok, err := d.confirm.Confirm(DeleteQuestion)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCancelled
	}
	if err := d.api.DeleteFeedback(ctx, id); err != nil {
		return err
	}
	if i := d.index(id); i >= 0 {
		d.list = append(d.list[:i], d.list[i+1:]...)
	}
	return nil
}
