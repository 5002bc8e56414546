package triage

import (
	"context"

	"github.com/AnshRaj112/remontee-backend/internal/models"
)

// DetailAPI is the subset of the client used by Detail.
type DetailAPI interface {
	GetFeedback(ctx context.Context, id int) (*models.Feedback, error)
	UpdateStatus(ctx context.Context, id int, status models.Status) (*models.Feedback, error)
	UpdateAdminAction(ctx context.Context, id int, text string) (*models.Feedback, error)
}

// Exporter writes a record to a document in dir and returns its path.
type Exporter interface {
	Export(ctx context.Context, f models.Feedback, dir string) (string, error)
}

// Detail is the admin view of one record.
type Detail struct {
	api    DetailAPI
	record *models.Feedback
}

func NewDetail(api DetailAPI) *Detail {
	return &Detail{api: api}
}

// Load fetches the record. An error here leaves the view without a record.
func (d *Detail) Load(ctx context.Context, id int) error {
	fb, err := d.api.GetFeedback(ctx, id)
	if err != nil {
		d.record = nil
		return err
	}
	d.record = fb
	return nil
}

// Record returns a copy of the loaded record, or nil.
func (d *Detail) Record() *models.Feedback {
	if d.record == nil {
		return nil
	}
	cp := *d.record
	return &cp
}

func (d *Detail) mutate(apply func(*models.Feedback), call func() (*models.Feedback, error)) (*models.Feedback, error) {
	if d.record == nil {
		return nil, errNotLoaded
	}
	before := *d.record
	apply(d.record)

	updated, err := call()
	if err != nil {
		*d.record = before
		return nil, err
	}
	*d.record = *updated
	return d.Record(), nil
}

func (d *Detail) ChangeStatus(ctx context.Context, status models.Status) (*models.Feedback, error) {
	if !status.Valid() {
		return nil, invalidStatus(status)
	}
	return d.mutate(
		func(fb *models.Feedback) { fb.Status = status },
		func() (*models.Feedback, error) { return d.api.UpdateStatus(ctx, d.record.ID, status) },
	)
}

// SaveAdminAction replaces the admin annotation.
func (d *Detail) SaveAdminAction(ctx context.Context, text string) (*models.Feedback, error) {
	return d.mutate(
		func(fb *models.Feedback) { fb.ActionAdmin = text },
		func() (*models.Feedback, error) { return d.api.UpdateAdminAction(ctx, d.record.ID, text) },
	)
}

func (d *Detail) Export(ctx context.Context, e Exporter, dir string) (string, error) {
	if d.record == nil {
		return "", errNotLoaded
	}
	return e.Export(ctx, *d.record, dir)
}
