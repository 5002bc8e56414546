// Package catalog offers problem types to the submission form and manages the
// catalog for admins.
package catalog

import (
	"context"
	"strings"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
)

// OtherLabel is the form entry that lets the submitter type their own label.
const OtherLabel = "Autre"

// Choice is what the submitter picked: a CatalogChoice or an OtherChoice.
type Choice interface {
	isChoice()
}

// CatalogChoice is a label from the catalog, used verbatim.
type CatalogChoice struct {
	Label string
}

// OtherChoice carries the free text typed after choosing OtherLabel.
type OtherChoice struct {
	Text string
}

func (CatalogChoice) isChoice() {}
func (OtherChoice) isChoice()   {}

// Resolve returns the problem type to submit.
func Resolve(c Choice) (string, error) {
	switch c := c.(type) {
	case CatalogChoice:
		if strings.TrimSpace(c.Label) == "" {
			return "", apperrors.Validation("Type de problème obligatoire")
		}
		return c.Label, nil
	case OtherChoice:
		text := strings.TrimSpace(c.Text)
		if text == "" {
			return "", apperrors.Validation("Précisez le type de problème")
		}
		return text, nil
	default:
		return "", apperrors.Validation("Type de problème obligatoire")
	}
}

// ActiveLister fetches the active catalog.
type ActiveLister interface {
	ListActiveTypes(ctx context.Context) ([]models.ProblemType, error)
}

// Options is the list offered by the form. The OtherLabel entry is always
// last and is not part of Labels.
type Options struct {
	Labels []string
	// Degraded is set when the catalog could not be fetched and Labels are
	// the built-in defaults; Err holds the cause.
	Degraded bool
	Err      error
}

// LoadOptions fetches the active labels, falling back to the built-in ones.
func LoadOptions(ctx context.Context, api ActiveLister) Options {
	types, err := api.ListActiveTypes(ctx)
	if err != nil {
		labels := make([]string, len(models.DefaultProblemTypes))
		copy(labels, models.DefaultProblemTypes)
		return Options{Labels: labels, Degraded: true, Err: err}
	}
	labels := make([]string, 0, len(types))
	for _, t := range types {
		if t.IsActive {
			labels = append(labels, t.Label)
		}
	}
	return Options{Labels: labels}
}

// Display returns the entries as shown, OtherLabel last.
func (o Options) Display() []string {
	out := make([]string, 0, len(o.Labels)+1)
	out = append(out, o.Labels...)
	return append(out, OtherLabel)
}

// Choose maps a 1-based position in Display to a Choice. otherText is only
// used for the OtherLabel entry.
func (o Options) Choose(position int, otherText string) (Choice, error) {
	switch {
	case position >= 1 && position <= len(o.Labels):
		return CatalogChoice{Label: o.Labels[position-1]}, nil
	case position == len(o.Labels)+1:
		return OtherChoice{Text: otherText}, nil
	default:
		return nil, apperrors.Newf(apperrors.ErrorCodeValidation, "Choix invalide: %d", position)
	}
}

// ChooseLabel maps a typed label to a Choice. Only an exact catalog label is
// a CatalogChoice; anything else is free text.
func (o Options) ChooseLabel(label string) Choice {
	label = strings.TrimSpace(label)
	for _, l := range o.Labels {
		if l == label {
			return CatalogChoice{Label: l}
		}
	}
	return OtherChoice{Text: label}
}
