// Package triage holds the admin list and detail views: filtering, status
// counters and the optimistic mutations with their revert policy.
package triage

import (
	"strings"

	"github.com/AnshRaj112/remontee-backend/internal/models"
)

// StatusAll disables the status predicate.
const StatusAll = "all"

// Filter is the search box plus the status dropdown.
type Filter struct {
	Status string
	Search string
}

func (f Filter) statusMatches(fb models.Feedback) bool {
	return f.Status == "" || f.Status == StatusAll || models.Status(f.Status) == fb.Status
}

func (f Filter) searchMatches(fb models.Feedback) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	for _, field := range []string{fb.Nom, fb.Prenom, fb.SocieteAgence, fb.TypeProbleme, fb.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Matches reports whether fb passes both predicates.
func (f Filter) Matches(fb models.Feedback) bool {
	return f.statusMatches(fb) && f.searchMatches(fb)
}

// Apply returns the matching records in their original order. The input is
// not modified.
func (f Filter) Apply(list []models.Feedback) []models.Feedback {
	out := make([]models.Feedback, 0, len(list))
	for _, fb := range list {
		if f.Matches(fb) {
			out = append(out, fb)
		}
	}
	return out
}

// Counts are the header counters of the admin list.
type Counts struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
}

func CountStatuses(list []models.Feedback) Counts {
	c := Counts{Total: len(list)}
	for _, fb := range list {
		switch fb.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusInProgress:
			c.InProgress++
		case models.StatusResolved:
			c.Resolved++
		}
	}
	return c
}
