package models

import (
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Status is the triage state of a feedback record.
type Status string

const (
	StatusPending    Status = "En attente"
	StatusInProgress Status = "En cours"
	StatusResolved   Status = "Traité"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved}

// Valid reports whether s is one of the three triage states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// DefaultCompany is prefilled on the public form.
const DefaultCompany = "MIM"

// Feedback is one submitted incident/improvement report.
type Feedback struct {
	ID            int       `json:"id"`
	SocieteAgence string    `json:"societe_agence"`
	Date          string    `json:"date"`
	Nom           string    `json:"nom"`
	Prenom        string    `json:"prenom"`
	LieuClient    string    `json:"lieu_client"`
	TypeProbleme  string    `json:"type_probleme"`
	Description   string    `json:"description"`
	Action        string    `json:"action"`
	ActionAdmin   string    `json:"action_admin,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// FeedbackSubmission is the public form payload. Status is deliberately
// absent: new records always start as StatusPending.
type FeedbackSubmission struct {
	Societe     string `json:"societe"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Nom         string `json:"nom" validate:"required"`
	Prenom      string `json:"prenom" validate:"required"`
	Lieu        string `json:"lieu" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// RequiredFieldsMessage is returned for any missing or malformed required field.
const RequiredFieldsMessage = "Les champs date, nom, prénom, lieu et type de problème sont obligatoires"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func submissionValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Normalize trims every field.
func (s *FeedbackSubmission) Normalize() {
	s.Societe = strings.TrimSpace(s.Societe)
	s.Date = strings.TrimSpace(s.Date)
	s.Nom = strings.TrimSpace(s.Nom)
	s.Prenom = strings.TrimSpace(s.Prenom)
	s.Lieu = strings.TrimSpace(s.Lieu)
	s.Type = strings.TrimSpace(s.Type)
	s.Description = strings.TrimSpace(s.Description)
	s.Action = strings.TrimSpace(s.Action)
}

// Validate checks the required fields. It returns the validator's error;
// callers map any failure to the same validation message.
func (s FeedbackSubmission) Validate() error {
	return submissionValidator().Struct(s)
}

// StatusUpdateRequest is the body of PATCH /feedback/{id}/status.
type StatusUpdateRequest struct {
	Status Status `json:"status"`
}

// AdminActionRequest is the body of PATCH /feedback/{id}/admin-action.
type AdminActionRequest struct {
	ActionAdmin string `json:"action_admin"`
}
