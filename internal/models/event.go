package models

import "time"

// TriageAction names an entry of the audit trail.
type TriageAction string

const (
	TriageCreated       TriageAction = "created"
	TriageStatusChanged TriageAction = "status_changed"
	TriageAdminAction   TriageAction = "admin_action_updated"
	TriageDeleted       TriageAction = "deleted"
)

// TriageEvent records one change made to a feedback record.
type TriageEvent struct {
	FeedbackID int          `bson:"feedback_id" json:"feedback_id"`
	Action     TriageAction `bson:"action" json:"action"`
	AdminID    string       `bson:"admin_id,omitempty" json:"admin_id,omitempty"`
	Value      string       `bson:"value,omitempty" json:"value,omitempty"`
	Timestamp  time.Time    `bson:"timestamp" json:"timestamp"`
}

// FeedbackCreatedMessage is published on the new_feedback queue.
type FeedbackCreatedMessage struct {
	EventID      string    `json:"event_id"`
	FeedbackID   int       `json:"feedback_id"`
	TypeProbleme string    `json:"type_probleme"`
	LieuClient   string    `json:"lieu_client"`
	CreatedAt    time.Time `json:"created_at"`
}
