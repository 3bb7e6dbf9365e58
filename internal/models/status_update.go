package models

import "time"

// ActionType enumerates the verbs actors can apply to an application.
type ActionType string

const (
	ActionSubmit  ActionType = "submit"
	ActionReview  ActionType = "review"
	ActionForward ActionType = "forward"
	ActionApprove ActionType = "approve"
	ActionReject  ActionType = "reject"
	ActionComment ActionType = "comment"
)

// StatusUpdate is one immutable entry in an application's timeline. Rows are
// only ever inserted, never updated or deleted.
type StatusUpdate struct {
	ID            string     `db:"id" json:"id"`
	ApplicationID string     `db:"application_id" json:"application_id"`
	ActorRole     Role       `db:"actor_role" json:"actor_role"`
	ActorName     string     `db:"actor_name" json:"actor_name"`
	Action        ActionType `db:"action" json:"action"`
	Comments      *string    `db:"comments" json:"comments,omitempty"`
	ToDepartment  *string    `db:"to_department" json:"to_department,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
