package models

import "time"

// Notification is a stored message for a user. Delivery is out of scope;
// only the record exists.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserEmail string    `db:"user_email" json:"user_email"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NotificationFilter constrains notification listings.
type NotificationFilter struct {
	UserEmail string
}
