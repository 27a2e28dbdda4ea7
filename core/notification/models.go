package notification

import "time"

// Notification types.
const (
	TypeGradeUpdate = "grade_update"
)

// MaxListSize caps how many notifications a user can page through.
const MaxListSize = 100

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
