package model

import "time"

// Version is an immutable snapshot of a Document. Only UserNote may change after creation.
type Version struct {
	Number         int       `json:"number"`
	CreatedAt      time.Time `json:"created_at"`
	Content        Document  `json:"content"`
	ChangesSummary string    `json:"changes_summary"`
	UserNote       string    `json:"user_note"`
}
