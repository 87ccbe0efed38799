package models

import "time"

// Bookmark item types.
const (
	BookmarkItemAgent    = "agent"
	BookmarkItemWorkflow = "workflow"
)

type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ItemID    string    `json:"itemId"`
	ItemType  string    `json:"itemType"`
	CreatedAt time.Time `json:"createdAt"`
}
