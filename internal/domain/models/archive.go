package models

import "time"

type Archive struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ArchiveItem files a thread (by id) into an archive.
type ArchiveItem struct {
	ID        string    `json:"id"`
	ArchiveID string    `json:"archiveId"`
	ItemID    string    `json:"itemId"`
	UserID    string    `json:"userId"`
	AddedAt   time.Time `json:"addedAt"`
}
