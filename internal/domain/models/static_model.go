package models

import "time"

// StaticModel is a per-user API key stored under a model name.
// Name is unique per user.
type StaticModel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"apiKey"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StaticModelUpdate is a partial update; nil fields are left unchanged.
type StaticModelUpdate struct {
	Name   *string
	APIKey *string
}
