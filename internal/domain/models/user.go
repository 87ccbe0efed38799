package models

import "time"

type User struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	EmailVerified bool            `json:"emailVerified"`
	Image         *string         `json:"image,omitempty"`
	Preferences   UserPreferences `json:"preferences"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// UserPreferences feeds the personalised part of the system prompt.
type UserPreferences struct {
	DisplayName          string `json:"displayName,omitempty"`
	Profession           string `json:"profession,omitempty"`
	ResponseStyleExample string `json:"responseStyleExample,omitempty"`
	BotName              string `json:"botName,omitempty"`
}
