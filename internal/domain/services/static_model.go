package services

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type StaticModelService interface {
	GetByName(ctx context.Context, name, userID string) (*models.StaticModel, error)
	List(ctx context.Context, userID string) ([]models.StaticModel, error)
	// Save upserts by (name, userID).
	Save(ctx context.Context, req *SaveStaticModelRequest) (*models.StaticModel, error)
	Update(ctx context.Context, req *UpdateStaticModelRequest) (*models.StaticModel, error)
	Delete(ctx context.Context, id, userID string) error

	// LookupAPIKey returns the user's stored key for a model name, or ""
	// if none is stored.
	LookupAPIKey(ctx context.Context, modelName, userID string) (string, error)
}

type SaveStaticModelRequest struct {
	Name   string `json:"name"`
	APIKey string `json:"apiKey"`
	UserID string `json:"-"`
}

type UpdateStaticModelRequest struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	APIKey *string `json:"apiKey,omitempty"`
	UserID string  `json:"-"`
}
