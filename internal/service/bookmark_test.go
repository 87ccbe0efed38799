package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
)

type fakeBookmarkRepo struct {
	marked map[string]bool // userID|itemID
}

func (r *fakeBookmarkRepo) Toggle(_ context.Context, userID, itemID, _ string) (bool, error) {
	key := userID + "|" + itemID
	r.marked[key] = !r.marked[key]
	return r.marked[key], nil
}

func (r *fakeBookmarkRepo) SelectByUserID(context.Context, string) ([]models.Bookmark, error) {
	return []models.Bookmark{}, nil
}

const agentUUID = "0b5c2c2e-8a7e-4c55-9a1c-3f3c2d0e9f11"

func TestBookmarkService_Toggle(t *testing.T) {
	repo := &fakeBookmarkRepo{marked: map[string]bool{}}
	svc := NewBookmarkService(repo, discardLogger())
	req := &services.ToggleBookmarkRequest{ItemID: agentUUID, ItemType: models.BookmarkItemAgent, UserID: "u1"}

	for i, want := range []bool{true, false, true} {
		got, err := svc.Toggle(context.Background(), req)
		if err != nil {
			t.Fatalf("Toggle() #%d error: %v", i, err)
		}
		if got != want {
			t.Errorf("Toggle() #%d = %v, want %v", i, got, want)
		}
	}
}

func TestBookmarkService_ToggleValidation(t *testing.T) {
	svc := NewBookmarkService(&fakeBookmarkRepo{marked: map[string]bool{}}, discardLogger())
	tests := []struct {
		name string
		req  services.ToggleBookmarkRequest
	}{
		{name: "missing item", req: services.ToggleBookmarkRequest{ItemType: models.BookmarkItemAgent}},
		{name: "not a uuid", req: services.ToggleBookmarkRequest{ItemID: "abc", ItemType: models.BookmarkItemAgent}},
		{name: "unknown type", req: services.ToggleBookmarkRequest{ItemID: agentUUID, ItemType: "thread"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := svc.Toggle(context.Background(), &req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want validation", err)
			}
		})
	}
}
