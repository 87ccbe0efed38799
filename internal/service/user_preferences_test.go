package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

func TestUserPreferences_GetMissingUser(t *testing.T) {
	svc := NewUserPreferencesService(&fakeUserRepo{users: map[string]*models.User{}}, SessionIdentity{}, discardLogger())

	prefs, err := svc.GetPreferences(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if *prefs != (models.UserPreferences{}) {
		t.Errorf("prefs = %+v, want empty", *prefs)
	}
}

func TestUserPreferences_UpdateCreatesSessionUser(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	svc := NewUserPreferencesService(repo, SessionIdentity{Name: "Demo", Email: "demo@example.com"}, discardLogger())

	_, err := svc.UpdatePreferences(context.Background(), "u1", &models.UserPreferences{DisplayName: "  Sam  ", BotName: "Rex"})
	if err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}
	u := repo.users["u1"]
	if u == nil || u.Name != "Demo" {
		t.Fatalf("user row = %+v", u)
	}
	if u.Preferences.DisplayName != "Sam" || u.Preferences.BotName != "Rex" {
		t.Errorf("preferences = %+v", u.Preferences)
	}

	// Existing row is updated in place.
	if _, err := svc.UpdatePreferences(context.Background(), "u1", &models.UserPreferences{Profession: "pilot"}); err != nil {
		t.Fatalf("second update error = %v", err)
	}
	if got := repo.users["u1"].Preferences; got.Profession != "pilot" || got.DisplayName != "" {
		t.Errorf("preferences after replace = %+v", got)
	}
}

func TestUserPreferences_Validation(t *testing.T) {
	svc := NewUserPreferencesService(&fakeUserRepo{users: map[string]*models.User{}}, SessionIdentity{}, discardLogger())

	_, err := svc.UpdatePreferences(context.Background(), "u1", &models.UserPreferences{DisplayName: strings.Repeat("x", 300)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestUserPreferences_EnsureSessionUser(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	svc := NewUserPreferencesService(repo, SessionIdentity{Name: "Demo", Email: "demo@example.com"}, discardLogger())
	ctx := context.Background()

	if err := svc.EnsureSessionUser(ctx, "u1"); err != nil {
		t.Fatalf("EnsureSessionUser() error = %v", err)
	}
	u, ok := repo.users["u1"]
	if !ok {
		t.Fatal("session user not created")
	}
	if u.Email != "demo@example.com" || u.Name != "Demo" {
		t.Errorf("user = %+v", u)
	}

	u.Preferences.BotName = "Rex"
	if err := svc.EnsureSessionUser(ctx, "u1"); err != nil {
		t.Fatalf("second EnsureSessionUser() error = %v", err)
	}
	if repo.users["u1"].Preferences.BotName != "Rex" {
		t.Error("existing user overwritten")
	}
}

func TestUserPreferences_EnsureSessionUserConflict(t *testing.T) {
	repo := &conflictUserRepo{fakeUserRepo: &fakeUserRepo{users: map[string]*models.User{}}}
	svc := NewUserPreferencesService(repo, SessionIdentity{Email: "taken@example.com"}, discardLogger())

	err := svc.EnsureSessionUser(context.Background(), "u1")
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want conflict", err)
	}
}

// conflictUserRepo rejects inserts the way a taken email does.
type conflictUserRepo struct {
	*fakeUserRepo
}

func (conflictUserRepo) Insert(context.Context, *models.User) error {
	return &domain.ConflictError{Message: "user already exists", ResourceType: "user"}
}
