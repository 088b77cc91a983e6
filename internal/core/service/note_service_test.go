package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

func seedUser(t *testing.T, repo *stubUserRepo) *domain.User {
	t.Helper()
	user, err := repo.Create(context.Background(), &domain.User{
		Email:        "owner@example.com",
		PasswordHash: "x",
		Notes:        []domain.Note{},
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestNoteService_CreateThenGet(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewNoteService(repo, zerolog.Nop())
	user := seedUser(t, repo)

	created, err := svc.Create(context.Background(), user.ID, domain.Note{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be stamped")
	}

	got, err := svc.Get(context.Background(), user.ID, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "t" || got.Body != "b" {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestNoteService_Create_CallerSuppliedFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewNoteService(repo, zerolog.Nop())
	user := seedUser(t, repo)

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), user.ID, domain.Note{ID: "custom", Title: "t", CreatedAt: at})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "custom" || !created.CreatedAt.Equal(at) {
		t.Fatalf("caller-supplied id/createdAt not preserved: %+v", created)
	}
}

func TestNoteService_Create_MissingUser(t *testing.T) {
	svc := NewNoteService(newStubUserRepo(), zerolog.Nop())

	if _, err := svc.Create(context.Background(), "ghost", domain.Note{Title: "t"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNoteService_Update(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewNoteService(repo, zerolog.Nop())
	user := seedUser(t, repo)

	created, err := svc.Create(context.Background(), user.ID, domain.Note{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Update(context.Background(), user.ID, created.ID, "t2", "b2"); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.Get(context.Background(), user.ID, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "t2" || got.Body != "b2" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.ID != created.ID || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("update must preserve id and createdAt: %+v", got)
	}
}

func TestNoteService_Update_MissingNoteIsSilent(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewNoteService(repo, zerolog.Nop())
	user := seedUser(t, repo)

	// note removed between the caller's existence check and the update:
	// the miss is swallowed, not surfaced
	if err := svc.Update(context.Background(), user.ID, "gone", "t", "b"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

func TestNoteService_RemoveThenGet(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewNoteService(repo, zerolog.Nop())
	user := seedUser(t, repo)

	created, err := svc.Create(context.Background(), user.ID, domain.Note{Title: "t"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Remove(context.Background(), user.ID, created.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svc.Get(context.Background(), user.ID, created.ID); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound after remove, got %v", err)
	}

	// removing again silently succeeds
	if err := svc.Remove(context.Background(), user.ID, created.ID); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestNoteService_List(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewNoteService(repo, zerolog.Nop())
	user := seedUser(t, repo)

	notes, err := svc.List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty list for user with zero notes, got %+v", notes)
	}

	first, _ := svc.Create(context.Background(), user.ID, domain.Note{Title: "one"})
	second, _ := svc.Create(context.Background(), user.ID, domain.Note{Title: "two"})

	notes, err = svc.List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != first.ID || notes[1].ID != second.ID {
		t.Fatalf("expected insertion order, got %+v", notes)
	}
}

func TestNoteService_List_MissingUser(t *testing.T) {
	svc := NewNoteService(newStubUserRepo(), zerolog.Nop())

	notes, err := svc.List(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("expected no error for missing user, got %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty list, got %+v", notes)
	}
}

func TestNoteService_Get_MissingUser(t *testing.T) {
	svc := NewNoteService(newStubUserRepo(), zerolog.Nop())

	if _, err := svc.Get(context.Background(), "ghost", "n1"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}
