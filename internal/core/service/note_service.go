package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/notekeeper/notes-api/internal/core/domain"
	"github.com/notekeeper/notes-api/internal/core/ports"
)

// NoteService implements CRUD over the notes embedded in a user document.
// Each mutation is one atomic document-level update, so concurrent mutations
// on the same user serialize at the store.
type NoteService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewNoteService(repo ports.UserRepository, logger zerolog.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

// List returns the user's notes in stored order. A missing user yields an
// empty list, not an error.
func (s *NoteService) List(ctx context.Context, userID string) ([]domain.Note, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return []domain.Note{}, nil
		}
		return nil, err
	}
	if user.Notes == nil {
		return []domain.Note{}, nil
	}
	return user.Notes, nil
}

// Get scans the user's notes for the given id. Both a missing user and a
// missing note surface as domain.ErrNoteNotFound.
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}

	note := domain.FindNote(user.Notes, noteID)
	if note == nil {
		return nil, domain.ErrNoteNotFound
	}
	return note, nil
}

// Create appends a note to the user's notes array, assigning a fresh id when
// none is provided and stamping createdAt when unset. A missing user fails
// with domain.ErrUserNotFound rather than silently dropping the note.
func (s *NoteService) Create(ctx context.Context, userID string, note domain.Note) (*domain.Note, error) {
	if note.ID == "" {
		note.ID = primitive.NewObjectID().Hex()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	matched, err := s.repo.PushNote(ctx, userID, note)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, domain.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", userID).Str("note_id", note.ID).Msg("note created")
	return &note, nil
}

// Update patches title and body of the matching note in place; id and
// createdAt are preserved. The caller checks existence first; if the note was
// removed between that check and the update, the miss is swallowed (benign
// lost-update race, no optimistic concurrency across the read-then-write).
func (s *NoteService) Update(ctx context.Context, userID, noteID, title, body string) error {
	matched, err := s.repo.PatchNote(ctx, userID, noteID, title, body)
	if err != nil {
		return err
	}
	if !matched {
		s.logger.Debug().Str("user_id", userID).Str("note_id", noteID).Msg("update matched nothing")
	}
	return nil
}

// Remove deletes the note with the given id from the user's notes array.
// Removing an already-absent note silently succeeds.
func (s *NoteService) Remove(ctx context.Context, userID, noteID string) error {
	return s.repo.PullNote(ctx, userID, noteID)
}
