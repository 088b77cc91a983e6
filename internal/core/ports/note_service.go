package ports

import (
	"context"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// NoteService exposes CRUD on the notes embedded in one user's document. Every
// operation is scoped by the userID extracted from the verified session token.
type NoteService interface {
	List(ctx context.Context, userID string) ([]domain.Note, error)
	Get(ctx context.Context, userID, noteID string) (*domain.Note, error)
	Create(ctx context.Context, userID string, note domain.Note) (*domain.Note, error)
	Update(ctx context.Context, userID, noteID, title, body string) error
	Remove(ctx context.Context, userID, noteID string) error
}
