package ports

import (
	"context"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// UserRepository defines persistence over the single users collection. Each
// note mutation is one atomic document-level update on the owning user; the
// matched return reports whether a user document was matched by the filter.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// PushNote appends note to the user's notes array.
	PushNote(ctx context.Context, userID string, note domain.Note) (matched bool, err error)
	// PatchNote sets title and body of the matching embedded note, leaving
	// its id and creation time untouched.
	PatchNote(ctx context.Context, userID, noteID, title, body string) (matched bool, err error)
	// PullNote removes any note with the given id from the user's notes array.
	PullNote(ctx context.Context, userID, noteID string) error
}
