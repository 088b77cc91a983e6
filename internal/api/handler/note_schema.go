package handler

import (
	"time"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// --- Request / Response types ---

// createNoteRequest accepts an optional caller-supplied id and creation time;
// the service assigns both when absent.
type createNoteRequest struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title" validate:"required"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// updateNoteRequest carries the patchable fields only. The note's id and
// creation time never change on update.
type updateNoteRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
}

// noteResponse is owned by the transport layer so the JSON contract is not
// coupled to internal domain changes.
type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNoteResponse(n domain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}
}

func toNoteResponses(notes []domain.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}
