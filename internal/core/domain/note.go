package domain

import (
	"errors"
	"time"
)

var ErrNoteNotFound = errors.New("note not found")

// Note is a child entity embedded in User.Notes. Its ID is unique within the
// owning user's sequence, not globally. Insertion order is creation order.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// FindNote scans notes in order and returns a copy of the first note with the
// given id, or nil if absent.
func FindNote(notes []Note, id string) *Note {
	for i := range notes {
		if notes[i].ID == id {
			n := notes[i]
			return &n
		}
	}
	return nil
}

// PatchNote updates title and body of the note with the given id in place,
// preserving its ID and CreatedAt. It reports whether a note was matched.
func PatchNote(notes []Note, id, title, body string) bool {
	for i := range notes {
		if notes[i].ID == id {
			notes[i].Title = title
			notes[i].Body = body
			return true
		}
	}
	return false
}

// SpliceNote returns notes with every note matching id removed, keeping the
// order of the remaining notes. Removing an absent id is a no-op.
func SpliceNote(notes []Note, id string) []Note {
	out := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
