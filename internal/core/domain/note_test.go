package domain

import (
	"testing"
	"time"
)

func sampleNotes() []Note {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []Note{
		{ID: "n1", Title: "first", Body: "a", CreatedAt: base},
		{ID: "n2", Title: "second", Body: "b", CreatedAt: base.Add(time.Minute)},
		{ID: "n3", Title: "third", Body: "c", CreatedAt: base.Add(2 * time.Minute)},
	}
}

func TestFindNote(t *testing.T) {
	notes := sampleNotes()

	n := FindNote(notes, "n2")
	if n == nil || n.Title != "second" {
		t.Fatalf("unexpected note: %+v", n)
	}

	// returned note is a copy, not an alias into the slice
	n.Title = "mutated"
	if notes[1].Title != "second" {
		t.Fatalf("FindNote aliased the backing slice")
	}

	if FindNote(notes, "missing") != nil {
		t.Fatalf("expected nil for missing id")
	}
	if FindNote(nil, "n1") != nil {
		t.Fatalf("expected nil for nil slice")
	}
}

func TestPatchNote(t *testing.T) {
	notes := sampleNotes()
	created := notes[1].CreatedAt

	if !PatchNote(notes, "n2", "new title", "new body") {
		t.Fatalf("expected match")
	}
	if notes[1].Title != "new title" || notes[1].Body != "new body" {
		t.Fatalf("patch not applied: %+v", notes[1])
	}
	if notes[1].ID != "n2" || !notes[1].CreatedAt.Equal(created) {
		t.Fatalf("patch must preserve id and createdAt: %+v", notes[1])
	}

	if PatchNote(notes, "missing", "t", "b") {
		t.Fatalf("expected no match for missing id")
	}
}

func TestSpliceNote(t *testing.T) {
	notes := SpliceNote(sampleNotes(), "n2")
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != "n1" || notes[1].ID != "n3" {
		t.Fatalf("order not preserved: %+v", notes)
	}

	// absent id is a silent no-op
	notes = SpliceNote(notes, "missing")
	if len(notes) != 2 {
		t.Fatalf("expected no-op, got %d notes", len(notes))
	}

	if got := SpliceNote(nil, "n1"); len(got) != 0 {
		t.Fatalf("expected empty result for nil input")
	}
}
