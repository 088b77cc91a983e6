package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

const defaultCollection = "users"

// UserRepository persists users in a single collection. Notes are embedded in
// the user document, so every note mutation is one atomic single-document
// update and needs no transaction.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database, collection string) *UserRepository {
	if collection == "" {
		collection = defaultCollection
	}
	return &UserRepository{coll: db.Collection(collection)}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Notes        []noteDoc          `bson:"notes"`
}

type noteDoc struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d userDoc) toDomain() *domain.User {
	notes := make([]domain.Note, 0, len(d.Notes))
	for _, n := range d.Notes {
		notes = append(notes, domain.Note{
			ID:        n.ID,
			Title:     n.Title,
			Body:      n.Body,
			CreatedAt: n.CreatedAt.UTC(),
		})
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Notes:        notes,
	}
}

func toNoteDoc(n domain.Note) noteDoc {
	return noteDoc{ID: n.ID, Title: n.Title, Body: n.Body, CreatedAt: n.CreatedAt}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	notes := make([]noteDoc, 0, len(user.Notes))
	for _, n := range user.Notes {
		notes = append(notes, toNoteDoc(n))
	}

	res, err := r.coll.InsertOne(ctx, userDoc{
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Notes:        notes,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected inserted id %T", res.InsertedID)
	}

	created := *user
	created.ID = oid.Hex()
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return doc.toDomain(), nil
}

// PushNote appends the note to the user's notes array with $push.
func (r *UserRepository) PushNote(ctx context.Context, userID string, note domain.Note) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"notes": toNoteDoc(note)}},
	)
	if err != nil {
		return false, fmt.Errorf("push note: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// PatchNote sets title and body of the matching embedded note via the
// positional operator, leaving _id and created_at untouched.
func (r *UserRepository) PatchNote(ctx context.Context, userID, noteID, title, body string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":   oid,
			"notes": bson.M{"$elemMatch": bson.M{"_id": noteID}},
		},
		bson.M{"$set": bson.M{
			"notes.$.title": title,
			"notes.$.body":  body,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("patch note: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// PullNote removes any note with the given id from the user's notes array.
func (r *UserRepository) PullNote(ctx context.Context, userID, noteID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"notes": bson.M{"_id": noteID}}},
	)
	if err != nil {
		return fmt.Errorf("pull note: %w", err)
	}
	return nil
}

// EnsureIndexes creates the email lookup index. The index is deliberately not
// unique: registration checks uniqueness at read time, matching the documented
// duplicate-registration race.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	return err
}
