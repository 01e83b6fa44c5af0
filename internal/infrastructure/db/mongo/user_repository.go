package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/boloflier/bolo-system/internal/core/domain"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// UserRepository implements ports.UserRepository over the shared documents
// collection. All per-call state lives on the stack; the collection handle
// is the only shared resource.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(documentsCollection)}
}

// Insert writes a new user document and returns a copy of the input carrying
// the assigned id. The id comes from the insert acknowledgement, no
// read-back round trip is made.
func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newUserDocument(user)
	doc.Rev = newRev()

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, domain.NewStorageWrite("user.insert", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, domain.NewStorageWrite("user.insert", fmt.Errorf("unexpected inserted id %v", res.InsertedID))
	}

	created := *user
	created.ID = oid.Hex()
	return &created, nil
}

// GetByID loads a user document by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "type": typeUser}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
		}
		return nil, domain.NewStorageRead("user.get", err)
	}
	return doc.toUser(), nil
}

// GetByUsername resolves a username through the secondary index in a single
// query, so the lookup and the document cannot diverge under concurrent
// writes. A miss is (nil, nil), not an error.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"type": typeUser, "username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageRead("user.get_by_username", err)
	}
	return doc.toUser(), nil
}

// Update replaces the stored document via compare-and-swap on (_id, rev).
// A swap miss is disambiguated with a follow-up existence check: the
// document either vanished or was rewritten concurrently.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == "" {
		return nil, domain.NewValidationError("user", "id")
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", user.ID, domain.ErrNotFound)
	}

	var current userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "type": typeUser}).Decode(&current); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %q: %w", user.ID, domain.ErrNotFound)
		}
		return nil, domain.NewStorageRead("user.update", err)
	}

	doc := newUserDocument(user)
	doc.ID = oid
	doc.Rev = newRev()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid, "rev": current.Rev}, doc)
	if err != nil {
		return nil, domain.NewStorageWrite("user.update", err)
	}
	if res.MatchedCount == 0 {
		if exists, checkErr := r.exists(ctx, oid, typeUser); checkErr == nil && !exists {
			return nil, fmt.Errorf("user %q: %w", user.ID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("user %q: %w", user.ID, domain.ErrConflict)
	}
	return doc.toUser(), nil
}

// Remove deletes a user document. The current revision is fetched first and
// the delete filters on (_id, rev); deleting by id alone is unsafe under
// concurrent modification. An empty id is rejected before any store call.
func (r *UserRepository) Remove(ctx context.Context, id string) (*ports.RemoveReceipt, error) {
	if id == "" {
		return nil, domain.NewValidationError("user", "id")
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "type": typeUser}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
		}
		return nil, domain.NewStorageRead("user.remove", err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "rev": doc.Rev})
	if err != nil {
		return nil, domain.NewStorageWrite("user.remove", err)
	}
	if res.DeletedCount == 0 {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrConflict)
	}
	return &ports.RemoveReceipt{ID: id, OK: true}, nil
}

// List returns every user document. No users is an empty slice, not an error.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"type": typeUser})
	if err != nil {
		return nil, domain.NewStorageRead("user.list", err)
	}
	defer cur.Close(ctx)

	users := make([]*domain.User, 0)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.NewStorageRead("user.list", err)
		}
		users = append(users, doc.toUser())
	}
	if err := cur.Err(); err != nil {
		return nil, domain.NewStorageRead("user.list", err)
	}
	return users, nil
}

// EnsureIndexes creates the username lookup index. The index is deliberately
// not unique: the registration uniqueness check is a service-level read
// before write, and the store is not assumed to enforce it.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "type", Value: 1}, {Key: "username", Value: 1}},
	})
	return err
}

func (r *UserRepository) exists(ctx context.Context, oid primitive.ObjectID, docType string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid, "type": docType})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
