package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boloflier/bolo-system/internal/core/domain"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// BoloRepository implements ports.BoloRepository over the shared documents
// collection, with attachment binaries held in a GridFS bucket.
type BoloRepository struct {
	coll  *mongo.Collection
	files *attachmentStore
}

func NewBoloRepository(db *mongo.Database) (*BoloRepository, error) {
	files, err := newAttachmentStore(db)
	if err != nil {
		return nil, err
	}
	return &BoloRepository{coll: db.Collection(documentsCollection), files: files}, nil
}

// Insert writes a new bolo document, persisting any supplied attachments
// first so their descriptors land in the same write. The returned bolo is
// the input plus the assigned id and attachment descriptors.
func (r *BoloRepository) Insert(ctx context.Context, bolo *domain.Bolo, attachments []domain.AttachmentUpload) (*domain.Bolo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newBoloDocument(bolo)
	doc.Rev = newRev()

	if len(attachments) > 0 {
		uploaded, err := r.files.save(ctx, attachments)
		if err != nil {
			return nil, err
		}
		doc.Attachments = mergeAttachments(doc.Attachments, uploaded)
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, domain.NewStorageWrite("bolo.insert", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, domain.NewStorageWrite("bolo.insert", fmt.Errorf("unexpected inserted id %v", res.InsertedID))
	}

	doc.ID = oid
	return doc.toBolo(), nil
}

// GetByID loads one bolo document.
func (r *BoloRepository) GetByID(ctx context.Context, id string) (*domain.Bolo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("bolo %q: %w", id, domain.ErrNotFound)
	}

	var doc boloDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "type": typeBolo}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("bolo %q: %w", id, domain.ErrNotFound)
		}
		return nil, domain.NewStorageRead("bolo.get", err)
	}
	return doc.toBolo(), nil
}

// Update replaces the stored document via compare-and-swap on (_id, rev).
// The stored attachment map is merged under the new document before the
// write: attachments accumulate, and media already on the record survives a
// write that never mentioned it.
func (r *BoloRepository) Update(ctx context.Context, bolo *domain.Bolo, attachments []domain.AttachmentUpload) (*domain.Bolo, error) {
	if bolo.ID == "" {
		return nil, domain.NewValidationError("bolo", "id")
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(bolo.ID)
	if err != nil {
		return nil, fmt.Errorf("bolo %q: %w", bolo.ID, domain.ErrNotFound)
	}

	var current boloDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "type": typeBolo}).Decode(&current); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("bolo %q: %w", bolo.ID, domain.ErrNotFound)
		}
		return nil, domain.NewStorageRead("bolo.update", err)
	}

	doc := newBoloDocument(bolo)
	doc.ID = oid
	doc.Rev = newRev()
	doc.DateCreated = current.DateCreated
	doc.Attachments = mergeAttachments(current.Attachments, doc.Attachments)

	if len(attachments) > 0 {
		uploaded, err := r.files.save(ctx, attachments)
		if err != nil {
			return nil, err
		}
		doc.Attachments = mergeAttachments(doc.Attachments, uploaded)
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid, "rev": current.Rev}, doc)
	if err != nil {
		return nil, domain.NewStorageWrite("bolo.update", err)
	}
	if res.MatchedCount == 0 {
		if n, countErr := r.coll.CountDocuments(ctx, bson.M{"_id": oid, "type": typeBolo}); countErr == nil && n == 0 {
			return nil, fmt.Errorf("bolo %q: %w", bolo.ID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("bolo %q: %w", bolo.ID, domain.ErrConflict)
	}
	return doc.toBolo(), nil
}

// Remove deletes a bolo document by (_id, rev) and then clears its stored
// attachment binaries. An empty id is rejected before any store call.
func (r *BoloRepository) Remove(ctx context.Context, id string) (*ports.RemoveReceipt, error) {
	if id == "" {
		return nil, domain.NewValidationError("bolo", "id")
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("bolo %q: %w", id, domain.ErrNotFound)
	}

	var doc boloDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "type": typeBolo}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("bolo %q: %w", id, domain.ErrNotFound)
		}
		return nil, domain.NewStorageRead("bolo.remove", err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "rev": doc.Rev})
	if err != nil {
		return nil, domain.NewStorageWrite("bolo.remove", err)
	}
	if res.DeletedCount == 0 {
		return nil, fmt.Errorf("bolo %q: %w", id, domain.ErrConflict)
	}

	// The document is gone; orphaned blobs are harmless, so blob cleanup is
	// best effort.
	_ = r.files.remove(ctx, doc.Attachments)

	return &ports.RemoveReceipt{ID: id, OK: true}, nil
}

// List returns every bolo, newest first.
func (r *BoloRepository) List(ctx context.Context) ([]*domain.Bolo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date_created", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"type": typeBolo}, opts)
	if err != nil {
		return nil, domain.NewStorageRead("bolo.list", err)
	}
	defer cur.Close(ctx)

	bolos := make([]*domain.Bolo, 0)
	for cur.Next(ctx) {
		var doc boloDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.NewStorageRead("bolo.list", err)
		}
		bolos = append(bolos, doc.toBolo())
	}
	if err := cur.Err(); err != nil {
		return nil, domain.NewStorageRead("bolo.list", err)
	}
	return bolos, nil
}

// OpenAttachment streams a stored attachment's content for download.
func (r *BoloRepository) OpenAttachment(ctx context.Context, location string) (io.ReadCloser, error) {
	return r.files.open(ctx, location)
}

// EnsureIndexes creates the query indexes for bolo documents.
func (r *BoloRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "date_created", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "category", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
