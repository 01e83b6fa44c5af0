package mongo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

const attachmentBucket = "bolo_attachments"

// attachmentStore persists attachment binaries in a GridFS bucket. The
// descriptor kept on the owning document points back at the stored file
// through its Location field.
type attachmentStore struct {
	bucket *gridfs.Bucket
}

func newAttachmentStore(db *mongo.Database) (*attachmentStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(attachmentBucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &attachmentStore{bucket: bucket}, nil
}

// save uploads every supplied attachment and returns the descriptor map to
// merge into the owning document.
func (s *attachmentStore) save(ctx context.Context, uploads []domain.AttachmentUpload) (map[string]attachmentDocument, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetWriteDeadline(dl)
	}

	descriptors := make(map[string]attachmentDocument, len(uploads))
	for _, up := range uploads {
		reader, size, err := openUpload(up)
		if err != nil {
			return nil, domain.NewStorageWrite("attachment.save", err)
		}

		opts := options.GridFSUpload().SetMetadata(bson.M{"content_type": up.ContentType})
		fileID, err := s.bucket.UploadFromStream(up.Name, reader, opts)
		closeUpload(reader)
		if err != nil {
			return nil, domain.NewStorageWrite("attachment.save", err)
		}

		descriptors[up.Name] = attachmentDocument{
			ContentType: up.ContentType,
			Location:    fileID.Hex(),
			Size:        size,
		}
	}
	return descriptors, nil
}

// open returns a stream over a stored attachment's content.
func (s *attachmentStore) open(ctx context.Context, location string) (io.ReadCloser, error) {
	fileID, err := primitive.ObjectIDFromHex(location)
	if err != nil {
		return nil, fmt.Errorf("attachment %q: %w", location, domain.ErrNotFound)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetReadDeadline(dl)
	}

	stream, err := s.bucket.OpenDownloadStream(fileID)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, fmt.Errorf("attachment %q: %w", location, domain.ErrNotFound)
		}
		return nil, domain.NewStorageRead("attachment.open", err)
	}
	return stream, nil
}

// remove deletes the stored binaries behind a descriptor map. Failures are
// returned but callers may treat them as best effort: the owning document is
// already gone and an orphaned blob is harmless.
func (s *attachmentStore) remove(ctx context.Context, descriptors map[string]attachmentDocument) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetWriteDeadline(dl)
	}

	for name, desc := range descriptors {
		fileID, err := primitive.ObjectIDFromHex(desc.Location)
		if err != nil {
			continue
		}
		if err := s.bucket.Delete(fileID); err != nil && err != gridfs.ErrFileNotFound {
			return domain.NewStorageWrite("attachment.remove", fmt.Errorf("%s: %w", name, err))
		}
	}
	return nil
}

func openUpload(up domain.AttachmentUpload) (io.ReadCloser, int64, error) {
	if up.Content != nil {
		return io.NopCloser(bytes.NewReader(up.Content)), int64(len(up.Content)), nil
	}
	if up.Path == "" {
		return nil, 0, fmt.Errorf("attachment %q has no content or path", up.Name)
	}
	f, err := os.Open(up.Path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func closeUpload(r io.ReadCloser) {
	_ = r.Close()
}
