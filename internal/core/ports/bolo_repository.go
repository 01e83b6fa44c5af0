package ports

import (
	"context"
	"io"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

// BoloRepository defines persistence operations for bolo records.
//
// Attachment handling: uploads passed to Insert or Update are persisted
// alongside the owning document and their descriptors merged into its
// attachment map. Update must never drop previously stored attachments that
// the call does not explicitly replace by name.
type BoloRepository interface {
	Insert(ctx context.Context, bolo *domain.Bolo, attachments []domain.AttachmentUpload) (*domain.Bolo, error)
	GetByID(ctx context.Context, id string) (*domain.Bolo, error)
	Update(ctx context.Context, bolo *domain.Bolo, attachments []domain.AttachmentUpload) (*domain.Bolo, error)
	Remove(ctx context.Context, id string) (*RemoveReceipt, error)
	List(ctx context.Context) ([]*domain.Bolo, error)
	// OpenAttachment streams the binary content behind an attachment
	// descriptor's Location.
	OpenAttachment(ctx context.Context, location string) (io.ReadCloser, error)
}

// BoloCache is a read-through cache over bolo records. Get returns
// (nil, nil) on a miss. Implementations must treat cached data as
// disposable; the repository stays the source of truth.
type BoloCache interface {
	Get(ctx context.Context, id string) (*domain.Bolo, error)
	Set(ctx context.Context, bolo *domain.Bolo) error
	Invalidate(ctx context.Context, id string) error
}
