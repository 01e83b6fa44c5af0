package ports

import (
	"context"
	"io"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

// BoloWriteResult is the uniform envelope returned by bolo writes. It folds
// every failure into the envelope so callers never pattern-match on the
// storage technology's error shape: Success is false and Error carries the
// message, or Success is true and Bolo carries the persisted record.
type BoloWriteResult struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Bolo    *domain.Bolo `json:"bolo,omitempty"`
}

// BoloService is the flier-management API consumed by delivery layers.
type BoloService interface {
	CreateBolo(ctx context.Context, dto domain.BoloDTO, attachments []domain.AttachmentUpload) *BoloWriteResult
	UpdateBolo(ctx context.Context, dto domain.BoloDTO, attachments []domain.AttachmentUpload) *BoloWriteResult
	GetBolo(ctx context.Context, id string) (*domain.Bolo, error)
	GetBolos(ctx context.Context) ([]*domain.Bolo, error)
	// GetAttachment streams the named attachment of a bolo together with its
	// stored descriptor.
	GetAttachment(ctx context.Context, id, name string) (io.ReadCloser, *domain.Attachment, error)
	RemoveBolo(ctx context.Context, id string) (*RemoveReceipt, error)
}
