package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/boloflier/bolo-system/internal/core/domain"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// BoloService implements flier management on top of a BoloRepository port.
// The cache is optional; a nil cache disables read caching entirely.
type BoloService struct {
	repo  ports.BoloRepository
	cache ports.BoloCache
	log   zerolog.Logger
	now   func() time.Time
}

func NewBoloService(repo ports.BoloRepository, cache ports.BoloCache, log zerolog.Logger) *BoloService {
	return &BoloService{repo: repo, cache: cache, log: log, now: time.Now}
}

func failure(err error) *ports.BoloWriteResult {
	return &ports.BoloWriteResult{Success: false, Error: err.Error()}
}

// CreateBolo persists a new flier with any supplied attachments. Every
// outcome, including validation failure, is folded into the result envelope.
func (s *BoloService) CreateBolo(ctx context.Context, dto domain.BoloDTO, attachments []domain.AttachmentUpload) *ports.BoloWriteResult {
	bolo := domain.NewBolo(dto)
	if missing := bolo.MissingFields(); len(missing) > 0 {
		return failure(domain.NewValidationError("bolo", missing...))
	}
	bolo.DateCreated = s.now().UTC()

	created, err := s.repo.Insert(ctx, bolo, attachments)
	if err != nil {
		s.log.Error().Err(err).Str("name", bolo.Name).Msg("bolo insert failed")
		return failure(err)
	}

	s.log.Info().Str("bolo_id", created.ID).Str("category", created.Category).Msg("bolo created")
	return &ports.BoloWriteResult{Success: true, Bolo: created}
}

// UpdateBolo overlays the DTO onto the stored record and persists the
// result. Fields the DTO leaves empty keep their stored values, and
// previously attached media is never dropped.
func (s *BoloService) UpdateBolo(ctx context.Context, dto domain.BoloDTO, attachments []domain.AttachmentUpload) *ports.BoloWriteResult {
	if dto.ID == "" {
		return failure(domain.NewValidationError("bolo", "id"))
	}

	current, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return failure(err)
	}

	updated, err := s.repo.Update(ctx, current.Apply(dto), attachments)
	if err != nil {
		s.log.Error().Err(err).Str("bolo_id", dto.ID).Msg("bolo update failed")
		return failure(err)
	}

	s.invalidate(ctx, dto.ID)
	s.log.Info().Str("bolo_id", updated.ID).Msg("bolo updated")
	return &ports.BoloWriteResult{Success: true, Bolo: updated}
}

// GetBolo loads one flier, consulting the cache first when one is wired.
func (s *BoloService) GetBolo(ctx context.Context, id string) (*domain.Bolo, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Str("bolo_id", id).Msg("cache read failed, falling through")
		} else if cached != nil {
			return cached, nil
		}
	}

	bolo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, bolo); err != nil {
			s.log.Warn().Err(err).Str("bolo_id", id).Msg("cache fill failed")
		}
	}
	return bolo, nil
}

// GetAttachment resolves the named attachment on a bolo and streams its
// content. The descriptor comes from the (possibly cached) record; the
// binary always comes from the store.
func (s *BoloService) GetAttachment(ctx context.Context, id, name string) (io.ReadCloser, *domain.Attachment, error) {
	bolo, err := s.GetBolo(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	att, ok := bolo.Attachments[name]
	if !ok {
		return nil, nil, fmt.Errorf("attachment %q on bolo %q: %w", name, id, domain.ErrNotFound)
	}

	stream, err := s.repo.OpenAttachment(ctx, att.Location)
	if err != nil {
		return nil, nil, err
	}
	return stream, &att, nil
}

// GetBolos lists every flier.
func (s *BoloService) GetBolos(ctx context.Context) ([]*domain.Bolo, error) {
	return s.repo.List(ctx)
}

// RemoveBolo deletes a flier by id. An empty id is rejected before the
// repository is touched.
func (s *BoloService) RemoveBolo(ctx context.Context, id string) (*ports.RemoveReceipt, error) {
	if id == "" {
		return nil, domain.NewValidationError("bolo", "id")
	}

	receipt, err := s.repo.Remove(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.log.Info().Str("bolo_id", id).Msg("bolo removed")
	return receipt, nil
}

// invalidate drops a cache entry; cache failures are logged, never surfaced.
func (s *BoloService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("bolo_id", id).Msg("cache invalidation failed")
	}
}
