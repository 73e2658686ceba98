package service

import (
	"context"

	"cafehub/internal/observability"
	"cafehub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// LikeService toggles a user's likes. Every operation fails with NOT_FOUND
// when the cafe does not exist.
type LikeService struct {
	cafeRepo repository.CafeRepository
}

func NewLikeService(cafeRepo repository.CafeRepository) *LikeService {
	return &LikeService{cafeRepo: cafeRepo}
}

// Status reports whether the user likes the cafe.
func (s *LikeService) Status(ctx context.Context, userID, cafeID uint) (bool, error) {
	ctx, span := observability.StartSpan(ctx, "LikeService", "Status", cafeAttr(cafeID))
	defer span.End()

	if _, err := s.cafeRepo.GetByID(ctx, cafeID); err != nil {
		return false, err
	}
	return s.cafeRepo.IsLiked(ctx, userID, cafeID)
}

// Like records the like unless it already exists.
func (s *LikeService) Like(ctx context.Context, userID, cafeID uint) error {
	ctx, span := observability.StartSpan(ctx, "LikeService", "Like", cafeAttr(cafeID))
	defer span.End()

	if _, err := s.cafeRepo.GetByID(ctx, cafeID); err != nil {
		return err
	}
	return s.cafeRepo.Like(ctx, userID, cafeID)
}

// Unlike removes the like if present.
func (s *LikeService) Unlike(ctx context.Context, userID, cafeID uint) error {
	ctx, span := observability.StartSpan(ctx, "LikeService", "Unlike", cafeAttr(cafeID))
	defer span.End()

	if _, err := s.cafeRepo.GetByID(ctx, cafeID); err != nil {
		return err
	}
	return s.cafeRepo.Unlike(ctx, userID, cafeID)
}

func cafeAttr(id uint) attribute.KeyValue {
	return attribute.Int64("cafe.id", int64(id))
}
