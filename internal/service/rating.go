package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/internal/event"
	"github.com/campusmess/messreview/internal/repository"
	apperrors "github.com/campusmess/messreview/pkg/errors"
)

// SubmitRatingInput holds the parameters for submitting a rating.
type SubmitRatingInput struct {
	TargetType string
	TargetID   string
	Stars      int
	ReviewText string

	// Anonymous is the client's declared intent; the effective anonymity is
	// derived and may be stricter (empty review text is always anonymous).
	Anonymous bool
}

// RatingService implements the rating and review business logic: submission
// with derived anonymity and duplicate rejection, admin-only deletion, and
// the merged per-outlet review feed.
type RatingService struct {
	ratings  repository.RatingRepository
	targets  repository.TargetRepository
	cache    repository.ReviewCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(
	ratings repository.RatingRepository,
	targets repository.TargetRepository,
	cache repository.ReviewCache,
	producer *event.Producer,
	logger *slog.Logger,
) *RatingService {
	return &RatingService{
		ratings:  ratings,
		targets:  targets,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// Submit validates and persists a new rating, updating the target's
// aggregate fields in the same transaction. The returned rating is redacted
// when anonymous.
func (s *RatingService) Submit(ctx context.Context, actor domain.Actor, input SubmitRatingInput) (*domain.Rating, error) {
	if actor.ID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if !domain.IsValidTargetType(input.TargetType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid target type %q", input.TargetType))
	}
	if !domain.ValidStars(input.Stars) {
		return nil, apperrors.InvalidInput("stars must be an integer between 1 and 5")
	}

	target, err := s.targets.GetByID(ctx, input.TargetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("target", input.TargetID)
		}
		return nil, fmt.Errorf("get target: %w", err)
	}
	if target.Type != input.TargetType {
		return nil, apperrors.InvalidInput(fmt.Sprintf("target %s is a %s, not a %s", target.ID, target.Type, input.TargetType))
	}

	authorID := actor.ID
	rating := &domain.Rating{
		ID:          uuid.New().String(),
		AuthorID:    &authorID,
		UserName:    actor.Name,
		TargetType:  input.TargetType,
		TargetID:    input.TargetID,
		Stars:       input.Stars,
		ReviewText:  input.ReviewText,
		IsAnonymous: domain.DeriveAnonymity(input.Anonymous, input.ReviewText),
		CreatedAt:   time.Now().UTC(),
	}

	summary, err := s.ratings.Submit(ctx, rating)
	if err != nil {
		return nil, fmt.Errorf("submit rating: %w", err)
	}

	s.invalidateFeed(ctx, outletOf(target))

	if err := s.producer.PublishRatingCreated(ctx, rating, summary); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish rating.created event",
			slog.String("rating_id", rating.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "rating submitted",
		slog.String("rating_id", rating.ID),
		slog.String("target_id", rating.TargetID),
		slog.Int("stars", rating.Stars),
		slog.Bool("anonymous", rating.IsAnonymous),
	)

	redacted := rating.Redacted()
	return &redacted, nil
}

// Delete removes a rating and rolls its stars out of the target's aggregate
// fields. Admin only.
func (s *RatingService) Delete(ctx context.Context, actor domain.Actor, ratingID string) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("only admins can delete ratings")
	}

	removed, err := s.ratings.Delete(ctx, ratingID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}

	target, err := s.targets.GetByID(ctx, removed.TargetID)
	if err != nil {
		// The rating is gone; feed invalidation and the event are best effort.
		s.logger.WarnContext(ctx, "failed to load target after rating deletion",
			slog.String("target_id", removed.TargetID),
			slog.String("error", err.Error()),
		)
	} else {
		s.invalidateFeed(ctx, outletOf(target))

		summary := target.Summary()
		if err := s.producer.PublishRatingDeleted(ctx, removed, &summary); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish rating.deleted event",
				slog.String("rating_id", ratingID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "rating deleted",
		slog.String("rating_id", ratingID),
		slog.String("target_id", removed.TargetID),
		slog.String("admin_id", actor.ID),
	)

	return nil
}

// ListOutletReviews returns the merged review feed for an outlet: ratings of
// the outlet itself plus all of its food items, newest first, anonymous
// authors redacted. Served from the Redis cache when warm.
func (s *RatingService) ListOutletReviews(ctx context.Context, outletID string) ([]domain.OutletReview, error) {
	target, err := s.targets.GetByID(ctx, outletID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("outlet", outletID)
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	if target.Type != domain.TargetTypeOutlet {
		return nil, apperrors.NotFound("outlet", outletID)
	}

	cached, err := s.cache.GetOutletReviews(ctx, outletID)
	if err != nil {
		s.logger.WarnContext(ctx, "review cache read failed",
			slog.String("outlet_id", outletID),
			slog.String("error", err.Error()),
		)
	}
	if cached != nil {
		return cached, nil
	}

	reviews, err := s.ratings.ListForOutlet(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("list outlet reviews: %w", err)
	}

	for i := range reviews {
		reviews[i].Rating = reviews[i].Rating.Redacted()
	}

	if err := s.cache.SetOutletReviews(ctx, outletID, reviews); err != nil {
		s.logger.WarnContext(ctx, "review cache write failed",
			slog.String("outlet_id", outletID),
			slog.String("error", err.Error()),
		)
	}

	return reviews, nil
}

// ListTargetRatings returns the redacted ratings of one target, newest
// first. expectedType guards the route shape: the outlet ratings endpoint
// must not serve a food item and vice versa.
func (s *RatingService) ListTargetRatings(ctx context.Context, targetID, expectedType string) ([]domain.Rating, error) {
	target, err := s.targets.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("target", targetID)
		}
		return nil, fmt.Errorf("get target: %w", err)
	}
	if target.Type != expectedType {
		return nil, apperrors.NotFound("target", targetID)
	}

	ratings, err := s.ratings.ListByTarget(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("list target ratings: %w", err)
	}

	for i := range ratings {
		ratings[i] = ratings[i].Redacted()
	}

	return ratings, nil
}

// RepairAggregate recomputes a target's aggregate fields from its full
// rating set. Admin only. This is the drift-repair path for when the
// incremental aggregate and the rating set disagree.
func (s *RatingService) RepairAggregate(ctx context.Context, actor domain.Actor, targetID string) (*domain.RatingSummary, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can recompute aggregates")
	}

	summary, err := s.targets.RecomputeSummary(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("recompute summary: %w", err)
	}

	target, err := s.targets.GetByID(ctx, targetID)
	if err == nil {
		s.invalidateFeed(ctx, outletOf(target))
	}

	s.logger.InfoContext(ctx, "aggregate recomputed",
		slog.String("target_id", targetID),
		slog.Float64("average_rating", summary.AverageRating),
		slog.Int("total_ratings", summary.TotalRatings),
		slog.String("admin_id", actor.ID),
	)

	return summary, nil
}

// outletOf resolves the outlet whose feed a target's ratings appear in: the
// target itself for outlets, the parent for food items.
func outletOf(target *domain.Target) string {
	if target.Type == domain.TargetTypeFoodItem && target.OutletID != nil {
		return *target.OutletID
	}
	return target.ID
}

func (s *RatingService) invalidateFeed(ctx context.Context, outletID string) {
	if err := s.cache.InvalidateOutlet(ctx, outletID); err != nil {
		s.logger.WarnContext(ctx, "review cache invalidation failed",
			slog.String("outlet_id", outletID),
			slog.String("error", err.Error()),
		)
	}
}
