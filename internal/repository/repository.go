package repository

import (
	"context"

	"github.com/campusmess/messreview/internal/domain"
)

// OutletFilter defines filter criteria for listing outlets.
type OutletFilter struct {
	// OutletType restricts the listing to one outlet type (MESS, CANTEEN,
	// RESTAURANT, CAFE) when set.
	OutletType *string

	// SortByRating orders outlets by average rating descending instead of
	// by name.
	SortByRating bool
}

// TargetRepository defines persistence operations for rateable targets
// (outlets and food items). The catalog itself is seeded reference data;
// only the aggregate fields change at runtime, and only through the rating
// write path.
type TargetRepository interface {
	// GetByID retrieves a target by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Target, error)

	// ListOutlets returns outlets matching the given filter.
	ListOutlets(ctx context.Context, filter OutletFilter) ([]domain.Target, error)

	// ListFoodItems returns the food items belonging to an outlet.
	ListFoodItems(ctx context.Context, outletID string) ([]domain.Target, error)

	// RecomputeSummary rebuilds a target's aggregate fields from its full
	// rating set and persists the result. This is the drift-repair path.
	RecomputeSummary(ctx context.Context, targetID string) (*domain.RatingSummary, error)
}

// RatingRepository defines persistence operations for ratings. Submit and
// Delete commit the rating write and the target's incremental aggregate
// update as one atomic unit, serialized per target.
type RatingRepository interface {
	// Submit persists a new rating and updates its target's aggregate
	// fields in the same transaction. Returns the target's post-insert
	// summary.
	Submit(ctx context.Context, rating *domain.Rating) (*domain.RatingSummary, error)

	// Delete removes a rating and updates its target's aggregate fields in
	// the same transaction. Returns the removed rating.
	Delete(ctx context.Context, id string) (*domain.Rating, error)

	// ListByTarget returns all ratings for one target, newest first.
	ListByTarget(ctx context.Context, targetID string) ([]domain.Rating, error)

	// ListForOutlet returns ratings for the outlet itself and all of its
	// food items, merged newest first, each tagged with the food item name
	// when applicable.
	ListForOutlet(ctx context.Context, outletID string) ([]domain.OutletReview, error)
}

// ComplaintRepository defines persistence operations for complaints.
type ComplaintRepository interface {
	// Create inserts a new complaint.
	Create(ctx context.Context, complaint *domain.Complaint) error

	// GetByID retrieves a complaint by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)

	// Resolve marks a complaint resolved and returns the updated record.
	// Resolving an already-resolved complaint is a no-op that still
	// returns the record.
	Resolve(ctx context.Context, id string) (*domain.Complaint, error)

	// Delete physically removes a complaint.
	Delete(ctx context.Context, id string) error

	// List returns all complaints, newest first.
	List(ctx context.Context) ([]domain.Complaint, error)

	// ListByOutlet returns all complaints against one outlet, newest first.
	ListByOutlet(ctx context.Context, outletID string) ([]domain.Complaint, error)
}

// ReviewCache caches the merged review feed per outlet. A cache miss returns
// (nil, nil); failures degrade to the database, never the request.
type ReviewCache interface {
	// GetOutletReviews returns the cached feed for an outlet, or nil on miss.
	GetOutletReviews(ctx context.Context, outletID string) ([]domain.OutletReview, error)

	// SetOutletReviews stores the feed for an outlet.
	SetOutletReviews(ctx context.Context, outletID string, reviews []domain.OutletReview) error

	// InvalidateOutlet drops the cached feed for an outlet.
	InvalidateOutlet(ctx context.Context, outletID string) error
}
