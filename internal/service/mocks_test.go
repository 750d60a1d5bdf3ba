package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/internal/event"
	"github.com/campusmess/messreview/internal/repository"
	pkgkafka "github.com/campusmess/messreview/pkg/kafka"
)

// --- Mock repositories ---

type mockRatingRepository struct {
	mock.Mock
}

func (m *mockRatingRepository) Submit(ctx context.Context, rating *domain.Rating) (*domain.RatingSummary, error) {
	args := m.Called(ctx, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *mockRatingRepository) Delete(ctx context.Context, id string) (*domain.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rating), args.Error(1)
}

func (m *mockRatingRepository) ListByTarget(ctx context.Context, targetID string) ([]domain.Rating, error) {
	args := m.Called(ctx, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rating), args.Error(1)
}

func (m *mockRatingRepository) ListForOutlet(ctx context.Context, outletID string) ([]domain.OutletReview, error) {
	args := m.Called(ctx, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutletReview), args.Error(1)
}

type mockTargetRepository struct {
	mock.Mock
}

func (m *mockTargetRepository) GetByID(ctx context.Context, id string) (*domain.Target, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Target), args.Error(1)
}

func (m *mockTargetRepository) ListOutlets(ctx context.Context, filter repository.OutletFilter) ([]domain.Target, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Target), args.Error(1)
}

func (m *mockTargetRepository) ListFoodItems(ctx context.Context, outletID string) ([]domain.Target, error) {
	args := m.Called(ctx, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Target), args.Error(1)
}

func (m *mockTargetRepository) RecomputeSummary(ctx context.Context, targetID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

type mockComplaintRepository struct {
	mock.Mock
}

func (m *mockComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *mockComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *mockComplaintRepository) Resolve(ctx context.Context, id string) (*domain.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *mockComplaintRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockComplaintRepository) List(ctx context.Context) ([]domain.Complaint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Complaint), args.Error(1)
}

func (m *mockComplaintRepository) ListByOutlet(ctx context.Context, outletID string) ([]domain.Complaint, error) {
	args := m.Called(ctx, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Complaint), args.Error(1)
}

type mockReviewCache struct {
	mock.Mock
}

func (m *mockReviewCache) GetOutletReviews(ctx context.Context, outletID string) ([]domain.OutletReview, error) {
	args := m.Called(ctx, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutletReview), args.Error(1)
}

func (m *mockReviewCache) SetOutletReviews(ctx context.Context, outletID string, reviews []domain.OutletReview) error {
	args := m.Called(ctx, outletID, reviews)
	return args.Error(0)
}

func (m *mockReviewCache) InvalidateOutlet(ctx context.Context, outletID string) error {
	args := m.Called(ctx, outletID)
	return args.Error(0)
}

// --- Test helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestProducer returns an event producer whose Kafka publishes fail
// silently in tests (no real broker; failures are logged, never returned).
func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func strPtr(s string) *string {
	return &s
}

func userActor() domain.Actor {
	return domain.Actor{ID: "user-1", Name: "Priya", Role: domain.RoleUser}
}

func adminActor() domain.Actor {
	return domain.Actor{ID: "admin-1", Name: "Warden", Role: domain.RoleAdmin}
}

func outletTarget() *domain.Target {
	return &domain.Target{
		ID:            "outlet-1",
		Type:          domain.TargetTypeOutlet,
		Name:          "North Mess",
		OutletType:    domain.OutletTypeMess,
		AverageRating: 3.0,
		TotalRatings:  2,
	}
}

func foodItemTarget() *domain.Target {
	return &domain.Target{
		ID:            "item-1",
		Type:          domain.TargetTypeFoodItem,
		Name:          "Masala Dosa",
		OutletID:      strPtr("outlet-1"),
		AverageRating: 4.0,
		TotalRatings:  1,
	}
}
