package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusmess/messreview/internal/auth"
	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/internal/event"
	"github.com/campusmess/messreview/internal/repository"
	"github.com/campusmess/messreview/internal/service"
	"github.com/campusmess/messreview/pkg/httputil"
	pkgkafka "github.com/campusmess/messreview/pkg/kafka"
)

const (
	outletID   = "550e8400-e29b-41d4-a716-446655440001"
	foodItemID = "550e8400-e29b-41d4-a716-446655440002"
	ratingID   = "550e8400-e29b-41d4-a716-446655440010"
	claimID    = "550e8400-e29b-41d4-a716-446655440020"
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

type testEnv struct {
	router     *chi.Mux
	jwt        *auth.Manager
	ratings    *mockRatingRepository
	targets    *mockTargetRepository
	complaints *mockComplaintRepository
	cache      *mockReviewCache
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

// setupEnv creates the handlers over real services with mock repositories,
// mounted on a router matching the production route layout.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		jwt:        auth.NewManager("test-secret", time.Hour),
		ratings:    new(mockRatingRepository),
		targets:    new(mockTargetRepository),
		complaints: new(mockComplaintRepository),
		cache:      new(mockReviewCache),
	}

	logger := testLogger()
	producer := testEventProducer()
	ratingService := service.NewRatingService(env.ratings, env.targets, env.cache, producer, logger)
	complaintService := service.NewComplaintService(env.complaints, env.targets, producer, logger)
	outletService := service.NewOutletService(env.targets, logger)

	ratingHandler := NewRatingHandler(ratingService, logger)
	complaintHandler := NewComplaintHandler(complaintService, logger)
	outletHandler := NewOutletHandler(outletService, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(env.jwt, false))
			r.Get("/outlets", outletHandler.ListOutlets)
			r.Get("/outlets/{id}", outletHandler.GetOutlet)
			r.Get("/outlets/{id}/reviews", ratingHandler.ListOutletReviews)
			r.Get("/outlets/{id}/ratings", ratingHandler.ListOutletRatings)
			r.Get("/food-items/{id}/ratings", ratingHandler.ListFoodItemRatings)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(env.jwt, true))
			r.Post("/ratings", ratingHandler.SubmitRating)
			r.Delete("/ratings/{id}", ratingHandler.DeleteRating)
			r.Post("/targets/{id}/recompute", ratingHandler.RecomputeTarget)
			r.Post("/complaints", complaintHandler.CreateComplaint)
			r.Get("/complaints", complaintHandler.ListComplaints)
			r.Post("/complaints/{id}/resolve", complaintHandler.ResolveComplaint)
			r.Delete("/complaints/{id}", complaintHandler.DeleteComplaint)
			r.Get("/outlets/{id}/complaints", complaintHandler.ListOutletComplaints)
		})
	})
	env.router = r

	return env
}

func (env *testEnv) userToken(t *testing.T) string {
	t.Helper()
	token, err := env.jwt.Generate("user-1", "Priya", domain.RoleUser)
	require.NoError(t, err)
	return token
}

func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := env.jwt.Generate("admin-1", "Warden", domain.RoleAdmin)
	require.NoError(t, err)
	return token
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func strPtr(s string) *string {
	return &s
}

func sampleOutlet() *domain.Target {
	return &domain.Target{
		ID:            outletID,
		Type:          domain.TargetTypeOutlet,
		Name:          "North Mess",
		OutletType:    domain.OutletTypeMess,
		Location:      "Hostel Block A",
		AverageRating: 3.0,
		TotalRatings:  2,
	}
}

func sampleFoodItem() *domain.Target {
	return &domain.Target{
		ID:          foodItemID,
		Type:        domain.TargetTypeFoodItem,
		Name:        "Masala Dosa",
		OutletID:    strPtr(outletID),
		PriceRupees: intPtr(60),
	}
}

func intPtr(n int) *int {
	return &n
}
