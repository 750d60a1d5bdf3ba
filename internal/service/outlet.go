package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/internal/repository"
	apperrors "github.com/campusmess/messreview/pkg/errors"
)

// ListOutletsInput holds the query parameters for the outlet catalog listing.
type ListOutletsInput struct {
	OutletType   string
	SortByRating bool
}

// OutletDetail is an outlet together with its food items.
type OutletDetail struct {
	Outlet    domain.Target   `json:"outlet"`
	FoodItems []domain.Target `json:"food_items"`
}

// OutletService serves catalog reads. The catalog itself is seeded reference
// data; only the aggregate fields change at runtime.
type OutletService struct {
	targets repository.TargetRepository
	logger  *slog.Logger
}

// NewOutletService creates a new outlet service.
func NewOutletService(targets repository.TargetRepository, logger *slog.Logger) *OutletService {
	return &OutletService{
		targets: targets,
		logger:  logger,
	}
}

// ListOutlets returns outlets, optionally filtered by type and sorted by
// average rating descending.
func (s *OutletService) ListOutlets(ctx context.Context, input ListOutletsInput) ([]domain.Target, error) {
	filter := repository.OutletFilter{SortByRating: input.SortByRating}
	if input.OutletType != "" {
		if !domain.IsValidOutletType(input.OutletType) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid outlet type %q", input.OutletType))
		}
		outletType := input.OutletType
		filter.OutletType = &outletType
	}

	outlets, err := s.targets.ListOutlets(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}

	return outlets, nil
}

// GetOutlet returns one outlet and its food items.
func (s *OutletService) GetOutlet(ctx context.Context, outletID string) (*OutletDetail, error) {
	outlet, err := s.targets.GetByID(ctx, outletID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("outlet", outletID)
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	if outlet.Type != domain.TargetTypeOutlet {
		return nil, apperrors.NotFound("outlet", outletID)
	}

	items, err := s.targets.ListFoodItems(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}

	return &OutletDetail{Outlet: *outlet, FoodItems: items}, nil
}
