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

// CreateComplaintInput holds the parameters for filing a complaint.
type CreateComplaintInput struct {
	OutletID string
	Text     string

	// Anonymous is an explicit client choice. Unlike ratings, complaint
	// anonymity is never derived from the text.
	Anonymous bool
}

// ComplaintService implements the complaint lifecycle: creation by any
// authenticated user, resolution and deletion under admin control, and the
// grouped admin listing.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	targets    repository.TargetRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewComplaintService creates a new complaint service.
func NewComplaintService(
	complaints repository.ComplaintRepository,
	targets repository.TargetRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		targets:    targets,
		producer:   producer,
		logger:     logger,
	}
}

// Create validates and files a new complaint against an outlet. The returned
// complaint is redacted when anonymous.
func (s *ComplaintService) Create(ctx context.Context, actor domain.Actor, input CreateComplaintInput) (*domain.Complaint, error) {
	if actor.ID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	if !domain.ValidComplaintText(input.Text) {
		return nil, apperrors.InvalidInput("complaint text must not be empty")
	}

	outlet, err := s.targets.GetByID(ctx, input.OutletID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("outlet", input.OutletID)
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	if outlet.Type != domain.TargetTypeOutlet {
		return nil, apperrors.NotFound("outlet", input.OutletID)
	}

	authorID := actor.ID
	complaint := &domain.Complaint{
		ID:            uuid.New().String(),
		OutletID:      outlet.ID,
		OutletName:    outlet.Name,
		AuthorID:      &authorID,
		UserName:      actor.Name,
		ComplaintText: input.Text,
		IsAnonymous:   input.Anonymous,
		IsResolved:    false,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	if err := s.producer.PublishComplaintCreated(ctx, complaint); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish complaint.created event",
			slog.String("complaint_id", complaint.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "complaint created",
		slog.String("complaint_id", complaint.ID),
		slog.String("outlet_id", complaint.OutletID),
		slog.Bool("anonymous", complaint.IsAnonymous),
	)

	redacted := complaint.Redacted()
	return &redacted, nil
}

// Resolve marks a complaint resolved. Admin only. Resolving an already
// resolved complaint is a no-op that returns the current state, not an
// error; resolving an absent complaint is NotFound.
func (s *ComplaintService) Resolve(ctx context.Context, actor domain.Actor, complaintID string) (*domain.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can resolve complaints")
	}

	complaint, err := s.complaints.Resolve(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("resolve complaint: %w", err)
	}

	if err := s.producer.PublishComplaintResolved(ctx, complaint); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish complaint.resolved event",
			slog.String("complaint_id", complaintID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "complaint resolved",
		slog.String("complaint_id", complaintID),
		slog.String("admin_id", actor.ID),
	)

	redacted := complaint.Redacted()
	return &redacted, nil
}

// Delete physically removes a complaint at any lifecycle stage. Admin only.
// Deleting an absent (or already deleted) complaint is NotFound, unlike the
// idempotent resolve.
func (s *ComplaintService) Delete(ctx context.Context, actor domain.Actor, complaintID string) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("only admins can delete complaints")
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("complaint", complaintID)
		}
		return fmt.Errorf("get complaint: %w", err)
	}

	if err := s.complaints.Delete(ctx, complaintID); err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}

	if err := s.producer.PublishComplaintDeleted(ctx, complaint); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish complaint.deleted event",
			slog.String("complaint_id", complaintID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "complaint deleted",
		slog.String("complaint_id", complaintID),
		slog.String("admin_id", actor.ID),
	)

	return nil
}

// List returns the grouped admin complaint listing. Group counts cover the
// filtered set; the global stats always cover the full complaint set.
func (s *ComplaintService) List(ctx context.Context, actor domain.Actor, statusFilter, groupBy string) (*domain.ComplaintListing, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can list complaints")
	}
	if !domain.IsValidStatusFilter(statusFilter) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status filter %q", statusFilter))
	}
	if !domain.IsValidGroupBy(groupBy) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid group_by %q", groupBy))
	}

	all, err := s.complaints.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}

	listing := domain.BuildComplaintListing(all, statusFilter, groupBy)
	return &listing, nil
}

// ListByOutlet returns the redacted complaints against one outlet. Admin only.
func (s *ComplaintService) ListByOutlet(ctx context.Context, actor domain.Actor, outletID string) ([]domain.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can list complaints")
	}

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

	complaints, err := s.complaints.ListByOutlet(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("list complaints by outlet: %w", err)
	}

	for i := range complaints {
		complaints[i] = complaints[i].Redacted()
	}

	return complaints, nil
}
