package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusmess/messreview/internal/domain"
	pkgkafka "github.com/campusmess/messreview/pkg/kafka"
)

// Kafka topic constants for rating and complaint domain events.
const (
	TopicRatingCreated     = "messreview.rating.created"
	TopicRatingDeleted     = "messreview.rating.deleted"
	TopicComplaintCreated  = "messreview.complaint.created"
	TopicComplaintResolved = "messreview.complaint.resolved"
	TopicComplaintDeleted  = "messreview.complaint.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeTarget    = "target"
	AggregateTypeComplaint = "complaint"
)

// Source identifier for events originating from this service.
const SourceMessReview = "messreview"

// RatingEventData is the payload for rating.created and rating.deleted
// events. The author is omitted for anonymous ratings; consumers see the
// same redacted view as any other read path.
type RatingEventData struct {
	RatingID      string  `json:"rating_id"`
	TargetType    string  `json:"target_type"`
	TargetID      string  `json:"target_id"`
	Stars         int     `json:"stars"`
	IsAnonymous   bool    `json:"is_anonymous"`
	AuthorID      *string `json:"author_id,omitempty"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// ComplaintEventData is the payload for complaint lifecycle events.
type ComplaintEventData struct {
	ComplaintID string `json:"complaint_id"`
	OutletID    string `json:"outlet_id"`
	OutletName  string `json:"outlet_name"`
	IsResolved  bool   `json:"is_resolved"`
}

// Producer publishes rating and complaint domain events to Kafka. Events are
// published after the database commit; a publish failure is logged by the
// caller and never fails the request.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func ratingData(rating *domain.Rating, summary *domain.RatingSummary) RatingEventData {
	redacted := rating.Redacted()
	return RatingEventData{
		RatingID:      redacted.ID,
		TargetType:    redacted.TargetType,
		TargetID:      redacted.TargetID,
		Stars:         redacted.Stars,
		IsAnonymous:   redacted.IsAnonymous,
		AuthorID:      redacted.AuthorID,
		AverageRating: summary.AverageRating,
		TotalRatings:  summary.TotalRatings,
	}
}

// PublishRatingCreated publishes a rating.created event keyed by target so
// aggregate consumers see updates for one target in order.
func (p *Producer) PublishRatingCreated(ctx context.Context, rating *domain.Rating, summary *domain.RatingSummary) error {
	return p.publishRating(ctx, TopicRatingCreated, rating, summary)
}

// PublishRatingDeleted publishes a rating.deleted event.
func (p *Producer) PublishRatingDeleted(ctx context.Context, rating *domain.Rating, summary *domain.RatingSummary) error {
	return p.publishRating(ctx, TopicRatingDeleted, rating, summary)
}

func (p *Producer) publishRating(ctx context.Context, topic string, rating *domain.Rating, summary *domain.RatingSummary) error {
	event, err := pkgkafka.NewEvent(topic, rating.TargetID, AggregateTypeTarget, SourceMessReview, ratingData(rating, summary))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published rating event",
		slog.String("topic", topic),
		slog.String("target_id", rating.TargetID),
		slog.Int("total_ratings", summary.TotalRatings),
	)

	return nil
}

// PublishComplaintCreated publishes a complaint.created event.
func (p *Producer) PublishComplaintCreated(ctx context.Context, complaint *domain.Complaint) error {
	return p.publishComplaint(ctx, TopicComplaintCreated, complaint)
}

// PublishComplaintResolved publishes a complaint.resolved event.
func (p *Producer) PublishComplaintResolved(ctx context.Context, complaint *domain.Complaint) error {
	return p.publishComplaint(ctx, TopicComplaintResolved, complaint)
}

// PublishComplaintDeleted publishes a complaint.deleted event.
func (p *Producer) PublishComplaintDeleted(ctx context.Context, complaint *domain.Complaint) error {
	return p.publishComplaint(ctx, TopicComplaintDeleted, complaint)
}

func (p *Producer) publishComplaint(ctx context.Context, topic string, complaint *domain.Complaint) error {
	data := ComplaintEventData{
		ComplaintID: complaint.ID,
		OutletID:    complaint.OutletID,
		OutletName:  complaint.OutletName,
		IsResolved:  complaint.IsResolved,
	}

	event, err := pkgkafka.NewEvent(topic, complaint.ID, AggregateTypeComplaint, SourceMessReview, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published complaint event",
		slog.String("topic", topic),
		slog.String("complaint_id", complaint.ID),
		slog.String("outlet_id", complaint.OutletID),
	)

	return nil
}
