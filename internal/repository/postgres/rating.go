package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/pkg/database"
	apperrors "github.com/campusmess/messreview/pkg/errors"
)

const ratingColumns = `id, author_id, COALESCE(user_name, ''), target_type, target_id, stars, review_text, is_anonymous, created_at`

// RatingRepository implements rating persistence operations using PostgreSQL.
// Submit and Delete take a row lock on the rating's target so the
// read-modify-write of the aggregate fields serializes per target while
// writes to different targets proceed independently.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Submit persists a new rating and updates its target's aggregate fields in
// the same transaction.
func (r *RatingRepository) Submit(ctx context.Context, rating *domain.Rating) (*domain.RatingSummary, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current domain.RatingSummary
	err = tx.QueryRow(ctx,
		`SELECT average_rating, total_ratings FROM targets WHERE id = $1 FOR UPDATE`,
		rating.TargetID,
	).Scan(&current.AverageRating, &current.TotalRatings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("target", rating.TargetID)
		}
		return nil, fmt.Errorf("lock target: %w", err)
	}

	// NULL author and name for anonymous ratings; the unique index on
	// (author_id, target_id) only covers non-null authors.
	var authorID, userName *string
	if !rating.IsAnonymous {
		authorID = rating.AuthorID
		userName = &rating.UserName
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO ratings (id, author_id, user_name, target_type, target_id, stars, review_text, is_anonymous, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rating.ID,
		authorID,
		userName,
		rating.TargetType,
		rating.TargetID,
		rating.Stars,
		rating.ReviewText,
		rating.IsAnonymous,
		rating.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("you have already rated this target")
		}
		return nil, fmt.Errorf("insert rating: %w", err)
	}

	updated := current.RecordInsertion(rating.Stars)
	_, err = tx.Exec(ctx,
		`UPDATE targets SET average_rating = $1, total_ratings = $2 WHERE id = $3`,
		updated.AverageRating, updated.TotalRatings, rating.TargetID,
	)
	if err != nil {
		return nil, fmt.Errorf("update target summary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &updated, nil
}

// Delete removes a rating and updates its target's aggregate fields in the
// same transaction. Returns the removed rating.
func (r *RatingRepository) Delete(ctx context.Context, id string) (*domain.Rating, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var rt domain.Rating
	err = tx.QueryRow(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE id = $1`, id,
	).Scan(
		&rt.ID,
		&rt.AuthorID,
		&rt.UserName,
		&rt.TargetType,
		&rt.TargetID,
		&rt.Stars,
		&rt.ReviewText,
		&rt.IsAnonymous,
		&rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("rating", id)
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}

	var current domain.RatingSummary
	err = tx.QueryRow(ctx,
		`SELECT average_rating, total_ratings FROM targets WHERE id = $1 FOR UPDATE`,
		rt.TargetID,
	).Scan(&current.AverageRating, &current.TotalRatings)
	if err != nil {
		return nil, fmt.Errorf("lock target: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete rating: %w", err)
	}

	updated := current.RecordDeletion(rt.Stars)
	_, err = tx.Exec(ctx,
		`UPDATE targets SET average_rating = $1, total_ratings = $2 WHERE id = $3`,
		updated.AverageRating, updated.TotalRatings, rt.TargetID,
	)
	if err != nil {
		return nil, fmt.Errorf("update target summary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &rt, nil
}

// ListByTarget returns all ratings for one target, newest first.
func (r *RatingRepository) ListByTarget(ctx context.Context, targetID string) ([]domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE target_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, targetID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := []domain.Rating{}
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(
			&rt.ID,
			&rt.AuthorID,
			&rt.UserName,
			&rt.TargetType,
			&rt.TargetID,
			&rt.Stars,
			&rt.ReviewText,
			&rt.IsAnonymous,
			&rt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}

// ListForOutlet returns ratings targeting the outlet itself or any of its
// food items, merged newest first. Food-item ratings carry the item's name.
func (r *RatingRepository) ListForOutlet(ctx context.Context, outletID string) ([]domain.OutletReview, error) {
	query := `
		SELECT r.id, r.author_id, COALESCE(r.user_name, ''), r.target_type, r.target_id,
		       r.stars, r.review_text, r.is_anonymous, r.created_at,
		       CASE WHEN t.type = 'FOOD_ITEM' THEN t.name END AS food_item_name
		FROM ratings r
		JOIN targets t ON t.id = r.target_id
		WHERE t.id = $1 OR t.outlet_id = $1
		ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, outletID)
	if err != nil {
		return nil, fmt.Errorf("list outlet reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.OutletReview{}
	for rows.Next() {
		var rv domain.OutletReview
		if err := rows.Scan(
			&rv.ID,
			&rv.AuthorID,
			&rv.UserName,
			&rv.TargetType,
			&rv.TargetID,
			&rv.Stars,
			&rv.ReviewText,
			&rv.IsAnonymous,
			&rv.CreatedAt,
			&rv.FoodItemName,
		); err != nil {
			return nil, fmt.Errorf("scan outlet review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outlet review rows: %w", err)
	}

	return reviews, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
