package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/internal/repository"
	"github.com/campusmess/messreview/pkg/database"
	apperrors "github.com/campusmess/messreview/pkg/errors"
)

const targetColumns = `id, type, name, outlet_id, COALESCE(outlet_type, ''), COALESCE(location, ''), price_rupees, average_rating, total_ratings, created_at`

// TargetRepository implements target persistence operations using PostgreSQL.
type TargetRepository struct {
	pool database.DBTX
}

// NewTargetRepository creates a new PostgreSQL-backed target repository.
func NewTargetRepository(pool database.DBTX) *TargetRepository {
	return &TargetRepository{pool: pool}
}

func scanTarget(row pgx.Row) (*domain.Target, error) {
	var t domain.Target
	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.Name,
		&t.OutletID,
		&t.OutletType,
		&t.Location,
		&t.PriceRupees,
		&t.AverageRating,
		&t.TotalRatings,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a target by its unique identifier.
func (r *TargetRepository) GetByID(ctx context.Context, id string) (*domain.Target, error) {
	query := `SELECT ` + targetColumns + ` FROM targets WHERE id = $1`

	t, err := scanTarget(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get target: %w", err)
	}

	return t, nil
}

// ListOutlets returns outlets matching the given filter.
func (r *TargetRepository) ListOutlets(ctx context.Context, filter repository.OutletFilter) ([]domain.Target, error) {
	query := `SELECT ` + targetColumns + ` FROM targets WHERE type = $1`
	args := []any{domain.TargetTypeOutlet}

	if filter.OutletType != nil {
		query += ` AND outlet_type = $2`
		args = append(args, *filter.OutletType)
	}

	if filter.SortByRating {
		query += ` ORDER BY average_rating DESC, name ASC`
	} else {
		query += ` ORDER BY name ASC`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}
	defer rows.Close()

	return collectTargets(rows)
}

// ListFoodItems returns the food items belonging to an outlet.
func (r *TargetRepository) ListFoodItems(ctx context.Context, outletID string) ([]domain.Target, error) {
	query := `SELECT ` + targetColumns + ` FROM targets WHERE type = $1 AND outlet_id = $2 ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, domain.TargetTypeFoodItem, outletID)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	defer rows.Close()

	return collectTargets(rows)
}

func collectTargets(rows pgx.Rows) ([]domain.Target, error) {
	targets := []domain.Target{}
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan target row: %w", err)
		}
		targets = append(targets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate target rows: %w", err)
	}
	return targets, nil
}

// RecomputeSummary rebuilds a target's aggregate fields from its full rating
// set and persists the result. The target row stays locked for the duration
// so concurrent rating writes cannot interleave.
func (r *TargetRepository) RecomputeSummary(ctx context.Context, targetID string) (*domain.RatingSummary, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current domain.RatingSummary
	err = tx.QueryRow(ctx,
		`SELECT average_rating, total_ratings FROM targets WHERE id = $1 FOR UPDATE`,
		targetID,
	).Scan(&current.AverageRating, &current.TotalRatings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("target", targetID)
		}
		return nil, fmt.Errorf("lock target: %w", err)
	}

	var summary domain.RatingSummary
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(AVG(stars), 0), COUNT(*) FROM ratings WHERE target_id = $1`,
		targetID,
	).Scan(&summary.AverageRating, &summary.TotalRatings)
	if err != nil {
		return nil, fmt.Errorf("recompute summary: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE targets SET average_rating = $1, total_ratings = $2 WHERE id = $3`,
		summary.AverageRating, summary.TotalRatings, targetID,
	)
	if err != nil {
		return nil, fmt.Errorf("update target summary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &summary, nil
}
