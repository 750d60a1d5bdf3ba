package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/pkg/database"
	apperrors "github.com/campusmess/messreview/pkg/errors"
)

const complaintColumns = `id, outlet_id, outlet_name, author_id, COALESCE(user_name, ''), complaint_text, is_anonymous, is_resolved, created_at`

// ComplaintRepository implements complaint persistence operations using PostgreSQL.
type ComplaintRepository struct {
	pool database.DBTX
}

// NewComplaintRepository creates a new PostgreSQL-backed complaint repository.
func NewComplaintRepository(pool database.DBTX) *ComplaintRepository {
	return &ComplaintRepository{pool: pool}
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	err := row.Scan(
		&c.ID,
		&c.OutletID,
		&c.OutletName,
		&c.AuthorID,
		&c.UserName,
		&c.ComplaintText,
		&c.IsAnonymous,
		&c.IsResolved,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new complaint.
func (r *ComplaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	// NULL author and name for anonymous complaints.
	var authorID, userName *string
	if !complaint.IsAnonymous {
		authorID = complaint.AuthorID
		userName = &complaint.UserName
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO complaints (id, outlet_id, outlet_name, author_id, user_name, complaint_text, is_anonymous, is_resolved, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		complaint.ID,
		complaint.OutletID,
		complaint.OutletName,
		authorID,
		userName,
		complaint.ComplaintText,
		complaint.IsAnonymous,
		complaint.IsResolved,
		complaint.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}

	return nil
}

// GetByID retrieves a complaint by its unique identifier.
func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`

	c, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get complaint: %w", err)
	}

	return c, nil
}

// Resolve marks a complaint resolved and returns the updated record. The
// update is a no-op when the complaint is already resolved, so repeat calls
// return the same state without error.
func (r *ComplaintRepository) Resolve(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `
		UPDATE complaints SET is_resolved = TRUE WHERE id = $1
		RETURNING ` + complaintColumns

	c, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("complaint", id)
		}
		return nil, fmt.Errorf("resolve complaint: %w", err)
	}

	return c, nil
}

// Delete physically removes a complaint. Deleting an absent complaint is an
// error, unlike resolve.
func (r *ComplaintRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("complaint", id)
	}
	return nil
}

// List returns all complaints, newest first.
func (r *ComplaintRepository) List(ctx context.Context) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	return collectComplaints(rows)
}

// ListByOutlet returns all complaints against one outlet, newest first.
func (r *ComplaintRepository) ListByOutlet(ctx context.Context, outletID string) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE outlet_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, outletID)
	if err != nil {
		return nil, fmt.Errorf("list complaints by outlet: %w", err)
	}
	defer rows.Close()

	return collectComplaints(rows)
}

func collectComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	complaints := []domain.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint row: %w", err)
		}
		complaints = append(complaints, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaint rows: %w", err)
	}
	return complaints, nil
}
