package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const outletColumns = `id, name, media_type, contact_email, complaints_email, website,
	        regulator, description, is_active, created_at, updated_at`

// OutletCreateInput holds fields for registering a media outlet
type OutletCreateInput struct {
	Name            string
	MediaType       string
	ContactEmail    string
	ComplaintsEmail string
	Website         string
	Regulator       string
	Description     string
}

// CreateOutlet registers a new media outlet. Name conflicts update contact
// details in place so the seed list can be re-applied.
func (db *DB) CreateOutlet(ctx context.Context, input *OutletCreateInput) (*Outlet, error) {
	var o Outlet
	err := db.pool.QueryRow(ctx,
		`INSERT INTO media_outlets (name, media_type, contact_email, complaints_email,
		         website, regulator, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (name) DO UPDATE SET
		         media_type = $2, contact_email = $3, complaints_email = $4,
		         website = $5, regulator = $6, description = $7, updated_at = NOW()
		 RETURNING `+outletColumns,
		input.Name, input.MediaType, input.ContactEmail, input.ComplaintsEmail,
		input.Website, input.Regulator, input.Description,
	).Scan(scanOutlet(&o)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create outlet: %w", err)
	}
	return &o, nil
}

// GetOutlet retrieves an outlet by ID
func (db *DB) GetOutlet(ctx context.Context, id uuid.UUID) (*Outlet, error) {
	var o Outlet
	err := db.pool.QueryRow(ctx,
		`SELECT `+outletColumns+` FROM media_outlets WHERE id = $1`, id,
	).Scan(scanOutlet(&o)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get outlet: %w", err)
	}
	return &o, nil
}

// ListOutlets retrieves active outlets ordered by name
func (db *DB) ListOutlets(ctx context.Context, includeInactive bool) ([]Outlet, error) {
	query := `SELECT ` + outletColumns + ` FROM media_outlets`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}
	defer rows.Close()

	var outlets []Outlet
	for rows.Next() {
		var o Outlet
		if err := rows.Scan(scanOutlet(&o)...); err != nil {
			return nil, fmt.Errorf("failed to scan outlet: %w", err)
		}
		outlets = append(outlets, o)
	}
	return outlets, nil
}

// ApplyResearch overwrites an outlet's contact details with researched
// values. Empty findings leave the existing values in place.
func (db *DB) ApplyResearch(ctx context.Context, id uuid.UUID, contactEmail, complaintsEmail, regulator, notes string) (*Outlet, error) {
	var o Outlet
	err := db.pool.QueryRow(ctx,
		`UPDATE media_outlets SET
		         contact_email = COALESCE(NULLIF($2, ''), contact_email),
		         complaints_email = COALESCE(NULLIF($3, ''), complaints_email),
		         regulator = COALESCE(NULLIF($4, ''), regulator),
		         description = COALESCE(NULLIF($5, ''), description),
		         updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+outletColumns,
		id, contactEmail, complaintsEmail, regulator, notes,
	).Scan(scanOutlet(&o)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to apply outlet research: %w", err)
	}
	return &o, nil
}

func scanOutlet(o *Outlet) []any {
	return []any{
		&o.ID, &o.Name, &o.MediaType, &o.ContactEmail, &o.ComplaintsEmail, &o.Website,
		&o.Regulator, &o.Description, &o.IsActive, &o.CreatedAt, &o.UpdatedAt,
	}
}
