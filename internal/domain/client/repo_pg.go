package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewatch/carewatch/internal/platform/db"
)

type clientRepoPG struct{ pool *pgxpool.Pool }

// NewClientRepoPG creates a Postgres-backed ClientRepository.
func NewClientRepoPG(pool *pgxpool.Pool) ClientRepository { return &clientRepoPG{pool: pool} }

func (r *clientRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const clientCols = `id, agency_id, display_name, internal_reference, status,
	deactivation_reason, deactivation_note, deactivated_at, created_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.AgencyID, &c.DisplayName, &c.InternalReference, &c.Status,
		&c.DeactivationReason, &c.DeactivationNote, &c.DeactivatedAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (r *clientRepoPG) Create(ctx context.Context, c *Client) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO client (id, agency_id, display_name, internal_reference, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.AgencyID, c.DisplayName, c.InternalReference, c.Status, c.CreatedAt)
	return err
}

func (r *clientRepoPG) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*Client, error) {
	return scanClient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+clientCols+` FROM client WHERE id = $1 AND agency_id = $2`, id, agencyID))
}

func (r *clientRepoPG) List(ctx context.Context, agencyID uuid.UUID, limit, offset int) ([]*Client, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM client WHERE agency_id = $1`, agencyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+clientCols+` FROM client WHERE agency_id = $1
		ORDER BY display_name ASC LIMIT $2 OFFSET $3`, agencyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *clientRepoPG) ActiveExists(ctx context.Context, agencyID, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM client WHERE id = $1 AND agency_id = $2 AND status = 'active')`,
		id, agencyID).Scan(&ok)
	return ok, err
}

func (r *clientRepoPG) SetStatus(ctx context.Context, agencyID, id uuid.UUID, status Status, reason *DeactivationReason, note *string, at *time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE client SET status = $3, deactivation_reason = $4, deactivation_note = $5, deactivated_at = $6
		WHERE id = $1 AND agency_id = $2`,
		id, agencyID, status, reason, note, at)
	if err != nil {
		return fmt.Errorf("set client status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *clientRepoPG) Assign(ctx context.Context, agencyID, clientID, carerID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO client_carer (client_id, carer_id, agency_id)
		SELECT c.id, $3, c.agency_id FROM client c WHERE c.id = $1 AND c.agency_id = $2
		ON CONFLICT (client_id, carer_id) DO NOTHING`,
		clientID, agencyID, carerID)
	if err != nil {
		return fmt.Errorf("assign carer: %w", err)
	}
	// Zero rows from the conflict path still means the pair exists; only a
	// missing client yields no source row at all.
	if tag.RowsAffected() == 0 {
		var ok bool
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM client WHERE id = $1 AND agency_id = $2)`,
			clientID, agencyID).Scan(&ok); err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}
	return nil
}

func (r *clientRepoPG) Unassign(ctx context.Context, agencyID, clientID, carerID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM client_carer WHERE client_id = $1 AND carer_id = $2 AND agency_id = $3`,
		clientID, carerID, agencyID)
	return err
}

func (r *clientRepoPG) ListForCarer(ctx context.Context, agencyID, carerID uuid.UUID) ([]*Client, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+clientCols+` FROM client
		WHERE agency_id = $1 AND status = 'active'
		  AND id IN (SELECT client_id FROM client_carer WHERE carer_id = $2 AND agency_id = $1)
		ORDER BY display_name ASC`, agencyID, carerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
