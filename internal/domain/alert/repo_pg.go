package alert

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

type alertRepoPG struct{ pool *pgxpool.Pool }

// NewAlertRepoPG creates a Postgres-backed AlertRepository.
func NewAlertRepoPG(pool *pgxpool.Pool) AlertRepository { return &alertRepoPG{pool: pool} }

func (r *alertRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const alertCols = `id, visit_record_id, client_id, carer_id, agency_id, tier,
	is_reviewed, reviewed_by, reviewed_at, action_taken, manager_note, created_at`

func (r *alertRepoPG) scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.VisitRecordID, &a.ClientID, &a.CarerID, &a.AgencyID, &a.Tier,
		&a.IsReviewed, &a.ReviewedBy, &a.ReviewedAt, &a.ActionTaken, &a.ManagerNote, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *alertRepoPG) Create(ctx context.Context, a *Alert) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alert (id, visit_record_id, client_id, carer_id, agency_id, tier, is_reviewed, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.VisitRecordID, a.ClientID, a.CarerID, a.AgencyID, a.Tier, a.IsReviewed, a.CreatedAt)
	return err
}

func (r *alertRepoPG) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*Alert, error) {
	return r.scanAlert(r.conn(ctx).QueryRow(ctx,
		`SELECT `+alertCols+` FROM alert WHERE id = $1 AND agency_id = $2`, id, agencyID))
}

func filterClause(filter Filter) string {
	switch filter {
	case FilterUnreviewed:
		return ` AND is_reviewed = FALSE`
	case FilterReviewed:
		return ` AND is_reviewed = TRUE`
	case FilterAmber:
		return ` AND tier = 'amber'`
	case FilterRed:
		return ` AND tier = 'red'`
	}
	return ``
}

func (r *alertRepoPG) List(ctx context.Context, agencyID uuid.UUID, filter Filter, limit, offset int) ([]*Alert, int, error) {
	where := `agency_id = $1` + filterClause(filter)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM alert WHERE `+where, agencyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+alertCols+` FROM alert WHERE `+where+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		agencyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Alert
	for rows.Next() {
		a, err := r.scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *alertRepoPG) CountUnreviewed(ctx context.Context, agencyID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM alert WHERE agency_id = $1 AND is_reviewed = FALSE`, agencyID).Scan(&n)
	return n, err
}

func (r *alertRepoPG) MarkReviewed(ctx context.Context, agencyID, id, reviewerID uuid.UUID, action ActionTaken, note *string, at time.Time) error {
	// Conditional update: the is_reviewed guard ensures exactly one of two
	// concurrent reviews wins.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE alert SET is_reviewed = TRUE, reviewed_by = $3, reviewed_at = $4, action_taken = $5, manager_note = $6
		WHERE id = $1 AND agency_id = $2 AND is_reviewed = FALSE`,
		id, agencyID, reviewerID, at, action, note)
	if err != nil {
		return fmt.Errorf("mark reviewed: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing updated: distinguish a missing alert from a lost race.
	if _, err := r.GetByID(ctx, agencyID, id); err != nil {
		return err
	}
	return ErrAlreadyReviewed
}
