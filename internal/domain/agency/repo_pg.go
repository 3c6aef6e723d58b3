package agency

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewatch/carewatch/internal/platform/db"
)

type agencyRepoPG struct{ pool *pgxpool.Pool }

// NewAgencyRepoPG creates a Postgres-backed AgencyRepository.
func NewAgencyRepoPG(pool *pgxpool.Pool) AgencyRepository { return &agencyRepoPG{pool: pool} }

func (r *agencyRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *agencyRepoPG) Create(ctx context.Context, a *Agency) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO agency (id, name, created_at) VALUES ($1,$2,$3)`,
		a.ID, a.Name, a.CreatedAt)
	return err
}

func (r *agencyRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Agency, error) {
	var a Agency
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM agency WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}
