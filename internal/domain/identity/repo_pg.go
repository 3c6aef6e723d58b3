package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewatch/carewatch/internal/platform/db"
)

type userRepoPG struct{ pool *pgxpool.Pool }

// NewUserRepoPG creates a Postgres-backed UserRepository.
func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const userCols = `id, agency_id, email, full_name, role, status,
	deactivation_reason, deactivated_at, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.AgencyID, &u.Email, &u.FullName, &u.Role, &u.Status,
		&u.DeactivationReason, &u.DeactivatedAt, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO app_user (id, agency_id, email, full_name, role, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.AgencyID, u.Email, u.FullName, u.Role, u.Status, u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE id = $1 AND agency_id = $2`, id, agencyID))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, agencyID uuid.UUID, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE agency_id = $1 AND lower(email) = lower($2)`,
		agencyID, email))
}

func (r *userRepoPG) List(ctx context.Context, agencyID uuid.UUID, role Role, status Status, limit, offset int) ([]*User, int, error) {
	where := `agency_id = $1`
	args := []interface{}{agencyID}
	if role != "" {
		args = append(args, role)
		where += fmt.Sprintf(` AND role = $%d`, len(args))
	}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM app_user WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+userCols+` FROM app_user WHERE `+where+
			fmt.Sprintf(` ORDER BY full_name ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}

func (r *userRepoPG) Exists(ctx context.Context, agencyID, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM app_user WHERE id = $1 AND agency_id = $2)`,
		id, agencyID).Scan(&ok)
	return ok, err
}

func (r *userRepoPG) SetStatus(ctx context.Context, agencyID, id uuid.UUID, status Status, reason *DeactivationReason, at *time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE app_user SET status = $3, deactivation_reason = $4, deactivated_at = $5
		WHERE id = $1 AND agency_id = $2`,
		id, agencyID, status, reason, at)
	if err != nil {
		return fmt.Errorf("set user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
