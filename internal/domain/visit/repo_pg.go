package visit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewatch/carewatch/internal/platform/db"
)

type visitRepoPG struct{ pool *pgxpool.Pool }

// NewVisitRepoPG creates a Postgres-backed VisitRepository.
func NewVisitRepoPG(pool *pgxpool.Pool) VisitRepository { return &visitRepoPG{pool: pool} }

func (r *visitRepoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const visitCols = `id, client_id, carer_id, agency_id, symptom_ids,
	temperature, pulse, systolic_bp, diastolic_bp, oxygen_saturation, respiratory_rate,
	note, score, tier, reasons, created_at`

func (r *visitRepoPG) scanVisit(row pgx.Row) (*VisitRecord, error) {
	var v VisitRecord
	err := row.Scan(&v.ID, &v.ClientID, &v.CarerID, &v.AgencyID, &v.SymptomIDs,
		&v.Vitals.Temperature, &v.Vitals.Pulse, &v.Vitals.SystolicBP, &v.Vitals.DiastolicBP,
		&v.Vitals.OxygenSaturation, &v.Vitals.RespiratoryRate,
		&v.Note, &v.Score, &v.Tier, &v.Reasons, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &v, err
}

func (r *visitRepoPG) Create(ctx context.Context, v *VisitRecord) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO visit_record (id, client_id, carer_id, agency_id, symptom_ids,
			temperature, pulse, systolic_bp, diastolic_bp, oxygen_saturation, respiratory_rate,
			note, score, tier, reasons, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		v.ID, v.ClientID, v.CarerID, v.AgencyID, v.SymptomIDs,
		v.Vitals.Temperature, v.Vitals.Pulse, v.Vitals.SystolicBP, v.Vitals.DiastolicBP,
		v.Vitals.OxygenSaturation, v.Vitals.RespiratoryRate,
		v.Note, v.Score, v.Tier, v.Reasons, v.CreatedAt)
	return err
}

func (r *visitRepoPG) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*VisitRecord, error) {
	return r.scanVisit(r.conn(ctx).QueryRow(ctx,
		`SELECT `+visitCols+` FROM visit_record WHERE id = $1 AND agency_id = $2`, id, agencyID))
}

func (r *visitRepoPG) ListByClient(ctx context.Context, agencyID, clientID uuid.UUID, limit, offset int) ([]*VisitRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM visit_record WHERE agency_id = $1 AND client_id = $2`,
		agencyID, clientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+visitCols+` FROM visit_record
		WHERE agency_id = $1 AND client_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		agencyID, clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*VisitRecord
	for rows.Next() {
		v, err := r.scanVisit(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

func (r *visitRepoPG) AddCorrectionNote(ctx context.Context, agencyID uuid.UUID, n *CorrectionNote) error {
	// The agency-scoped subselect keeps the insert from attaching a note to
	// another agency's record.
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO correction_note (id, visit_record_id, carer_id, note, created_at)
		SELECT $1, v.id, $3, $4, $5 FROM visit_record v WHERE v.id = $2 AND v.agency_id = $6`,
		n.ID, n.VisitRecordID, n.CarerID, n.Note, n.CreatedAt, agencyID)
	if err != nil {
		return fmt.Errorf("add correction note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *visitRepoPG) CorrectionNotes(ctx context.Context, agencyID, visitID uuid.UUID) ([]*CorrectionNote, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT n.id, n.visit_record_id, n.carer_id, n.note, n.created_at
		FROM correction_note n
		JOIN visit_record v ON v.id = n.visit_record_id
		WHERE n.visit_record_id = $1 AND v.agency_id = $2
		ORDER BY n.created_at ASC`, visitID, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*CorrectionNote
	for rows.Next() {
		var n CorrectionNote
		if err := rows.Scan(&n.ID, &n.VisitRecordID, &n.CarerID, &n.Note, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
