package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/mapper"
)

const measurementColumns = `
	id::text, user_id::text, date, weight, body_fat, chest, waist, shoulders,
	arm_right, arm_left, thigh_right, thigh_left, calf_right, calf_left,
	photo_front_uri, photo_side_uri, photo_back_uri
`

type MeasurementRepository struct {
	db DBTX
}

func NewMeasurementRepository(db DBTX) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

func scanMeasurement(row pgx.Row) (mapper.MeasurementRecord, error) {
	var m mapper.MeasurementRecord
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Date,
		&m.Weight,
		&m.BodyFat,
		&m.Chest,
		&m.Waist,
		&m.Shoulders,
		&m.ArmRight,
		&m.ArmLeft,
		&m.ThighRight,
		&m.ThighLeft,
		&m.CalfRight,
		&m.CalfLeft,
		&m.PhotoFrontURI,
		&m.PhotoSideURI,
		&m.PhotoBackURI,
	)
	return m, err
}

func (r *MeasurementRepository) list(ctx context.Context, query string, args ...any) ([]mapper.MeasurementRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]mapper.MeasurementRecord, 0)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

// ListByUser returns measurements oldest first.
func (r *MeasurementRepository) ListByUser(ctx context.Context, userID string) ([]mapper.MeasurementRecord, error) {
	return r.list(ctx, `
		SELECT `+measurementColumns+`
		FROM measurements
		WHERE user_id = $1
		ORDER BY date, created_at
	`, userID)
}

func (r *MeasurementRepository) ListByCoach(ctx context.Context, coachID string) ([]mapper.MeasurementRecord, error) {
	return r.list(ctx, `
		SELECT `+measurementColumns+`
		FROM measurements
		WHERE user_id IN (SELECT id FROM profiles WHERE coach_id = $1)
		ORDER BY date, created_at
	`, coachID)
}

// Save inserts the measurement when it has no id, otherwise upserts by id.
func (r *MeasurementRepository) Save(ctx context.Context, m mapper.MeasurementRecord) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO measurements (
			id, user_id, date, weight, body_fat, chest, waist, shoulders,
			arm_right, arm_left, thigh_right, thigh_left, calf_right, calf_left,
			photo_front_uri, photo_side_uri, photo_back_uri
		)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			weight = EXCLUDED.weight,
			body_fat = EXCLUDED.body_fat,
			chest = EXCLUDED.chest,
			waist = EXCLUDED.waist,
			shoulders = EXCLUDED.shoulders,
			arm_right = EXCLUDED.arm_right,
			arm_left = EXCLUDED.arm_left,
			thigh_right = EXCLUDED.thigh_right,
			thigh_left = EXCLUDED.thigh_left,
			calf_right = EXCLUDED.calf_right,
			calf_left = EXCLUDED.calf_left,
			photo_front_uri = EXCLUDED.photo_front_uri,
			photo_side_uri = EXCLUDED.photo_side_uri,
			photo_back_uri = EXCLUDED.photo_back_uri
		WHERE measurements.user_id = EXCLUDED.user_id
		RETURNING id::text
	`,
		m.ID,
		m.UserID,
		m.Date,
		m.Weight,
		m.BodyFat,
		m.Chest,
		m.Waist,
		m.Shoulders,
		m.ArmRight,
		m.ArmLeft,
		m.ThighRight,
		m.ThighLeft,
		m.CalfRight,
		m.CalfLeft,
		m.PhotoFrontURI,
		m.PhotoSideURI,
		m.PhotoBackURI,
	).Scan(&id)
	return id, err
}
