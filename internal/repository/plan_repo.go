package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/mapper"
)

const planColumns = `
	id::text, user_id::text, trainee_id::text, creator_id::text, name, description,
	start_date, weeks_count, days, nutrition_template, is_active, created_at
`

type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

func scanPlan(row pgx.Row) (*mapper.PlanRecord, error) {
	var p mapper.PlanRecord
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.TraineeID,
		&p.CreatorID,
		&p.Name,
		&p.Description,
		&p.StartDate,
		&p.WeeksCount,
		&p.Days,
		&p.NutritionTemplate,
		&p.IsActive,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) Create(ctx context.Context, p mapper.PlanRecord) (*mapper.PlanRecord, error) {
	return scanPlan(r.db.QueryRow(ctx, `
		INSERT INTO workout_plans (
			user_id, trainee_id, creator_id, name, description, start_date, weeks_count,
			days, nutrition_template, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+planColumns,
		p.UserID,
		p.TraineeID,
		p.CreatorID,
		p.Name,
		p.Description,
		p.StartDate,
		p.WeeksCount,
		p.Days,
		p.NutritionTemplate,
		p.IsActive,
	))
}

// DeactivateForTrainee retires older active plans so a trainee has one at a time.
func (r *PlanRepository) DeactivateForTrainee(ctx context.Context, traineeID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE workout_plans
		SET is_active = FALSE
		WHERE (trainee_id = $1 OR (trainee_id IS NULL AND user_id = $1))
		  AND is_active = TRUE
	`, traineeID)
	return err
}

// GetActiveForUser matches the user as owner or as trainee; newest plan wins.
func (r *PlanRepository) GetActiveForUser(ctx context.Context, userID string) (*mapper.PlanRecord, error) {
	return scanPlan(r.db.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM workout_plans
		WHERE (user_id = $1 OR trainee_id = $1)
		  AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
}

// ActivePlanNamesByCoach maps each trainee of the coach to their newest active plan name.
func (r *PlanRepository) ActivePlanNamesByCoach(ctx context.Context, coachID string) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (wp.trainee_id) wp.trainee_id::text, wp.name
		FROM workout_plans wp
		JOIN profiles p ON p.id = wp.trainee_id
		WHERE p.coach_id = $1 AND wp.is_active = TRUE
		ORDER BY wp.trainee_id, wp.created_at DESC
	`, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var traineeID, name string
		if err := rows.Scan(&traineeID, &name); err != nil {
			return nil, err
		}
		names[traineeID] = name
	}
	return names, rows.Err()
}
