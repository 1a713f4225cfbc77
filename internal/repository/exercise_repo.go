package repository

import (
	"context"

	"github.com/saeid-a/FitProBack/internal/mapper"
)

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) ListByUser(ctx context.Context, userID string) ([]mapper.ExerciseRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, user_id::text, name_en, name_fa, muscle_group, equipment, mechanics,
		       difficulty, movement_pattern, primary_muscles, secondary_muscles, instructions, safety_notes
		FROM custom_exercises
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]mapper.ExerciseRecord, 0)
	for rows.Next() {
		var e mapper.ExerciseRecord
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.NameEn,
			&e.NameFa,
			&e.MuscleGroup,
			&e.Equipment,
			&e.Mechanics,
			&e.Difficulty,
			&e.MovementPattern,
			&e.PrimaryMuscles,
			&e.SecondaryMuscles,
			&e.Instructions,
			&e.SafetyNotes,
		); err != nil {
			return nil, err
		}
		records = append(records, e)
	}
	return records, rows.Err()
}

// Insert ignores the client id and returns the stored one.
func (r *ExerciseRepository) Insert(ctx context.Context, e mapper.ExerciseRecord) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO custom_exercises (
			user_id, name_en, name_fa, muscle_group, equipment, mechanics, difficulty,
			movement_pattern, primary_muscles, secondary_muscles, instructions, safety_notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id::text
	`,
		e.UserID,
		e.NameEn,
		e.NameFa,
		e.MuscleGroup,
		e.Equipment,
		e.Mechanics,
		e.Difficulty,
		e.MovementPattern,
		nonNilStrings(e.PrimaryMuscles),
		nonNilStrings(e.SecondaryMuscles),
		nonNilStrings(e.Instructions),
		nonNilStrings(e.SafetyNotes),
	).Scan(&id)
	return id, err
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
