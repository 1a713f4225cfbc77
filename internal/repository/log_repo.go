package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/mapper"
)

const (
	workoutLogColumns = `
		l.id::text, l.user_id::text, l.target_id, l.date, l.set_number, l.reps, l.weight,
		l.rpe, l.rest_time, l.video_url, l.video_feedback_id::text
	`
	wellnessLogColumns = `
		l.id::text, l.user_id::text, l.date, l.sleep_duration, l.soreness_level, l.energy_mood, l.notes
	`
	nutritionLogColumns = `
		l.id::text, l.user_id::text, l.date, l.meal_name, l.description, l.is_completed, l.macros
	`
	byUser  = ` WHERE l.user_id = $1 ORDER BY l.date, l.created_at`
	byCoach = ` JOIN profiles p ON p.id = l.user_id WHERE p.coach_id = $1 ORDER BY l.date, l.created_at`
)

// LogRepository covers the three daily log tables.
type LogRepository struct {
	db DBTX
}

func NewLogRepository(db DBTX) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) ListWorkoutLogs(ctx context.Context, userID string) ([]mapper.WorkoutLogRecord, error) {
	return r.workoutLogs(ctx, `SELECT `+workoutLogColumns+` FROM workout_logs l`+byUser, userID)
}

func (r *LogRepository) ListWorkoutLogsByCoach(ctx context.Context, coachID string) ([]mapper.WorkoutLogRecord, error) {
	return r.workoutLogs(ctx, `SELECT `+workoutLogColumns+` FROM workout_logs l`+byCoach, coachID)
}

func (r *LogRepository) workoutLogs(ctx context.Context, query string, arg string) ([]mapper.WorkoutLogRecord, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]mapper.WorkoutLogRecord, 0)
	for rows.Next() {
		var l mapper.WorkoutLogRecord
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.TargetID,
			&l.Date,
			&l.SetNumber,
			&l.Reps,
			&l.Weight,
			&l.RPE,
			&l.RestTime,
			&l.VideoURL,
			&l.VideoFeedbackID,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *LogRepository) ListWellnessLogs(ctx context.Context, userID string) ([]mapper.WellnessLogRecord, error) {
	return r.wellnessLogs(ctx, `SELECT `+wellnessLogColumns+` FROM wellness_logs l`+byUser, userID)
}

func (r *LogRepository) ListWellnessLogsByCoach(ctx context.Context, coachID string) ([]mapper.WellnessLogRecord, error) {
	return r.wellnessLogs(ctx, `SELECT `+wellnessLogColumns+` FROM wellness_logs l`+byCoach, coachID)
}

func (r *LogRepository) wellnessLogs(ctx context.Context, query string, arg string) ([]mapper.WellnessLogRecord, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]mapper.WellnessLogRecord, 0)
	for rows.Next() {
		var l mapper.WellnessLogRecord
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.Date,
			&l.SleepDuration,
			&l.SorenessLevel,
			&l.EnergyMood,
			&l.Notes,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *LogRepository) ListNutritionLogs(ctx context.Context, userID string) ([]mapper.NutritionLogRecord, error) {
	return r.nutritionLogs(ctx, `SELECT `+nutritionLogColumns+` FROM nutrition_logs l`+byUser, userID)
}

func (r *LogRepository) ListNutritionLogsByCoach(ctx context.Context, coachID string) ([]mapper.NutritionLogRecord, error) {
	return r.nutritionLogs(ctx, `SELECT `+nutritionLogColumns+` FROM nutrition_logs l`+byCoach, coachID)
}

func (r *LogRepository) nutritionLogs(ctx context.Context, query string, arg string) ([]mapper.NutritionLogRecord, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]mapper.NutritionLogRecord, 0)
	for rows.Next() {
		var l mapper.NutritionLogRecord
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.Date,
			&l.MealName,
			&l.Description,
			&l.IsCompleted,
			&l.Macros,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// The save methods insert when id is nil and otherwise upsert the row, but
// never across users.

func (r *LogRepository) SaveWorkoutLog(ctx context.Context, id *string, l mapper.WorkoutLogRecord) (string, error) {
	var stored string
	err := r.db.QueryRow(ctx, `
		INSERT INTO workout_logs (id, user_id, target_id, date, set_number, reps, weight, rpe, rest_time, video_url, video_feedback_id)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::uuid)
		ON CONFLICT (id) DO UPDATE SET
			target_id = EXCLUDED.target_id,
			date = EXCLUDED.date,
			set_number = EXCLUDED.set_number,
			reps = EXCLUDED.reps,
			weight = EXCLUDED.weight,
			rpe = EXCLUDED.rpe,
			rest_time = EXCLUDED.rest_time,
			video_url = EXCLUDED.video_url,
			video_feedback_id = EXCLUDED.video_feedback_id
		WHERE workout_logs.user_id = EXCLUDED.user_id
		RETURNING id::text
	`, id, l.UserID, l.TargetID, l.Date, l.SetNumber, l.Reps, l.Weight, l.RPE, l.RestTime, l.VideoURL, l.VideoFeedbackID).Scan(&stored)
	return stored, err
}

func (r *LogRepository) SaveWellnessLog(ctx context.Context, id *string, l mapper.WellnessLogRecord) (string, error) {
	var stored string
	err := r.db.QueryRow(ctx, `
		INSERT INTO wellness_logs (id, user_id, date, sleep_duration, soreness_level, energy_mood, notes)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			sleep_duration = EXCLUDED.sleep_duration,
			soreness_level = EXCLUDED.soreness_level,
			energy_mood = EXCLUDED.energy_mood,
			notes = EXCLUDED.notes
		WHERE wellness_logs.user_id = EXCLUDED.user_id
		RETURNING id::text
	`, id, l.UserID, l.Date, l.SleepDuration, l.SorenessLevel, l.EnergyMood, l.Notes).Scan(&stored)
	return stored, err
}

func (r *LogRepository) SaveNutritionLog(ctx context.Context, id *string, l mapper.NutritionLogRecord) (string, error) {
	var stored string
	err := r.db.QueryRow(ctx, `
		INSERT INTO nutrition_logs (id, user_id, date, meal_name, description, is_completed, macros)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			meal_name = EXCLUDED.meal_name,
			description = EXCLUDED.description,
			is_completed = EXCLUDED.is_completed,
			macros = EXCLUDED.macros
		WHERE nutrition_logs.user_id = EXCLUDED.user_id
		RETURNING id::text
	`, id, l.UserID, l.Date, l.MealName, l.Description, l.IsCompleted, l.Macros).Scan(&stored)
	return stored, err
}

func (r *LogRepository) AttachVideo(ctx context.Context, logID, userID, videoURL string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE workout_logs
		SET video_url = $3
		WHERE id = $1 AND user_id = $2
	`, logID, userID, videoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CreateVideoFeedback stores the coach's comment and links it to the log in one statement.
func (r *LogRepository) CreateVideoFeedback(ctx context.Context, logID, coachID, comment string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		WITH feedback AS (
			INSERT INTO video_feedback (workout_log_id, coach_id, comment)
			SELECT l.id, $2, $3
			FROM workout_logs l
			JOIN profiles p ON p.id = l.user_id
			WHERE l.id = $1 AND p.coach_id = $2
			RETURNING id, workout_log_id
		)
		UPDATE workout_logs
		SET video_feedback_id = feedback.id
		FROM feedback
		WHERE workout_logs.id = feedback.workout_log_id
		RETURNING feedback.id::text
	`, logID, coachID, comment).Scan(&id)
	return id, err
}
