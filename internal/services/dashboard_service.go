package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/dashboard"
	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
)

type traineeStore interface {
	GetByID(ctx context.Context, id string) (*mapper.ProfileRecord, error)
	ListByCoach(ctx context.Context, coachID string) ([]mapper.ProfileRecord, error)
}

type coachLogStore interface {
	ListWorkoutLogsByCoach(ctx context.Context, coachID string) ([]mapper.WorkoutLogRecord, error)
	ListWellnessLogsByCoach(ctx context.Context, coachID string) ([]mapper.WellnessLogRecord, error)
	ListNutritionLogsByCoach(ctx context.Context, coachID string) ([]mapper.NutritionLogRecord, error)
}

type coachMeasurementStore interface {
	ListByCoach(ctx context.Context, coachID string) ([]mapper.MeasurementRecord, error)
}

type coachPlanStore interface {
	ActivePlanNamesByCoach(ctx context.Context, coachID string) (map[string]string, error)
}

type DashboardService struct {
	profiles     traineeStore
	logs         coachLogStore
	measurements coachMeasurementStore
	plans        coachPlanStore
	now          func() time.Time
}

func NewDashboardService(
	profiles traineeStore,
	logs coachLogStore,
	measurements coachMeasurementStore,
	plans coachPlanStore,
) *DashboardService {
	return &DashboardService{
		profiles:     profiles,
		logs:         logs,
		measurements: measurements,
		plans:        plans,
		now:          time.Now,
	}
}

// ListTrainees builds the coach dashboard: one summary per connected trainee,
// recomputed from the raw logs, then filtered and sorted. Only verified
// coaches get trainee data.
func (s *DashboardService) ListTrainees(ctx context.Context, coachID string, opts dashboard.Options) ([]dashboard.Entry, error) {
	rec, err := s.profiles.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	coach := mapper.ProfileFromStorage(*rec)
	if !coach.IsCoach() {
		return nil, ErrForbidden
	}
	if coach.VerificationStatus != models.VerificationVerified {
		return nil, ErrCoachNotVerified
	}

	summaries := s.summaries(ctx, coachID)
	return dashboard.BuildView(summaries, opts), nil
}

func (s *DashboardService) summaries(ctx context.Context, coachID string) []models.TraineeSummary {
	trainees, err := s.profiles.ListByCoach(ctx, coachID)
	if err != nil {
		slog.Error("fetch coach trainees", "coach_id", coachID, "error", err)
		return []models.TraineeSummary{}
	}
	if len(trainees) == 0 {
		return []models.TraineeSummary{}
	}

	activity := make(map[string]*dashboard.Activity, len(trainees))
	order := make([]string, 0, len(trainees))
	for _, t := range trainees {
		activity[t.ID] = &dashboard.Activity{Profile: mapper.ProfileFromStorage(t)}
		order = append(order, t.ID)
	}

	workouts, err := s.logs.ListWorkoutLogsByCoach(ctx, coachID)
	if err != nil {
		slog.Error("fetch trainee workout logs", "coach_id", coachID, "error", err)
	}
	for _, l := range workouts {
		if a, ok := activity[l.UserID]; ok {
			a.WorkoutLogs = append(a.WorkoutLogs, mapper.WorkoutLogFromStorage(l))
		}
	}

	wellness, err := s.logs.ListWellnessLogsByCoach(ctx, coachID)
	if err != nil {
		slog.Error("fetch trainee wellness logs", "coach_id", coachID, "error", err)
	}
	for _, l := range wellness {
		if a, ok := activity[l.UserID]; ok {
			a.WellnessLogs = append(a.WellnessLogs, mapper.WellnessLogFromStorage(l))
		}
	}

	meals, err := s.logs.ListNutritionLogsByCoach(ctx, coachID)
	if err != nil {
		slog.Error("fetch trainee nutrition logs", "coach_id", coachID, "error", err)
	}
	for _, l := range meals {
		if a, ok := activity[l.UserID]; ok {
			a.NutritionLogs = append(a.NutritionLogs, mapper.NutritionLogFromStorage(l))
		}
	}

	measurements, err := s.measurements.ListByCoach(ctx, coachID)
	if err != nil {
		slog.Error("fetch trainee measurements", "coach_id", coachID, "error", err)
	}
	for _, m := range measurements {
		if a, ok := activity[m.UserID]; ok {
			a.Profile.Measurements = append(a.Profile.Measurements, mapper.MeasurementFromStorage(m))
		}
	}

	planNames, err := s.plans.ActivePlanNamesByCoach(ctx, coachID)
	if err != nil {
		slog.Error("fetch trainee plans", "coach_id", coachID, "error", err)
	}

	now := s.now()
	out := make([]models.TraineeSummary, 0, len(order))
	for _, id := range order {
		a := activity[id]
		a.ActivePlanName = planNames[id]
		out = append(out, dashboard.BuildSummary(*a, now))
	}
	return out
}
