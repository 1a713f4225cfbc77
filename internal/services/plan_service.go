package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/repository"
)

type planStore interface {
	GetActiveForUser(ctx context.Context, userID string) (*mapper.PlanRecord, error)
}

type profileGetter interface {
	GetByID(ctx context.Context, id string) (*mapper.ProfileRecord, error)
}

type PlanService struct {
	db       txBeginner
	plans    planStore
	profiles profileGetter
	now      func() time.Time
}

func NewPlanService(db txBeginner, plans planStore, profiles profileGetter) *PlanService {
	return &PlanService{
		db:       db,
		plans:    plans,
		profiles: profiles,
		now:      time.Now,
	}
}

// SavePlan stores a plan authored by actorID. A plan assigned to somebody
// else must target a trainee connected to the authoring coach. Saving an active
// plan retires the target's previous active plans.
func (s *PlanService) SavePlan(ctx context.Context, actorID string, plan models.WorkoutPlan) (*models.WorkoutPlan, error) {
	plan.Name = strings.TrimSpace(plan.Name)
	if plan.Name == "" || plan.WeeksCount < 0 {
		return nil, ErrInvalidInput
	}
	if !validBlob(plan.Days) || !validBlob(plan.NutritionTemplate) {
		return nil, ErrInvalidInput
	}
	if _, err := plan.MealTemplates(); err != nil {
		return nil, ErrInvalidInput
	}
	if plan.WeeksCount == 0 {
		plan.WeeksCount = 1
	}
	if plan.StartDate == "" {
		plan.StartDate = s.now().UTC().Format(time.DateOnly)
	}

	plan.ID = ""
	plan.UserID = actorID
	plan.CreatorID = actorID
	if plan.TraineeID == actorID {
		plan.TraineeID = ""
	}
	if plan.TraineeID != "" {
		if err := s.authorizeAssignment(ctx, actorID, plan.TraineeID); err != nil {
			return nil, err
		}
	}

	target := plan.TraineeID
	if target == "" {
		target = actorID
	}

	var stored *mapper.PlanRecord
	err := withTx(ctx, s.db, func(tx pgx.Tx) error {
		plans := repository.NewPlanRepository(tx)
		if plan.IsActive {
			if err := plans.DeactivateForTrainee(ctx, target); err != nil {
				return err
			}
		}
		var err error
		stored, err = plans.Create(ctx, mapper.PlanToStorage(plan))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	saved := mapper.PlanFromStorage(*stored)
	return &saved, nil
}

func (s *PlanService) authorizeAssignment(ctx context.Context, coachID, traineeID string) error {
	rec, err := s.profiles.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	trainee := mapper.ProfileFromStorage(*rec)
	if trainee.CoachID != coachID || trainee.CoachConnectStatus != models.ConnectConnected {
		return ErrForbidden
	}
	return nil
}

// GetActivePlan returns the newest active plan the user owns or is assigned.
// No plan, or a failing read, yields nil.
func (s *PlanService) GetActivePlan(ctx context.Context, userID string) (*models.WorkoutPlan, error) {
	rec, err := s.plans.GetActiveForUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			slog.Error("fetch active plan", "user_id", userID, "error", err)
		}
		return nil, nil
	}
	plan := mapper.PlanFromStorage(*rec)
	return &plan, nil
}

func validBlob(raw json.RawMessage) bool {
	return len(raw) == 0 || json.Valid(raw)
}
