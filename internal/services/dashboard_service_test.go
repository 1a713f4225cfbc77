package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/saeid-a/FitProBack/internal/dashboard"
	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
)

type stubPlanNames struct {
	names map[string]string
	err   error
}

func (s *stubPlanNames) ActivePlanNamesByCoach(_ context.Context, _ string) (map[string]string, error) {
	return s.names, s.err
}

func verifiedCoach(id string) *mapper.ProfileRecord {
	rec := profileRecord(id, models.RoleCoach)
	rec.VerificationStatus = ptrTo("Verified")
	return rec
}

func TestListTraineesGate(t *testing.T) {
	pendingCoach := profileRecord("c2", models.RoleCoach)
	profiles := newStubProfileStore(pendingCoach, profileRecord("t1", models.RoleTrainee))
	svc := NewDashboardService(profiles, &stubLogStore{}, &stubMeasurementStore{}, &stubPlanNames{})

	if _, err := svc.ListTrainees(context.Background(), "t1", dashboard.Options{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a trainee, got %v", err)
	}
	if _, err := svc.ListTrainees(context.Background(), "c2", dashboard.Options{}); !errors.Is(err, ErrCoachNotVerified) {
		t.Fatalf("expected ErrCoachNotVerified, got %v", err)
	}
	if _, err := svc.ListTrainees(context.Background(), "ghost", dashboard.Options{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTraineesBuildsSummaries(t *testing.T) {
	active := profileRecord("t1", models.RoleTrainee)
	active.SubscriptionStatus = ptrTo("Active")
	idle := profileRecord("t2", models.RoleTrainee)

	profiles := newStubProfileStore(verifiedCoach("c1"))
	profiles.byCoach = []mapper.ProfileRecord{*active, *idle}

	logs := &stubLogStore{}
	for i := range 45 {
		logs.workouts = append(logs.workouts, mapper.WorkoutLogRecord{
			ID:       fmt.Sprintf("w%d", i),
			UserID:   "t1",
			TargetID: "sq_back_high",
			Date:     "2024-05-01",
			Reps:     5,
			Weight:   100,
		})
	}
	logs.workouts = append(logs.workouts, mapper.WorkoutLogRecord{ID: "stranger", UserID: "x9", Date: "2024-05-09"})
	logs.nutrition = []mapper.NutritionLogRecord{
		{ID: "n1", UserID: "t1", Date: "2024-05-01", MealName: "Lunch", IsCompleted: true},
		{ID: "n2", UserID: "t1", Date: "2024-05-01", MealName: "Dinner"},
	}

	svc := NewDashboardService(profiles, logs, &stubMeasurementStore{}, &stubPlanNames{names: map[string]string{"t1": "Strength Block"}})
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC) }

	entries, err := svc.ListTrainees(context.Background(), "c1", dashboard.Options{})
	if err != nil {
		t.Fatalf("list trainees: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two trainees, got %d", len(entries))
	}

	if entries[0].ID != "t2" || entries[0].Risk != dashboard.RiskRed {
		t.Fatalf("expected idle trainee first as RED, got %+v", entries[0])
	}
	if entries[0].PlanName != "برنامه فعال" || entries[0].LastActive != "Inactive" {
		t.Fatalf("unexpected defaults for idle trainee: %+v", entries[0].TraineeSummary)
	}

	got := entries[1]
	if got.ID != "t1" || got.ConsistencyScore != 90 || got.Status != models.StatusOnTrack {
		t.Fatalf("unexpected active trainee summary %+v", got.TraineeSummary)
	}
	if got.PlanName != "Strength Block" || got.PaymentStatus != models.SubscriptionActive {
		t.Fatalf("unexpected plan or payment status %+v", got.TraineeSummary)
	}
	if got.NutritionAdherence == nil || *got.NutritionAdherence != 50 {
		t.Fatalf("expected 50%% nutrition adherence, got %v", got.NutritionAdherence)
	}
}

func TestListTraineesFailingReadIsEmpty(t *testing.T) {
	profiles := newStubProfileStore(verifiedCoach("c1"))
	profiles.byCoachErr = errStubFailure
	svc := NewDashboardService(profiles, &stubLogStore{}, &stubMeasurementStore{}, &stubPlanNames{})

	entries, err := svc.ListTrainees(context.Background(), "c1", dashboard.Options{})
	if err != nil {
		t.Fatalf("list trainees: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dashboard, got %+v", entries)
	}
}
