package mapper

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/saeid-a/FitProBack/internal/models"
)

func TestMeasurementRoundTrip(t *testing.T) {
	m := fullProfile().Measurements[0]

	rec := MeasurementToStorage(m, "u1")
	if rec.UserID != "u1" || rec.ArmLeft == nil || *rec.ArmLeft != 29.5 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if got := MeasurementFromStorage(rec); !reflect.DeepEqual(got, m) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", got, m)
	}
}

func TestMeasurementRecordKeepsNulls(t *testing.T) {
	rec := MeasurementRecord{UserID: "u1", Date: "2024-06-01"}

	m := MeasurementFromStorage(rec)
	if m.Weight != nil || m.BodyFat != nil || m.ArmLeft != nil {
		t.Fatalf("expected absent values to stay absent, got %+v", m)
	}
	if got := MeasurementToStorage(m, "u1"); !reflect.DeepEqual(got, rec) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", got, rec)
	}
}

func TestWellnessLogRecordKeepsNulls(t *testing.T) {
	rec := WellnessLogRecord{ID: "wl1", UserID: "u1", Date: "2024-06-01", SorenessLevel: floatPtr(2)}

	l := WellnessLogFromStorage(rec)
	if l.SleepDuration != nil || l.EnergyMood != nil {
		t.Fatalf("expected missing sleep and mood to stay absent, got %+v", l)
	}
	if got := WellnessLogToStorage(l, "u1"); !reflect.DeepEqual(got, rec) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", got, rec)
	}
}

func TestExerciseFromStorageFillsEmptyLists(t *testing.T) {
	e := ExerciseFromStorage(ExerciseRecord{ID: "x", NameEn: "Row"})
	if e.PrimaryMuscles == nil || e.SecondaryMuscles == nil || e.Instructions == nil || e.SafetyNotes == nil {
		t.Fatalf("expected empty lists, got %+v", e)
	}
}

func TestPlanPassesOpaqueBlobsThrough(t *testing.T) {
	days := json.RawMessage(`[{"id":"d1","exercises":[{"exerciseId":"sq_back_high","sets":5}]}]`)
	tmpl := json.RawMessage(`[{"id":"meal1","mealName":"Breakfast","macros":{"calories":500,"protein":30,"carbs":60,"fats":12}}]`)
	plan := models.WorkoutPlan{
		ID:                "p1",
		UserID:            "c1",
		TraineeID:         "t1",
		CreatorID:         "c1",
		Name:              "Hypertrophy",
		StartDate:         "2024-06-01",
		WeeksCount:        8,
		Days:              days,
		NutritionTemplate: tmpl,
		IsActive:          true,
		CreatedAt:         "2024-06-01T10:00:00Z",
	}

	rec := PlanToStorage(plan)
	if string(rec.Days) != string(days) || string(rec.NutritionTemplate) != string(tmpl) {
		t.Fatal("expected blobs to be passed through unchanged")
	}
	if rec.TraineeID == nil || *rec.TraineeID != "t1" {
		t.Fatalf("expected trainee id, got %v", rec.TraineeID)
	}

	if got := PlanFromStorage(rec); !reflect.DeepEqual(got, plan) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", got, plan)
	}

	meals, err := plan.MealTemplates()
	if err != nil {
		t.Fatalf("MealTemplates: %v", err)
	}
	if len(meals) != 1 || meals[0].Macros == nil || meals[0].Macros.Calories != 500 {
		t.Fatalf("unexpected meals: %+v", meals)
	}
}

func TestPlanToStorageDefaultsEmptyBlobs(t *testing.T) {
	rec := PlanToStorage(models.WorkoutPlan{Name: "Empty"})
	if string(rec.Days) != "[]" || string(rec.NutritionTemplate) != "[]" {
		t.Fatalf("expected empty json arrays, got %s / %s", rec.Days, rec.NutritionTemplate)
	}
	if rec.TraineeID != nil || rec.Description != nil {
		t.Fatal("expected absent optional columns to be nil")
	}
}

func TestLogMappers(t *testing.T) {
	w := models.WorkoutLog{ID: "w1", UserID: "u1", TargetID: "sq_back_high", Date: "2024-06-01", SetNumber: 1, Reps: 5, Weight: 100, RPE: 8, RestTime: 120}
	if got := WorkoutLogFromStorage(WorkoutLogToStorage(w, "u1")); !reflect.DeepEqual(got, w) {
		t.Fatalf("workout log mismatch: %+v", got)
	}

	wl := models.WellnessLog{ID: "wl1", UserID: "u1", Date: "2024-06-01", SleepDuration: floatPtr(6.5), SorenessLevel: floatPtr(3), EnergyMood: floatPtr(7), Notes: "ok"}
	if got := WellnessLogFromStorage(WellnessLogToStorage(wl, "u1")); !reflect.DeepEqual(got, wl) {
		t.Fatalf("wellness log mismatch: %+v", got)
	}

	n := models.NutritionLog{ID: "n1", UserID: "u1", Date: "2024-06-01", MealName: "Lunch", IsCompleted: true, Macros: &models.Macros{Calories: 700}}
	if got := NutritionLogFromStorage(NutritionLogToStorage(n, "u1")); !reflect.DeepEqual(got, n) {
		t.Fatalf("nutrition log mismatch: %+v", got)
	}
}
