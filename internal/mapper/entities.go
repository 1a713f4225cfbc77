package mapper

import (
	"time"

	"github.com/saeid-a/FitProBack/internal/models"
)

func MeasurementFromStorage(rec MeasurementRecord) models.AnthropometryLog {
	m := models.AnthropometryLog{
		LogID:         str(rec.ID),
		Date:          rec.Date,
		Weight:        rec.Weight,
		BodyFat:       rec.BodyFat,
		Chest:         rec.Chest,
		Waist:         rec.Waist,
		Shoulders:     rec.Shoulders,
		ArmRight:      rec.ArmRight,
		ArmLeft:       rec.ArmLeft,
		ThighRight:    rec.ThighRight,
		ThighLeft:     rec.ThighLeft,
		CalfRight:     rec.CalfRight,
		CalfLeft:      rec.CalfLeft,
		PhotoFrontURI: str(rec.PhotoFrontURI),
		PhotoSideURI:  str(rec.PhotoSideURI),
		PhotoBackURI:  str(rec.PhotoBackURI),
	}
	return m
}

// MeasurementToStorage attaches the owning user. Client-side placeholder ids
// (prefix "init") are left to the repository to discard.
func MeasurementToStorage(m models.AnthropometryLog, userID string) MeasurementRecord {
	return MeasurementRecord{
		ID:            ptr(m.LogID),
		UserID:        userID,
		Date:          m.Date,
		Weight:        m.Weight,
		BodyFat:       m.BodyFat,
		Chest:         m.Chest,
		Waist:         m.Waist,
		Shoulders:     m.Shoulders,
		ArmRight:      m.ArmRight,
		ArmLeft:       m.ArmLeft,
		ThighRight:    m.ThighRight,
		ThighLeft:     m.ThighLeft,
		CalfRight:     m.CalfRight,
		CalfLeft:      m.CalfLeft,
		PhotoFrontURI: ptr(m.PhotoFrontURI),
		PhotoSideURI:  ptr(m.PhotoSideURI),
		PhotoBackURI:  ptr(m.PhotoBackURI),
	}
}

func ExerciseFromStorage(rec ExerciseRecord) models.ExerciseDefinition {
	return models.ExerciseDefinition{
		ID:               rec.ID,
		NameEn:           rec.NameEn,
		NameFa:           str(rec.NameFa),
		MuscleGroup:      str(rec.MuscleGroup),
		Equipment:        str(rec.Equipment),
		Mechanics:        str(rec.Mechanics),
		Difficulty:       str(rec.Difficulty),
		MovementPattern:  str(rec.MovementPattern),
		PrimaryMuscles:   nonNil(rec.PrimaryMuscles),
		SecondaryMuscles: nonNil(rec.SecondaryMuscles),
		Instructions:     nonNil(rec.Instructions),
		SafetyNotes:      nonNil(rec.SafetyNotes),
	}
}

func ExerciseToStorage(e models.ExerciseDefinition, userID string) ExerciseRecord {
	return ExerciseRecord{
		ID:               e.ID,
		UserID:           userID,
		NameEn:           e.NameEn,
		NameFa:           ptr(e.NameFa),
		MuscleGroup:      ptr(e.MuscleGroup),
		Equipment:        ptr(e.Equipment),
		Mechanics:        ptr(e.Mechanics),
		Difficulty:       ptr(e.Difficulty),
		MovementPattern:  ptr(e.MovementPattern),
		PrimaryMuscles:   nonNil(e.PrimaryMuscles),
		SecondaryMuscles: nonNil(e.SecondaryMuscles),
		Instructions:     nonNil(e.Instructions),
		SafetyNotes:      nonNil(e.SafetyNotes),
	}
}

// PlanFromStorage passes days and nutrition template through untouched.
func PlanFromStorage(rec PlanRecord) models.WorkoutPlan {
	plan := models.WorkoutPlan{
		ID:                rec.ID,
		UserID:            rec.UserID,
		TraineeID:         str(rec.TraineeID),
		CreatorID:         rec.CreatorID,
		Name:              rec.Name,
		Description:       str(rec.Description),
		StartDate:         rec.StartDate,
		WeeksCount:        rec.WeeksCount,
		Days:              rec.Days,
		NutritionTemplate: rec.NutritionTemplate,
		IsActive:          rec.IsActive,
	}
	if rec.CreatedAt != nil {
		plan.CreatedAt = rec.CreatedAt.UTC().Format(time.RFC3339)
	}
	return plan
}

func PlanToStorage(p models.WorkoutPlan) PlanRecord {
	rec := PlanRecord{
		ID:                p.ID,
		UserID:            p.UserID,
		TraineeID:         ptr(p.TraineeID),
		CreatorID:         p.CreatorID,
		Name:              p.Name,
		Description:       ptr(p.Description),
		StartDate:         p.StartDate,
		WeeksCount:        p.WeeksCount,
		Days:              p.Days,
		NutritionTemplate: p.NutritionTemplate,
		IsActive:          p.IsActive,
	}
	if len(rec.Days) == 0 {
		rec.Days = []byte("[]")
	}
	if len(rec.NutritionTemplate) == 0 {
		rec.NutritionTemplate = []byte("[]")
	}
	if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		rec.CreatedAt = &t
	}
	return rec
}

func WorkoutLogFromStorage(rec WorkoutLogRecord) models.WorkoutLog {
	l := models.WorkoutLog{
		ID:              rec.ID,
		UserID:          rec.UserID,
		TargetID:        rec.TargetID,
		Date:            rec.Date,
		SetNumber:       rec.SetNumber,
		Reps:            rec.Reps,
		Weight:          rec.Weight,
		VideoURL:        str(rec.VideoURL),
		VideoFeedbackID: str(rec.VideoFeedbackID),
	}
	if rec.RPE != nil {
		l.RPE = *rec.RPE
	}
	if rec.RestTime != nil {
		l.RestTime = *rec.RestTime
	}
	return l
}

func WorkoutLogToStorage(l models.WorkoutLog, userID string) WorkoutLogRecord {
	rpe, rest := l.RPE, l.RestTime
	return WorkoutLogRecord{
		ID:              l.ID,
		UserID:          userID,
		TargetID:        l.TargetID,
		Date:            l.Date,
		SetNumber:       l.SetNumber,
		Reps:            l.Reps,
		Weight:          l.Weight,
		RPE:             &rpe,
		RestTime:        &rest,
		VideoURL:        ptr(l.VideoURL),
		VideoFeedbackID: ptr(l.VideoFeedbackID),
	}
}

func WellnessLogFromStorage(rec WellnessLogRecord) models.WellnessLog {
	return models.WellnessLog{
		ID:            rec.ID,
		UserID:        rec.UserID,
		Date:          rec.Date,
		SleepDuration: rec.SleepDuration,
		SorenessLevel: rec.SorenessLevel,
		EnergyMood:    rec.EnergyMood,
		Notes:         str(rec.Notes),
	}
}

func WellnessLogToStorage(l models.WellnessLog, userID string) WellnessLogRecord {
	return WellnessLogRecord{
		ID:            l.ID,
		UserID:        userID,
		Date:          l.Date,
		SleepDuration: l.SleepDuration,
		SorenessLevel: l.SorenessLevel,
		EnergyMood:    l.EnergyMood,
		Notes:         ptr(l.Notes),
	}
}

func NutritionLogFromStorage(rec NutritionLogRecord) models.NutritionLog {
	return models.NutritionLog{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Date:        rec.Date,
		MealName:    rec.MealName,
		Description: str(rec.Description),
		IsCompleted: rec.IsCompleted,
		Macros:      rec.Macros,
	}
}

func NutritionLogToStorage(l models.NutritionLog, userID string) NutritionLogRecord {
	return NutritionLogRecord{
		ID:          l.ID,
		UserID:      userID,
		Date:        l.Date,
		MealName:    l.MealName,
		Description: ptr(l.Description),
		IsCompleted: l.IsCompleted,
		Macros:      l.Macros,
	}
}

func nonNil(v []string) []string {
	if len(v) == 0 {
		return []string{}
	}
	return append([]string(nil), v...)
}
