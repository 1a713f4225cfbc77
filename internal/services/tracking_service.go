package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/nutrition"
)

// Client-side placeholder id prefixes of not yet stored logs.
const (
	newWorkoutLogPrefix   = "new_"
	newWellnessLogPrefix  = "wl_"
	newNutritionLogPrefix = "log_"

	maxFeedbackLength = 2000
)

type logStore interface {
	ListWorkoutLogs(ctx context.Context, userID string) ([]mapper.WorkoutLogRecord, error)
	ListWellnessLogs(ctx context.Context, userID string) ([]mapper.WellnessLogRecord, error)
	ListNutritionLogs(ctx context.Context, userID string) ([]mapper.NutritionLogRecord, error)
	SaveWorkoutLog(ctx context.Context, id *string, l mapper.WorkoutLogRecord) (string, error)
	SaveWellnessLog(ctx context.Context, id *string, l mapper.WellnessLogRecord) (string, error)
	SaveNutritionLog(ctx context.Context, id *string, l mapper.NutritionLogRecord) (string, error)
	AttachVideo(ctx context.Context, logID, userID, videoURL string) error
	CreateVideoFeedback(ctx context.Context, logID, coachID, comment string) (string, error)
}

type activePlanReader interface {
	GetActivePlan(ctx context.Context, userID string) (*models.WorkoutPlan, error)
}

type TrackingService struct {
	logs    logStore
	plans   activePlanReader
	storage StorageService
	now     func() time.Time
}

func NewTrackingService(logs logStore, plans activePlanReader, storage StorageService) *TrackingService {
	return &TrackingService{
		logs:    logs,
		plans:   plans,
		storage: storage,
		now:     time.Now,
	}
}

// GetLogs returns every daily log of the user. Failed reads are logged and
// come back as empty lists.
func (s *TrackingService) GetLogs(ctx context.Context, userID string) models.UserLogs {
	out := models.UserLogs{
		WorkoutLogs:   []models.WorkoutLog{},
		WellnessLogs:  []models.WellnessLog{},
		NutritionLogs: []models.NutritionLog{},
	}

	workouts, err := s.logs.ListWorkoutLogs(ctx, userID)
	if err != nil {
		slog.Error("fetch workout logs", "user_id", userID, "error", err)
	}
	for _, rec := range workouts {
		out.WorkoutLogs = append(out.WorkoutLogs, mapper.WorkoutLogFromStorage(rec))
	}

	wellness, err := s.logs.ListWellnessLogs(ctx, userID)
	if err != nil {
		slog.Error("fetch wellness logs", "user_id", userID, "error", err)
	}
	for _, rec := range wellness {
		out.WellnessLogs = append(out.WellnessLogs, mapper.WellnessLogFromStorage(rec))
	}

	out.NutritionLogs = s.nutritionLogs(ctx, userID)
	return out
}

func (s *TrackingService) nutritionLogs(ctx context.Context, userID string) []models.NutritionLog {
	records, err := s.logs.ListNutritionLogs(ctx, userID)
	if err != nil {
		slog.Error("fetch nutrition logs", "user_id", userID, "error", err)
	}
	out := make([]models.NutritionLog, 0, len(records))
	for _, rec := range records {
		out = append(out, mapper.NutritionLogFromStorage(rec))
	}
	return out
}

// SaveLogs upserts the given logs and returns them with their stored ids.
// Logs carrying a client placeholder id are inserted as new rows.
func (s *TrackingService) SaveLogs(ctx context.Context, userID string, in models.UserLogs) (models.UserLogs, error) {
	out := models.UserLogs{
		WorkoutLogs:   make([]models.WorkoutLog, 0, len(in.WorkoutLogs)),
		WellnessLogs:  make([]models.WellnessLog, 0, len(in.WellnessLogs)),
		NutritionLogs: make([]models.NutritionLog, 0, len(in.NutritionLogs)),
	}

	for _, l := range in.WorkoutLogs {
		if strings.TrimSpace(l.Date) == "" || strings.TrimSpace(l.TargetID) == "" {
			return out, ErrInvalidInput
		}
		id, err := s.logs.SaveWorkoutLog(ctx, storedID(l.ID, newWorkoutLogPrefix), mapper.WorkoutLogToStorage(l, userID))
		if err != nil {
			return out, saveLogError("workout", err)
		}
		l.ID, l.UserID = id, userID
		out.WorkoutLogs = append(out.WorkoutLogs, l)
	}

	for _, l := range in.WellnessLogs {
		if strings.TrimSpace(l.Date) == "" {
			return out, ErrInvalidInput
		}
		id, err := s.logs.SaveWellnessLog(ctx, storedID(l.ID, newWellnessLogPrefix), mapper.WellnessLogToStorage(l, userID))
		if err != nil {
			return out, saveLogError("wellness", err)
		}
		l.ID, l.UserID = id, userID
		out.WellnessLogs = append(out.WellnessLogs, l)
	}

	saved, err := s.saveNutritionLogs(ctx, userID, in.NutritionLogs)
	out.NutritionLogs = saved
	return out, err
}

func (s *TrackingService) saveNutritionLogs(ctx context.Context, userID string, logs []models.NutritionLog) ([]models.NutritionLog, error) {
	out := make([]models.NutritionLog, 0, len(logs))
	for _, l := range logs {
		if strings.TrimSpace(l.Date) == "" || strings.TrimSpace(l.MealName) == "" {
			return out, ErrInvalidInput
		}
		id, err := s.logs.SaveNutritionLog(ctx, storedID(l.ID, newNutritionLogPrefix), mapper.NutritionLogToStorage(l, userID))
		if err != nil {
			return out, saveLogError("nutrition", err)
		}
		l.ID, l.UserID = id, userID
		out = append(out, l)
	}
	return out, nil
}

// A conflicting id that belongs to another user matches no row.
func saveLogError(kind string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrForbidden
	}
	return fmt.Errorf("save %s log: %w", kind, err)
}

// storedID is nil for client placeholder ids, which makes the store insert.
func storedID(id, prefix string) *string {
	if isClientID(id, prefix) {
		return nil
	}
	return &id
}

func (s *TrackingService) NutritionSummary(ctx context.Context, userID, date string) nutrition.DaySummary {
	if date == "" {
		date = s.now().UTC().Format(time.DateOnly)
	}
	return nutrition.Summarize(date, nutrition.ForDate(s.nutritionLogs(ctx, userID), date))
}

// SeedNutritionDay creates the day's meal logs from the active plan's
// nutrition template. A day that already has logs is returned unchanged.
func (s *TrackingService) SeedNutritionDay(ctx context.Context, userID, date string) ([]models.NutritionLog, error) {
	if date == "" {
		date = s.now().UTC().Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, ErrInvalidInput
	}

	if existing := nutrition.ForDate(s.nutritionLogs(ctx, userID), date); len(existing) > 0 {
		return existing, nil
	}

	plan, err := s.plans.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	meals, err := plan.MealTemplates()
	if err != nil {
		return nil, fmt.Errorf("seed nutrition day: %w", err)
	}

	return s.saveNutritionLogs(ctx, userID, nutrition.SeedDay(userID, date, meals))
}

// UploadWorkoutVideo stores a set video and, when logID is given, links it
// to the user's workout log.
func (s *TrackingService) UploadWorkoutVideo(ctx context.Context, userID, logID string, file io.Reader, filename string) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}
	if file == nil {
		return "", ErrInvalidInput
	}

	videoURL, err := s.storage.UploadFile(ctx, file, uploadName(filename, s.now()), userFolder(workoutVideosFolder, userID))
	if err != nil {
		return "", err
	}
	if logID == "" {
		return videoURL, nil
	}

	if err := s.logs.AttachVideo(ctx, logID, userID, videoURL); err != nil {
		if cleanupErr := s.storage.DeleteFile(ctx, videoURL); cleanupErr != nil {
			err = errors.Join(err, fmt.Errorf("cleanup failed: %w", cleanupErr))
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return videoURL, nil
}

// AddVideoFeedback records a coach's comment on a connected trainee's set.
func (s *TrackingService) AddVideoFeedback(ctx context.Context, coachID, logID, comment string) (*models.VideoFeedback, error) {
	comment = strings.TrimSpace(comment)
	if logID == "" || comment == "" || len(comment) > maxFeedbackLength {
		return nil, ErrInvalidInput
	}

	id, err := s.logs.CreateVideoFeedback(ctx, logID, coachID, comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &models.VideoFeedback{
		ID:           id,
		WorkoutLogID: logID,
		CoachID:      coachID,
		Comment:      comment,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}, nil
}
