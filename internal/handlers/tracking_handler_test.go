package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/nutrition"
)

type stubTracking struct {
	summaryDate string
	videoLogID  string
	videoName   string
	videoBody   string
}

func (s *stubTracking) GetLogs(context.Context, string) models.UserLogs {
	return models.UserLogs{}
}

func (s *stubTracking) SaveLogs(_ context.Context, _ string, in models.UserLogs) (models.UserLogs, error) {
	return in, nil
}

func (s *stubTracking) NutritionSummary(_ context.Context, _ string, date string) nutrition.DaySummary {
	s.summaryDate = date
	return nutrition.DaySummary{Date: date}
}

func (s *stubTracking) UploadWorkoutVideo(_ context.Context, _, logID string, file io.Reader, filename string) (string, error) {
	body, _ := io.ReadAll(file)
	s.videoLogID, s.videoName, s.videoBody = logID, filename, string(body)
	return "https://cdn.example.com/videos/" + filename, nil
}

func (s *stubTracking) AddVideoFeedback(_ context.Context, coachID, logID, comment string) (*models.VideoFeedback, error) {
	return &models.VideoFeedback{}, nil
}

func multipartRequest(t *testing.T, path, field, filename, content string, values map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadWorkoutVideo(t *testing.T) {
	tracking := &stubTracking{}
	handler := NewTrackingHandler(tracking)

	app := newTestApp("user-1", string(models.RoleTrainee))
	app.Post("/workout-videos", handler.UploadWorkoutVideo)

	req := multipartRequest(t, "/workout-videos", "video", "squat.MP4", "frames", map[string]string{"workoutLogId": "log-7"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if tracking.videoLogID != "log-7" || tracking.videoName != "squat.MP4" || tracking.videoBody != "frames" {
		t.Fatalf("unexpected upload: %+v", tracking)
	}
}

func TestUploadWorkoutVideoChecksFile(t *testing.T) {
	handler := NewTrackingHandler(&stubTracking{})

	app := newTestApp("user-1", string(models.RoleTrainee))
	app.Post("/workout-videos", handler.UploadWorkoutVideo)

	tests := []struct {
		name     string
		filename string
	}{
		{name: "missing", filename: ""},
		{name: "wrong type", filename: "notes.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(multipartRequest(t, "/workout-videos", "video", tt.filename, "data", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestNutritionSummaryValidatesDate(t *testing.T) {
	tracking := &stubTracking{}
	handler := NewTrackingHandler(tracking)

	app := newTestApp("user-1", string(models.RoleTrainee))
	app.Get("/nutrition/summary", handler.NutritionSummary)

	if resp := doJSON(t, app, http.MethodGet, "/nutrition/summary?date=03/01/2024", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/nutrition/summary?date=2024-03-01", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if tracking.summaryDate != "2024-03-01" {
		t.Fatalf("expected date to reach the service, got %q", tracking.summaryDate)
	}
}
