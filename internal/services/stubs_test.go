package services

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
)

var (
	errStubFailure   = errors.New("stub failure")
	errTxUnavailable = errors.New("transactions unavailable in unit tests")
)

func ptrTo[T any](v T) *T {
	return &v
}

func uniqueViolationErr() error {
	return &pgconn.PgError{Code: "23505"}
}

// noTxDB fails every transaction; tests use it to assert that a path is
// rejected before any write starts.
type noTxDB struct {
	begun int
}

func (db *noTxDB) Begin(context.Context) (pgx.Tx, error) {
	db.begun++
	return nil, errTxUnavailable
}

func profileRecord(id string, role models.Role) *mapper.ProfileRecord {
	return &mapper.ProfileRecord{
		ID:       id,
		Email:    ptrTo(id + "@example.com"),
		FullName: ptrTo("User " + id),
		Role:     ptrTo(string(role)),
	}
}

type stubProfileStore struct {
	profiles      map[string]*mapper.ProfileRecord
	getErr        error
	listCoaches   []mapper.ProfileRecord
	listCoachErr  error
	byCoach       []mapper.ProfileRecord
	byCoachErr    error
	upserted      []mapper.ProfileRecord
	created       []mapper.ProfileRecord
	inviteErrs    []error
	inviteCodes   []string
	verification  map[string]models.VerificationStatus
	certificates  map[string]string
	roles         map[string]models.Role
	settings      map[string]map[string]any
	avatars       map[string]string
	writeErr      error
}

func newStubProfileStore(records ...*mapper.ProfileRecord) *stubProfileStore {
	s := &stubProfileStore{
		profiles:     make(map[string]*mapper.ProfileRecord),
		verification: make(map[string]models.VerificationStatus),
		certificates: make(map[string]string),
		roles:        make(map[string]models.Role),
		settings:     make(map[string]map[string]any),
		avatars:      make(map[string]string),
	}
	for _, rec := range records {
		s.profiles[rec.ID] = rec
	}
	return s
}

func (s *stubProfileStore) GetByID(_ context.Context, id string) (*mapper.ProfileRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *rec
	return &cp, nil
}

func (s *stubProfileStore) GetByInviteCode(_ context.Context, code string) (*mapper.ProfileRecord, error) {
	for _, rec := range s.profiles {
		if rec.InviteCode != nil && *rec.InviteCode == code {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubProfileStore) ListByCoach(_ context.Context, _ string) ([]mapper.ProfileRecord, error) {
	return s.byCoach, s.byCoachErr
}

func (s *stubProfileStore) ListCoaches(_ context.Context, _ models.VerificationStatus) ([]mapper.ProfileRecord, error) {
	return s.listCoaches, s.listCoachErr
}

func (s *stubProfileStore) Create(_ context.Context, rec mapper.ProfileRecord) error {
	s.created = append(s.created, rec)
	return s.writeErr
}

func (s *stubProfileStore) Upsert(_ context.Context, rec mapper.ProfileRecord) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.upserted = append(s.upserted, rec)
	cp := rec
	s.profiles[rec.ID] = &cp
	return nil
}

func (s *stubProfileStore) UpdateVerificationStatus(_ context.Context, id string, status models.VerificationStatus) error {
	s.verification[id] = status
	return s.writeErr
}

func (s *stubProfileStore) UpdateCertificate(_ context.Context, id, certURL string, status models.VerificationStatus) error {
	s.certificates[id] = certURL
	s.verification[id] = status
	return s.writeErr
}

func (s *stubProfileStore) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	if _, ok := s.profiles[id]; !ok {
		return pgx.ErrNoRows
	}
	s.avatars[id] = avatarURL
	return s.writeErr
}

func (s *stubProfileStore) SetInviteCode(_ context.Context, _ string, code string) error {
	s.inviteCodes = append(s.inviteCodes, code)
	if len(s.inviteErrs) == 0 {
		return nil
	}
	err := s.inviteErrs[0]
	s.inviteErrs = s.inviteErrs[1:]
	return err
}

func (s *stubProfileStore) UpdateRole(_ context.Context, id string, role models.Role) error {
	if _, ok := s.profiles[id]; !ok {
		return pgx.ErrNoRows
	}
	s.roles[id] = role
	return s.writeErr
}

func (s *stubProfileStore) MergeSettings(_ context.Context, id string, patch map[string]any) error {
	if _, ok := s.profiles[id]; !ok {
		return pgx.ErrNoRows
	}
	merged := s.settings[id]
	if merged == nil {
		merged = make(map[string]any)
	}
	maps.Copy(merged, patch)
	s.settings[id] = merged
	return s.writeErr
}

type stubMeasurementStore struct {
	records []mapper.MeasurementRecord
	listErr error
	saved   []mapper.MeasurementRecord
	saveID  string
	saveErr error
}

func (s *stubMeasurementStore) ListByUser(_ context.Context, _ string) ([]mapper.MeasurementRecord, error) {
	return s.records, s.listErr
}

func (s *stubMeasurementStore) ListByCoach(_ context.Context, _ string) ([]mapper.MeasurementRecord, error) {
	return s.records, s.listErr
}

func (s *stubMeasurementStore) Save(_ context.Context, m mapper.MeasurementRecord) (string, error) {
	s.saved = append(s.saved, m)
	return s.saveID, s.saveErr
}

type stubExerciseStore struct {
	records  []mapper.ExerciseRecord
	listErr  error
	inserted []mapper.ExerciseRecord
	insertID string
}

func (s *stubExerciseStore) ListByUser(_ context.Context, _ string) ([]mapper.ExerciseRecord, error) {
	return s.records, s.listErr
}

func (s *stubExerciseStore) Insert(_ context.Context, e mapper.ExerciseRecord) (string, error) {
	s.inserted = append(s.inserted, e)
	return s.insertID, nil
}

type stubLogStore struct {
	workouts  []mapper.WorkoutLogRecord
	wellness  []mapper.WellnessLogRecord
	nutrition []mapper.NutritionLogRecord
	listErr   error

	savedWorkoutIDs   []*string
	savedWellnessIDs  []*string
	savedNutrition    []mapper.NutritionLogRecord
	savedNutritionIDs []*string
	saveErr           error
	nextID            string

	attachErr   error
	attached    []string
	feedbackID  string
	feedbackErr error
}

func (s *stubLogStore) ListWorkoutLogs(_ context.Context, _ string) ([]mapper.WorkoutLogRecord, error) {
	return s.workouts, s.listErr
}

func (s *stubLogStore) ListWellnessLogs(_ context.Context, _ string) ([]mapper.WellnessLogRecord, error) {
	return s.wellness, s.listErr
}

func (s *stubLogStore) ListNutritionLogs(_ context.Context, _ string) ([]mapper.NutritionLogRecord, error) {
	return s.nutrition, s.listErr
}

func (s *stubLogStore) ListWorkoutLogsByCoach(_ context.Context, _ string) ([]mapper.WorkoutLogRecord, error) {
	return s.workouts, s.listErr
}

func (s *stubLogStore) ListWellnessLogsByCoach(_ context.Context, _ string) ([]mapper.WellnessLogRecord, error) {
	return s.wellness, s.listErr
}

func (s *stubLogStore) ListNutritionLogsByCoach(_ context.Context, _ string) ([]mapper.NutritionLogRecord, error) {
	return s.nutrition, s.listErr
}

func (s *stubLogStore) storedID(id *string) string {
	if id != nil {
		return *id
	}
	return s.nextID
}

func (s *stubLogStore) SaveWorkoutLog(_ context.Context, id *string, _ mapper.WorkoutLogRecord) (string, error) {
	s.savedWorkoutIDs = append(s.savedWorkoutIDs, id)
	return s.storedID(id), s.saveErr
}

func (s *stubLogStore) SaveWellnessLog(_ context.Context, id *string, _ mapper.WellnessLogRecord) (string, error) {
	s.savedWellnessIDs = append(s.savedWellnessIDs, id)
	return s.storedID(id), s.saveErr
}

func (s *stubLogStore) SaveNutritionLog(_ context.Context, id *string, l mapper.NutritionLogRecord) (string, error) {
	s.savedNutritionIDs = append(s.savedNutritionIDs, id)
	s.savedNutrition = append(s.savedNutrition, l)
	return s.storedID(id), s.saveErr
}

func (s *stubLogStore) AttachVideo(_ context.Context, logID, _ string, _ string) error {
	s.attached = append(s.attached, logID)
	return s.attachErr
}

func (s *stubLogStore) CreateVideoFeedback(_ context.Context, _, _, _ string) (string, error) {
	return s.feedbackID, s.feedbackErr
}

type stubStorage struct {
	uploadURL    string
	uploadErr    error
	deleteErr    error
	lastFilename string
	lastFolder   string
	deleted      []string
}

func (s *stubStorage) UploadFile(_ context.Context, file io.Reader, filename string, folder string) (string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	s.lastFilename = filename
	s.lastFolder = folder
	return s.uploadURL, s.uploadErr
}

func (s *stubStorage) DeleteFile(_ context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return s.deleteErr
}

func (s *stubStorage) GetSignedURL(_ context.Context, fileURL string) (string, error) {
	return fileURL + "?signed", nil
}

type stubActivePlan struct {
	plan *models.WorkoutPlan
	err  error
}

func (s *stubActivePlan) GetActivePlan(_ context.Context, _ string) (*models.WorkoutPlan, error) {
	return s.plan, s.err
}

type stubMessageStore struct {
	messages  []models.DirectMessage
	listErr   error
	created   []models.DirectMessage
	createErr error
	markedFor []string
}

func (s *stubMessageStore) ListBetween(_ context.Context, _, _ string) ([]models.DirectMessage, error) {
	return slices.Clone(s.messages), s.listErr
}

func (s *stubMessageStore) Create(_ context.Context, m models.DirectMessage) (*models.DirectMessage, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, m)
	m.ID = "msg-1"
	return &m, nil
}

func (s *stubMessageStore) MarkRead(_ context.Context, receiverID, senderID string) error {
	s.markedFor = append(s.markedFor, receiverID+"<-"+senderID)
	return nil
}

type recordingPublisher struct {
	published []models.DirectMessage
}

func (p *recordingPublisher) PublishMessage(msg models.DirectMessage) {
	p.published = append(p.published, msg)
}

type stubTransactions struct {
	list []models.Transaction
	err  error
}

func (s *stubTransactions) List(context.Context) ([]models.Transaction, error) {
	return s.list, s.err
}
