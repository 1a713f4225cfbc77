package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/repository"
)

const (
	inviteCodePrefix   = "COACH_"
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeLength   = 6
	inviteCodeAttempts = 5

	// Client-side placeholder ids for rows that were never stored.
	newMeasurementPrefix = "init"
	newExercisePrefix    = "custom_"

	onboardingSettingKey = "hasSeenDashboardTour"
)

type profileStore interface {
	GetByID(ctx context.Context, id string) (*mapper.ProfileRecord, error)
	GetByInviteCode(ctx context.Context, code string) (*mapper.ProfileRecord, error)
	ListCoaches(ctx context.Context, status models.VerificationStatus) ([]mapper.ProfileRecord, error)
	Create(ctx context.Context, rec mapper.ProfileRecord) error
	Upsert(ctx context.Context, rec mapper.ProfileRecord) error
	UpdateVerificationStatus(ctx context.Context, id string, status models.VerificationStatus) error
	UpdateCertificate(ctx context.Context, id, certURL string, status models.VerificationStatus) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	SetInviteCode(ctx context.Context, id, code string) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
	MergeSettings(ctx context.Context, id string, patch map[string]any) error
}

type measurementStore interface {
	ListByUser(ctx context.Context, userID string) ([]mapper.MeasurementRecord, error)
	Save(ctx context.Context, m mapper.MeasurementRecord) (string, error)
}

type exerciseStore interface {
	ListByUser(ctx context.Context, userID string) ([]mapper.ExerciseRecord, error)
	Insert(ctx context.Context, e mapper.ExerciseRecord) (string, error)
}

type ProfileServiceConfig struct {
	FreeTraineeLimit  int
	LegacyURLFallback bool
}

type ProfileService struct {
	db               txBeginner
	profiles         profileStore
	measurements     measurementStore
	exercises        exerciseStore
	mapper           mapper.Profiles
	freeTraineeLimit int
	now              func() time.Time
}

func NewProfileService(
	db txBeginner,
	profiles profileStore,
	measurements measurementStore,
	exercises exerciseStore,
	cfg ProfileServiceConfig,
) *ProfileService {
	return &ProfileService{
		db:               db,
		profiles:         profiles,
		measurements:     measurements,
		exercises:        exercises,
		mapper:           mapper.Profiles{LegacyURLFallback: cfg.LegacyURLFallback},
		freeTraineeLimit: cfg.FreeTraineeLimit,
		now:              time.Now,
	}
}

// GetProfile loads the profile with its measurements and custom exercises.
// A missing profile yields nil without an error; so does a failing read,
// which is logged.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	rec, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			slog.Error("fetch profile", "user_id", userID, "error", err)
		}
		return nil, nil
	}

	measurements, err := s.measurements.ListByUser(ctx, userID)
	if err != nil {
		slog.Error("fetch measurements", "user_id", userID, "error", err)
	}
	exercises, err := s.exercises.ListByUser(ctx, userID)
	if err != nil {
		slog.Error("fetch custom exercises", "user_id", userID, "error", err)
	}
	rec.Measurements = measurements
	rec.CustomExercises = exercises

	profile := s.mapper.FromStorage(*rec)
	return &profile, nil
}

type RegisterProfileInput struct {
	ID    string
	Email string
	Name  string
	Role  models.Role
}

// RegisterProfile creates the row for a freshly registered identity. It is a
// no-op when the profile already exists.
func (s *ProfileService) RegisterProfile(ctx context.Context, input RegisterProfileInput) error {
	if input.ID == "" {
		return ErrInvalidInput
	}
	if input.Role != models.RoleTrainee && input.Role != models.RoleCoach {
		return ErrInvalidInput
	}

	rec := mapper.ProfileRecord{
		ID:          input.ID,
		Email:       optional(strings.TrimSpace(input.Email)),
		FullName:    optional(strings.TrimSpace(input.Name)),
		Role:        optional(string(input.Role)),
		JoiningDate: optional(s.now().UTC().Format(time.DateOnly)),
	}
	if err := s.profiles.Create(ctx, rec); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// SaveProfile writes the self-editable part of a profile. Role, subscription,
// verification and coach-link fields are owned by their own flows and are
// carried over from the stored row.
func (s *ProfileService) SaveProfile(ctx context.Context, actorID string, p models.UserProfile) (*models.UserProfile, error) {
	if p.ID == "" {
		p.ID = actorID
	}
	if p.ID != actorID {
		return nil, ErrForbidden
	}

	current, err := s.profiles.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	stored := s.mapper.FromStorage(*current)
	p.Role = stored.Role
	p.SubscriptionTier = stored.SubscriptionTier
	p.SubscriptionStatus = stored.SubscriptionStatus
	p.SubscriptionExpiryDate = stored.SubscriptionExpiryDate
	p.VerificationStatus = stored.VerificationStatus
	p.CertURL = stored.CertURL
	p.InviteCode = stored.InviteCode
	p.PendingRequests = stored.PendingRequests
	p.CoachID = stored.CoachID
	p.CoachConnectStatus = stored.CoachConnectStatus
	if p.Settings == nil {
		p.Settings = stored.Settings
	}

	if err := s.profiles.Upsert(ctx, s.mapper.ToStorage(p)); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	// Only the newest measurement is written back; older ones are history.
	if n := len(p.Measurements); n > 0 {
		if _, err := s.saveMeasurement(ctx, actorID, p.Measurements[n-1]); err != nil {
			slog.Error("save measurement", "user_id", actorID, "error", err)
		}
	}
	for _, ex := range p.CustomExercises {
		if !strings.HasPrefix(ex.ID, newExercisePrefix) {
			continue
		}
		if _, err := s.exercises.Insert(ctx, mapper.ExerciseToStorage(ex, actorID)); err != nil {
			slog.Error("save custom exercise", "user_id", actorID, "exercise", ex.NameEn, "error", err)
		}
	}

	return s.GetProfile(ctx, actorID)
}

func (s *ProfileService) ListMeasurements(ctx context.Context, userID string) []models.AnthropometryLog {
	records, err := s.measurements.ListByUser(ctx, userID)
	if err != nil {
		slog.Error("fetch measurements", "user_id", userID, "error", err)
	}
	out := make([]models.AnthropometryLog, 0, len(records))
	for _, rec := range records {
		out = append(out, mapper.MeasurementFromStorage(rec))
	}
	return out
}

func (s *ProfileService) AddMeasurement(ctx context.Context, userID string, m models.AnthropometryLog) (*models.AnthropometryLog, error) {
	if strings.TrimSpace(m.Date) == "" || (m.Weight != nil && *m.Weight < 0) {
		return nil, ErrInvalidInput
	}
	id, err := s.saveMeasurement(ctx, userID, m)
	if err != nil {
		return nil, fmt.Errorf("save measurement: %w", err)
	}
	m.LogID = id
	return &m, nil
}

func (s *ProfileService) saveMeasurement(ctx context.Context, userID string, m models.AnthropometryLog) (string, error) {
	rec := mapper.MeasurementToStorage(m, userID)
	if isClientID(m.LogID, newMeasurementPrefix) {
		rec.ID = nil
	}
	return s.measurements.Save(ctx, rec)
}

func (s *ProfileService) ListCustomExercises(ctx context.Context, userID string) []models.ExerciseDefinition {
	records, err := s.exercises.ListByUser(ctx, userID)
	if err != nil {
		slog.Error("fetch custom exercises", "user_id", userID, "error", err)
	}
	out := make([]models.ExerciseDefinition, 0, len(records))
	for _, rec := range records {
		out = append(out, mapper.ExerciseFromStorage(rec))
	}
	return out
}

func (s *ProfileService) AddCustomExercise(ctx context.Context, userID string, e models.ExerciseDefinition) (*models.ExerciseDefinition, error) {
	if strings.TrimSpace(e.NameEn) == "" {
		return nil, ErrInvalidInput
	}
	id, err := s.exercises.Insert(ctx, mapper.ExerciseToStorage(e, userID))
	if err != nil {
		return nil, fmt.Errorf("save custom exercise: %w", err)
	}
	e.ID = id
	return &e, nil
}

func (s *ProfileService) SetAvatar(ctx context.Context, userID, avatarURL string) error {
	if err := s.profiles.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID string) error {
	if err := s.profiles.MergeSettings(ctx, userID, map[string]any{onboardingSettingKey: true}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *ProfileService) coach(ctx context.Context, coachID string) (models.UserProfile, error) {
	rec, err := s.profiles.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.UserProfile{}, ErrNotFound
		}
		return models.UserProfile{}, err
	}
	p := s.mapper.FromStorage(*rec)
	if !p.IsCoach() {
		return models.UserProfile{}, ErrForbidden
	}
	return p, nil
}

// UpdateVerificationStatus moves a coach between verification states.
func (s *ProfileService) UpdateVerificationStatus(ctx context.Context, coachID string, next models.VerificationStatus) (*models.UserProfile, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}
	coach, err := s.coach(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if !coach.VerificationStatus.CanTransitionTo(next) {
		return nil, ErrInvalidStateTransition
	}
	if err := s.profiles.UpdateVerificationStatus(ctx, coachID, next); err != nil {
		return nil, err
	}
	coach.VerificationStatus = next
	return &coach, nil
}

// SubmitCertificate records an uploaded certificate. A rejected coach goes back
// to Pending for another review.
func (s *ProfileService) SubmitCertificate(ctx context.Context, coachID, certURL string) (models.VerificationStatus, error) {
	coach, err := s.coach(ctx, coachID)
	if err != nil {
		return "", err
	}

	status := coach.VerificationStatus
	switch status {
	case models.VerificationPending:
	case models.VerificationRejected:
		status = models.VerificationPending
	default:
		return "", ErrInvalidStateTransition
	}
	if err := s.profiles.UpdateCertificate(ctx, coachID, certURL, status); err != nil {
		return "", err
	}
	return status, nil
}

// GenerateInviteCode assigns a fresh code, retrying when another coach
// already owns the random draw.
func (s *ProfileService) GenerateInviteCode(ctx context.Context, coachID string) (string, error) {
	if _, err := s.coach(ctx, coachID); err != nil {
		return "", err
	}

	for range inviteCodeAttempts {
		code := newInviteCode()
		err := s.profiles.SetInviteCode(ctx, coachID, code)
		if err == nil {
			return code, nil
		}
		if !repository.IsUniqueViolation(err) {
			return "", err
		}
	}
	return "", ErrConflict
}

func newInviteCode() string {
	var b strings.Builder
	b.WriteString(inviteCodePrefix)
	for range inviteCodeLength {
		b.WriteByte(inviteCodeAlphabet[rand.IntN(len(inviteCodeAlphabet))])
	}
	return b.String()
}

type LinkResult struct {
	CoachID   string `json:"coachId"`
	CoachName string `json:"coachName"`
}

// LinkTrainee files a connection request with the coach that owns inviteCode.
func (s *ProfileService) LinkTrainee(ctx context.Context, traineeID, inviteCode string) (*LinkResult, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return nil, ErrInvalidInviteCode
	}

	traineeRec, err := s.profiles.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	trainee := s.mapper.FromStorage(*traineeRec)
	if trainee.CoachConnectStatus == models.ConnectConnected {
		return nil, ErrConflict
	}

	coachRec, err := s.profiles.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInviteCode
		}
		return nil, err
	}
	if coachRec.ID == traineeID {
		return nil, ErrInvalidInput
	}
	coach := s.mapper.FromStorage(*coachRec)

	err = withTx(ctx, s.db, func(tx pgx.Tx) error {
		profiles := repository.NewProfileRepository(tx)

		locked, err := profiles.GetByIDForUpdate(ctx, coach.ID)
		if err != nil {
			return err
		}
		requests := locked.PendingRequests
		for _, r := range requests {
			if r.TraineeID == traineeID && r.Status == models.RequestPending {
				return ErrDuplicateRequest
			}
		}
		requests = append(requests, models.ConnectionRequest{
			ID:          "req_" + uuid.NewString(),
			TraineeID:   traineeID,
			TraineeName: trainee.Name,
			Date:        s.now().UTC().Format(time.DateOnly),
			Status:      models.RequestPending,
		})
		if err := profiles.SetPendingRequests(ctx, coach.ID, requests); err != nil {
			return err
		}
		return profiles.SetCoachLink(ctx, traineeID, nil, models.ConnectPending)
	})
	if err != nil {
		return nil, err
	}

	return &LinkResult{CoachID: coach.ID, CoachName: coach.Name}, nil
}

// ResolveRequest approves or rejects a pending connection request. Approval
// connects the trainee; free coaches are capped at the configured number of
// trainees. A rejection leaves the trainee Pending while another coach still
// holds one of their requests.
func (s *ProfileService) ResolveRequest(ctx context.Context, coachID, requestID string, approve bool) (*models.ConnectionRequest, error) {
	var resolved models.ConnectionRequest

	err := withTx(ctx, s.db, func(tx pgx.Tx) error {
		profiles := repository.NewProfileRepository(tx)

		rec, err := profiles.GetByIDForUpdate(ctx, coachID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		coach := s.mapper.FromStorage(*rec)
		if !coach.IsCoach() {
			return ErrForbidden
		}
		if coach.VerificationStatus != models.VerificationVerified {
			return ErrCoachNotVerified
		}

		idx := -1
		for i, r := range coach.PendingRequests {
			if r.ID == requestID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}
		request := coach.PendingRequests[idx]
		if request.Status != models.RequestPending {
			return ErrInvalidStateTransition
		}

		traineeRec, err := profiles.GetByIDForUpdate(ctx, request.TraineeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		trainee := s.mapper.FromStorage(*traineeRec)

		if approve {
			if trainee.CoachConnectStatus == models.ConnectConnected && trainee.CoachID != coachID {
				return ErrConflict
			}
			if coach.SubscriptionTier != models.TierPremium && s.freeTraineeLimit > 0 {
				count, err := profiles.CountTrainees(ctx, coachID)
				if err != nil {
					return err
				}
				if count >= s.freeTraineeLimit {
					return ErrTraineeLimitReached
				}
			}
			if err := profiles.SetCoachLink(ctx, request.TraineeID, &coachID, models.ConnectConnected); err != nil {
				return err
			}
			request.Status = models.RequestApproved
		} else {
			if trainee.CoachConnectStatus != models.ConnectConnected {
				pending, err := profiles.HasPendingRequest(ctx, request.TraineeID, coachID)
				if err != nil {
					return err
				}
				if !pending {
					if err := profiles.SetCoachLink(ctx, request.TraineeID, nil, models.ConnectRejected); err != nil {
						return err
					}
				}
			}
			request.Status = models.RequestRejected
		}

		coach.PendingRequests[idx] = request
		if err := profiles.SetPendingRequests(ctx, coachID, coach.PendingRequests); err != nil {
			return err
		}
		resolved = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}

func (s *ProfileService) ListVerifiedCoaches(ctx context.Context) []models.CoachListing {
	return s.listCoaches(ctx, models.VerificationVerified, false)
}

// ListPendingCoaches is the admin review queue; it includes contact and
// certificate details.
func (s *ProfileService) ListPendingCoaches(ctx context.Context) []models.CoachListing {
	return s.listCoaches(ctx, models.VerificationPending, true)
}

func (s *ProfileService) listCoaches(ctx context.Context, status models.VerificationStatus, withPrivate bool) []models.CoachListing {
	records, err := s.profiles.ListCoaches(ctx, status)
	if err != nil {
		slog.Error("fetch coaches", "verification_status", status, "error", err)
		return []models.CoachListing{}
	}

	out := make([]models.CoachListing, 0, len(records))
	for _, rec := range records {
		p := s.mapper.FromStorage(rec)
		listing := models.CoachListing{
			ID:                 p.ID,
			Name:               p.Name,
			AvatarURL:          p.AvatarURL,
			Bio:                p.Bio,
			VerificationStatus: p.VerificationStatus,
		}
		if withPrivate {
			listing.Email = p.Email
			listing.CertURL = p.CertURL
		}
		out = append(out, listing)
	}
	return out
}

func (s *ProfileService) SetRole(ctx context.Context, targetID string, role models.Role) error {
	if targetID == "" || !role.Valid() || role == models.RoleGuest {
		return ErrInvalidInput
	}
	if err := s.profiles.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// isClientID reports whether id was minted by a client for a row that has not
// been stored yet.
func isClientID(id, prefix string) bool {
	if id == "" || strings.HasPrefix(id, prefix) {
		return true
	}
	_, err := uuid.Parse(id)
	return err != nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
