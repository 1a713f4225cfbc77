package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/repository"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestLinkAndApproveTrainee(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	profiles := repository.NewProfileRepository(pool)
	service := NewProfileService(pool, profiles, repository.NewMeasurementRepository(pool), repository.NewExerciseRepository(pool), ProfileServiceConfig{FreeTraineeLimit: 5})

	coachID := createTestProfile(t, ctx, pool, models.RoleCoach)
	traineeID := createTestProfile(t, ctx, pool, models.RoleTrainee)
	t.Cleanup(func() { cleanupTestProfiles(t, ctx, pool, traineeID, coachID) })

	if _, err := pool.Exec(ctx, "UPDATE profiles SET verification_status = 'Verified' WHERE id = $1", coachID); err != nil {
		t.Fatalf("verify coach: %v", err)
	}
	code, err := service.GenerateInviteCode(ctx, coachID)
	if err != nil {
		t.Fatalf("GenerateInviteCode: %v", err)
	}

	link, err := service.LinkTrainee(ctx, traineeID, code)
	if err != nil {
		t.Fatalf("LinkTrainee: %v", err)
	}
	if link.CoachID != coachID {
		t.Fatalf("expected coach %s, got %s", coachID, link.CoachID)
	}
	if _, err := service.LinkTrainee(ctx, traineeID, code); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest on second link, got %v", err)
	}

	coach, err := service.GetProfile(ctx, coachID)
	if err != nil || coach == nil {
		t.Fatalf("GetProfile coach: %v", err)
	}
	if len(coach.PendingRequests) != 1 {
		t.Fatalf("expected one pending request, got %+v", coach.PendingRequests)
	}

	resolved, err := service.ResolveRequest(ctx, coachID, coach.PendingRequests[0].ID, true)
	if err != nil {
		t.Fatalf("ResolveRequest: %v", err)
	}
	if resolved.Status != models.RequestApproved {
		t.Fatalf("expected approved request, got %s", resolved.Status)
	}

	trainee, err := service.GetProfile(ctx, traineeID)
	if err != nil || trainee == nil {
		t.Fatalf("GetProfile trainee: %v", err)
	}
	if trainee.CoachID != coachID || trainee.CoachConnectStatus != models.ConnectConnected {
		t.Fatalf("expected trainee connected to %s, got %q (%s)", coachID, trainee.CoachID, trainee.CoachConnectStatus)
	}

	if _, err := service.ResolveRequest(ctx, coachID, resolved.ID, false); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on resolved request, got %v", err)
	}
}

func TestRejectKeepsTraineePendingWithAnotherCoach(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	profiles := repository.NewProfileRepository(pool)
	service := NewProfileService(pool, profiles, repository.NewMeasurementRepository(pool), repository.NewExerciseRepository(pool), ProfileServiceConfig{FreeTraineeLimit: 5})

	firstCoach := createTestProfile(t, ctx, pool, models.RoleCoach)
	secondCoach := createTestProfile(t, ctx, pool, models.RoleCoach)
	traineeID := createTestProfile(t, ctx, pool, models.RoleTrainee)
	t.Cleanup(func() { cleanupTestProfiles(t, ctx, pool, traineeID, firstCoach, secondCoach) })

	requestIDs := map[string]string{}
	for _, coachID := range []string{firstCoach, secondCoach} {
		if _, err := pool.Exec(ctx, "UPDATE profiles SET verification_status = 'Verified' WHERE id = $1", coachID); err != nil {
			t.Fatalf("verify coach: %v", err)
		}
		code, err := service.GenerateInviteCode(ctx, coachID)
		if err != nil {
			t.Fatalf("GenerateInviteCode: %v", err)
		}
		if _, err := service.LinkTrainee(ctx, traineeID, code); err != nil {
			t.Fatalf("LinkTrainee: %v", err)
		}
		coach, err := service.GetProfile(ctx, coachID)
		if err != nil || coach == nil || len(coach.PendingRequests) != 1 {
			t.Fatalf("expected one pending request for %s: %v", coachID, err)
		}
		requestIDs[coachID] = coach.PendingRequests[0].ID
	}

	if _, err := service.ResolveRequest(ctx, firstCoach, requestIDs[firstCoach], false); err != nil {
		t.Fatalf("ResolveRequest: %v", err)
	}
	trainee, err := service.GetProfile(ctx, traineeID)
	if err != nil || trainee == nil {
		t.Fatalf("GetProfile trainee: %v", err)
	}
	if trainee.CoachConnectStatus != models.ConnectPending {
		t.Fatalf("expected trainee to stay pending, got %s", trainee.CoachConnectStatus)
	}

	if _, err := service.ResolveRequest(ctx, secondCoach, requestIDs[secondCoach], false); err != nil {
		t.Fatalf("ResolveRequest: %v", err)
	}
	trainee, err = service.GetProfile(ctx, traineeID)
	if err != nil || trainee == nil {
		t.Fatalf("GetProfile trainee: %v", err)
	}
	if trainee.CoachConnectStatus != models.ConnectRejected {
		t.Fatalf("expected trainee rejected once no request is pending, got %s", trainee.CoachConnectStatus)
	}
}

func TestSubmitAndProcessPayment(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	profiles := repository.NewProfileRepository(pool)
	transactions := repository.NewTransactionRepository(pool)
	service := NewPaymentService(pool, transactions, profiles, nil, PaymentServiceConfig{AutoApprove: false, DateLocale: "iso"})

	userID := createTestProfile(t, ctx, pool, models.RoleCoach)
	t.Cleanup(func() { cleanupTestProfiles(t, ctx, pool, userID) })

	txID := "0x" + uuid.NewString()
	submitted, err := service.Submit(ctx, userID, SubmitPaymentInput{TxID: txID, AmountUSD: 15, Months: 3})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.Status != SubmitPendingReview || submitted.Transaction.Status != models.TransactionPending {
		t.Fatalf("expected pending review, got %+v", submitted)
	}
	if _, err := service.Submit(ctx, userID, SubmitPaymentInput{TxID: txID, AmountUSD: 15, Months: 3}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for reused tx id, got %v", err)
	}

	settled, err := service.Process(ctx, ProcessPaymentInput{
		RequestID: submitted.Transaction.ID,
		UserID:    userID,
		Status:    models.TransactionApproved,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if settled.Status != models.TransactionApproved {
		t.Fatalf("expected approved transaction, got %s", settled.Status)
	}

	rec, err := profiles.GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	user := mapper.ProfileFromStorage(*rec)
	if user.SubscriptionTier != models.TierPremium {
		t.Fatalf("expected Premium after approval, got %s", user.SubscriptionTier)
	}
	want := time.Now().AddDate(0, 0, 3*subscriptionDaysPerMonth).Format(time.DateOnly)
	if user.SubscriptionExpiryDate != want {
		t.Fatalf("expected expiry %s, got %s", want, user.SubscriptionExpiryDate)
	}

	if _, err := service.Process(ctx, ProcessPaymentInput{
		RequestID: submitted.Transaction.ID,
		Status:    models.TransactionRejected,
	}); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on settled payment, got %v", err)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("TEST_DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("TEST_DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func createTestProfile(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role models.Role) string {
	t.Helper()

	id := uuid.NewString()
	rec := mapper.ProfileRecord{
		ID:          id,
		Email:       ptrTo(fmt.Sprintf("fitpro-test-%s-%d@example.com", role, time.Now().UnixNano())),
		FullName:    ptrTo("Test " + string(role)),
		Role:        ptrTo(string(role)),
		JoiningDate: ptrTo(time.Now().Format(time.DateOnly)),
	}
	if err := repository.NewProfileRepository(pool).Create(ctx, rec); err != nil {
		t.Fatalf("create %s profile: %v", role, err)
	}
	return id
}

func cleanupTestProfiles(t *testing.T, ctx context.Context, pool *pgxpool.Pool, ids ...string) {
	t.Helper()

	if len(ids) == 0 {
		return
	}
	if _, err := pool.Exec(ctx, "DELETE FROM profiles WHERE id = ANY($1::uuid[])", ids); err != nil {
		t.Fatalf("cleanup profiles: %v", err)
	}
}
