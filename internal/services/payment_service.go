package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/repository"
	"github.com/saeid-a/FitProBack/pkg/utils"
)

// Transaction ids longer than this are approved without review. This is a
// plausibility check only; nothing is verified on chain.
const autoApproveMinTxIDLength = 10

const (
	subscriptionDaysPerMonth = 30
	maxSubscriptionMonths    = 36

	SubmitAutoApproved  = "AUTO_APPROVED"
	SubmitPendingReview = "PENDING_REVIEW"
)

type transactionLister interface {
	List(ctx context.Context) ([]models.Transaction, error)
}

type emailDispatcher interface {
	Dispatch(kind EmailType, p EmailPayload) error
}

type PaymentServiceConfig struct {
	AutoApprove bool
	// DateLocale selects the stored expiry format: "fa-IR" or "iso".
	DateLocale string
}

type PaymentService struct {
	db           txBeginner
	transactions transactionLister
	profiles     profileGetter
	email        emailDispatcher
	cfg          PaymentServiceConfig
	now          func() time.Time
}

func NewPaymentService(
	db txBeginner,
	transactions transactionLister,
	profiles profileGetter,
	email emailDispatcher,
	cfg PaymentServiceConfig,
) *PaymentService {
	return &PaymentService{
		db:           db,
		transactions: transactions,
		profiles:     profiles,
		email:        email,
		cfg:          cfg,
		now:          time.Now,
	}
}

type SubmitPaymentInput struct {
	TxID      string
	AmountUSD float64
	Months    int
	Network   string
}

type SubmitPaymentResult struct {
	Status      string              `json:"status"`
	Transaction *models.Transaction `json:"transaction"`
}

// Submit records a subscription payment. Plausible transaction ids are
// approved at once and the subscription is extended in the same database
// transaction; everything else waits for an admin.
func (s *PaymentService) Submit(ctx context.Context, userID string, input SubmitPaymentInput) (*SubmitPaymentResult, error) {
	input.TxID = strings.TrimSpace(input.TxID)
	if input.TxID == "" || input.AmountUSD <= 0 {
		return nil, ErrInvalidInput
	}
	months, err := normalizeMonths(input.Months)
	if err != nil {
		return nil, err
	}

	approved := s.autoApproves(input.TxID)
	status := models.TransactionPending
	if approved {
		status = models.TransactionApproved
	}
	expiry := s.expiryDate(months)

	var created *models.Transaction
	err = withTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		created, err = repository.NewTransactionRepository(tx).Create(ctx, models.Transaction{
			UserID:    userID,
			TxID:      input.TxID,
			AmountUSD: input.AmountUSD,
			Months:    months,
			Network:   input.Network,
			Status:    status,
		})
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrConflict
			}
			return err
		}
		if !approved {
			return nil
		}
		return repository.NewProfileRepository(tx).UpdateSubscription(ctx, userID, models.TierPremium, models.SubscriptionActive, expiry)
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("submit payment: %w", err)
	}

	result := &SubmitPaymentResult{Status: SubmitPendingReview, Transaction: created}
	if approved {
		result.Status = SubmitAutoApproved
		s.notifyApproved(ctx, userID, months, expiry)
	}
	return result, nil
}

func (s *PaymentService) autoApproves(txID string) bool {
	return s.cfg.AutoApprove && len(txID) > autoApproveMinTxIDLength
}

type ProcessPaymentInput struct {
	RequestID string
	UserID    string
	Status    models.TransactionStatus
	Months    int
}

// Process settles a pending transaction. Approval grants Premium for the
// given months, falling back to the months of the submission.
func (s *PaymentService) Process(ctx context.Context, input ProcessPaymentInput) (*models.Transaction, error) {
	if input.RequestID == "" {
		return nil, ErrInvalidInput
	}
	if input.Status != models.TransactionApproved && input.Status != models.TransactionRejected {
		return nil, ErrInvalidStatus
	}
	if input.Months < 0 {
		return nil, ErrInvalidInput
	}

	var (
		settled *models.Transaction
		months  int
		expiry  string
	)
	err := withTx(ctx, s.db, func(tx pgx.Tx) error {
		transactions := repository.NewTransactionRepository(tx)

		current, err := transactions.GetByIDForUpdate(ctx, input.RequestID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if input.UserID != "" && input.UserID != current.UserID {
			return ErrInvalidInput
		}
		if current.Status != models.TransactionPending {
			return ErrInvalidStateTransition
		}

		if err := transactions.UpdateStatus(ctx, current.ID, input.Status); err != nil {
			return err
		}
		current.Status = input.Status
		settled = current

		if input.Status != models.TransactionApproved {
			return nil
		}
		months = input.Months
		if months == 0 {
			months = current.Months
		}
		if months, err = normalizeMonths(months); err != nil {
			return err
		}
		expiry = s.expiryDate(months)
		return repository.NewProfileRepository(tx).UpdateSubscription(ctx, current.UserID, models.TierPremium, models.SubscriptionActive, expiry)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStateTransition):
			return nil, err
		}
		return nil, fmt.Errorf("process payment: %w", err)
	}

	if settled.Status == models.TransactionApproved {
		s.notifyApproved(ctx, settled.UserID, months, expiry)
	}
	return settled, nil
}

// List returns every transaction, newest first. A failing read yields an
// empty list.
func (s *PaymentService) List(ctx context.Context) []models.Transaction {
	transactions, err := s.transactions.List(ctx)
	if err != nil {
		slog.Error("fetch transactions", "error", err)
		return []models.Transaction{}
	}
	return transactions
}

func (s *PaymentService) expiryDate(months int) string {
	expiry := s.now().AddDate(0, 0, months*subscriptionDaysPerMonth)
	if strings.EqualFold(s.cfg.DateLocale, "iso") {
		return expiry.Format(time.DateOnly)
	}
	return utils.FormatPersianDate(expiry)
}

func (s *PaymentService) notifyApproved(ctx context.Context, userID string, months int, expiry string) {
	if s.email == nil {
		return
	}
	rec, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		slog.Warn("payment email skipped", "user_id", userID, "error", err)
		return
	}
	user := mapper.ProfileFromStorage(*rec)
	if user.Email == "" {
		return
	}
	if err := s.email.Dispatch(EmailPaymentApproved, EmailPayload{
		To:         user.Email,
		Name:       user.Name,
		Months:     months,
		ExpiryDate: expiry,
	}); err != nil {
		slog.Warn("payment email skipped", "user_id", userID, "error", err)
	}
}

func normalizeMonths(months int) (int, error) {
	if months == 0 {
		return 1, nil
	}
	if months < 1 || months > maxSubscriptionMonths {
		return 0, ErrInvalidInput
	}
	return months, nil
}
