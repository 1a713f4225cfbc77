package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/pkg/utils"
)

func newTestPaymentService(cfg PaymentServiceConfig) (*PaymentService, *noTxDB) {
	db := &noTxDB{}
	svc := NewPaymentService(db, &stubTransactions{}, newStubProfileStore(), nil, cfg)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, db
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		input SubmitPaymentInput
	}{
		{name: "missing tx id", input: SubmitPaymentInput{TxID: "  ", AmountUSD: 10, Months: 1}},
		{name: "zero amount", input: SubmitPaymentInput{TxID: "0xabcdef123456", Months: 1}},
		{name: "negative months", input: SubmitPaymentInput{TxID: "0xabcdef123456", AmountUSD: 10, Months: -1}},
		{name: "too many months", input: SubmitPaymentInput{TxID: "0xabcdef123456", AmountUSD: 10, Months: maxSubscriptionMonths + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newTestPaymentService(PaymentServiceConfig{AutoApprove: true})

			if _, err := svc.Submit(context.Background(), "u1", tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if db.begun != 0 {
				t.Fatal("invalid submissions must not reach the database")
			}
		})
	}
}

func TestAutoApprovalThreshold(t *testing.T) {
	enabled, _ := newTestPaymentService(PaymentServiceConfig{AutoApprove: true})
	disabled, _ := newTestPaymentService(PaymentServiceConfig{AutoApprove: false})

	if enabled.autoApproves("0123456789") {
		t.Fatal("ten characters must wait for review")
	}
	if !enabled.autoApproves("0123456789a") {
		t.Fatal("eleven characters are approved")
	}
	if disabled.autoApproves("0123456789abcdef") {
		t.Fatal("auto approval can be switched off")
	}
}

func TestExpiryDate(t *testing.T) {
	iso, _ := newTestPaymentService(PaymentServiceConfig{DateLocale: "iso"})
	if got := iso.expiryDate(2); got != "2024-04-30" {
		t.Fatalf("expected 60 days later, got %s", got)
	}

	fa, _ := newTestPaymentService(PaymentServiceConfig{DateLocale: "fa-IR"})
	want := utils.FormatPersianDate(time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC))
	if got := fa.expiryDate(1); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestProcessValidation(t *testing.T) {
	svc, db := newTestPaymentService(PaymentServiceConfig{})

	if _, err := svc.Process(context.Background(), ProcessPaymentInput{Status: models.TransactionApproved}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without request id, got %v", err)
	}
	if _, err := svc.Process(context.Background(), ProcessPaymentInput{RequestID: "r1", Status: models.TransactionPending}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.Process(context.Background(), ProcessPaymentInput{RequestID: "r1", Status: models.TransactionApproved, Months: -2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative months, got %v", err)
	}
	if db.begun != 0 {
		t.Fatal("invalid requests must not reach the database")
	}
}

func TestNormalizeMonths(t *testing.T) {
	if got, err := normalizeMonths(0); err != nil || got != 1 {
		t.Fatalf("expected default of one month, got %d, %v", got, err)
	}
	if got, err := normalizeMonths(12); err != nil || got != 12 {
		t.Fatalf("expected 12, got %d, %v", got, err)
	}
}

func TestListFailingReadIsEmpty(t *testing.T) {
	svc := NewPaymentService(&noTxDB{}, &stubTransactions{err: errStubFailure}, newStubProfileStore(), nil, PaymentServiceConfig{})

	list := svc.List(context.Background())
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
}
