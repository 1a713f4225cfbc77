package handlers

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/services"
)

type paymentService interface {
	Submit(ctx context.Context, userID string, input services.SubmitPaymentInput) (*services.SubmitPaymentResult, error)
	Process(ctx context.Context, input services.ProcessPaymentInput) (*models.Transaction, error)
	List(ctx context.Context) []models.Transaction
}

type PaymentHandler struct {
	payments paymentService
}

func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

const (
	paymentActionSubmit  = "SUBMIT"
	paymentActionProcess = "PROCESS"
)

// paymentActionRequest carries the action fields either at the top level or
// nested under requestData.
type paymentActionRequest struct {
	Action      string          `json:"action" validate:"required,oneof=SUBMIT PROCESS"`
	RequestData json.RawMessage `json:"requestData"`
}

type submitPaymentRequest struct {
	TxID      string  `json:"txId" validate:"required,notblank,max=200"`
	AmountUSD float64 `json:"amountUSD" validate:"gt=0"`
	Months    int     `json:"months" validate:"omitempty,min=1,max=36"`
	Network   string  `json:"network" validate:"max=32"`
}

type processPaymentRequest struct {
	RequestID string `json:"requestId" validate:"required,uuid"`
	UserID    string `json:"userId" validate:"omitempty,uuid"`
	Status    string `json:"status" validate:"required,oneof=Approved Rejected"`
	Months    int    `json:"months" validate:"omitempty,min=1,max=36"`
}

// ProcessPayment serves both sides of a payment: a user submitting a
// transaction id and an admin settling a pending one.
func (h *PaymentHandler) ProcessPayment(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var action paymentActionRequest
	if ok, err := bindJSON(c, &action); !ok {
		return err
	}

	switch action.Action {
	case paymentActionSubmit:
		return h.submit(c, userID, action.RequestData)
	case paymentActionProcess:
		if role, _ := c.Locals("role").(string); models.Role(role) != models.RoleAdmin {
			return errorResponse(c, fiber.StatusForbidden, i18n.Forbidden)
		}
		return h.process(c, action.RequestData)
	}
	return errorResponse(c, fiber.StatusBadRequest, i18n.ValidationFailed)
}

// bindPayload decodes the action fields from requestData when present and from
// the body otherwise.
func bindPayload(c *fiber.Ctx, nested json.RawMessage, out any) (bool, error) {
	nested = bytes.TrimSpace(nested)
	if len(nested) == 0 || bytes.Equal(nested, []byte("null")) {
		return bindJSON(c, out)
	}
	if err := json.Unmarshal(nested, out); err != nil {
		return false, errorResponse(c, fiber.StatusBadRequest, i18n.InvalidBody)
	}
	if err := validate.Struct(out); err != nil {
		return false, validationResponse(c, err)
	}
	return true, nil
}

func (h *PaymentHandler) submit(c *fiber.Ctx, userID string, nested json.RawMessage) error {
	var req submitPaymentRequest
	if ok, err := bindPayload(c, nested, &req); !ok {
		return err
	}

	result, err := h.payments.Submit(c.UserContext(), userID, services.SubmitPaymentInput{
		TxID:      req.TxID,
		AmountUSD: req.AmountUSD,
		Months:    req.Months,
		Network:   req.Network,
	})
	if err != nil {
		return serviceError(c, "submit payment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *PaymentHandler) process(c *fiber.Ctx, nested json.RawMessage) error {
	var req processPaymentRequest
	if ok, err := bindPayload(c, nested, &req); !ok {
		return err
	}

	tx, err := h.payments.Process(c.UserContext(), services.ProcessPaymentInput{
		RequestID: req.RequestID,
		UserID:    req.UserID,
		Status:    models.TransactionStatus(req.Status),
		Months:    req.Months,
	})
	if err != nil {
		return serviceError(c, "process payment", err)
	}
	return c.JSON(fiber.Map{"transaction": tx})
}

func (h *PaymentHandler) ListTransactions(c *fiber.Ctx) error {
	transactions, meta := paginate(h.payments.List(c.UserContext()), parsePage(c))
	return c.JSON(fiber.Map{
		"transactions": transactions,
		"pagination":   meta,
	})
}
