package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/models"
)

type planService interface {
	SavePlan(ctx context.Context, actorID string, plan models.WorkoutPlan) (*models.WorkoutPlan, error)
	GetActivePlan(ctx context.Context, userID string) (*models.WorkoutPlan, error)
}

type nutritionSeeder interface {
	SeedNutritionDay(ctx context.Context, userID, date string) ([]models.NutritionLog, error)
}

type PlanHandler struct {
	plans     planService
	nutrition nutritionSeeder
}

func NewPlanHandler(plans planService, nutrition nutritionSeeder) *PlanHandler {
	return &PlanHandler{
		plans:     plans,
		nutrition: nutrition,
	}
}

type planRequest struct {
	models.WorkoutPlan
	Name       string `json:"name" validate:"required,notblank,max=200"`
	TraineeID  string `json:"traineeId" validate:"omitempty,uuid"`
	StartDate  string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	WeeksCount int    `json:"weeksCount" validate:"gte=0,lte=104"`
}

type nutritionDayRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *PlanHandler) SavePlan(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req planRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	plan := req.WorkoutPlan
	plan.Name, plan.TraineeID, plan.StartDate, plan.WeeksCount = req.Name, req.TraineeID, req.StartDate, req.WeeksCount

	saved, err := h.plans.SavePlan(c.UserContext(), userID, plan)
	if err != nil {
		return serviceError(c, "save plan", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"plan": saved})
}

// GetActivePlan answers 200 with a null plan when the user has none.
func (h *PlanHandler) GetActivePlan(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	plan, err := h.plans.GetActivePlan(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, "get active plan", err)
	}
	return c.JSON(fiber.Map{"plan": plan})
}

func (h *PlanHandler) SeedNutritionDay(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req nutritionDayRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
	}

	logs, err := h.nutrition.SeedNutritionDay(c.UserContext(), userID, req.Date)
	if err != nil {
		return serviceError(c, "seed nutrition day", err)
	}
	return c.JSON(fiber.Map{"nutritionLogs": logs})
}
