package models

import (
	"encoding/json"
	"fmt"
)

type WorkoutPlan struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	TraineeID         string          `json:"traineeId,omitempty"`
	CreatorID         string          `json:"creatorId"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	StartDate         string          `json:"startDate"`
	WeeksCount        int             `json:"weeksCount"`
	Days              json.RawMessage `json:"days"`
	NutritionTemplate json.RawMessage `json:"nutritionTemplate,omitempty"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         string          `json:"createdAt,omitempty"`
}

type MealTemplate struct {
	ID          string  `json:"id"`
	MealName    string  `json:"mealName"`
	Description string  `json:"description"`
	Macros      *Macros `json:"macros,omitempty"`
}

// MealTemplates decodes the plan's nutrition template. Plans without one yield nil.
func (p WorkoutPlan) MealTemplates() ([]MealTemplate, error) {
	if len(p.NutritionTemplate) == 0 || string(p.NutritionTemplate) == "null" {
		return nil, nil
	}
	var meals []MealTemplate
	if err := json.Unmarshal(p.NutritionTemplate, &meals); err != nil {
		return nil, fmt.Errorf("decode nutrition template: %w", err)
	}
	return meals, nil
}
