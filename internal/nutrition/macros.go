package nutrition

import (
	"math"

	"github.com/saeid-a/FitProBack/internal/models"
)

// Sum adds the macros of every log, starting from zero. Logs without macros
// contribute nothing.
func Sum(logs []models.NutritionLog) models.Macros {
	var total models.Macros
	for _, l := range logs {
		if l.Macros != nil {
			total = total.Add(*l.Macros)
		}
	}
	return total
}

// Totals returns the planned target (all logs) and what was consumed
// (completed logs only).
func Totals(logs []models.NutritionLog) (target, consumed models.Macros) {
	target = Sum(logs)
	for _, l := range logs {
		if l.IsCompleted && l.Macros != nil {
			consumed = consumed.Add(*l.Macros)
		}
	}
	return target, consumed
}

// Percent is consumed/target*100 and 0 when there is no target. It is not clamped.
func Percent(consumed, target float64) float64 {
	if target == 0 {
		return 0
	}
	return consumed / target * 100
}

// Adherence is the rounded share of completed meals, 0 for an empty day.
func Adherence(logs []models.NutritionLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	completed := 0
	for _, l := range logs {
		if l.IsCompleted {
			completed++
		}
	}
	return math.Round(float64(completed) / float64(len(logs)) * 100)
}

type Progress struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type DaySummary struct {
	Date      string        `json:"date"`
	Target    models.Macros `json:"target"`
	Consumed  models.Macros `json:"consumed"`
	Progress  Progress      `json:"progress"`
	Adherence float64       `json:"adherence"`
	Meals     int           `json:"meals"`
}

func Summarize(date string, logs []models.NutritionLog) DaySummary {
	target, consumed := Totals(logs)
	return DaySummary{
		Date:     date,
		Target:   target,
		Consumed: consumed,
		Progress: Progress{
			Calories: Percent(consumed.Calories, target.Calories),
			Protein:  Percent(consumed.Protein, target.Protein),
			Carbs:    Percent(consumed.Carbs, target.Carbs),
			Fats:     Percent(consumed.Fats, target.Fats),
		},
		Adherence: Adherence(logs),
		Meals:     len(logs),
	}
}

// ForDate keeps the logs of one calendar day. Log dates may carry a time part.
func ForDate(logs []models.NutritionLog, date string) []models.NutritionLog {
	out := make([]models.NutritionLog, 0, len(logs))
	for _, l := range logs {
		if len(l.Date) >= len(date) && l.Date[:len(date)] == date {
			out = append(out, l)
		}
	}
	return out
}

// SeedDay turns a plan's meal templates into the day's uncompleted logs,
// carrying the planned macros over.
func SeedDay(userID, date string, meals []models.MealTemplate) []models.NutritionLog {
	logs := make([]models.NutritionLog, 0, len(meals))
	for _, m := range meals {
		var macros *models.Macros
		if m.Macros != nil {
			copied := *m.Macros
			macros = &copied
		}
		logs = append(logs, models.NutritionLog{
			ID:          "log_" + m.ID + "_" + date,
			UserID:      userID,
			Date:        date,
			MealName:    m.MealName,
			Description: m.Description,
			Macros:      macros,
		})
	}
	return logs
}
