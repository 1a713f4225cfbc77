package models

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fats:     m.Fats + o.Fats,
	}
}

type NutritionLog struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Date        string  `json:"date"`
	MealName    string  `json:"mealName"`
	Description string  `json:"description,omitempty"`
	IsCompleted bool    `json:"isCompleted"`
	Macros      *Macros `json:"macros,omitempty"`
}

type WorkoutLog struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	TargetID        string  `json:"targetId"`
	Date            string  `json:"date"`
	SetNumber       int     `json:"setNumber"`
	Reps            int     `json:"reps"`
	Weight          float64 `json:"weight"`
	RPE             float64 `json:"rpe,omitempty"`
	RestTime        int     `json:"restTime,omitempty"`
	VideoURL        string  `json:"videoUrl,omitempty"`
	VideoFeedbackID string  `json:"videoFeedbackId,omitempty"`
}

func (l WorkoutLog) Volume() float64 {
	return float64(l.Reps) * l.Weight
}

type WellnessLog struct {
	ID            string   `json:"id"`
	UserID        string   `json:"userId"`
	Date          string   `json:"date"`
	SleepDuration *float64 `json:"sleepDuration,omitempty"`
	SorenessLevel *float64 `json:"sorenessLevel,omitempty"`
	EnergyMood    *float64 `json:"energyMood,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type UserLogs struct {
	WorkoutLogs   []WorkoutLog   `json:"workoutLogs"`
	WellnessLogs  []WellnessLog  `json:"wellnessLogs"`
	NutritionLogs []NutritionLog `json:"nutritionLogs"`
}

type VideoFeedback struct {
	ID           string `json:"id"`
	WorkoutLogID string `json:"workoutLogId"`
	CoachID      string `json:"coachId"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"createdAt,omitempty"`
}
