package models

type VolumeTrend string

const (
	TrendUp   VolumeTrend = "Up"
	TrendDown VolumeTrend = "Down"
	TrendFlat VolumeTrend = "Flat"
)

type TraineeStatus string

const (
	StatusOnTrack  TraineeStatus = "OnTrack"
	StatusRisk     TraineeStatus = "Risk"
	StatusInactive TraineeStatus = "Inactive"
)

// TraineeSummary is derived from logs on every fetch and never stored.
type TraineeSummary struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	PhotoURL               string             `json:"photoUrl,omitempty"`
	LastActive             string             `json:"lastActive"`
	PlanName               string             `json:"planName"`
	ConsistencyScore       float64            `json:"consistencyScore"`
	Status                 TraineeStatus      `json:"status"`
	VolumeTrend            *VolumeTrend       `json:"volumeTrend,omitempty"`
	NutritionAdherence     *float64           `json:"nutritionAdherence,omitempty"`
	AsymmetryMax           *float64           `json:"asymmetryMax,omitempty"`
	SleepAverage           *float64           `json:"sleepAverage,omitempty"`
	SorenessLevel          *float64           `json:"sorenessLevel,omitempty"`
	PaymentStatus          SubscriptionStatus `json:"paymentStatus"`
	SubscriptionExpiryDate string             `json:"subscriptionExpiryDate,omitempty"`
}
