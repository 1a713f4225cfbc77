package dashboard

import "github.com/saeid-a/FitProBack/internal/models"

type RiskLevel string

const (
	RiskRed    RiskLevel = "RED"
	RiskYellow RiskLevel = "YELLOW"
	RiskGreen  RiskLevel = "GREEN"
)

const (
	redConsistencyBelow    = 50
	yellowConsistencyBelow = 75
	redSleepBelow          = 5
	redSorenessFrom        = 7

	assumedSleepHours = 7
	assumedSoreness   = 0
)

// ClassifyRisk evaluates the rules in order; the first match wins.
// Missing wellness data is treated as healthy.
func ClassifyRisk(t models.TraineeSummary) RiskLevel {
	sleep := valueOr(t.SleepAverage, assumedSleepHours)
	soreness := valueOr(t.SorenessLevel, assumedSoreness)

	switch {
	case t.ConsistencyScore < redConsistencyBelow || sleep < redSleepBelow || soreness >= redSorenessFrom:
		return RiskRed
	case t.ConsistencyScore < yellowConsistencyBelow:
		return RiskYellow
	default:
		return RiskGreen
	}
}

func (l RiskLevel) Weight() int {
	switch l {
	case RiskRed:
		return 3
	case RiskYellow:
		return 2
	default:
		return 1
	}
}

func (l RiskLevel) Label() string {
	switch l {
	case RiskRed:
		return "هشدار ریسک"
	case RiskYellow:
		return "نیاز به توجه"
	default:
		return "وضعیت ایمن"
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
