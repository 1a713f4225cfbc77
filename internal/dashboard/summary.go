package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/nutrition"
)

const (
	defaultPlanName    = "برنامه فعال"
	inactiveLabel      = "Inactive"
	sleepWindowEntries = 7
	trendWindow        = 7 * 24 * time.Hour
	trendBand          = 0.05
)

// Activity is everything a coach dashboard row is derived from.
type Activity struct {
	Profile        models.UserProfile
	WorkoutLogs    []models.WorkoutLog
	WellnessLogs   []models.WellnessLog
	NutritionLogs  []models.NutritionLog
	ActivePlanName string
}

func BuildSummary(a Activity, now time.Time) models.TraineeSummary {
	consistency := math.Min(100, float64(len(a.WorkoutLogs)*2))

	s := models.TraineeSummary{
		ID:                     a.Profile.ID,
		Name:                   a.Profile.Name,
		PhotoURL:               a.Profile.AvatarURL,
		LastActive:             lastActive(a.WorkoutLogs),
		PlanName:               a.ActivePlanName,
		ConsistencyScore:       consistency,
		Status:                 status(consistency),
		VolumeTrend:            volumeTrend(a.WorkoutLogs, now),
		SleepAverage:           sleepAverage(a.WellnessLogs),
		SorenessLevel:          latestSoreness(a.WellnessLogs),
		AsymmetryMax:           asymmetry(a.Profile),
		PaymentStatus:          models.SubscriptionExpired,
		SubscriptionExpiryDate: a.Profile.SubscriptionExpiryDate,
	}
	if s.PlanName == "" {
		s.PlanName = defaultPlanName
	}
	if a.Profile.SubscriptionStatus == models.SubscriptionActive {
		s.PaymentStatus = models.SubscriptionActive
	}
	if len(a.NutritionLogs) > 0 {
		adherence := nutrition.Adherence(a.NutritionLogs)
		s.NutritionAdherence = &adherence
	}
	return s
}

func status(consistency float64) models.TraineeStatus {
	switch {
	case consistency > 80:
		return models.StatusOnTrack
	case consistency < 20:
		return models.StatusInactive
	default:
		return models.StatusRisk
	}
}

func lastActive(logs []models.WorkoutLog) string {
	latest := ""
	for _, l := range logs {
		if l.Date > latest {
			latest = l.Date
		}
	}
	if latest == "" {
		return inactiveLabel
	}
	return latest
}

func sleepAverage(logs []models.WellnessLog) *float64 {
	var total float64
	n := 0
	for _, l := range newestWellness(logs) {
		if l.SleepDuration == nil {
			continue
		}
		total += *l.SleepDuration
		if n++; n == sleepWindowEntries {
			break
		}
	}
	if n == 0 {
		return nil
	}
	avg := total / float64(n)
	return &avg
}

// latestSoreness is the newest reported soreness; entries without one are skipped.
func latestSoreness(logs []models.WellnessLog) *float64 {
	for _, l := range newestWellness(logs) {
		if l.SorenessLevel != nil {
			soreness := *l.SorenessLevel
			return &soreness
		}
	}
	return nil
}

func newestWellness(logs []models.WellnessLog) []models.WellnessLog {
	out := append([]models.WellnessLog(nil), logs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// volumeTrend compares lifted volume in the last week with the week before.
// It is absent when neither week has any logged sets.
func volumeTrend(logs []models.WorkoutLog, now time.Time) *models.VolumeTrend {
	var recent, previous float64
	for _, l := range logs {
		day, ok := parseDay(l.Date)
		if !ok {
			continue
		}
		age := now.Sub(day)
		switch {
		case age < 0:
			continue
		case age < trendWindow:
			recent += l.Volume()
		case age < 2*trendWindow:
			previous += l.Volume()
		}
	}
	if recent == 0 && previous == 0 {
		return nil
	}

	trend := models.TrendFlat
	switch {
	case previous == 0:
		trend = models.TrendUp
	case (recent-previous)/previous > trendBand:
		trend = models.TrendUp
	case (recent-previous)/previous < -trendBand:
		trend = models.TrendDown
	}
	return &trend
}

// asymmetry is the largest left/right girth gap in the latest measurement.
func asymmetry(p models.UserProfile) *float64 {
	m, ok := p.LatestMeasurement()
	if !ok {
		return nil
	}
	pairs := [][2]*float64{
		{m.ArmLeft, m.ArmRight},
		{m.ThighLeft, m.ThighRight},
		{m.CalfLeft, m.CalfRight},
	}
	var largest *float64
	for _, pair := range pairs {
		if pair[0] == nil || pair[1] == nil {
			continue
		}
		gap := math.Abs(*pair[0] - *pair[1])
		if largest == nil || gap > *largest {
			largest = &gap
		}
	}
	return largest
}

func parseDay(value string) (time.Time, bool) {
	if len(value) < len(time.DateOnly) {
		return time.Time{}, false
	}
	day, err := time.Parse(time.DateOnly, value[:len(time.DateOnly)])
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
