package mapper

import (
	"encoding/json"
	"time"

	"github.com/saeid-a/FitProBack/internal/models"
)

// Storage records mirror the database columns. Nullable columns are pointers.

type ProfileRecord struct {
	ID                     string                     `json:"id"`
	Email                  *string                    `json:"email"`
	FullName               *string                    `json:"full_name"`
	Role                   *string                    `json:"role"`
	AvatarURL              *string                    `json:"avatar_url"`
	CertURL                *string                    `json:"cert_url"`
	PhoneNumber            *string                    `json:"phone_number"`
	Bio                    *string                    `json:"bio"`
	Age                    *int                       `json:"age"`
	Height                 *float64                   `json:"height"`
	Gender                 *string                    `json:"gender"`
	ExperienceLevel        *string                    `json:"experience_level"`
	JoiningDate            *string                    `json:"joining_date"`
	IsActive               *bool                      `json:"is_active"`
	SubscriptionTier       *string                    `json:"subscription_tier"`
	SubscriptionStatus     *string                    `json:"subscription_status"`
	SubscriptionExpiryDate *string                    `json:"subscription_expiry_date"`
	VerificationStatus     *string                    `json:"verification_status"`
	InviteCode             *string                    `json:"invite_code"`
	PendingRequests        []models.ConnectionRequest `json:"pending_requests"`
	CoachID                *string                    `json:"coach_id"`
	CoachConnectStatus     *string                    `json:"coach_connect_status"`
	Settings               map[string]any             `json:"settings"`
	Measurements           []MeasurementRecord        `json:"measurements"`
	CustomExercises        []ExerciseRecord           `json:"custom_exercises"`
	Coach                  *CoachRef                  `json:"coach,omitempty"`
}

// CoachRef is the joined coach row (profiles.coach_id -> profiles.id).
type CoachRef struct {
	FullName *string `json:"full_name"`
}

type MeasurementRecord struct {
	ID            *string  `json:"id,omitempty"`
	UserID        string   `json:"user_id"`
	Date          string   `json:"date"`
	Weight        *float64 `json:"weight"`
	BodyFat       *float64 `json:"body_fat"`
	Chest         *float64 `json:"chest"`
	Waist         *float64 `json:"waist"`
	Shoulders     *float64 `json:"shoulders"`
	ArmRight      *float64 `json:"arm_right"`
	ArmLeft       *float64 `json:"arm_left"`
	ThighRight    *float64 `json:"thigh_right"`
	ThighLeft     *float64 `json:"thigh_left"`
	CalfRight     *float64 `json:"calf_right"`
	CalfLeft      *float64 `json:"calf_left"`
	PhotoFrontURI *string  `json:"photo_front_uri"`
	PhotoSideURI  *string  `json:"photo_side_uri"`
	PhotoBackURI  *string  `json:"photo_back_uri"`
}

type ExerciseRecord struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	NameEn           string   `json:"name_en"`
	NameFa           *string  `json:"name_fa"`
	MuscleGroup      *string  `json:"muscle_group"`
	Equipment        *string  `json:"equipment"`
	Mechanics        *string  `json:"mechanics"`
	Difficulty       *string  `json:"difficulty"`
	MovementPattern  *string  `json:"movement_pattern"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Instructions     []string `json:"instructions"`
	SafetyNotes      []string `json:"safety_notes"`
}

type PlanRecord struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	TraineeID         *string         `json:"trainee_id"`
	CreatorID         string          `json:"creator_id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	StartDate         string          `json:"start_date"`
	WeeksCount        int             `json:"weeks_count"`
	Days              json.RawMessage `json:"days"`
	NutritionTemplate json.RawMessage `json:"nutrition_template"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         *time.Time      `json:"created_at,omitempty"`
}

type WorkoutLogRecord struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	TargetID        string   `json:"target_id"`
	Date            string   `json:"date"`
	SetNumber       int      `json:"set_number"`
	Reps            int      `json:"reps"`
	Weight          float64  `json:"weight"`
	RPE             *float64 `json:"rpe"`
	RestTime        *int     `json:"rest_time"`
	VideoURL        *string  `json:"video_url"`
	VideoFeedbackID *string  `json:"video_feedback_id"`
}

type WellnessLogRecord struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	Date          string   `json:"date"`
	SleepDuration *float64 `json:"sleep_duration"`
	SorenessLevel *float64 `json:"soreness_level"`
	EnergyMood    *float64 `json:"energy_mood"`
	Notes         *string  `json:"notes"`
}

type NutritionLogRecord struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Date        string         `json:"date"`
	MealName    string         `json:"meal_name"`
	Description *string        `json:"description"`
	IsCompleted bool           `json:"is_completed"`
	Macros      *models.Macros `json:"macros"`
}
