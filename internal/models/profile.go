package models

type Role string

const (
	RoleGuest   Role = "Guest"
	RoleTrainee Role = "Trainee"
	RoleCoach   Role = "Coach"
	RoleAdmin   Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleTrainee, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "Free"
	TierPremium SubscriptionTier = "Premium"
)

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "Active"
	SubscriptionExpired SubscriptionStatus = "Expired"
)

type CoachConnectStatus string

const (
	ConnectNone      CoachConnectStatus = "None"
	ConnectPending   CoachConnectStatus = "Pending"
	ConnectConnected CoachConnectStatus = "Connected"
	ConnectRejected  CoachConnectStatus = "Rejected"
)

type UserProfile struct {
	ID                     string                 `json:"id"`
	Email                  string                 `json:"email"`
	Name                   string                 `json:"name"`
	Role                   Role                   `json:"role"`
	AvatarURL              string                 `json:"avatarUrl,omitempty"`
	CertURL                string                 `json:"certUrl,omitempty"`
	PhoneNumber            string                 `json:"phoneNumber,omitempty"`
	Bio                    string                 `json:"bio,omitempty"`
	Age                    int                    `json:"age"`
	Height                 float64                `json:"height"`
	Gender                 string                 `json:"gender"`
	ExperienceLevel        string                 `json:"experienceLevel"`
	JoiningDate            string                 `json:"joiningDate,omitempty"`
	IsActive               bool                   `json:"isActive"`
	SubscriptionTier       SubscriptionTier       `json:"subscriptionTier"`
	SubscriptionStatus     SubscriptionStatus     `json:"subscriptionStatus"`
	SubscriptionExpiryDate string                 `json:"subscriptionExpiryDate,omitempty"`
	VerificationStatus     VerificationStatus     `json:"verificationStatus"`
	InviteCode             string                 `json:"inviteCode,omitempty"`
	PendingRequests        []ConnectionRequest    `json:"pendingRequests"`
	CoachID                string                 `json:"coachId,omitempty"`
	CoachConnectStatus     CoachConnectStatus     `json:"coachConnectStatus"`
	ConnectedCoachName     string                 `json:"connectedCoachName,omitempty"`
	Measurements           []AnthropometryLog     `json:"measurements"`
	CustomExercises        []ExerciseDefinition   `json:"customExercises"`
	Settings               map[string]any         `json:"settings"`
}

func (p UserProfile) IsCoach() bool {
	return p.Role == RoleCoach
}

// LatestMeasurement returns the last entry; measurements are kept in date order.
func (p UserProfile) LatestMeasurement() (AnthropometryLog, bool) {
	if len(p.Measurements) == 0 {
		return AnthropometryLog{}, false
	}
	return p.Measurements[len(p.Measurements)-1], true
}

type AnthropometryLog struct {
	LogID         string   `json:"logId"`
	Date          string   `json:"date"`
	Weight        *float64 `json:"weight,omitempty"`
	BodyFat       *float64 `json:"bodyFat,omitempty"`
	Chest         *float64 `json:"chest,omitempty"`
	Waist         *float64 `json:"waist,omitempty"`
	Shoulders     *float64 `json:"shoulders,omitempty"`
	ArmRight      *float64 `json:"armRight,omitempty"`
	ArmLeft       *float64 `json:"armLeft,omitempty"`
	ThighRight    *float64 `json:"thighRight,omitempty"`
	ThighLeft     *float64 `json:"thighLeft,omitempty"`
	CalfRight     *float64 `json:"calfRight,omitempty"`
	CalfLeft      *float64 `json:"calfLeft,omitempty"`
	PhotoFrontURI string   `json:"photoFrontUri,omitempty"`
	PhotoSideURI  string   `json:"photoSideUri,omitempty"`
	PhotoBackURI  string   `json:"photoBackUri,omitempty"`
}
