package mapper

import (
	"strings"

	"github.com/saeid-a/FitProBack/internal/models"
)

// profileDefaults is the single place where absent profile columns get their
// domain value.
var profileDefaults = struct {
	Name               string
	Role               models.Role
	SubscriptionTier   models.SubscriptionTier
	SubscriptionStatus models.SubscriptionStatus
	VerificationStatus models.VerificationStatus
	Gender             string
	ExperienceLevel    string
	CoachConnectStatus models.CoachConnectStatus
}{
	Name:               "User",
	Role:               models.RoleGuest,
	SubscriptionTier:   models.TierFree,
	SubscriptionStatus: models.SubscriptionActive,
	VerificationStatus: models.VerificationPending,
	Gender:             "Male",
	ExperienceLevel:    "Beginner",
	CoachConnectStatus: models.ConnectNone,
}

// Profiles converts profile rows. With LegacyURLFallback set, the avatar and
// certificate URLs share one slot the way rows written before cert_url existed do.
type Profiles struct {
	LegacyURLFallback bool
}

func ProfileFromStorage(rec ProfileRecord) models.UserProfile {
	return Profiles{}.FromStorage(rec)
}

func ProfileToStorage(p models.UserProfile) ProfileRecord {
	return Profiles{}.ToStorage(p)
}

func (m Profiles) FromStorage(rec ProfileRecord) models.UserProfile {
	p := models.UserProfile{
		ID:                     rec.ID,
		Email:                  str(rec.Email),
		Name:                   displayName(rec.FullName, rec.Email),
		Role:                   orDefault(rec.Role, profileDefaults.Role),
		AvatarURL:              str(rec.AvatarURL),
		CertURL:                str(rec.CertURL),
		PhoneNumber:            str(rec.PhoneNumber),
		Bio:                    str(rec.Bio),
		Gender:                 orDefault(rec.Gender, profileDefaults.Gender),
		ExperienceLevel:        orDefault(rec.ExperienceLevel, profileDefaults.ExperienceLevel),
		JoiningDate:            str(rec.JoiningDate),
		SubscriptionTier:       orDefault(rec.SubscriptionTier, profileDefaults.SubscriptionTier),
		SubscriptionStatus:     orDefault(rec.SubscriptionStatus, profileDefaults.SubscriptionStatus),
		SubscriptionExpiryDate: str(rec.SubscriptionExpiryDate),
		VerificationStatus:     orDefault(rec.VerificationStatus, profileDefaults.VerificationStatus),
		InviteCode:             str(rec.InviteCode),
		CoachID:                str(rec.CoachID),
		CoachConnectStatus:     orDefault(rec.CoachConnectStatus, profileDefaults.CoachConnectStatus),
		PendingRequests:        make([]models.ConnectionRequest, 0, len(rec.PendingRequests)),
		Measurements:           make([]models.AnthropometryLog, 0, len(rec.Measurements)),
		CustomExercises:        make([]models.ExerciseDefinition, 0, len(rec.CustomExercises)),
		Settings:               make(map[string]any, len(rec.Settings)),
	}
	if rec.Age != nil {
		p.Age = *rec.Age
	}
	if rec.Height != nil {
		p.Height = *rec.Height
	}
	if rec.IsActive != nil {
		p.IsActive = *rec.IsActive
	}
	if m.LegacyURLFallback && p.CertURL == "" {
		p.CertURL = p.AvatarURL
	}
	if rec.Coach != nil {
		p.ConnectedCoachName = str(rec.Coach.FullName)
	}

	p.PendingRequests = append(p.PendingRequests, rec.PendingRequests...)
	for _, mr := range rec.Measurements {
		p.Measurements = append(p.Measurements, MeasurementFromStorage(mr))
	}
	for _, er := range rec.CustomExercises {
		p.CustomExercises = append(p.CustomExercises, ExerciseFromStorage(er))
	}
	for k, v := range rec.Settings {
		p.Settings[k] = v
	}
	return p
}

// ToStorage is the inverse of FromStorage. ConnectedCoachName comes from a join
// and has no column of its own, so it is dropped.
func (m Profiles) ToStorage(p models.UserProfile) ProfileRecord {
	avatar := p.AvatarURL
	if m.LegacyURLFallback && avatar == "" {
		avatar = p.CertURL
	}

	rec := ProfileRecord{
		ID:                     p.ID,
		Email:                  ptr(p.Email),
		FullName:               ptr(p.Name),
		Role:                   ptr(string(p.Role)),
		AvatarURL:              ptr(avatar),
		CertURL:                ptr(p.CertURL),
		PhoneNumber:            ptr(p.PhoneNumber),
		Bio:                    ptr(p.Bio),
		Age:                    &p.Age,
		Height:                 &p.Height,
		Gender:                 ptr(p.Gender),
		ExperienceLevel:        ptr(p.ExperienceLevel),
		JoiningDate:            ptr(p.JoiningDate),
		IsActive:               &p.IsActive,
		SubscriptionTier:       ptr(string(p.SubscriptionTier)),
		SubscriptionStatus:     ptr(string(p.SubscriptionStatus)),
		SubscriptionExpiryDate: ptr(p.SubscriptionExpiryDate),
		VerificationStatus:     ptr(string(p.VerificationStatus)),
		InviteCode:             ptr(p.InviteCode),
		CoachID:                ptr(p.CoachID),
		CoachConnectStatus:     ptr(string(p.CoachConnectStatus)),
		PendingRequests:        append([]models.ConnectionRequest{}, p.PendingRequests...),
		Settings:               make(map[string]any, len(p.Settings)),
	}
	for k, v := range p.Settings {
		rec.Settings[k] = v
	}
	for _, ml := range p.Measurements {
		rec.Measurements = append(rec.Measurements, MeasurementToStorage(ml, p.ID))
	}
	for _, ex := range p.CustomExercises {
		rec.CustomExercises = append(rec.CustomExercises, ExerciseToStorage(ex, p.ID))
	}
	return rec
}

// displayName falls back to the local part of the email, then to a fixed label.
func displayName(fullName, email *string) string {
	if name := str(fullName); name != "" {
		return name
	}
	if e := str(email); e != "" {
		if local, _, _ := strings.Cut(e, "@"); local != "" {
			return local
		}
	}
	return profileDefaults.Name
}

func orDefault[T ~string](v *string, def T) T {
	if v == nil || *v == "" {
		return def
	}
	return T(*v)
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func ptr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
