package models

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "Pending"
	VerificationVerified VerificationStatus = "Verified"
	VerificationRejected VerificationStatus = "Rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a coach may move from s to next.
// Pending resolves to Verified or Rejected; a rejected coach may re-submit.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	switch s {
	case VerificationPending:
		return next == VerificationVerified || next == VerificationRejected
	case VerificationRejected:
		return next == VerificationPending
	}
	return false
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

type ConnectionRequest struct {
	ID          string        `json:"id"`
	TraineeID   string        `json:"traineeId"`
	TraineeName string        `json:"traineeName"`
	Date        string        `json:"date"`
	Status      RequestStatus `json:"status"`
}

type CoachListing struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	AvatarURL          string             `json:"avatarUrl,omitempty"`
	Bio                string             `json:"bio,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	CertURL            string             `json:"certUrl,omitempty"`
	Email              string             `json:"email,omitempty"`
}

type Document struct {
	ID        string `json:"id"`
	CoachID   string `json:"coachId"`
	FileURL   string `json:"fileUrl"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}
