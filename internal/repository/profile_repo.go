package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/saeid-a/FitProBack/internal/mapper"
	"github.com/saeid-a/FitProBack/internal/models"
)

const profileSelect = `
	SELECT p.id::text, p.email, p.full_name, p.role, p.avatar_url, p.cert_url, p.phone_number,
	       p.bio, p.age, p.height, p.gender, p.experience_level, p.joining_date, p.is_active,
	       p.subscription_tier, p.subscription_status, p.subscription_expiry_date,
	       p.verification_status, p.invite_code, p.pending_requests, p.coach_id::text,
	       p.coach_connect_status, p.settings, c.full_name
	FROM profiles p
	LEFT JOIN profiles c ON c.id = p.coach_id
`

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*mapper.ProfileRecord, error) {
	var rec mapper.ProfileRecord
	var coachName *string
	err := row.Scan(
		&rec.ID,
		&rec.Email,
		&rec.FullName,
		&rec.Role,
		&rec.AvatarURL,
		&rec.CertURL,
		&rec.PhoneNumber,
		&rec.Bio,
		&rec.Age,
		&rec.Height,
		&rec.Gender,
		&rec.ExperienceLevel,
		&rec.JoiningDate,
		&rec.IsActive,
		&rec.SubscriptionTier,
		&rec.SubscriptionStatus,
		&rec.SubscriptionExpiryDate,
		&rec.VerificationStatus,
		&rec.InviteCode,
		&rec.PendingRequests,
		&rec.CoachID,
		&rec.CoachConnectStatus,
		&rec.Settings,
		&coachName,
	)
	if err != nil {
		return nil, err
	}
	if coachName != nil {
		rec.Coach = &mapper.CoachRef{FullName: coachName}
	}
	return &rec, nil
}

func (r *ProfileRepository) listProfiles(ctx context.Context, query string, args ...any) ([]mapper.ProfileRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]mapper.ProfileRecord, 0)
	for rows.Next() {
		rec, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID returns the profile row only; nested collections are loaded by their
// own repositories. pgx.ErrNoRows is returned when the profile does not exist.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*mapper.ProfileRecord, error) {
	return scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.id = $1`, id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *ProfileRepository) GetByIDForUpdate(ctx context.Context, id string) (*mapper.ProfileRecord, error) {
	return scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id))
}

func (r *ProfileRepository) GetByInviteCode(ctx context.Context, code string) (*mapper.ProfileRecord, error) {
	return scanProfile(r.db.QueryRow(ctx, profileSelect+` WHERE p.invite_code = $1 AND p.role = 'Coach'`, code))
}

func (r *ProfileRepository) ListByCoach(ctx context.Context, coachID string) ([]mapper.ProfileRecord, error) {
	return r.listProfiles(ctx, profileSelect+` WHERE p.coach_id = $1 ORDER BY p.created_at`, coachID)
}

func (r *ProfileRepository) ListCoaches(ctx context.Context, status models.VerificationStatus) ([]mapper.ProfileRecord, error) {
	return r.listProfiles(ctx, profileSelect+`
		WHERE p.role = 'Coach' AND p.verification_status = $1
		ORDER BY p.created_at DESC
	`, string(status))
}

func (r *ProfileRepository) CountTrainees(ctx context.Context, coachID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM profiles
		WHERE coach_id = $1
	`, coachID).Scan(&count)
	return count, err
}

// HasPendingRequest reports whether any coach other than exceptCoachID still
// holds a pending request from the trainee.
func (r *ProfileRepository) HasPendingRequest(ctx context.Context, traineeID, exceptCoachID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM profiles
			WHERE id <> $2::uuid
			  AND pending_requests @> jsonb_build_array(jsonb_build_object('traineeId', $1::text, 'status', 'Pending'))
		)
	`, traineeID, exceptCoachID).Scan(&exists)
	return exists, err
}

func (r *ProfileRepository) Create(ctx context.Context, rec mapper.ProfileRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, email, full_name, role, joining_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, rec.Email, rec.FullName, rec.Role, rec.JoiningDate)
	return err
}

// Upsert writes every column that belongs to the profile row. Concurrent
// writers are last-write-wins.
func (r *ProfileRepository) Upsert(ctx context.Context, rec mapper.ProfileRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (
			id, email, full_name, role, avatar_url, cert_url, phone_number, bio, age, height,
			gender, experience_level, joining_date, is_active, subscription_tier,
			subscription_status, subscription_expiry_date, verification_status, invite_code,
			pending_requests, coach_id, coach_connect_status, settings
		)
		VALUES (
			$1, $2, $3, COALESCE($4, 'Guest'), $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, COALESCE($15, 'Free'),
			COALESCE($16, 'Active'), $17, COALESCE($18, 'Pending'), $19,
			COALESCE($20::jsonb, '[]'::jsonb), $21, COALESCE($22, 'None'), COALESCE($23::jsonb, '{}'::jsonb)
		)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role,
			avatar_url = EXCLUDED.avatar_url,
			cert_url = EXCLUDED.cert_url,
			phone_number = EXCLUDED.phone_number,
			bio = EXCLUDED.bio,
			age = EXCLUDED.age,
			height = EXCLUDED.height,
			gender = EXCLUDED.gender,
			experience_level = EXCLUDED.experience_level,
			joining_date = EXCLUDED.joining_date,
			is_active = EXCLUDED.is_active,
			subscription_tier = EXCLUDED.subscription_tier,
			subscription_status = EXCLUDED.subscription_status,
			subscription_expiry_date = EXCLUDED.subscription_expiry_date,
			verification_status = EXCLUDED.verification_status,
			invite_code = EXCLUDED.invite_code,
			pending_requests = EXCLUDED.pending_requests,
			coach_id = EXCLUDED.coach_id,
			coach_connect_status = EXCLUDED.coach_connect_status,
			settings = EXCLUDED.settings,
			updated_at = NOW()
	`,
		rec.ID,
		rec.Email,
		rec.FullName,
		rec.Role,
		rec.AvatarURL,
		rec.CertURL,
		rec.PhoneNumber,
		rec.Bio,
		rec.Age,
		rec.Height,
		rec.Gender,
		rec.ExperienceLevel,
		rec.JoiningDate,
		rec.IsActive,
		rec.SubscriptionTier,
		rec.SubscriptionStatus,
		rec.SubscriptionExpiryDate,
		rec.VerificationStatus,
		rec.InviteCode,
		rec.PendingRequests,
		rec.CoachID,
		rec.CoachConnectStatus,
		rec.Settings,
	)
	return err
}

func (r *ProfileRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ProfileRepository) UpdateVerificationStatus(ctx context.Context, id string, status models.VerificationStatus) error {
	return r.exec(ctx, `
		UPDATE profiles
		SET verification_status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, string(status))
}

func (r *ProfileRepository) UpdateCertificate(ctx context.Context, id, certURL string, status models.VerificationStatus) error {
	return r.exec(ctx, `
		UPDATE profiles
		SET cert_url = $2, verification_status = $3, updated_at = NOW()
		WHERE id = $1
	`, id, certURL, string(status))
}

func (r *ProfileRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.exec(ctx, `
		UPDATE profiles
		SET avatar_url = $2, updated_at = NOW()
		WHERE id = $1
	`, id, avatarURL)
}

// SetInviteCode fails with a unique violation when another coach owns the code.
func (r *ProfileRepository) SetInviteCode(ctx context.Context, id, code string) error {
	return r.exec(ctx, `
		UPDATE profiles
		SET invite_code = $2, updated_at = NOW()
		WHERE id = $1
	`, id, code)
}

func (r *ProfileRepository) SetPendingRequests(ctx context.Context, id string, requests []models.ConnectionRequest) error {
	if requests == nil {
		requests = []models.ConnectionRequest{}
	}
	return r.exec(ctx, `
		UPDATE profiles
		SET pending_requests = $2, updated_at = NOW()
		WHERE id = $1
	`, id, requests)
}

func (r *ProfileRepository) SetCoachLink(ctx context.Context, traineeID string, coachID *string, status models.CoachConnectStatus) error {
	return r.exec(ctx, `
		UPDATE profiles
		SET coach_id = $2, coach_connect_status = $3, updated_at = NOW()
		WHERE id = $1
	`, traineeID, coachID, string(status))
}

func (r *ProfileRepository) UpdateSubscription(
	ctx context.Context,
	id string,
	tier models.SubscriptionTier,
	status models.SubscriptionStatus,
	expiry string,
) error {
	return r.exec(ctx, `
		UPDATE profiles
		SET subscription_tier = $2, subscription_status = $3, subscription_expiry_date = $4, updated_at = NOW()
		WHERE id = $1
	`, id, string(tier), string(status), expiry)
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.exec(ctx, `
		UPDATE profiles
		SET role = $2, updated_at = NOW()
		WHERE id = $1
	`, id, string(role))
}

// MergeSettings shallow-merges patch into the stored settings object.
func (r *ProfileRepository) MergeSettings(ctx context.Context, id string, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}
	if err := r.exec(ctx, `
		UPDATE profiles
		SET settings = COALESCE(settings, '{}'::jsonb) || $2::jsonb, updated_at = NOW()
		WHERE id = $1
	`, id, patch); err != nil {
		return fmt.Errorf("merge settings: %w", err)
	}
	return nil
}
