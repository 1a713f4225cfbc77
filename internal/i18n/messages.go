// Package i18n holds the user-facing API messages in Persian and English.
package i18n

import "golang.org/x/text/language"

type Key string

const (
	InvalidBody        Key = "invalid_body"
	ValidationFailed   Key = "validation_failed"
	MissingToken       Key = "missing_token"
	InvalidToken       Key = "invalid_token"
	Forbidden          Key = "forbidden"
	NotFound           Key = "not_found"
	ProfileNotFound    Key = "profile_not_found"
	Conflict           Key = "conflict"
	InvalidState       Key = "invalid_state"
	InvalidStatus      Key = "invalid_status"
	InvalidInviteCode  Key = "invalid_invite_code"
	TraineeLimit       Key = "trainee_limit"
	CoachNotVerified   Key = "coach_not_verified"
	DuplicateRequest   Key = "duplicate_request"
	StorageUnavailable Key = "storage_unavailable"
	Internal           Key = "internal"
	EmailTaken         Key = "email_taken"
	InvalidCredentials Key = "invalid_credentials"
	UnsupportedOAuth   Key = "unsupported_oauth"
	ResetSent          Key = "reset_sent"
	SignedOut          Key = "signed_out"
	FileRequired       Key = "file_required"
	FileTooLarge       Key = "file_too_large"
	FileType           Key = "file_type"
	UpgradeRequired    Key = "upgrade_required"
	EmailQueued        Key = "email_queued"
)

// Persian is the default; it is listed first.
var supported = language.NewMatcher([]language.Tag{
	language.Persian,
	language.English,
})

var messages = map[Key][2]string{
	InvalidBody:        {"بدنه درخواست نامعتبر است", "Invalid request body"},
	ValidationFailed:   {"اطلاعات ارسالی معتبر نیست", "Validation failed"},
	MissingToken:       {"توکن احراز هویت ارسال نشده است", "Missing authorization header"},
	InvalidToken:       {"نشست شما منقضی شده است، دوباره وارد شوید", "Invalid or expired token"},
	Forbidden:          {"دسترسی مجاز نیست", "Forbidden"},
	NotFound:           {"مورد درخواستی یافت نشد", "Not found"},
	ProfileNotFound:    {"پروفایل یافت نشد", "Profile not found"},
	Conflict:           {"این مورد قبلا ثبت شده است", "Already exists"},
	InvalidState:       {"این عملیات در وضعیت فعلی ممکن نیست", "Invalid state transition"},
	InvalidStatus:      {"وضعیت نامعتبر است", "Invalid status"},
	InvalidInviteCode:  {"کد دعوت نامعتبر است", "Invalid invite code"},
	TraineeLimit:       {"ظرفیت شاگردان پلن رایگان تکمیل شده است", "Free plan trainee limit reached"},
	CoachNotVerified:   {"حساب مربی هنوز تایید نشده است", "Coach account is not verified"},
	DuplicateRequest:   {"درخواست شما قبلا ارسال شده است", "A request is already pending"},
	StorageUnavailable: {"سرویس ذخیره فایل در دسترس نیست", "Storage service is not configured"},
	Internal:           {"خطای داخلی سرور", "Internal server error"},
	EmailTaken:         {"این ایمیل قبلا ثبت شده است، لطفا وارد شوید", "Email already registered, please sign in"},
	InvalidCredentials: {"ایمیل یا رمز عبور اشتباه است", "Invalid email or password"},
	UnsupportedOAuth:   {"این روش ورود پشتیبانی نمی‌شود", "Unsupported sign-in provider"},
	ResetSent:          {"لینک بازیابی رمز عبور ارسال شد", "Password reset email sent"},
	SignedOut:          {"از حساب خارج شدید", "Signed out"},
	FileRequired:       {"فایل ارسال نشده است", "File is required"},
	FileTooLarge:       {"حجم فایل بیش از حد مجاز است", "File is too large"},
	FileType:           {"نوع فایل پشتیبانی نمی‌شود", "Unsupported file type"},
	UpgradeRequired:    {"اتصال وب‌سوکت لازم است", "WebSocket upgrade required"},
	EmailQueued:        {"ایمیل در صف ارسال قرار گرفت", "Email queued"},
}

// Index picks the message language for an Accept-Language header value.
func Index(acceptLanguage string) int {
	_, idx := language.MatchStrings(supported, acceptLanguage)
	if idx < 0 || idx > 1 {
		return 0
	}
	return idx
}

// Message returns the text for key in the language preferred by
// acceptLanguage. Unknown keys are returned as is.
func Message(acceptLanguage string, key Key) string {
	m, ok := messages[key]
	if !ok {
		return string(key)
	}
	return m[Index(acceptLanguage)]
}
