package constants

// Pagination bounds for task listing.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Session and context keys.
const (
	ContextKeyUserID = "user_id"
	SessionName      = "task_session"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// MaxAISuggestedTasks caps how many task drafts a single suggestion
// request may return.
const MaxAISuggestedTasks = 20
