package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserID        = "user_id"
	KeyUserName      = "user_name"
	KeyUserEmail     = "user_email"
	KeyIsAdmin       = "is_admin"
	KeyFromProtected = "from_protected"
)
