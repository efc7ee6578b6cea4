package constants

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
	ContextKeyRequest = "request_id"

	SessionCookieName = "todo_session"
	HeaderRequestID   = "X-Request-ID"
)

// Validation limits, mirrored by the column sizes in internal/models
const (
	MinPasswordLength = 8
	MaxUsernameLength = 75
	MaxEmailLength    = 255
	MaxTitleLength    = 120
	MaxColorLength    = 20
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// MaxAIGeneratedTasks caps suggestions accepted from a single completion.
const MaxAIGeneratedTasks = 20

// MaxSlugSuffix bounds the numeric suffix search for task slugs.
const MaxSlugSuffix = 1000

// Redirect targets for form submissions
const (
	LoginPath       = "/users/login/"
	HomePath        = "/"
	ProjectListPath = "/project-list/"
	TaskListPath    = "/task-list/"
)
