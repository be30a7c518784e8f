package constants

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1000000
)

// Request context and headers
const (
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// Route parameters
const (
	ParamID = "id"
)

// Task drafting
const (
	MaxAIGeneratedTasks = 20
	MaxDraftSourceChars = 8000
)
