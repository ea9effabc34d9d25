package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyUserEmail = "user_email"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Donations
const (
	// DefaultDonorName is stored when an anonymous donor omits a name.
	DefaultDonorName = "Anonymous"

	// SupportedCurrency is the only currency donations accept.
	SupportedCurrency = "ils"
)

// Ratings
const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// DateLayout is the wire and storage format for event dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire and storage format for event start times.
const TimeLayout = "15:04"
