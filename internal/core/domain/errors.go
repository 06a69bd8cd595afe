package domain

// ErrorKind separates recoverable business-rule violations from request-shape
// problems and unexpected faults. The HTTP boundary maps each kind to a fixed
// status class; nothing below the boundary decides status codes.
type ErrorKind int

const (
	KindBusiness ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindInternal
)

// Error is a coded failure surfaced to the caller. The code is a stable
// machine-readable string; the message is the human-readable default.
type Error struct {
	Code    string
	Message string
	Kind    ErrorKind
}

func (e *Error) Error() string { return e.Message }

// Business-rule violations. Login collapses "unknown username" and "wrong
// password" into the single ErrInvalidCredentials value so callers cannot
// enumerate usernames.
var (
	ErrUsernameTaken      = &Error{Code: "USERNAME_ALREADY_EXISTS", Message: "Username already exists", Kind: KindBusiness}
	ErrEmailTaken         = &Error{Code: "EMAIL_ALREADY_EXISTS", Message: "Email already exists", Kind: KindBusiness}
	ErrInvalidCredentials = &Error{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", Kind: KindBusiness}
	ErrUserNotFound       = &Error{Code: "USER_NOT_FOUND", Message: "User not found", Kind: KindBusiness}
	ErrTooManyAttempts    = &Error{Code: "TOO_MANY_ATTEMPTS", Message: "Too many login attempts, try again later", Kind: KindBusiness}
)

var (
	ErrUnauthorized = &Error{Code: "AUTH_001", Message: "Unauthorized", Kind: KindUnauthorized}
	ErrForbidden    = &Error{Code: "AUTH_002", Message: "Forbidden", Kind: KindForbidden}
	ErrInternal     = &Error{Code: "INTERNAL_ERROR", Message: "Internal server error", Kind: KindInternal}
)

// NewValidationError reports one or more malformed request fields. The message
// carries one entry per offending field, already joined by the validator.
func NewValidationError(message string) *Error {
	return &Error{Code: "VALIDATION_ERROR", Message: message, Kind: KindValidation}
}
