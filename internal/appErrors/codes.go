package appErrors

// Error codes grouped by domain.
const (
	// Authentication and authorization
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"

	// Resources
	CodeUserNotFound ErrorCode = "USER_NOT_FOUND"

	// System
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeSourceFetchError ErrorCode = "SOURCE_FETCH_ERROR"
)
