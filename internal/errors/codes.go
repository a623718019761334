package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own copy.

const (
	// ==================== auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // no session
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong username/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED" // logged out

	// ==================== validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationInvalidStatus = "VALIDATION_INVALID_STATUS"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== business (BUSINESS_) ====================
	BusinessNotFound    = "BUSINESS_NOT_FOUND"
	BusinessSlugExists  = "BUSINESS_SLUG_EXISTS"
	BusinessPhoneExists = "BUSINESS_PHONE_EXISTS"

	// ==================== registration (REGISTRATION_) ====================
	RegistrationNotFound  = "REGISTRATION_NOT_FOUND"
	RegistrationFinalized = "REGISTRATION_FINALIZED" // already Approved or Rejected

	// ==================== internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API_ERROR"
)
