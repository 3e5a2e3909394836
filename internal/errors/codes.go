package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own copy.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== AUTHZ_ ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput     = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID        = "VALIDATION_INVALID_ID"
	ValidationRequired         = "VALIDATION_REQUIRED"
	ValidationConfirmRequired  = "VALIDATION_CONFIRM_REQUIRED"
	ValidationNoItemsSelected  = "VALIDATION_NO_ITEMS_SELECTED"
	ValidationNoCategorySelect = "VALIDATION_NO_CATEGORY_SELECTED"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== BUSINESS_ ====================
	BusinessNotFound          = "BUSINESS_NOT_FOUND"
	BusinessInvalidTransition = "BUSINESS_INVALID_STATUS_TRANSITION"

	// ==================== MENU_ ====================
	MenuNotFound         = "MENU_NOT_FOUND"
	MenuCategoryNotFound = "MENU_CATEGORY_NOT_FOUND"
	MenuItemNotFound     = "MENU_ITEM_NOT_FOUND"
	MenuWizardStep       = "MENU_WIZARD_INVALID_STEP"

	// ==================== TABLE_ ====================
	TableNotFound     = "TABLE_NOT_FOUND"
	TableNumberExists = "TABLE_NUMBER_EXISTS"

	// ==================== UPLOAD_ ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
