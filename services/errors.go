package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rule errors
	ErrValidationFailed     = errors.New("validation failed")
	ErrBillMissingFields    = errors.New("missing required fields: trainer, team, quarter and year are required")
	ErrBillNoEvents         = errors.New("no training sessions provided")
	ErrReportMissingFields  = errors.New("missing required fields: travel date, destination and team are required")
	ErrReportNoVehicles     = errors.New("no vehicles provided")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidQuarter       = errors.New("quarter must be between 1 and 4")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrTrainerNameRequired  = errors.New("trainer name is required")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrPlayerNameRequired   = errors.New("player name is required")
	ErrInvalidLicenseType   = errors.New("invalid license type")

	// Conflict errors
	ErrBillDuplicate     = errors.New("a bill for this trainer, team and quarter already exists")
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrTeamNameConflict  = errors.New("team name is already in use")
	ErrTrainerInUse      = errors.New("trainer is referenced by existing bills")
	ErrTeamInUse         = errors.New("team is referenced by existing bills or reports")

	// Authentication and authorization errors
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthUserBanned         = errors.New("account is banned")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrUserNotFound         = errors.New("user not found")
	ErrTrainerNotFound      = errors.New("trainer not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrBillNotFound         = errors.New("bill not found")
	ErrTravelReportNotFound = errors.New("travel report not found")
)
