package services

import "errors"

// Typed reason codes shared across services. The HTTP layer maps these to
// stable error identifiers; services never produce display text.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation errors, rejected before any write.
	ErrValidationFailed      = errors.New("validation failed")
	ErrNotEnoughClubs        = errors.New("at least two unique clubs are required")
	ErrUnknownFormat         = errors.New("unknown season format")
	ErrGroupConfigRequired   = errors.New("group configuration is required for this format")
	ErrGroupIndexGap         = errors.New("group indexes must be contiguous starting at zero")
	ErrGroupSlotMismatch     = errors.New("group slot count does not match assigned clubs")
	ErrGroupClubDuplicate    = errors.New("club assigned to more than one group")
	ErrGroupClubUnknown      = errors.New("group references a club outside the season field")
	ErrInvalidPredictionPick = errors.New("invalid prediction pick")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrInvalidCredentials    = errors.New("invalid email or password")

	// State-conflict errors.
	ErrSeasonNotActive      = errors.New("season is not active")
	ErrMatchAlreadyFinished = errors.New("match is already finished")
	ErrMatchNotFinished     = errors.New("match is not finished")
	ErrPredictionClosed     = errors.New("predictions are closed for this match")
	ErrStageAlreadyPlanned  = errors.New("next stage series already exist")

	// Entity-specific not-found codes.
	ErrSeasonNotFound      = errors.New("season not found")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrClubNotFound        = errors.New("club not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrSeriesNotFound      = errors.New("series not found")
	ErrUserNotFound        = errors.New("user not found")
)
