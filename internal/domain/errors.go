package domain

import "salon_booking_backend/platform/apperr"

// Typed domain errors. Services return these directly; the HTTP layer maps
// them through apperr kinds, and callers distinguish them with errors.Is.
var (
	// ErrInvalidTimeRange rejects ranges where start is not before end.
	ErrInvalidTimeRange = apperr.Validation("startTime must be before endTime")

	// ErrPastAppointment rejects mutation of appointments that already started.
	ErrPastAppointment = apperr.Validation("past appointments cannot be modified")

	// ErrAlreadyCancelled rejects transitions out of the terminal cancelled state.
	ErrAlreadyCancelled = apperr.Conflict("appointment is already cancelled")

	// ErrInvalidPhone rejects empty or malformed phone numbers.
	ErrInvalidPhone = apperr.Validation("invalid phone number")

	// ErrInvalidEmail rejects malformed email addresses.
	ErrInvalidEmail = apperr.Validation("invalid email address")

	// ErrCurrencyMismatch rejects arithmetic across currencies.
	ErrCurrencyMismatch = apperr.Validation("cannot combine amounts in different currencies")

	// ErrNegativeAmount rejects money operations that would go below zero.
	ErrNegativeAmount = apperr.Validation("amount cannot be negative")

	// ErrNegativeDuration rejects duration operations that would go below zero.
	ErrNegativeDuration = apperr.Validation("duration cannot be negative")

	// ErrSlotUnavailable signals the requested slot is no longer free.
	ErrSlotUnavailable = apperr.Conflict("requested time slot is not available")

	// ErrAppointmentConflict signals the storage-level overlap backstop fired.
	ErrAppointmentConflict = apperr.Conflict("appointment overlaps an existing booking")

	// ErrCannotPerformService signals an invalid professional/service pairing.
	ErrCannotPerformService = apperr.Conflict("professional does not perform this service")

	// ErrNameRequired signals a customer cannot be created without a name.
	ErrNameRequired = apperr.Validation("customer name is required")
)
