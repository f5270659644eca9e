package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for common business-logic errors.
Repository sentinels get converted into these at the handler boundary.
*/

// ErrNotFound converts a repository not-found sentinel into a 404.
// Ownership mismatches are reported through this factory too, so a caller
// cannot distinguish "does not exist" from "not yours".
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidParticipants covers sender == recipient and unknown actor
// variants in messaging operations.
func ErrInvalidParticipants(err error) *AppError {
	return Wrap(err, CodeInvalidParticipants, "messaging", "Invalid participants", http.StatusBadRequest)
}

// Predefined variables for frequent, static errors.

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidActorRole = New(
	CodeInvalidParticipants,
	"messaging",
	"Actor role must be one of patient, doctor, admin",
	http.StatusBadRequest,
)
