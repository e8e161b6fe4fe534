package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so the transport
// layer can pick a status code with errors.Is.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidUpdate      = errors.New("invalid update")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
)

// Error is a domain failure with a message that is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NotFound returns an ErrNotFound error with the given message.
func NotFound(msg string) *Error { return newError(ErrNotFound, msg) }

// Forbidden returns an ErrForbidden error with the given message.
func Forbidden(msg string) *Error { return newError(ErrForbidden, msg) }

// Conflict returns an ErrConflict error with the given message.
func Conflict(msg string) *Error { return newError(ErrConflict, msg) }

// Validation returns an ErrValidation error with the given message.
func Validation(msg string) *Error { return newError(ErrValidation, msg) }

// Unauthenticated returns an ErrUnauthenticated error with the given message.
func Unauthenticated(msg string) *Error { return newError(ErrUnauthenticated, msg) }

var (
	// ErrCredentials is deliberately identical for unknown emails and wrong
	// passwords.
	ErrCredentials = newError(ErrInvalidCredentials, "Credentials are not valid.")

	ErrAdminRequired    = Forbidden("You do not have permission to access this resource.")
	ErrRoleChangeDenied = Forbidden("Only admin users can update the role.")
	ErrUserNotFound     = NotFound("User not found.")
	ErrProductNotFound  = NotFound("Product not found.")
	ErrCategoryNotFound = NotFound("One or more categories not found.")
	ErrCartNotFound     = NotFound("Cart not found.")
	ErrOrderNotFound    = NotFound("Order not found.")
	ErrImageNotFound    = NotFound("Image not found.")
	ErrUserExists       = Conflict("Email or username already exists.")
	ErrProductExists    = Conflict("Product already exists.")
	ErrCategoryExists   = Conflict("Category already exists.")
	ErrMissingToken     = Unauthenticated("Authentication token is missing.")
)

// RoleRequired is the Forbidden error for an identity that does not satisfy
// role.
func RoleRequired(role Role) *Error {
	if role == RoleAdmin {
		return ErrAdminRequired
	}
	return Forbidden(fmt.Sprintf("The %s role is required to access this resource.", role))
}
