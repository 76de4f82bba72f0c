package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound    = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidSession     = errors.New("invalid or expired session")

	// Save errors
	ErrSaveNotFound = errors.New("no save found")
	ErrCorruptSave  = errors.New("corrupt save data")
	ErrStaleLoad    = errors.New("load abandoned before completion")
	ErrLocalRead    = errors.New("local store could not be read")

	// Client-side form validation
	ErrMissingFields = errors.New("missing required fields")
)

// ErrorKind classifies failures crossing the persistence boundary
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindAuth
	KindUserNotFound
	KindInvalidCredentials
	KindAlreadyExists
	KindInvalidEmail
	KindNotFound
	KindCorruptLocalData
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindUserNotFound:
		return "user_not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindAlreadyExists:
		return "already_exists"
	case KindInvalidEmail:
		return "invalid_email"
	case KindNotFound:
		return "not_found"
	case KindCorruptLocalData:
		return "corrupt_local_data"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// KindError attaches an ErrorKind to an underlying error
type KindError struct {
	Kind   ErrorKind
	Err    error
	Detail string
}

func (e *KindError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e *KindError) Unwrap() error {
	return e.Err
}

// Kinded is implemented by errors that know their own kind
type Kinded interface {
	ErrorKind() ErrorKind
}

func (e *KindError) ErrorKind() ErrorKind {
	return e.Kind
}

// KindOf classifies err. Errors that carry a kind win; otherwise the
// sentinel errors above are recognised.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}

	switch {
	case errors.Is(err, ErrAccountNotFound):
		return KindUserNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrUsernameExists), errors.Is(err, ErrEmailExists):
		return KindAlreadyExists
	case errors.Is(err, ErrInvalidEmail):
		return KindInvalidEmail
	case errors.Is(err, ErrInvalidSession):
		return KindAuth
	case errors.Is(err, ErrSaveNotFound):
		return KindNotFound
	case errors.Is(err, ErrCorruptSave):
		return KindCorruptLocalData
	case errors.Is(err, ErrMissingFields):
		return KindValidation
	default:
		return KindUnknown
	}
}
