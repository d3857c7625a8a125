package utils

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")

	ErrSubscriptionInactive = errors.New("subscription inactive")

	ErrPropertyNotFound = errors.New("property not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrRequestNotFound  = errors.New("contact request not found")

	ErrRequestAlreadyDecided = errors.New("contact request already decided")
	ErrEmailAlreadyExists    = errors.New("email already exists")

	ErrDatabaseError = errors.New("database error")
)
