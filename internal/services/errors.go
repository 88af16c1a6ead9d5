package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate record")
	ErrInvalidPeriod   = errors.New("invalid billing period")
	ErrInvalidGrade    = errors.New("invalid tea grade")
	ErrInvalidState    = errors.New("invalid status transition")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidPassword = errors.New("invalid password")
)
