package models

import "errors"

var (
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrItemNotFound        = errors.New("item not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidBackupFormat = errors.New("invalid backup format")
	ErrValidation          = errors.New("validation failed")
)
