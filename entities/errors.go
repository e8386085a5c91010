package entities

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrConflict            = errors.New("username already exists")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient points")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrBalanceChanged      = errors.New("balance changed concurrently")
)
