package models

import "errors"

// Domain errors shared between repositories and services.
var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotPending = errors.New("transaction is not pending")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrTodoNotFound          = errors.New("todo not found")
)
