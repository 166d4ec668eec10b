package errors

import "errors"

var (
	ErrInvalidAmount          = errors.New("credit amount must be positive")
	ErrInvalidTransactionType = errors.New("credit transaction type is invalid")
	ErrWorkspaceRequired      = errors.New("workspace id is required")
	ErrWorkspaceNotFound      = errors.New("workspace not found")
	ErrWorkspaceExists        = errors.New("workspace already exists")
	ErrInsufficientCredits    = errors.New("insufficient credits")
	ErrUnknownPackage         = errors.New("credit package not found")
	ErrLedgerUnavailable      = errors.New("credit ledger unavailable")
)
