package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("insight request is invalid")
	ErrAdNotFound          = errors.New("saved ad not found")
	ErrInsightNotFound     = errors.New("insight not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrLedgerUnavailable   = errors.New("credit ledger unavailable")
	ErrAnalysisFailed      = errors.New("ad analysis failed")
)
