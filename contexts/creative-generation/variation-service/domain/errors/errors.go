package errors

import "errors"

var (
	ErrInvalidRequest          = errors.New("variation request is invalid")
	ErrInvalidStrategy         = errors.New("variation strategy is invalid")
	ErrDuplicateStrategy       = errors.New("variation strategies must be distinct")
	ErrInvalidCreativeOptions  = errors.New("creative options are invalid")
	ErrSourceAdRequired        = errors.New("source ad is required for competitor variations")
	ErrSourceAdNotFound        = errors.New("source ad not found")
	ErrAssetNotFound           = errors.New("target asset not found")
	ErrGuidelineNotFound       = errors.New("brand guideline not found")
	ErrVariationNotFound       = errors.New("variation not found")
	ErrInvalidStatusTransition = errors.New("variation is no longer pending")
	ErrTextOnlyHasNoImage      = errors.New("text_only strategy does not generate images")
	ErrInsufficientCredits     = errors.New("insufficient credits")
	ErrWorkspaceNotFound       = errors.New("workspace not found")
	ErrLedgerUnavailable       = errors.New("credit ledger unavailable")
	ErrIdempotencyConflict     = errors.New("idempotency key already used with different payload")
)
