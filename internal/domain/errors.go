package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrReconciliation    = errors.New("line items do not reconcile with total")
	ErrAvailability      = errors.New("equipment not available")
	ErrEditLimitExceeded = errors.New("quotation edit limit reached")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid contract state transition")
)
