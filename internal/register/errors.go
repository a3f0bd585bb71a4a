package register

import "errors"

// Business-rule failures. The HTTP layer maps these to status codes with
// errors.Is, so they must stay comparable sentinels.
var (
	ErrInvalidDenomination       = errors.New("denomination is not legal tender")
	ErrInvalidQuantity           = errors.New("denomination and quantity must be positive values")
	ErrInvalidAmount             = errors.New("amount must be positive")
	ErrInsufficientTender        = errors.New("insufficient cash")
	ErrInsufficientRegisterFunds = errors.New("insufficient cash in register")
	ErrNoChangeAvailable         = errors.New("no change available for this value")
)
