package domain

import "errors"

// Validation errors returned at the ingestion boundary
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidAsset       = errors.New("invalid asset")
	ErrInvalidProfile     = errors.New("invalid risk profile")
	ErrInvalidAllocation  = errors.New("invalid allocation")
	ErrPriceUnavailable   = errors.New("price unavailable")
)
