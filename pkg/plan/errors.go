package plan

import "errors"

var (
	ErrUnknownTier        = errors.New("unknown plan tier")
	ErrFailedToLoadPrices = errors.New("failed to load price table")
	ErrEmptyPriceTable    = errors.New("price table is empty")
	ErrInvalidPriceTier   = errors.New("price maps to an unknown tier")
)
