package plan

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PriceMap maps billing-provider price IDs to plan tiers.
// The table is fixed per deployment and loaded once at startup.
type PriceMap map[string]Tier

// Resolve returns the tier for a price ID. The boolean is false when
// the price ID is not in the table.
func (m PriceMap) Resolve(priceID string) (Tier, bool) {
	tier, ok := m[priceID]
	return tier, ok
}

// PriceSource defines how the price table is loaded.
type PriceSource interface {
	Load(ctx context.Context) (PriceMap, error)
}

// StaticPriceSource serves a price table defined in code.
// Useful for tests and deployments with a hardcoded catalog.
type StaticPriceSource struct {
	Prices PriceMap
}

func (s StaticPriceSource) Load(_ context.Context) (PriceMap, error) {
	if err := validatePrices(s.Prices); err != nil {
		return nil, err
	}
	return s.Prices, nil
}

// YAMLPriceSource loads the price table from a YAML file:
//
//	prices:
//	  pri_01h1234abcd: pro
//	  pri_01h5678efgh: enterprise
type YAMLPriceSource struct {
	Path string
}

func (s YAMLPriceSource) Load(_ context.Context) (PriceMap, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPrices, err)
	}

	var doc struct {
		Prices map[string]string `yaml:"prices"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadPrices, err)
	}

	prices := make(PriceMap, len(doc.Prices))
	for priceID, tierName := range doc.Prices {
		tier, err := Parse(tierName)
		if err != nil {
			return nil, errors.Join(ErrInvalidPriceTier,
				fmt.Errorf("price %s: %w", priceID, err))
		}
		prices[priceID] = tier
	}

	if err := validatePrices(prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func validatePrices(prices PriceMap) error {
	if len(prices) == 0 {
		return ErrEmptyPriceTable
	}
	for priceID, tier := range prices {
		if !tier.Valid() {
			return errors.Join(ErrInvalidPriceTier,
				fmt.Errorf("price %s maps to %q", priceID, tier))
		}
	}
	return nil
}
