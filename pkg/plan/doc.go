// Package plan defines the subscription tier hierarchy and the price
// table mapping billing-provider price IDs to tiers.
//
// Tiers form a total order (free < pro < enterprise) used for every
// "highest wins" decision during reconciliation and for access checks.
// The package is pure: no I/O except the optional YAML price source,
// no side effects, no errors from comparisons.
//
// # Usage
//
//	if plan.Compare(current, plan.TierPro) >= 0 {
//		// account has pro-level access
//	}
//
//	prices, err := plan.YAMLPriceSource{Path: "prices.yaml"}.Load(ctx)
//	tier, ok := prices.Resolve("pri_01h1234abcd")
package plan
