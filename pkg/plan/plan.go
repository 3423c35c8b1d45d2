package plan

import "fmt"

// Tier represents a subscription plan tier.
// Tiers are totally ordered: free < pro < enterprise.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// ranks defines the total order over tiers. Unknown tiers rank as free
// so a corrupted value can never grant paid access.
var ranks = map[Tier]int{
	TierFree:       0,
	TierPro:        1,
	TierEnterprise: 2,
}

// Rank returns the tier's position in the hierarchy.
// Unknown tiers rank as free.
func (t Tier) Rank() int {
	return ranks[t]
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := ranks[t]
	return ok
}

// Max returns the higher-ranked of two tiers.
func Max(a, b Tier) Tier {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Compare returns -1, 0 or 1 by hierarchy rank.
func Compare(a, b Tier) int {
	switch {
	case a.Rank() < b.Rank():
		return -1
	case a.Rank() > b.Rank():
		return 1
	default:
		return 0
	}
}

// Parse converts a string to a Tier, rejecting unknown values.
func Parse(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}
