package enums

// LoyaltyTier is derived from accumulated loyalty points, never stored.
type LoyaltyTier string

const (
	LoyaltyTierStandard LoyaltyTier = "Standard"
	LoyaltyTierSilver   LoyaltyTier = "Silver"
	LoyaltyTierGold     LoyaltyTier = "Gold"
	LoyaltyTierPlatinum LoyaltyTier = "Platinum"
)

// String implements fmt.Stringer.
func (l LoyaltyTier) String() string {
	return string(l)
}

// TierForPoints maps loyalty points onto the membership tier.
func TierForPoints(points int) LoyaltyTier {
	switch {
	case points >= 5000:
		return LoyaltyTierPlatinum
	case points >= 1000:
		return LoyaltyTierGold
	case points >= 500:
		return LoyaltyTierSilver
	default:
		return LoyaltyTierStandard
	}
}
