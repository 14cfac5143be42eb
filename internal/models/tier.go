package models

import "strings"

// Tier is the wallet classification picked at creation time. Each tier
// carries a payout multiplier and the name of its selection emoji.
type Tier string

const (
	TierCopper  Tier = "COPPER"
	TierBauxite Tier = "BAUXITE"
	TierUranium Tier = "URANIUM"
)

// AllTiers lists every tier in prompt order.
var AllTiers = []Tier{TierCopper, TierBauxite, TierUranium}

type tierInfo struct {
	multiplier int
	iconKey    string
}

var tierTable = map[Tier]tierInfo{
	TierCopper:  {multiplier: 1, iconKey: "copper"},
	TierBauxite: {multiplier: 2, iconKey: "bauxite"},
	TierUranium: {multiplier: 3, iconKey: "uranium"},
}

// Multiplier returns the payout multiplier implied by the tier.
func (t Tier) Multiplier() int {
	return tierTable[t].multiplier
}

// IconKey returns the emoji name used to both render and select the tier.
func (t Tier) IconKey() string {
	return tierTable[t].iconKey
}

func (t Tier) String() string {
	return string(t)
}

// TierFromEmoji maps a reaction emoji name to a tier. The match is
// case-insensitive; unknown symbols fail with ErrInvalidSelection.
func TierFromEmoji(name string) (Tier, error) {
	for tier, info := range tierTable {
		if strings.EqualFold(name, info.iconKey) {
			return tier, nil
		}
	}
	return "", ErrInvalidSelection
}
