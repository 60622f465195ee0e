package dataset

import (
	"strconv"
	"strings"
)

// PurifyBonus is added to each IV when a shadow Pokémon is purified, capped
// at 15.
const PurifyBonus = 2

// ShadowEligible reports whether a normal record could be the purified form
// of some shadow capture: every IV is at least PurifyBonus, since a shadow IV
// cannot be negative.
//
// This is only a necessary condition. It does not check that a matching
// shadow source exists at a valid CP in the dataset.
func ShadowEligible(r Record) bool {
	for _, col := range []string{ColAttack, ColDefense, ColHP} {
		iv, err := strconv.Atoi(strings.TrimSpace(r.Get(col)))
		if err != nil || iv < PurifyBonus {
			return false
		}
	}
	return true
}
