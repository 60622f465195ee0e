// Package format turns raw CSV field values into display classes and
// composite cells: IV tiers, evolution-chain segments and the stacked
// shadow/purified pairs of the shadow table.
package format

import (
	"strconv"
	"strings"
)

type Tier int

const (
	TierZero Tier = iota
	TierGood
	TierGreat
	TierPerfect
)

func (t Tier) String() string {
	switch t {
	case TierPerfect:
		return "perfect"
	case TierGreat:
		return "great"
	case TierGood:
		return "good"
	default:
		return "zero"
	}
}

// MaxIV is the highest value a single stat IV can take.
const MaxIV = 15

// ClassifyIV maps an IV cell to its tier. Anything that is not an integer
// counts as zero.
func ClassifyIV(value string) Tier {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		n = -1
	}

	switch {
	case n == MaxIV:
		return TierPerfect
	case n >= 13:
		return TierGreat
	case n >= 1:
		return TierGood
	default:
		return TierZero
	}
}

// TieredValue is a raw IV value together with its tier.
type TieredValue struct {
	Value string
	Tier  Tier
}

// Stack is the two-line IV cell of the shadow table: shadow on top,
// purified below.
type Stack struct {
	Shadow   TieredValue
	Purified TieredValue
}

func StackedIVPair(shadowValue, purifiedValue string) Stack {
	return Stack{
		Shadow:   TieredValue{Value: shadowValue, Tier: ClassifyIV(shadowValue)},
		Purified: TieredValue{Value: purifiedValue, Tier: ClassifyIV(purifiedValue)},
	}
}

// IsCollected reports whether a Collected cell says YES, ignoring case and
// surrounding space.
func IsCollected(value string) bool {
	return NormalizeCollected(value) == "YES"
}

func NormalizeCollected(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
