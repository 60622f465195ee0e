// Package dataset loads the per-CP evolution CSVs produced by the external
// generator and derives the option lists the filter controls offer.
package dataset

import "slices"

type Kind int

const (
	Normal Kind = iota
	Shadow
)

func (k Kind) String() string {
	if k == Shadow {
		return "shadow"
	}
	return "normal"
}

// Column names written by the generator.
const (
	ColPokemon           = "Pokemon"
	ColCP                = "CP"
	ColLevel             = "Level"
	ColAttack            = "IV_Attack"
	ColDefense           = "IV_Defense"
	ColHP                = "IV_HP"
	ColEvolution         = "Evolution(CP)"
	ColCollected         = "Collected"
	ColCollectedShadow   = "Collected_Shadow"
	ColCollectedPurified = "Collected_Purified"

	ColShadowAttack    = "Shadow_ATK_IV"
	ColShadowDefense   = "Shadow_DEF_IV"
	ColShadowHP        = "Shadow_HP_IV"
	ColPurifiedAttack  = "Purified_ATK_IV"
	ColPurifiedDefense = "Purified_DEF_IV"
	ColPurifiedHP      = "Purified_HP_IV"
	ColEvolutionShadow = "Evolution_Shadow(CP)"
	ColEvolutionPurif  = "Evolution_Purified(CP)"
)

// Record is one CSV row keyed by header name.
type Record map[string]string

// Get returns the value of column, or "" when the row has no such column.
func (r Record) Get(column string) string {
	return r[column]
}

// Dataset is every usable row of one CSV for one CP. It is never mutated
// after loading.
type Dataset struct {
	Kind     Kind
	CP       int
	Resource string
	Headers  []string
	Records  []Record
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

func (d *Dataset) HasColumn(name string) bool {
	return d != nil && slices.Contains(d.Headers, name)
}
