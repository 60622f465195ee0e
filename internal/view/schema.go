package view

import (
	"slices"

	"pokecp/pokecp/internal/dataset"
	"pokecp/pokecp/internal/filter"
	"pokecp/pokecp/internal/format"
	"pokecp/pokecp/internal/grid"
)

// Column describes one column of a view. Raw is what filters and ordering
// see, Plain is the unstyled cell used for width fitting, and Render is the
// styled cell. Hidden columns exist only so their raw values can be searched.
type Column struct {
	ID        string
	Title     string
	Raw       func(rec dataset.Record) string
	Plain     func(rec dataset.Record) string
	Render    func(th format.Theme, rec dataset.Record, cp int) string
	Visible   bool
	Orderable bool
	Filter    filter.Kind
	Field     string
	Options   func(ds *dataset.Dataset) []string
	Suggest   bool
	MaxWidth  int
}

// Schema is the full description of one table layout.
type Schema struct {
	Name         string
	Kind         dataset.Kind
	Columns      []Column
	DefaultOrder []grid.Order
	Toggles      map[filter.Toggle]func(dataset.Record) bool
	RowHeight    int
}

// Visible returns the displayed columns in order.
func (s Schema) Visible() []Column {
	var out []Column
	for _, c := range s.Columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

func (s Schema) gridColumns() []grid.Column {
	cols := make([]grid.Column, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = grid.Column{ID: c.ID, Data: c.Raw, Visible: c.Visible, Orderable: c.Orderable}
	}
	return cols
}

func (s Schema) bindings() []filter.Binding {
	var out []filter.Binding
	for _, c := range s.Columns {
		if c.Filter == filter.None {
			continue
		}
		field := c.Field
		if field == "" {
			field = c.ID
		}
		out = append(out, filter.Binding{ID: c.ID, Kind: c.Filter, Field: field})
	}
	return out
}

const (
	chainWidth = 48
	nameWidth  = 16
)

func fieldOf(name string) func(dataset.Record) string {
	return func(rec dataset.Record) string { return rec.Get(name) }
}

func nameColumn(orderable bool) Column {
	return Column{
		ID:    dataset.ColPokemon,
		Title: "Pokemon",
		Raw:   fieldOf(dataset.ColPokemon),
		Render: func(_ format.Theme, rec dataset.Record, _ int) string {
			return rec.Get(dataset.ColPokemon)
		},
		Visible:   true,
		Orderable: orderable,
		Filter:    filter.Text,
		Suggest:   true,
		MaxWidth:  nameWidth,
	}
}

func levelColumn() Column {
	return Column{
		ID:    dataset.ColLevel,
		Title: "Level",
		Raw:   fieldOf(dataset.ColLevel),
		Render: func(_ format.Theme, rec dataset.Record, _ int) string {
			return rec.Get(dataset.ColLevel)
		},
		Visible: true,
		Filter:  filter.Exact,
		Options: dataset.LevelOptions,
	}
}

func ivOptions(*dataset.Dataset) []string { return dataset.IVOptions() }

func collectedOptions(*dataset.Dataset) []string { return dataset.CollectedOptions() }

func ivColumn(id, title string) Column {
	return Column{
		ID:    id,
		Title: title,
		Raw:   fieldOf(id),
		Render: func(th format.Theme, rec dataset.Record, _ int) string {
			return th.IV(rec.Get(id))
		},
		Visible: true,
		Filter:  filter.Exact,
		Options: ivOptions,
	}
}

func collectedColumn(id, title string) Column {
	return Column{
		ID:    id,
		Title: title,
		Raw: func(rec dataset.Record) string {
			return format.NormalizeCollected(rec.Get(id))
		},
		Render: func(th format.Theme, rec dataset.Record, _ int) string {
			return th.Collected(rec.Get(id))
		},
		Visible: true,
		Filter:  filter.Exact,
		Options: collectedOptions,
	}
}

var collectedTitles = map[string]string{
	dataset.ColCollected:         "Collected",
	dataset.ColCollectedShadow:   "Shadow",
	dataset.ColCollectedPurified: "Purified",
}

// NormalSchema lays out the all-evolutions table for the given headers:
// name, level, three IVs, evolution chain and whichever collected columns
// are present. When Collected is the only collected column the name column
// is orderable and sorted ascending by default; otherwise nothing is.
func NormalSchema(headers []string) Schema {
	var collected []string
	for _, id := range []string{dataset.ColCollected, dataset.ColCollectedShadow, dataset.ColCollectedPurified} {
		if slices.Contains(headers, id) {
			collected = append(collected, id)
		}
	}
	single := len(collected) == 1 && collected[0] == dataset.ColCollected

	cols := []Column{
		nameColumn(single),
		levelColumn(),
		ivColumn(dataset.ColAttack, "ATK"),
		ivColumn(dataset.ColDefense, "DEF"),
		ivColumn(dataset.ColHP, "HP"),
		{
			ID:    dataset.ColEvolution,
			Title: "Evolution (CP)",
			Raw:   fieldOf(dataset.ColEvolution),
			Plain: func(rec dataset.Record) string {
				return format.ChainText(rec.Get(dataset.ColEvolution))
			},
			Render: func(th format.Theme, rec dataset.Record, cp int) string {
				return th.Chain(rec.Get(dataset.ColEvolution), cp)
			},
			Visible:  true,
			Filter:   filter.Text,
			MaxWidth: chainWidth,
		},
	}
	for _, id := range collected {
		cols = append(cols, collectedColumn(id, collectedTitles[id]))
	}

	s := Schema{
		Name:      "normal",
		Kind:      dataset.Normal,
		Columns:   cols,
		RowHeight: 1,
		Toggles: map[filter.Toggle]func(dataset.Record) bool{
			filter.ShadowEligible: dataset.ShadowEligible,
		},
	}
	if len(collected) > 0 {
		s.Toggles[filter.UncollectedOnly] = uncollected(collected[0])
	}
	if single {
		s.DefaultOrder = []grid.Order{{Column: 0, Dir: grid.Asc}}
	}
	return s
}

func uncollected(column string) func(dataset.Record) bool {
	return func(rec dataset.Record) bool {
		return !format.IsCollected(rec.Get(column))
	}
}

func stackColumn(title, shadowID, purifiedID string) Column {
	return Column{
		ID:    shadowID,
		Title: title,
		Raw:   fieldOf(shadowID),
		Plain: func(rec dataset.Record) string {
			return "S " + rec.Get(shadowID) + "\nP " + rec.Get(purifiedID)
		},
		Render: func(th format.Theme, rec dataset.Record, _ int) string {
			return th.Stack(format.StackedIVPair(rec.Get(shadowID), rec.Get(purifiedID)))
		},
		Visible: true,
		Filter:  filter.Custom,
		Field:   shadowID,
		Options: ivOptions,
	}
}

func hiddenIVColumn(id, title string) Column {
	c := ivColumn(id, title)
	c.Visible = false
	return c
}

// ShadowSchema lays out the shadow/purified table. Each IV cell stacks the
// shadow value over the purified one. Shadow IVs filter through custom
// record predicates, purified IVs through hidden exact-match columns.
func ShadowSchema() Schema {
	return Schema{
		Name: "shadow",
		Kind: dataset.Shadow,
		Columns: []Column{
			nameColumn(false),
			levelColumn(),
			stackColumn("ATK", dataset.ColShadowAttack, dataset.ColPurifiedAttack),
			stackColumn("DEF", dataset.ColShadowDefense, dataset.ColPurifiedDefense),
			stackColumn("HP", dataset.ColShadowHP, dataset.ColPurifiedHP),
			hiddenIVColumn(dataset.ColPurifiedAttack, "Purified ATK"),
			hiddenIVColumn(dataset.ColPurifiedDefense, "Purified DEF"),
			hiddenIVColumn(dataset.ColPurifiedHP, "Purified HP"),
			{
				ID:    "Evolution",
				Title: "Evolution (CP)",
				Raw: func(rec dataset.Record) string {
					return rec.Get(dataset.ColEvolutionShadow) + " " + rec.Get(dataset.ColEvolutionPurif)
				},
				Plain: func(rec dataset.Record) string {
					return "S " + format.ChainText(rec.Get(dataset.ColEvolutionShadow)) +
						"\nP " + format.ChainText(rec.Get(dataset.ColEvolutionPurif))
				},
				Render: func(th format.Theme, rec dataset.Record, cp int) string {
					return th.ChainStack(rec.Get(dataset.ColEvolutionShadow), rec.Get(dataset.ColEvolutionPurif), cp)
				},
				Visible:  true,
				Filter:   filter.Text,
				MaxWidth: chainWidth + 2,
			},
			collectedColumn(dataset.ColCollectedShadow, "Shadow"),
			collectedColumn(dataset.ColCollectedPurified, "Purified"),
		},
		RowHeight: 2,
		Toggles: map[filter.Toggle]func(dataset.Record) bool{
			filter.UncollectedOnly: uncollected(dataset.ColCollectedShadow),
		},
	}
}
