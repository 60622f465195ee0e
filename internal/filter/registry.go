// Package filter binds filter controls to a grid table: free-text and
// exact-match column searches, custom whole-record predicates, and sticky
// toggles. A Registry owns every custom predicate it registers and removes
// exactly those when released.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"pokecp/pokecp/internal/dataset"
	"pokecp/pokecp/internal/grid"
)

type Kind int

const (
	None Kind = iota
	// Text matches a case-insensitive substring of the column's raw text.
	Text
	// Exact matches the whole raw value; an empty value removes the filter.
	Exact
	// Custom evaluates the underlying record instead of a column.
	Custom
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Exact:
		return "exact"
	case Custom:
		return "custom"
	default:
		return "none"
	}
}

type Toggle int

const (
	UncollectedOnly Toggle = iota
	ShadowEligible
)

func (t Toggle) String() string {
	if t == ShadowEligible {
		return "shadow-eligible"
	}
	return "uncollected-only"
}

var ErrReleased = errors.New("filter registry released")

// Binding ties one control to the table. For Text and Exact, ID names a grid
// column. For Custom, Match decides a record against the control value; when
// Match is nil the trimmed Field value must equal the trimmed control value.
type Binding struct {
	ID    string
	Kind  Kind
	Field string
	Match func(rec dataset.Record, value string) bool
}

type Registry struct {
	table    *grid.Table
	ext      *grid.Ext
	bindings map[string]Binding
	values   map[string]string

	toggles     map[Toggle]*grid.Predicate
	toggleFuncs map[Toggle]func(dataset.Record) bool

	owned    []*grid.Predicate
	released bool
	logger   *zap.Logger
}

type Option func(*Registry)

// WithToggle makes a sticky toggle available. While the toggle is on only
// records satisfying keep are shown.
func WithToggle(t Toggle, keep func(dataset.Record) bool) Option {
	return func(r *Registry) {
		r.toggleFuncs[t] = keep
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New binds controls to table. Custom bindings register their predicates in
// the table's namespace immediately.
func New(table *grid.Table, bindings []Binding, opts ...Option) (*Registry, error) {
	r := &Registry{
		table:       table,
		ext:         table.Ext(),
		bindings:    make(map[string]Binding, len(bindings)),
		values:      make(map[string]string),
		toggles:     make(map[Toggle]*grid.Predicate),
		toggleFuncs: make(map[Toggle]func(dataset.Record) bool),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, b := range bindings {
		if _, dup := r.bindings[b.ID]; dup {
			r.Release()
			return nil, fmt.Errorf("duplicate filter control %q", b.ID)
		}
		switch b.Kind {
		case Text, Exact:
			if table.ColumnIndex(b.ID) < 0 {
				r.Release()
				return nil, fmt.Errorf("filter control %q has no column", b.ID)
			}
		case Custom:
			r.owned = append(r.owned, r.ext.Push(r.customPredicate(b)))
		default:
			r.Release()
			return nil, fmt.Errorf("filter control %q: unsupported kind %s", b.ID, b.Kind)
		}
		r.bindings[b.ID] = b
	}
	return r, nil
}

func (r *Registry) customPredicate(b Binding) grid.SearchFunc {
	match := b.Match
	if match == nil {
		field := b.Field
		match = func(rec dataset.Record, value string) bool {
			return strings.TrimSpace(rec.Get(field)) == strings.TrimSpace(value)
		}
	}
	id := b.ID
	return func(t *grid.Table, _ int, rec dataset.Record) bool {
		if t != r.table {
			return true
		}
		value := r.values[id]
		if value == "" {
			return true
		}
		return match(rec, value)
	}
}

// Set applies a control value and redraws the table.
func (r *Registry) Set(id, value string) error {
	if err := r.apply(id, value); err != nil {
		return err
	}
	r.table.Draw()
	return nil
}

func (r *Registry) apply(id, value string) error {
	if r.released {
		return ErrReleased
	}
	b, ok := r.bindings[id]
	if !ok {
		return fmt.Errorf("unknown filter control %q", id)
	}

	switch b.Kind {
	case Text:
		if err := r.table.Search(r.table.ColumnIndex(id), value, false); err != nil {
			return err
		}
	case Exact:
		term := ""
		if value != "" {
			term = "^" + regexp.QuoteMeta(value) + "$"
		}
		if err := r.table.Search(r.table.ColumnIndex(id), term, true); err != nil {
			return err
		}
	}

	if value == "" {
		delete(r.values, id)
	} else {
		r.values[id] = value
	}
	r.logger.Debug("filter set", zap.String("control", id), zap.Stringer("kind", b.Kind), zap.String("value", value))
	return nil
}

func (r *Registry) Value(id string) string {
	return r.values[id]
}

// Values returns a copy of the non-empty control values.
func (r *Registry) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Active counts controls with a value.
func (r *Registry) Active() int {
	return len(r.values)
}

func (r *Registry) Supports(t Toggle) bool {
	_, ok := r.toggleFuncs[t]
	return ok
}

func (r *Registry) Toggle(t Toggle) bool {
	_, on := r.toggles[t]
	return on
}

// SetToggle turns a sticky toggle on or off and redraws the table. Toggles
// the registry was not built with are ignored.
func (r *Registry) SetToggle(t Toggle, on bool) {
	if r.released || on == r.Toggle(t) {
		return
	}
	keep, ok := r.toggleFuncs[t]
	if !ok {
		return
	}

	if on {
		p := r.ext.Push(func(tbl *grid.Table, _ int, rec dataset.Record) bool {
			return tbl != r.table || keep(rec)
		})
		r.toggles[t] = p
		r.owned = append(r.owned, p)
	} else {
		p := r.toggles[t]
		delete(r.toggles, t)
		r.drop(p)
	}
	r.logger.Debug("toggle set", zap.Stringer("toggle", t), zap.Bool("on", on))
	r.table.Draw()
}

// Search sets the quick search term matched against every column and
// redraws the table.
func (r *Registry) Search(term string) error {
	if r.released {
		return ErrReleased
	}
	r.table.SearchAll(term)
	r.logger.Debug("quick search set", zap.String("term", term))
	r.table.Draw()
	return nil
}

func (r *Registry) SearchTerm() string {
	return r.table.GlobalSearch()
}

// Clear empties every control and column search, keeps sticky toggles and
// the quick search, and redraws once.
func (r *Registry) Clear() {
	if r.released {
		return
	}
	clear(r.values)
	r.table.ClearSearch()
	r.table.Draw()
}

// Release removes every predicate this registry registered, and nothing
// else. The registry is unusable afterwards.
func (r *Registry) Release() {
	if r.released {
		return
	}
	for _, p := range r.owned {
		r.ext.Remove(p)
	}
	r.owned = nil
	clear(r.toggles)
	clear(r.values)
	r.released = true
}

func (r *Registry) drop(p *grid.Predicate) {
	r.ext.Remove(p)
	for i, owned := range r.owned {
		if owned == p {
			r.owned = append(r.owned[:i], r.owned[i+1:]...)
			return
		}
	}
}

// Owned counts predicates currently registered by this registry.
func (r *Registry) Owned() int {
	return len(r.owned)
}
