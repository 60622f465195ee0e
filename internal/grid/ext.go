package grid

import (
	"slices"

	"pokecp/pokecp/internal/dataset"
)

// SearchFunc is a whole-row predicate in a shared namespace. Every table
// drawing against the namespace calls every registered function, so a
// function must return true for rows of tables it does not care about.
type SearchFunc func(t *Table, index int, rec dataset.Record) bool

// Predicate is the handle of one registered SearchFunc. Removal is by handle
// identity; two registrations of the same function are distinct.
type Predicate struct {
	fn SearchFunc
}

// Ext is a namespace of custom row predicates shared by tables.
type Ext struct {
	search []*Predicate
}

func NewExt() *Ext {
	return &Ext{}
}

// Default is the namespace tables use unless WithExt says otherwise.
var Default = NewExt()

func (e *Ext) Push(fn SearchFunc) *Predicate {
	p := &Predicate{fn: fn}
	e.search = append(e.search, p)
	return p
}

// Remove deletes exactly p and reports whether it was registered.
func (e *Ext) Remove(p *Predicate) bool {
	i := slices.Index(e.search, p)
	if i < 0 {
		return false
	}
	e.search = slices.Delete(e.search, i, i+1)
	return true
}

func (e *Ext) Len() int {
	return len(e.search)
}

func (e *Ext) Contains(p *Predicate) bool {
	return slices.Contains(e.search, p)
}

func (e *Ext) match(t *Table, index int, rec dataset.Record) bool {
	for _, p := range e.search {
		if !p.fn(t, index, rec) {
			return false
		}
	}
	return true
}
