// Package grid is the in-memory table engine behind the views: per-column
// search, custom row predicates, ordering and paging over an immutable slice
// of records. It knows nothing about rendering.
package grid

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"pokecp/pokecp/internal/dataset"
)

// PageLengths are the page sizes a table can be switched between.
var PageLengths = []int{25, 50, 100, 200, 500}

const DefaultPageLength = 50

// Column describes one searchable column. Data returns the raw text that
// column search and ordering see; it is never the rendered cell.
type Column struct {
	ID        string
	Data      func(dataset.Record) string
	Visible   bool
	Orderable bool
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

type Order struct {
	Column int
	Dir    Direction
}

type columnSearch struct {
	term  string
	regex bool
	lower string
	re    *regexp.Regexp
}

func (s columnSearch) match(value string) bool {
	if s.re != nil {
		return s.re.MatchString(value)
	}
	return strings.Contains(strings.ToLower(value), s.lower)
}

// PageInfo describes the current page. Start and End are 1-based and
// inclusive; both are 0 when nothing matches.
type PageInfo struct {
	Start    int
	End      int
	Filtered int
	Total    int
	Page     int
	Pages    int
}

type Table struct {
	columns  []Column
	data     []dataset.Record
	ext      *Ext
	searches []columnSearch
	global   columnSearch
	order    []Order
	ordered  []int
	display  []int

	pageLength int
	page       int
	draws      int
	destroyed  bool
}

type Option func(*Table)

// WithExt selects the custom predicate namespace.
func WithExt(e *Ext) Option {
	return func(t *Table) {
		if e != nil {
			t.ext = e
		}
	}
}

func WithPageLength(n int) Option {
	return func(t *Table) {
		if n > 0 {
			t.pageLength = n
		}
	}
}

func WithOrder(orders ...Order) Option {
	return func(t *Table) {
		t.order = orders
	}
}

// New builds a table over data and draws it once.
func New(columns []Column, data []dataset.Record, opts ...Option) *Table {
	t := &Table{
		columns:    columns,
		data:       data,
		ext:        Default,
		searches:   make([]columnSearch, len(columns)),
		pageLength: DefaultPageLength,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.sort()
	t.Draw()
	return t
}

// Ext is the custom predicate namespace the table draws against.
func (t *Table) Ext() *Ext {
	return t.ext
}

func (t *Table) Columns() []Column {
	return t.columns
}

// ColumnIndex returns the index of the column with id, or -1.
func (t *Table) ColumnIndex(id string) int {
	return slices.IndexFunc(t.columns, func(c Column) bool { return c.ID == id })
}

// Search sets the search term of one column. An empty term removes the
// constraint. Regex terms match case-insensitively. The table is not redrawn.
func (t *Table) Search(col int, term string, regex bool) error {
	if col < 0 || col >= len(t.columns) {
		return fmt.Errorf("column %d out of range", col)
	}
	s := columnSearch{term: term, regex: regex, lower: strings.ToLower(term)}
	if term != "" && regex {
		re, err := regexp.Compile("(?i)" + term)
		if err != nil {
			return fmt.Errorf("column %s: %w", t.columns[col].ID, err)
		}
		s.re = re
	}
	t.searches[col] = s
	return nil
}

func (t *Table) SearchTerm(col int) string {
	if col < 0 || col >= len(t.searches) {
		return ""
	}
	return t.searches[col].term
}

// SearchAll sets the table-wide search term: a row matches when any column,
// hidden ones included, contains it ignoring case. It combines with the
// column searches and is not redrawn.
func (t *Table) SearchAll(term string) {
	t.global = columnSearch{term: term, lower: strings.ToLower(term)}
}

func (t *Table) GlobalSearch() string {
	return t.global.term
}

// ClearSearch removes every column search term. The table-wide term stays.
func (t *Table) ClearSearch() {
	for i := range t.searches {
		t.searches[i] = columnSearch{}
	}
}

// ActiveSearches counts columns with a search term.
func (t *Table) ActiveSearches() int {
	n := 0
	for _, s := range t.searches {
		if s.term != "" {
			n++
		}
	}
	return n
}

// Order replaces the ordering. Only orderable columns are accepted.
func (t *Table) Order(orders ...Order) error {
	for _, o := range orders {
		if o.Column < 0 || o.Column >= len(t.columns) {
			return fmt.Errorf("column %d out of range", o.Column)
		}
		if !t.columns[o.Column].Orderable {
			return fmt.Errorf("column %s is not orderable", t.columns[o.Column].ID)
		}
	}
	t.order = orders
	t.sort()
	return nil
}

func (t *Table) sort() {
	t.ordered = make([]int, len(t.data))
	for i := range t.ordered {
		t.ordered[i] = i
	}
	if len(t.order) == 0 {
		return
	}
	slices.SortStableFunc(t.ordered, func(a, b int) int {
		for _, o := range t.order {
			if o.Column < 0 || o.Column >= len(t.columns) {
				continue
			}
			data := t.columns[o.Column].Data
			c := compareCells(data(t.data[a]), data(t.data[b]))
			if o.Dir == Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func compareCells(a, b string) int {
	na, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	nb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return cmp.Compare(na, nb)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Draw re-applies every column search and custom predicate and returns to
// the first page.
func (t *Table) Draw() {
	if t.destroyed {
		return
	}
	display := make([]int, 0, len(t.ordered))
	for _, idx := range t.ordered {
		if t.matches(idx) {
			display = append(display, idx)
		}
	}
	t.display = display
	t.page = 0
	t.draws++
}

func (t *Table) matches(idx int) bool {
	rec := t.data[idx]
	for i, s := range t.searches {
		if s.term == "" {
			continue
		}
		if !s.match(t.columns[i].Data(rec)) {
			return false
		}
	}
	if t.global.term != "" && !slices.ContainsFunc(t.columns, func(c Column) bool {
		return t.global.match(c.Data(rec))
	}) {
		return false
	}
	return t.ext.match(t, idx, rec)
}

// Draws counts completed draws since construction.
func (t *Table) Draws() int {
	return t.draws
}

// Filtered returns the indices of all matching rows in display order.
func (t *Table) Filtered() []int {
	return t.display
}

func (t *Table) Count() int {
	return len(t.display)
}

func (t *Table) Total() int {
	return len(t.data)
}

func (t *Table) Record(idx int) dataset.Record {
	return t.data[idx]
}

// Records returns the matching records in display order.
func (t *Table) Records() []dataset.Record {
	out := make([]dataset.Record, 0, len(t.display))
	for _, idx := range t.display {
		out = append(out, t.data[idx])
	}
	return out
}

func (t *Table) PageLength() int {
	return t.pageLength
}

// SetPageLength changes the page size and returns to the first page.
func (t *Table) SetPageLength(n int) {
	if n <= 0 {
		return
	}
	t.pageLength = n
	t.page = 0
}

func (t *Table) Pages() int {
	if len(t.display) == 0 {
		return 1
	}
	return (len(t.display) + t.pageLength - 1) / t.pageLength
}

func (t *Table) Page() int {
	return t.page
}

// SetPage moves to page n (0-based), clamped to the valid range.
func (t *Table) SetPage(n int) {
	t.page = max(0, min(n, t.Pages()-1))
}

// PageRows returns the indices of the rows on the current page.
func (t *Table) PageRows() []int {
	start := t.page * t.pageLength
	if start >= len(t.display) {
		return nil
	}
	end := min(start+t.pageLength, len(t.display))
	return t.display[start:end]
}

func (t *Table) Info() PageInfo {
	info := PageInfo{
		Filtered: len(t.display),
		Total:    len(t.data),
		Page:     t.page + 1,
		Pages:    t.Pages(),
	}
	if rows := t.PageRows(); len(rows) > 0 {
		info.Start = t.page*t.pageLength + 1
		info.End = info.Start + len(rows) - 1
	}
	return info
}

// Destroy drops the table's data. Later draws are no-ops.
func (t *Table) Destroy() {
	t.destroyed = true
	t.data = nil
	t.display = nil
	t.ordered = nil
}

func (t *Table) Destroyed() bool {
	return t.destroyed
}
