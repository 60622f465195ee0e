// Package view binds a loaded dataset to a grid table and a filter registry
// through a schema, and renders the current page.
package view

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"pokecp/pokecp/internal/dataset"
	"pokecp/pokecp/internal/filter"
	"pokecp/pokecp/internal/format"
	"pokecp/pokecp/internal/grid"
	"pokecp/pokecp/internal/session"
)

type State int

const (
	Unloaded State = iota
	Bound
)

func (s State) String() string {
	if s == Bound {
		return "bound"
	}
	return "unloaded"
}

var ErrUnloaded = errors.New("no view bound")

// Control is one filter control offered for the bound view. Options is nil
// for free-text controls.
type Control struct {
	ID      string
	Title   string
	Kind    filter.Kind
	Options []string
	Suggest bool
}

type Controller struct {
	theme      format.Theme
	renderer   *lipgloss.Renderer
	ext        *grid.Ext
	pageLength int
	logger     *zap.Logger

	state    State
	ds       *dataset.Dataset
	schema   Schema
	sess     session.Context
	table    *grid.Table
	registry *filter.Registry
	controls []Control
	names    []string

	cursor    int
	viewportX int
}

type Option func(*Controller)

func WithExt(e *grid.Ext) Option {
	return func(c *Controller) {
		if e != nil {
			c.ext = e
		}
	}
}

func WithPageLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageLength = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRenderer(r *lipgloss.Renderer) Option {
	return func(c *Controller) {
		if r != nil {
			c.renderer = r
		}
	}
}

func NewController(theme format.Theme, opts ...Option) *Controller {
	c := &Controller{
		theme:      theme,
		renderer:   lipgloss.DefaultRenderer(),
		ext:        grid.Default,
		pageLength: grid.DefaultPageLength,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init tears down whatever is bound and binds ds through schema.
func (c *Controller) Init(ds *dataset.Dataset, schema Schema, sess session.Context) error {
	c.Teardown()
	if ds == nil {
		return errors.New("init view: nil dataset")
	}
	if ds.Kind != schema.Kind {
		return fmt.Errorf("init view: %s dataset with %s schema", ds.Kind, schema.Name)
	}

	tbl := grid.New(schema.gridColumns(), ds.Records,
		grid.WithExt(c.ext),
		grid.WithPageLength(c.pageLength),
		grid.WithOrder(schema.DefaultOrder...),
	)
	opts := []filter.Option{filter.WithLogger(c.logger)}
	for t, keep := range schema.Toggles {
		opts = append(opts, filter.WithToggle(t, keep))
	}
	reg, err := filter.New(tbl, schema.bindings(), opts...)
	if err != nil {
		tbl.Destroy()
		return fmt.Errorf("init view: %w", err)
	}

	c.ds = ds
	c.schema = schema
	c.sess = sess
	c.table = tbl
	c.registry = reg
	c.controls = buildControls(schema, ds)
	c.names = dataset.Names(ds)
	c.state = Bound
	c.logger.Debug("view bound",
		zap.String("schema", schema.Name),
		zap.Int("cp", sess.CP),
		zap.Int("records", ds.Len()),
	)
	return nil
}

func buildControls(schema Schema, ds *dataset.Dataset) []Control {
	var out []Control
	for _, col := range schema.Columns {
		if col.Filter == filter.None {
			continue
		}
		ctl := Control{ID: col.ID, Title: col.Title, Kind: col.Filter, Suggest: col.Suggest}
		if col.Options != nil {
			ctl.Options = col.Options(ds)
		}
		out = append(out, ctl)
	}
	return out
}

// Teardown releases the bound registry's predicates, destroys the grid and
// returns to Unloaded. It is a no-op when nothing is bound.
func (c *Controller) Teardown() {
	if c.state == Unloaded {
		return
	}
	c.registry.Release()
	c.table.Destroy()
	c.logger.Debug("view torn down", zap.String("schema", c.schema.Name), zap.Int("cp", c.sess.CP))

	c.ds = nil
	c.schema = Schema{}
	c.sess = session.Context{}
	c.table = nil
	c.registry = nil
	c.controls = nil
	c.names = nil
	c.cursor = 0
	c.viewportX = 0
	c.state = Unloaded
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Session() session.Context {
	return c.sess
}

func (c *Controller) Dataset() *dataset.Dataset {
	return c.ds
}

func (c *Controller) Schema() Schema {
	return c.schema
}

func (c *Controller) Table() *grid.Table {
	return c.table
}

func (c *Controller) Controls() []Control {
	return c.controls
}

// Suggestions returns name completions for term from the bound dataset.
func (c *Controller) Suggestions(term string) []string {
	return dataset.NameSuggestions(c.names, term)
}

func (c *Controller) SetFilter(id, value string) error {
	if c.state != Bound {
		return ErrUnloaded
	}
	if err := c.registry.Set(id, value); err != nil {
		return err
	}
	c.cursor = 0
	return nil
}

// QuickSearch filters on term across every column of the bound view.
func (c *Controller) QuickSearch(term string) error {
	if c.state != Bound {
		return ErrUnloaded
	}
	if err := c.registry.Search(term); err != nil {
		return err
	}
	c.cursor = 0
	return nil
}

func (c *Controller) QuickSearchTerm() string {
	if c.state != Bound {
		return ""
	}
	return c.registry.SearchTerm()
}

func (c *Controller) FilterValue(id string) string {
	if c.state != Bound {
		return ""
	}
	return c.registry.Value(id)
}

// ActiveFilters counts controls with a value.
func (c *Controller) ActiveFilters() int {
	if c.state != Bound {
		return 0
	}
	return c.registry.Active()
}

// ClearFilters empties every control and keeps sticky toggles and the quick
// search.
func (c *Controller) ClearFilters() {
	if c.state != Bound {
		return
	}
	c.registry.Clear()
	c.cursor = 0
}

// SetToggle reports whether the bound schema supports t.
func (c *Controller) SetToggle(t filter.Toggle, on bool) bool {
	if c.state != Bound || !c.registry.Supports(t) {
		return false
	}
	c.registry.SetToggle(t, on)
	c.cursor = 0
	return true
}

func (c *Controller) Toggle(t filter.Toggle) bool {
	return c.state == Bound && c.registry.Toggle(t)
}

func (c *Controller) SupportsToggle(t filter.Toggle) bool {
	return c.state == Bound && c.registry.Supports(t)
}

// VisibleRecords returns every record passing the current filters, across
// all pages.
func (c *Controller) VisibleRecords() []dataset.Record {
	if c.state != Bound {
		return nil
	}
	return c.table.Records()
}

// CursorRecord is the record under the cursor on the current page.
func (c *Controller) CursorRecord() (dataset.Record, bool) {
	if c.state != Bound {
		return nil, false
	}
	rows := c.table.PageRows()
	if c.cursor < 0 || c.cursor >= len(rows) {
		return nil, false
	}
	return c.table.Record(rows[c.cursor]), true
}

func (c *Controller) Cursor() int {
	return c.cursor
}

// MoveCursor moves within the current page.
func (c *Controller) MoveCursor(delta int) {
	if c.state != Bound {
		return
	}
	n := len(c.table.PageRows())
	c.cursor = max(0, min(c.cursor+delta, n-1))
}

func (c *Controller) NextPage() {
	c.goToPage(1)
}

func (c *Controller) PrevPage() {
	c.goToPage(-1)
}

func (c *Controller) goToPage(delta int) {
	if c.state != Bound {
		return
	}
	before := c.table.Page()
	c.table.SetPage(before + delta)
	if c.table.Page() != before {
		c.cursor = 0
	}
}

// CyclePageLength switches to the next page length in grid.PageLengths.
func (c *Controller) CyclePageLength() int {
	i := slices.Index(grid.PageLengths, c.pageLength)
	c.pageLength = grid.PageLengths[(i+1)%len(grid.PageLengths)]
	if c.state == Bound {
		c.table.SetPageLength(c.pageLength)
		c.cursor = 0
	}
	return c.pageLength
}

func (c *Controller) PageLength() int {
	return c.pageLength
}

// ScrollColumns shifts the first displayed column.
func (c *Controller) ScrollColumns(delta int) {
	if c.state != Bound {
		return
	}
	n := len(c.schema.Visible())
	c.viewportX = max(0, min(c.viewportX+delta, n-1))
}

func (c *Controller) Info() grid.PageInfo {
	if c.state != Bound {
		return grid.PageInfo{Page: 1, Pages: 1}
	}
	return c.table.Info()
}

// InfoText is the "Showing a to b of n entries" line.
func (c *Controller) InfoText() string {
	info := c.Info()
	s := fmt.Sprintf("Showing %d to %d of %d entries", info.Start, info.End, info.Filtered)
	if info.Filtered != info.Total {
		s += fmt.Sprintf(" (filtered from %d total entries)", info.Total)
	}
	return s + fmt.Sprintf(" | page %d/%d", info.Page, info.Pages)
}
