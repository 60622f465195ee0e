// Package tui is the interactive CP table viewer.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"pokecp/pokecp/internal/dataset"
	"pokecp/pokecp/internal/filter"
	"pokecp/pokecp/internal/format"
	"pokecp/pokecp/internal/grid"
	"pokecp/pokecp/internal/session"
	"pokecp/pokecp/internal/view"
)

type focus int

const (
	focusTable focus = iota
	focusCP
	focusFilter
	focusExport
)

// loadedMsg carries a finished load back to Update together with the
// request it was issued for.
type loadedMsg struct {
	sess session.Context
	kind dataset.Kind
	ds   *dataset.Dataset
	err  error
}

// DatasetChangedMsg reports that the CSV of kind for CP was rewritten on
// disk.
type DatasetChangedMsg struct {
	CP   int
	Kind dataset.Kind
}

type settings struct {
	ctx        context.Context
	logger     *zap.Logger
	renderer   *lipgloss.Renderer
	palette    format.Palette
	keys       keyMap
	pageLength int
	mode       session.Mode
	initialCP  int
	clipboard  func(string) error
	follow     func(cp int)
	ext        *grid.Ext
}

type Option func(*settings)

func WithContext(ctx context.Context) Option {
	return func(s *settings) { s.ctx = ctx }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRenderer(r *lipgloss.Renderer) Option {
	return func(s *settings) { s.renderer = r }
}

func WithPalette(p format.Palette) Option {
	return func(s *settings) { s.palette = p }
}

// WithHotkeys replaces the default key bindings, see DefaultHotkeys.
func WithHotkeys(hotkeys map[string][]string) Option {
	return func(s *settings) { s.keys = newKeyMap(hotkeys) }
}

func WithPageLength(n int) Option {
	return func(s *settings) { s.pageLength = n }
}

func WithMode(m session.Mode) Option {
	return func(s *settings) { s.mode = m }
}

// WithInitialCP loads cp as soon as the program starts.
func WithInitialCP(cp int) Option {
	return func(s *settings) { s.initialCP = cp }
}

func WithClipboard(write func(string) error) Option {
	return func(s *settings) { s.clipboard = write }
}

// WithFollow is called with the CP of every successful normal load.
func WithFollow(follow func(cp int)) Option {
	return func(s *settings) { s.follow = follow }
}

// WithExt selects the predicate namespace the two views share.
func WithExt(e *grid.Ext) Option {
	return func(s *settings) { s.ext = e }
}

type Model struct {
	ctx    context.Context
	loader *dataset.Loader
	logger *zap.Logger

	issuer  session.Issuer
	current session.Context
	mode    session.Mode

	normal        *view.Controller
	shadow        *view.Controller
	normalData    *dataset.Dataset
	shadowData    *dataset.Dataset
	shadowPending bool
	toggles       map[filter.Toggle]bool

	focus       focus
	cpInput     textinput.Model
	bar         filterBar
	exportInput textinput.Model

	errMsg string
	status string

	width    int
	height   int
	renderer *lipgloss.Renderer
	theme    format.Theme
	styles   uiStyles
	keys     keyMap
	help     help.Model

	clipboard func(string) error
	follow    func(cp int)
	initCmd   tea.Cmd
}

func New(loader *dataset.Loader, opts ...Option) Model {
	s := settings{
		ctx:        context.Background(),
		logger:     zap.NewNop(),
		palette:    format.DefaultPalette(),
		keys:       newKeyMap(DefaultHotkeys()),
		pageLength: grid.DefaultPageLength,
		clipboard:  clipboard.WriteAll,
		ext:        grid.Default,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.renderer == nil {
		s.renderer = lipgloss.NewRenderer(os.Stdout)
	}

	theme := format.NewTheme(s.renderer, s.palette)
	viewOpts := []view.Option{
		view.WithExt(s.ext),
		view.WithPageLength(s.pageLength),
		view.WithLogger(s.logger),
		view.WithRenderer(s.renderer),
	}

	m := Model{
		ctx:         s.ctx,
		loader:      loader,
		logger:      s.logger,
		mode:        s.mode,
		normal:      view.NewController(theme, viewOpts...),
		shadow:      view.NewController(theme, viewOpts...),
		toggles:     make(map[filter.Toggle]bool),
		cpInput:     newInput("CP (1-9999)"),
		exportInput: newInput("file name"),
		width:       80,
		height:      24,
		renderer:    s.renderer,
		theme:       theme,
		styles:      newUIStyles(s.renderer),
		keys:        s.keys,
		help:        help.New(),
		clipboard:   s.clipboard,
		follow:      s.follow,
	}
	m.bar.styles = m.styles

	if s.initialCP > 0 {
		m.cpInput.SetValue(strconv.Itoa(s.initialCP))
		m.initCmd = m.submit(m.cpInput.Value())
	} else {
		m.focusCP()
	}
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m Model) Init() tea.Cmd {
	return m.initCmd
}

func (m *Model) active() *view.Controller {
	if m.mode == session.ModeShadow {
		return m.shadow
	}
	return m.normal
}

// submit starts a new CP query. Both datasets and views are discarded
// before the input is even validated.
func (m *Model) submit(input string) tea.Cmd {
	m.normal.Teardown()
	m.shadow.Teardown()
	m.normalData, m.shadowData = nil, nil
	m.shadowPending = false
	m.bar.reset()

	cp, err := dataset.ParseCP(input)
	if err != nil {
		// supersede anything still in flight
		m.current = m.issuer.Issue(0, m.mode)
		m.errMsg = describe(err, 0)
		m.status = ""
		m.logger.Info("rejected CP input", zap.String("input", input), zap.Error(err))
		return nil
	}

	m.current = m.issuer.Issue(cp, m.mode)
	m.errMsg = ""
	m.status = fmt.Sprintf("Loading CP %d…", cp)
	m.logger.Info("loading CP",
		zap.Int("cp", cp),
		zap.Stringer("mode", m.mode),
		zap.Uint64("token", m.current.Token),
	)
	return m.load(m.current, dataset.Normal)
}

func (m *Model) load(sess session.Context, kind dataset.Kind) tea.Cmd {
	if kind == dataset.Shadow {
		m.shadowPending = true
	}
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		ds, err := loader.Load(ctx, sess.CP, kind)
		return loadedMsg{sess: sess, kind: kind, ds: ds, err: err}
	}
}

func (m *Model) handleLoaded(msg loadedMsg) tea.Cmd {
	if !msg.sess.Same(m.current) {
		m.logger.Debug("dropping stale load",
			zap.Int("cp", msg.sess.CP),
			zap.Stringer("kind", msg.kind),
			zap.Uint64("token", msg.sess.Token),
			zap.Uint64("current", m.current.Token),
		)
		return nil
	}

	if msg.kind == dataset.Shadow {
		m.shadowPending = false
		if msg.err != nil {
			m.shadow.Teardown()
			m.shadowData = nil
			m.errMsg = describe(msg.err, msg.sess.CP)
			return nil
		}
		if err := m.shadow.Init(msg.ds, view.ShadowSchema(), m.current); err != nil {
			m.errMsg = err.Error()
			return nil
		}
		m.shadowData = msg.ds
		m.applyToggles(m.shadow)
		m.errMsg = ""
		m.status = fmt.Sprintf("Loaded %d shadow/purified records for CP %d", msg.ds.Len(), msg.sess.CP)
		m.syncBar()
		return nil
	}

	if msg.err != nil {
		m.normal.Teardown()
		m.normalData = nil
		m.errMsg = describe(msg.err, msg.sess.CP)
		m.status = ""
		return nil
	}
	if err := m.normal.Init(msg.ds, view.NormalSchema(msg.ds.Headers), m.current); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.normalData = msg.ds
	m.applyToggles(m.normal)
	m.errMsg = ""
	m.status = fmt.Sprintf("Loaded %d records for CP %d", msg.ds.Len(), msg.sess.CP)
	m.syncBar()
	if m.follow != nil {
		m.follow(msg.sess.CP)
	}
	if m.mode == session.ModeShadow {
		return m.load(m.current, dataset.Shadow)
	}
	return nil
}

// toggleMode switches between the normal and the shadow view. The shadow
// dataset is fetched the first time the shadow view is shown for a CP.
func (m *Model) toggleMode() tea.Cmd {
	if m.mode == session.ModeShadow {
		m.mode = session.ModeNormal
	} else {
		m.mode = session.ModeShadow
	}
	m.current = m.current.WithMode(m.mode)
	m.syncBar()
	m.logger.Debug("mode switched", zap.Stringer("mode", m.mode))

	if m.mode == session.ModeNormal {
		if m.normalData != nil {
			m.errMsg = ""
		}
		return nil
	}
	if m.normalData != nil && m.shadowData == nil && !m.shadowPending {
		m.status = fmt.Sprintf("Loading shadow/purified data for CP %d…", m.current.CP)
		return m.load(m.current, dataset.Shadow)
	}
	return nil
}

func (m *Model) applyToggles(c *view.Controller) {
	for t, on := range m.toggles {
		if on {
			c.SetToggle(t, true)
		}
	}
}

func (m *Model) setToggle(t filter.Toggle) {
	on := !m.toggles[t]
	m.toggles[t] = on
	m.normal.SetToggle(t, on)
	m.shadow.SetToggle(t, on)

	state := "off"
	if on {
		state = "on"
	}
	m.status = fmt.Sprintf("%s filter %s", t, state)
	if on && !m.active().SupportsToggle(t) {
		m.status += " (not available in this view)"
	}
}

func (m *Model) clearFilters() {
	m.active().ClearFilters()
	m.syncBar()
	m.status = "Filters cleared"
}

func (m *Model) focusCP() {
	m.focus = focusCP
	m.cpInput.Focus()
	m.cpInput.CursorEnd()
}

func (m *Model) focusTable() {
	m.focus = focusTable
	m.cpInput.Blur()
	m.exportInput.Blur()
	m.bar.blur()
}

func (m *Model) syncBar() {
	m.bar.sync(m.active())
}

func (m *Model) startExport() {
	c := m.active()
	if c.State() != view.Bound {
		return
	}
	m.focus = focusExport
	m.exportInput.SetValue(fmt.Sprintf("cp%d_%s_filtered.csv", m.current.CP, m.mode))
	m.exportInput.Focus()
	m.exportInput.CursorEnd()
}

func (m *Model) export(filename string) {
	c := m.active()
	if filename == "" || c.State() != view.Bound {
		return
	}
	records := c.VisibleRecords()
	if err := dataset.WriteFile(filename, c.Dataset().Headers, records); err != nil {
		m.errMsg = err.Error()
		m.logger.Error("export failed", zap.String("file", filename), zap.Error(err))
		return
	}
	m.status = fmt.Sprintf("Saved %d rows to %s", len(records), filename)
	m.logger.Info("exported", zap.String("file", filename), zap.Int("rows", len(records)))
}

func (m *Model) yank() {
	c := m.active()
	rec, ok := c.CursorRecord()
	if !ok {
		return
	}
	line, err := dataset.Line(c.Dataset().Headers, rec)
	if err == nil {
		err = m.clipboard(line)
	}
	if err != nil {
		m.status = "Copy failed: " + err.Error()
		return
	}
	m.status = "Copied " + rec.Get(dataset.ColPokemon)
}
