package view

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokecp/pokecp/internal/dataset"
	"pokecp/pokecp/internal/filter"
	"pokecp/pokecp/internal/format"
	"pokecp/pokecp/internal/grid"
	"pokecp/pokecp/internal/session"
)

var normalHeaders = []string{
	dataset.ColPokemon, dataset.ColLevel, dataset.ColAttack, dataset.ColDefense, dataset.ColHP,
	dataset.ColEvolution, dataset.ColCollected,
}

func normalRecord(name, level, atk, def, hp, collected string) dataset.Record {
	return dataset.Record{
		dataset.ColPokemon:   name,
		dataset.ColLevel:     level,
		dataset.ColAttack:    atk,
		dataset.ColDefense:   def,
		dataset.ColHP:        hp,
		dataset.ColEvolution: name + "(520)-Next(700)",
		dataset.ColCollected: collected,
	}
}

func normalDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Kind:    dataset.Normal,
		CP:      520,
		Headers: normalHeaders,
		Records: []dataset.Record{
			normalRecord("Ivysaur", "LV40", "15", "15", "15", "YES"),
			normalRecord("Bulbasaur", "LV4", "2", "2", "2", "NO"),
			normalRecord("Charmander", "LV40", "1", "2", "2", "no"),
			normalRecord("Abra", "LV14", "0", "0", "0", ""),
		},
	}
}

func shadowDataset() *dataset.Dataset {
	rec := func(name, sAtk, pAtk string) dataset.Record {
		return dataset.Record{
			dataset.ColPokemon:           name,
			dataset.ColLevel:             "LV25",
			dataset.ColShadowAttack:      sAtk,
			dataset.ColShadowDefense:     "10",
			dataset.ColShadowHP:          "10",
			dataset.ColPurifiedAttack:    pAtk,
			dataset.ColPurifiedDefense:   "12",
			dataset.ColPurifiedHP:        "12",
			dataset.ColEvolutionShadow:   name + "(520)",
			dataset.ColEvolutionPurif:    name + "(560)",
			dataset.ColCollectedShadow:   "NO",
			dataset.ColCollectedPurified: "YES",
		}
	}
	return &dataset.Dataset{
		Kind: dataset.Shadow,
		CP:   520,
		Records: []dataset.Record{
			rec("Bulbasaur", "13", "15"),
			rec("Ivysaur", "3", "5"),
			rec("Venusaur", "13", "15"),
		},
	}
}

func testTheme() format.Theme {
	return format.NewTheme(lipgloss.NewRenderer(io.Discard), format.DefaultPalette())
}

func newTestController(ext *grid.Ext, opts ...Option) *Controller {
	opts = append([]Option{WithExt(ext), WithRenderer(lipgloss.NewRenderer(io.Discard))}, opts...)
	return NewController(testTheme(), opts...)
}

func visibleNames(c *Controller) []string {
	var out []string
	for _, rec := range c.VisibleRecords() {
		out = append(out, rec.Get(dataset.ColPokemon))
	}
	return out
}

func testSession(cp int, mode session.Mode) session.Context {
	var issuer session.Issuer
	return issuer.Issue(cp, mode)
}

func TestNormalSchemaVariants(t *testing.T) {
	t.Parallel()

	single := NormalSchema(normalHeaders)
	assert.Len(t, single.Columns, 7)
	assert.True(t, single.Columns[0].Orderable)
	assert.Equal(t, []grid.Order{{Column: 0, Dir: grid.Asc}}, single.DefaultOrder)
	assert.Contains(t, single.Toggles, filter.UncollectedOnly)
	assert.Contains(t, single.Toggles, filter.ShadowEligible)

	triple := NormalSchema(append(normalHeaders, dataset.ColCollectedShadow, dataset.ColCollectedPurified))
	assert.Len(t, triple.Columns, 9)
	assert.Empty(t, triple.DefaultOrder)
	for _, col := range triple.Columns {
		assert.False(t, col.Orderable, col.ID)
	}

	bare := NormalSchema(normalHeaders[:6])
	assert.Len(t, bare.Columns, 6)
	assert.NotContains(t, bare.Toggles, filter.UncollectedOnly)
}

func TestShadowSchemaHidesPurifiedColumns(t *testing.T) {
	t.Parallel()

	s := ShadowSchema()
	assert.Len(t, s.Columns, 11)
	assert.Len(t, s.Visible(), 8)
	assert.Equal(t, 2, s.RowHeight)

	var hidden []string
	for _, col := range s.Columns {
		if !col.Visible {
			hidden = append(hidden, col.ID)
			assert.Equal(t, filter.Exact, col.Filter)
		}
	}
	assert.Equal(t, []string{dataset.ColPurifiedAttack, dataset.ColPurifiedDefense, dataset.ColPurifiedHP}, hidden)
}

func TestInitOrdersByNameInSingleTableVariant(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	ds := normalDataset()
	require.NoError(t, c.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))

	assert.Equal(t, Bound, c.State())
	assert.Equal(t, []string{"Abra", "Bulbasaur", "Charmander", "Ivysaur"}, visibleNames(c))
}

func TestInitRejectsMismatchedSchema(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	err := c.Init(shadowDataset(), NormalSchema(normalHeaders), testSession(520, session.ModeShadow))
	assert.Error(t, err)
	assert.Equal(t, Unloaded, c.State())
	assert.Error(t, c.Init(nil, ShadowSchema(), session.Context{}))
}

func TestExactLevelFilterHasNoSubstringLeakage(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	ds := normalDataset()
	require.NoError(t, c.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))

	require.NoError(t, c.SetFilter(dataset.ColLevel, "LV40"))
	assert.Equal(t, []string{"Charmander", "Ivysaur"}, visibleNames(c))

	require.NoError(t, c.SetFilter(dataset.ColLevel, "LV4"))
	assert.Equal(t, []string{"Bulbasaur"}, visibleNames(c))

	require.NoError(t, c.SetFilter(dataset.ColLevel, ""))
	assert.Len(t, c.VisibleRecords(), 4)
}

func TestClearKeepsStickyToggle(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	ds := normalDataset()
	require.NoError(t, c.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))

	require.True(t, c.SetToggle(filter.UncollectedOnly, true))
	require.NoError(t, c.SetFilter(dataset.ColPokemon, "a"))
	require.NoError(t, c.SetFilter(dataset.ColLevel, "LV40"))
	require.NoError(t, c.SetFilter(dataset.ColDefense, "2"))
	assert.Equal(t, []string{"Charmander"}, visibleNames(c))
	assert.Equal(t, 3, c.ActiveFilters())

	draws := c.Table().Draws()
	c.ClearFilters()
	assert.Equal(t, draws+1, c.Table().Draws())
	assert.Zero(t, c.ActiveFilters())
	assert.True(t, c.Toggle(filter.UncollectedOnly))
	assert.Equal(t, []string{"Abra", "Bulbasaur", "Charmander"}, visibleNames(c))
}

func TestShadowEligibleToggle(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	ds := normalDataset()
	require.NoError(t, c.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))

	require.True(t, c.SetToggle(filter.ShadowEligible, true))
	assert.Equal(t, []string{"Bulbasaur", "Ivysaur"}, visibleNames(c))
}

func TestShadowFiltersUseRawFields(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	require.NoError(t, c.Init(shadowDataset(), ShadowSchema(), testSession(520, session.ModeShadow)))

	require.NoError(t, c.SetFilter(dataset.ColShadowAttack, "13"))
	assert.Equal(t, []string{"Bulbasaur", "Venusaur"}, visibleNames(c))

	require.NoError(t, c.SetFilter(dataset.ColShadowAttack, ""))
	require.NoError(t, c.SetFilter(dataset.ColPurifiedAttack, "5"))
	assert.Equal(t, []string{"Ivysaur"}, visibleNames(c))

	c.ClearFilters()
	require.NoError(t, c.SetFilter("Evolution", "venusaur(560"))
	assert.Equal(t, []string{"Venusaur"}, visibleNames(c))

	assert.False(t, c.SetToggle(filter.ShadowEligible, true), "shadow schema has no eligibility toggle")
}

func TestCustomPredicatesStayWithTheirView(t *testing.T) {
	t.Parallel()

	ext := grid.NewExt()
	normal := newTestController(ext)
	shadow := newTestController(ext)
	ds := normalDataset()
	require.NoError(t, normal.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))
	require.NoError(t, shadow.Init(shadowDataset(), ShadowSchema(), testSession(520, session.ModeShadow)))

	require.NoError(t, shadow.SetFilter(dataset.ColShadowAttack, "3"))
	normal.Table().Draw()
	assert.Len(t, normal.VisibleRecords(), 4)
	assert.Len(t, shadow.VisibleRecords(), 1)
}

func TestTeardownReleasesOnlyOwnPredicates(t *testing.T) {
	t.Parallel()

	ext := grid.NewExt()
	foreign := ext.Push(func(*grid.Table, int, dataset.Record) bool { return true })

	c := newTestController(ext)
	require.NoError(t, c.Init(shadowDataset(), ShadowSchema(), testSession(520, session.ModeShadow)))
	assert.Equal(t, 4, ext.Len(), "three shadow IV predicates plus the foreign one")

	require.NoError(t, c.Init(shadowDataset(), ShadowSchema(), testSession(560, session.ModeShadow)))
	assert.Equal(t, 4, ext.Len(), "rebinding must not leak predicates")

	tbl := c.Table()
	c.Teardown()
	assert.Equal(t, Unloaded, c.State())
	assert.True(t, tbl.Destroyed())
	assert.Equal(t, 1, ext.Len())
	assert.True(t, ext.Contains(foreign))
	assert.Empty(t, c.Render(80, 24))
	assert.ErrorIs(t, c.SetFilter(dataset.ColPokemon, "x"), ErrUnloaded)

	c.Teardown()
	assert.Equal(t, Unloaded, c.State())
}

func TestControlsCarryOptions(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	ds := normalDataset()
	require.NoError(t, c.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))

	byID := map[string]Control{}
	for _, ctl := range c.Controls() {
		byID[ctl.ID] = ctl
	}
	assert.Nil(t, byID[dataset.ColPokemon].Options)
	assert.True(t, byID[dataset.ColPokemon].Suggest)
	assert.Equal(t, []string{"LV4", "LV14", "LV40"}, byID[dataset.ColLevel].Options)
	assert.Len(t, byID[dataset.ColAttack].Options, 16)
	assert.Equal(t, []string{"YES", "NO"}, byID[dataset.ColCollected].Options)

	assert.Equal(t, []string{"Bulbasaur", "Ivysaur"}, c.Suggestions("SAUR"))
}

func TestPagingAndCursor(t *testing.T) {
	t.Parallel()

	ds := &dataset.Dataset{Kind: dataset.Normal, Headers: normalHeaders[:6]}
	for i := 0; i < 120; i++ {
		ds.Records = append(ds.Records, normalRecord(fmt.Sprintf("Mon%03d", i), "LV20", "10", "10", "10", ""))
	}

	c := newTestController(grid.NewExt())
	require.NoError(t, c.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))
	assert.Equal(t, "Showing 1 to 50 of 120 entries | page 1/3", c.InfoText())

	c.MoveCursor(3)
	rec, ok := c.CursorRecord()
	require.True(t, ok)
	assert.Equal(t, "Mon003", rec.Get(dataset.ColPokemon))

	c.NextPage()
	assert.Zero(t, c.Cursor())
	rec, _ = c.CursorRecord()
	assert.Equal(t, "Mon050", rec.Get(dataset.ColPokemon))

	c.MoveCursor(500)
	assert.Equal(t, 49, c.Cursor())
	c.NextPage()
	c.NextPage()
	assert.Equal(t, 2, c.Info().Page-1)
	assert.Equal(t, 101, c.Info().Start)

	assert.Equal(t, 100, c.CyclePageLength())
	assert.Equal(t, "Showing 1 to 100 of 120 entries | page 1/2", c.InfoText())

	require.NoError(t, c.SetFilter(dataset.ColPokemon, "Mon11"))
	assert.Equal(t, "Showing 1 to 10 of 10 entries (filtered from 120 total entries) | page 1/1", c.InfoText())
}

func TestCyclePageLengthWraps(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt(), WithPageLength(500))
	assert.Equal(t, 25, c.CyclePageLength())
}

func TestRenderNormalView(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	ds := normalDataset()
	require.NoError(t, c.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))

	out := c.Render(200, 30)
	for _, want := range []string{"Pokemon", "Level", "ATK", "Collected", "Abra", "Ivysaur", "LV40", "Next(700)", "→"} {
		assert.Contains(t, out, want)
	}

	start, end := c.VisibleColumnRange(40)
	assert.Equal(t, 0, start)
	assert.Less(t, end, len(c.Schema().Visible()))

	c.ScrollColumns(2)
	narrow := c.Render(40, 30)
	assert.NotContains(t, narrow, "Pokemon")
	assert.Contains(t, narrow, "ATK")
}

func TestRenderShadowViewStacksValues(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	require.NoError(t, c.Init(shadowDataset(), ShadowSchema(), testSession(520, session.ModeShadow)))

	out := c.Render(300, 40)
	assert.Contains(t, out, "S 13")
	assert.Contains(t, out, "P 15")
	assert.NotContains(t, out, "Purified ATK")

	lines := strings.Split(out, "\n")
	assert.Greater(t, len(lines), 3*2, "each record takes two lines")
}

func TestRenderEmptyResult(t *testing.T) {
	t.Parallel()

	c := newTestController(grid.NewExt())
	ds := normalDataset()
	require.NoError(t, c.Init(ds, NormalSchema(ds.Headers), testSession(520, session.ModeNormal)))
	require.NoError(t, c.SetFilter(dataset.ColPokemon, "zzz"))

	assert.Contains(t, c.Render(120, 20), EmptyMessage)
	_, ok := c.CursorRecord()
	assert.False(t, ok)
}
