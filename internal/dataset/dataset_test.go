package dataset

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const normalCSV = `Pokemon,CP,Level,IV_Attack,IV_Defense,IV_HP,Evolution(CP),Collected
Bulbasaur,500,LV20,15,14,13,Bulbasaur(500)-Ivysaur(650),YES

Ivysaur,500,LV15,2,2,2,Ivysaur(500)-Venusaur(800),no
  ,500,LV10,1,1,1,,NO
Charmander,500,LV40,1,2,2,Charmander(500),NO
`

// countingFS records every Open so tests can assert that no I/O happened.
type countingFS struct {
	fstest.MapFS
	opens int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens++
	return c.MapFS.Open(name)
}

func newTestLoader(files map[string]string) (*Loader, *countingFS) {
	m := fstest.MapFS{}
	for name, body := range files {
		m[name] = &fstest.MapFile{Data: []byte(body)}
	}
	fsys := &countingFS{MapFS: m}
	return NewLoader(fsys, "output"), fsys
}

func TestParseCPRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"0", "-5", "10000", "abc", "", "12.5", "5e2"} {
		_, err := ParseCP(in)
		assert.ErrorIsf(t, err, ErrInvalidInput, "ParseCP(%q)", in)
	}
	for in, want := range map[string]int{"1": 1, "9999": 9999, " 520 ": 520} {
		got, err := ParseCP(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadByCPInvalidInputIssuesNoFetch(t *testing.T) {
	t.Parallel()

	loader, fsys := newTestLoader(nil)
	for _, in := range []string{"0", "10000", "nope"} {
		_, err := loader.LoadByCP(context.Background(), in, Normal)
		require.ErrorIs(t, err, ErrInvalidInput)
	}
	_, err := loader.Load(context.Background(), 0, Shadow)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, fsys.opens)
}

func TestResourcePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cp520/cp520_all_evolutions.csv", ResourcePath(520, Normal))
	assert.Equal(t, "cp520/cp520_shadow_purified_evolutions.csv", ResourcePath(520, Shadow))

	loader, _ := newTestLoader(nil)
	assert.Equal(t, filepath.Join("output", "cp7", "cp7_all_evolutions.csv"), loader.Resource(7, Normal))
}

func TestLoadDropsBlankNamesAndEmptyLines(t *testing.T) {
	t.Parallel()

	loader, _ := newTestLoader(map[string]string{"cp500/cp500_all_evolutions.csv": normalCSV})
	ds, err := loader.Load(context.Background(), 500, Normal)
	require.NoError(t, err)

	assert.Equal(t, 500, ds.CP)
	assert.Equal(t, Normal, ds.Kind)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "Bulbasaur", ds.Records[0].Get(ColPokemon))
	assert.Equal(t, "Ivysaur", ds.Records[1].Get(ColPokemon))
	assert.Equal(t, "Charmander", ds.Records[2].Get(ColPokemon))
	assert.True(t, ds.HasColumn(ColCollected))
	assert.False(t, ds.HasColumn(ColCollectedShadow))
	assert.Equal(t, "", ds.Records[0].Get("missing"))
}

func TestLoadMissingResourceIsLoadError(t *testing.T) {
	t.Parallel()

	loader, _ := newTestLoader(nil)
	_, err := loader.Load(context.Background(), 9999, Normal)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, filepath.Join("output", "cp9999", "cp9999_all_evolutions.csv"), loadErr.Resource)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	resource, ok := Resource(err)
	assert.True(t, ok)
	assert.Equal(t, loadErr.Resource, resource)
}

func TestLoadMalformedIsLoadError(t *testing.T) {
	t.Parallel()

	loader, _ := newTestLoader(map[string]string{
		"cp10/cp10_all_evolutions.csv": "Pokemon,Level\n\"Bulba,LV1\n",
	})
	_, err := loader.Load(context.Background(), 10, Normal)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.False(t, errors.Is(err, ErrEmptyDataset))
}

func TestLoadEmptyDataset(t *testing.T) {
	t.Parallel()

	loader, _ := newTestLoader(map[string]string{
		"cp11/cp11_all_evolutions.csv":             "Pokemon,Level\n ,LV1\n\n",
		"cp12/cp12_all_evolutions.csv":             "",
		"cp13/cp13_shadow_purified_evolutions.csv": "Pokemon,Level\n",
	})
	for _, tc := range []struct {
		cp   int
		kind Kind
	}{{11, Normal}, {12, Normal}, {13, Shadow}} {
		_, err := loader.Load(context.Background(), tc.cp, tc.kind)
		require.ErrorIs(t, err, ErrEmptyDataset)
		resource, ok := Resource(err)
		require.True(t, ok)
		assert.Equal(t, loader.Resource(tc.cp, tc.kind), resource)
		assert.Contains(t, err.Error(), resource)
	}
}

func TestLoadStripsBOMAndToleratesRaggedRows(t *testing.T) {
	t.Parallel()

	loader, _ := newTestLoader(map[string]string{
		"cp20/cp20_all_evolutions.csv": "\ufeffPokemon,Level,IV_Attack\nPidgey,LV3\nRattata,LV4,5,extra\n",
	})
	ds, err := loader.Load(context.Background(), 20, Normal)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "", ds.Records[0].Get(ColAttack))
	assert.Equal(t, "5", ds.Records[1].Get(ColAttack))
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	loader, fsys := newTestLoader(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loader.Load(ctx, 5, Normal)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fsys.opens)
}

func TestNewDirLoaderReadsFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cp42"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cp42", "cp42_all_evolutions.csv"), []byte(normalCSV), 0o644))

	ds, err := NewDirLoader(dir).LoadByCP(context.Background(), "42", Normal)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, filepath.Join(dir, "cp42", "cp42_all_evolutions.csv"), ds.Resource)
}

func TestLevelOptionsSortNumerically(t *testing.T) {
	t.Parallel()

	ds := &Dataset{Records: []Record{
		{ColLevel: "LV40"}, {ColLevel: "LV4"}, {ColLevel: "LV20.5"}, {ColLevel: ""},
		{ColLevel: "LV4"}, {ColLevel: "Lvl9"}, {ColLevel: "LV100"}, {ColLevel: "best"},
	}}
	assert.Equal(t, []string{"LV4", "LV20.5", "LV40", "LV100", "Lvl9", "best"}, LevelOptions(ds))
	assert.Nil(t, LevelOptions(nil))
}

func TestIVOptions(t *testing.T) {
	t.Parallel()

	opts := IVOptions()
	require.Len(t, opts, 16)
	assert.Equal(t, "0", opts[0])
	assert.Equal(t, "15", opts[15])
}

func TestNameSuggestions(t *testing.T) {
	t.Parallel()

	var names []string
	for i := 0; i < 30; i++ {
		names = append(names, "Pidgey"+strings.Repeat("x", i))
	}
	names = append(names, "Charmander")

	assert.Len(t, NameSuggestions(names, "PIDG"), MaxSuggestions)
	assert.Equal(t, []string{"Charmander"}, NameSuggestions(names, "arm"))
	assert.Nil(t, NameSuggestions(names, "  "))

	ds := &Dataset{Records: []Record{{ColPokemon: "b"}, {ColPokemon: "a"}, {ColPokemon: "b"}}}
	assert.Equal(t, []string{"a", "b"}, Names(ds))
}

func TestShadowEligible(t *testing.T) {
	t.Parallel()

	rec := func(a, d, h string) Record {
		return Record{ColAttack: a, ColDefense: d, ColHP: h}
	}
	assert.True(t, ShadowEligible(rec("2", "2", "2")))
	assert.False(t, ShadowEligible(rec("1", "2", "2")))
	assert.True(t, ShadowEligible(rec("15", "15", "15")))
	assert.False(t, ShadowEligible(rec("", "15", "15")))
	assert.False(t, ShadowEligible(rec("x", "15", "15")))
}

func TestWriteCSVAndLine(t *testing.T) {
	t.Parallel()

	headers := []string{ColPokemon, ColLevel}
	records := []Record{{ColPokemon: "Mr. Mime", ColLevel: "LV20"}, {ColPokemon: "Farfetch'd, Galarian"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, headers, records))
	assert.Equal(t, "Pokemon,Level\nMr. Mime,LV20\n\"Farfetch'd, Galarian\",\n", buf.String())

	line, err := Line(headers, records[0])
	require.NoError(t, err)
	assert.Equal(t, "Mr. Mime,LV20", line)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFile(path, headers, records))
	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(blob))
}
