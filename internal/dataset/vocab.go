package dataset

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"pokecp/pokecp/internal/format"
)

// LevelPrefix precedes the level number in every Level cell, e.g. "LV40".
const LevelPrefix = "LV"

// MaxSuggestions caps the name autocomplete list.
const MaxSuggestions = 20

// LevelOptions returns the distinct non-empty level labels in ascending
// numeric order. Labels without a parsable number after LevelPrefix sort
// after all numeric ones, lexically among themselves.
func LevelOptions(ds *Dataset) []string {
	if ds == nil {
		return nil
	}
	seen := make(map[string]bool)
	var levels []string
	for _, rec := range ds.Records {
		lv := rec.Get(ColLevel)
		if lv == "" || seen[lv] {
			continue
		}
		seen[lv] = true
		levels = append(levels, lv)
	}

	slices.SortFunc(levels, func(a, b string) int {
		na, nb := levelNumber(a), levelNumber(b)
		switch {
		case math.IsNaN(na) && math.IsNaN(nb):
			return strings.Compare(a, b)
		case math.IsNaN(na):
			return 1
		case math.IsNaN(nb):
			return -1
		}
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return levels
}

func levelNumber(label string) float64 {
	n, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(label), LevelPrefix), 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// IVOptions is "0" through "15".
func IVOptions() []string {
	opts := make([]string, 0, format.MaxIV+1)
	for i := 0; i <= format.MaxIV; i++ {
		opts = append(opts, strconv.Itoa(i))
	}
	return opts
}

func CollectedOptions() []string {
	return []string{"YES", "NO"}
}

// Names returns the distinct Pokémon names of ds, sorted.
func Names(ds *Dataset) []string {
	if ds == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, rec := range ds.Records {
		name := rec.Get(ColPokemon)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NameSuggestions returns up to MaxSuggestions names containing term,
// ignoring case. An empty term suggests nothing.
func NameSuggestions(names []string, term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var out []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), term) {
			out = append(out, name)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}
