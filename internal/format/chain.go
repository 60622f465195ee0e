package format

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// StageDelimiter separates the stages of an evolution chain string such as
// "Bulbasaur(500)-Ivysaur(650)".
const StageDelimiter = "-"

var stagePattern = regexp.MustCompile(`^(.+)\((\d+)\)$`)

// Segment is one stage of a rendered evolution chain. Literal segments are
// stages that did not parse as Name(CP) and carry only Text.
type Segment struct {
	Text      string
	Name      string
	CP        int
	Highlight bool
	Literal   bool
}

// EvolutionChain yields the stages of chain in order. A stage is highlighted
// when its CP equals highlightCP. Empty input yields nothing.
//
// A delimiter only ends a stage when it follows a closing parenthesis, so
// hyphenated names like "Ho-Oh(1200)" or "Porygon-Z(900)" stay whole.
func EvolutionChain(chain string, highlightCP int) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		rest := chain
		for rest != "" {
			stage := rest
			if i := strings.Index(rest, ")"+StageDelimiter); i >= 0 {
				stage, rest = rest[:i+1], rest[i+1+len(StageDelimiter):]
			} else {
				rest = ""
			}
			if !yield(parseStage(stage, highlightCP)) {
				return
			}
		}
	}
}

func parseStage(stage string, highlightCP int) Segment {
	match := stagePattern.FindStringSubmatch(stage)
	if match == nil {
		return Segment{Text: stage, Literal: true}
	}
	cp, err := strconv.Atoi(match[2])
	if err != nil {
		// overflowing digit runs
		return Segment{Text: stage, Literal: true}
	}
	return Segment{
		Text:      stage,
		Name:      match[1],
		CP:        cp,
		Highlight: cp == highlightCP,
	}
}

// ChainText is the plain "A(1) → B(2)" form used for widths and exports.
func ChainText(chain string) string {
	var parts []string
	for seg := range EvolutionChain(chain, -1) {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " → ")
}
