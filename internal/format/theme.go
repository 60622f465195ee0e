package format

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds every colour the table uses. Config overrides individual
// entries.
type Palette struct {
	Perfect      lipgloss.Color
	Great        lipgloss.Color
	Good         lipgloss.Color
	Zero         lipgloss.Color
	CollectedYes lipgloss.Color
	CollectedNo  lipgloss.Color
	EvoTarget    lipgloss.Color
	EvoCP        lipgloss.Color
	Arrow        lipgloss.Color
	Shadow       lipgloss.Color
	Purified     lipgloss.Color
}

func DefaultPalette() Palette {
	return Palette{
		Perfect:      lipgloss.Color("#FFD700"), // gold
		Great:        lipgloss.Color("#90EE90"), // light green
		Good:         lipgloss.Color("#87CEEB"), // sky blue
		Zero:         lipgloss.Color("#A9A9A9"), // dark gray
		CollectedYes: lipgloss.Color("#01BE85"),
		CollectedNo:  lipgloss.Color("#FF6B6B"),
		EvoTarget:    lipgloss.Color("#F6AE2D"),
		EvoCP:        lipgloss.Color("245"),
		Arrow:        lipgloss.Color("238"),
		Shadow:       lipgloss.Color("#9370DB"), // medium purple
		Purified:     lipgloss.Color("#DDA0DD"), // plum
	}
}

const chainArrow = " → "

// Theme renders formatter output as styled terminal text.
type Theme struct {
	tiers        map[Tier]lipgloss.Style
	collectedYes lipgloss.Style
	collectedNo  lipgloss.Style
	evoPart      lipgloss.Style
	evoTarget    lipgloss.Style
	evoCP        lipgloss.Style
	arrow        lipgloss.Style
	shadowMark   lipgloss.Style
	purifiedMark lipgloss.Style
}

func NewTheme(renderer *lipgloss.Renderer, p Palette) Theme {
	base := renderer.NewStyle()
	return Theme{
		tiers: map[Tier]lipgloss.Style{
			TierPerfect: base.Foreground(p.Perfect).Bold(true),
			TierGreat:   base.Foreground(p.Great),
			TierGood:    base.Foreground(p.Good),
			TierZero:    base.Foreground(p.Zero),
		},
		collectedYes: base.Foreground(p.CollectedYes).Bold(true),
		collectedNo:  base.Foreground(p.CollectedNo),
		evoPart:      base,
		evoTarget:    base.Foreground(p.EvoTarget).Bold(true).Underline(true),
		evoCP:        base.Foreground(p.EvoCP),
		arrow:        base.Foreground(p.Arrow),
		shadowMark:   base.Foreground(p.Shadow),
		purifiedMark: base.Foreground(p.Purified),
	}
}

func (t Theme) TierStyle(tier Tier) lipgloss.Style {
	return t.tiers[tier]
}

func (t Theme) IV(value string) string {
	return t.tiers[ClassifyIV(value)].Render(value)
}

func (t Theme) Stack(s Stack) string {
	top := t.shadowMark.Render("S ") + t.tiers[s.Shadow.Tier].Render(s.Shadow.Value)
	bottom := t.purifiedMark.Render("P ") + t.tiers[s.Purified.Tier].Render(s.Purified.Value)
	return top + "\n" + bottom
}

func (t Theme) Chain(chain string, highlightCP int) string {
	var b strings.Builder
	first := true
	for seg := range EvolutionChain(chain, highlightCP) {
		if !first {
			b.WriteString(t.arrow.Render(chainArrow))
		}
		first = false

		if seg.Literal {
			b.WriteString(seg.Text)
			continue
		}
		name := t.evoPart
		if seg.Highlight {
			name = t.evoTarget
		}
		b.WriteString(name.Render(seg.Name))
		b.WriteString(t.evoCP.Render("(" + strconv.Itoa(seg.CP) + ")"))
	}
	return b.String()
}

// ChainStack renders the shadow-path chain above the purified-path chain.
func (t Theme) ChainStack(shadowChain, purifiedChain string, highlightCP int) string {
	return t.shadowMark.Render("S ") + t.Chain(shadowChain, highlightCP) + "\n" +
		t.purifiedMark.Render("P ") + t.Chain(purifiedChain, highlightCP)
}

func (t Theme) Collected(value string) string {
	if IsCollected(value) {
		return t.collectedYes.Render(value)
	}
	return t.collectedNo.Render(value)
}

// Legend mirrors the tier colours for the status area.
func (t Theme) Legend() string {
	items := make([]string, 0, 4)
	for _, tier := range []Tier{TierPerfect, TierGreat, TierGood, TierZero} {
		items = append(items, t.tiers[tier].Render("■")+tier.String())
	}
	return "IV: " + strings.Join(items, " ")
}
