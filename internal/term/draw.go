package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const rosterWidth = 16

var (
	styleNormal    = tcell.StyleDefault
	styleTab       = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleActiveTab = tcell.StyleDefault.Reverse(true).Bold(true)
	styleHeading   = tcell.StyleDefault.Bold(true)
	styleSelected  = tcell.StyleDefault.Reverse(true)
	styleEdit      = tcell.StyleDefault.Underline(true)
	styleNick      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePrompt    = tcell.StyleDefault.Bold(true)
)

// drawText writes text at (x, y) one grapheme cluster per cell run, stopping
// before maxX. It returns the column after the last cluster drawn.
func drawText(s tcell.Screen, x, y, maxX int, style tcell.Style, text string) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		r := g.Runes()
		s.SetContent(x, y, r[0], r[1:], style)
		x += w
	}
	return x
}

// fillRow clears row y from x to maxX.
func fillRow(s tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}
