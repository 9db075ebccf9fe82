package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/usercast/internal/prefs"
	"github.com/dshills/usercast/internal/prefs/panel"
)

// SourcePanel tags preference changes made in the preferences panel.
const SourcePanel = "panel"

// row is one line of the preferences panel.
type row struct {
	heading string
	item    *panel.Item
}

// panelView edits preferences through the frames registered by plugins.
type panelView struct {
	store *prefs.Store
	rows  []row
	sel   int

	// edit is non-nil while an entry is being edited.
	edit *Compose
}

func newPanelView(store *prefs.Store, frames []*panel.Frame) *panelView {
	v := &panelView{store: store, sel: -1}
	for _, f := range frames {
		v.rows = append(v.rows, row{heading: f.Title})
		for _, s := range f.Sections {
			v.rows = append(v.rows, row{heading: "  " + s.Title})
			for _, it := range s.Items {
				v.rows = append(v.rows, row{item: it})
				if v.sel < 0 {
					v.sel = len(v.rows) - 1
				}
			}
		}
	}
	return v
}

// selected returns the selected item, if any.
func (v *panelView) selected() *panel.Item {
	if v.sel < 0 || v.sel >= len(v.rows) {
		return nil
	}
	return v.rows[v.sel].item
}

// move selects the next item in direction delta.
func (v *panelView) move(delta int) {
	for i := v.sel + delta; i >= 0 && i < len(v.rows); i += delta {
		if v.rows[i].item != nil {
			v.sel = i
			return
		}
	}
}

// handleKey processes a key. It returns done when the panel should close,
// and any error from applying a value.
func (v *panelView) handleKey(e *tcell.EventKey) (done bool, err error) {
	if v.edit != nil {
		switch e.Key() {
		case tcell.KeyEscape:
			v.edit = nil
		case tcell.KeyEnter:
			text := v.edit.Text()
			v.edit = nil
			return false, v.selected().Apply(v.store, text, SourcePanel)
		default:
			editKey(v.edit, e)
		}
		return false, nil
	}

	it := v.selected()
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyF2:
		return true, nil
	case tcell.KeyUp:
		v.move(-1)
	case tcell.KeyDown, tcell.KeyTab:
		v.move(1)
	case tcell.KeyLeft:
		if it != nil && it.Kind == panel.KindChoice {
			return false, it.Cycle(v.store, -1, SourcePanel)
		}
	case tcell.KeyRight:
		if it != nil && it.Kind == panel.KindChoice {
			return false, it.Cycle(v.store, 1, SourcePanel)
		}
	case tcell.KeyEnter:
		if it == nil {
			return false, nil
		}
		if it.Kind == panel.KindChoice {
			return false, it.Cycle(v.store, 1, SourcePanel)
		}
		current, err := it.Display(v.store)
		if err != nil {
			return false, err
		}
		v.edit = NewCompose()
		v.edit.SetText(current)
	}
	return false, nil
}

// draw renders the panel below the tab row. It returns the cursor position
// while editing.
func (v *panelView) draw(s tcell.Screen, width, height int) (cx, cy int, editing bool) {
	const labelWidth = 20
	for i, r := range v.rows {
		y := 1 + i
		if y >= height-1 {
			break
		}
		if r.item == nil {
			drawText(s, 0, y, width, styleHeading, r.heading)
			continue
		}

		style := styleNormal
		if i == v.sel {
			style = styleSelected
		}
		drawText(s, 4, y, width, style, r.item.Label)

		if i == v.sel && v.edit != nil {
			drawText(s, 4+labelWidth, y, width, styleEdit, "["+v.edit.Text()+"]")
			cx, cy, editing = 5+labelWidth+v.edit.Column(), y, true
			continue
		}
		value, err := r.item.Display(v.store)
		if err != nil {
			value = fmt.Sprintf("<%v>", err)
		}
		if r.item.Kind == panel.KindChoice {
			value = "< " + value + " >"
		} else {
			value = fmt.Sprintf("%q", value)
		}
		drawText(s, 4+labelWidth, y, width, styleNormal, value)
	}
	return cx, cy, editing
}
