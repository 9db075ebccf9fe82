// Package panel describes plugin preference frames.
//
// A Frame is a declarative form: titled sections holding items bound to
// preference paths. Hosts render frames however they like; the items read
// and write through a prefs.Store so every edit is validated and observed.
package panel

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dshills/usercast/internal/prefs"
)

// ErrUnknownOption is returned when a choice is set to a value it does not offer.
var ErrUnknownOption = errors.New("unknown option")

// Kind identifies how an item is edited.
type Kind uint8

const (
	// KindEntry is a free-form single-line text field bound to a string preference.
	KindEntry Kind = iota
	// KindChoice is a drop-down bound to an integer preference.
	KindChoice
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Option is one selectable value of a choice.
type Option struct {
	Label string
	Value int
}

// Item is a single editable row.
type Item struct {
	Kind    Kind
	Label   string
	Path    string
	Options []Option
}

// Section groups items under a heading.
type Section struct {
	Title string
	Items []*Item
}

// Frame is the root of a preference form.
type Frame struct {
	Title    string
	Sections []*Section
}

// NewFrame creates an empty frame.
func NewFrame(title string) *Frame {
	return &Frame{Title: title}
}

// AddSection appends a section and returns it for population.
func (f *Frame) AddSection(title string) *Section {
	s := &Section{Title: title}
	f.Sections = append(f.Sections, s)
	return s
}

// Items returns every item of the frame in display order.
func (f *Frame) Items() []*Item {
	var items []*Item
	for _, s := range f.Sections {
		items = append(items, s.Items...)
	}
	return items
}

// Check verifies that every item is bound to a registered preference of the
// matching type.
func (f *Frame) Check(store *prefs.Store) error {
	var errs []error
	for _, item := range f.Items() {
		def, ok := store.Setting(item.Path)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w: %s", item.Label, prefs.ErrNotFound, item.Path))
			continue
		}
		if want := item.valueType(); def.Type != want {
			errs = append(errs, &prefs.TypeError{Path: item.Path, Expected: want, Actual: def.Type})
		}
	}
	return errors.Join(errs...)
}

// AddEntry appends a text entry bound to a string preference.
func (s *Section) AddEntry(label, path string) *Item {
	item := &Item{Kind: KindEntry, Label: label, Path: path}
	s.Items = append(s.Items, item)
	return item
}

// AddChoice appends a choice bound to an integer preference.
func (s *Section) AddChoice(label, path string, options ...Option) *Item {
	item := &Item{Kind: KindChoice, Label: label, Path: path, Options: options}
	s.Items = append(s.Items, item)
	return item
}

func (it *Item) valueType() prefs.Type {
	if it.Kind == KindChoice {
		return prefs.TypeInt
	}
	return prefs.TypeString
}

// Value returns the item's current preference value: a string for entries,
// an int for choices.
func (it *Item) Value(store *prefs.Store) (any, error) {
	if it.Kind == KindChoice {
		return store.GetInt(it.Path)
	}
	return store.GetString(it.Path)
}

// Display returns the text shown for the item's current value. Choices show
// the label of the selected option.
func (it *Item) Display(store *prefs.Store) (string, error) {
	switch it.Kind {
	case KindChoice:
		v, err := store.GetInt(it.Path)
		if err != nil {
			return "", err
		}
		if i := it.index(v); i >= 0 {
			return it.Options[i].Label, nil
		}
		return strconv.Itoa(v), nil
	default:
		return store.GetString(it.Path)
	}
}

// Apply stores input as the item's new value. Entries take the text as is;
// choices accept an option label or its numeric value.
func (it *Item) Apply(store *prefs.Store, input, source string) error {
	if it.Kind == KindEntry {
		return store.SetString(it.Path, input, source)
	}

	for _, opt := range it.Options {
		if opt.Label == input {
			return store.SetInt(it.Path, opt.Value, source)
		}
	}
	n, err := strconv.Atoi(input)
	if err != nil || it.index(n) < 0 {
		return fmt.Errorf("%w: %s: %q", ErrUnknownOption, it.Label, input)
	}
	return store.SetInt(it.Path, n, source)
}

// Cycle moves a choice's selection by delta options, wrapping around.
// It is a no-op for entries.
func (it *Item) Cycle(store *prefs.Store, delta int, source string) error {
	if it.Kind != KindChoice || len(it.Options) == 0 {
		return nil
	}
	v, err := store.GetInt(it.Path)
	if err != nil {
		return err
	}
	i := it.index(v)
	if i < 0 {
		i = 0
	}
	n := len(it.Options)
	i = ((i+delta)%n + n) % n
	return store.SetInt(it.Path, it.Options[i].Value, source)
}

func (it *Item) index(value int) int {
	for i, opt := range it.Options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}
