package demo

import (
	"github.com/google/uuid"
)

// Theme is the colour scheme of a page.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
	ThemeContrast
)

// Component is implemented by everything that can be placed on a page.
type Component interface {
	ComponentID() string
}

// Page is the root of the UI state sent to the client.
type Page struct {
	Title   string
	ID      uuid.UUID
	Theme   Theme
	Version *int
	// Content holds components, plain strings, numbers and flags.
	Content []any
	// Focus is the focused component, if any.
	Focus Component
	// Properties are free-form page settings.
	Properties map[string]any
	// Extras is an object dictionary, its keys must be strings at runtime.
	Extras  map[any]any
	Counter map[string]int
}

// Base is embedded by components and contributes the common members.
type Base struct {
	Type string
	Name string
}

func (b Base) ComponentID() string { return b.Name }

type Button struct {
	Base
	Text    string
	Enabled bool
	OnClick *string
}

type Label struct {
	Base
	Text string
	Size float64
}

type TextBox struct {
	Base
	Value       string
	Placeholder *string
	MaxLength   int
}

type Image struct {
	Base
	Source string
	Width  *float64
	Height *float64
}

// Grid lays out components in rows.
type Grid struct {
	Base
	TypeCSharp string
	Rows       [][]any
	Gap        float64
}

// Stack lays out components in a single column.
type Stack struct {
	Base
	TypeCSharp string
	Items      []Component
	Header     *Label
}

// Caption is registered under the tag Label in the layout module. Both
// modules know a "Label", so a Caption always carries its qualified tag.
type Caption struct {
	Base
	TypeCSharp string
	Text       string
}

// ItemList is a named list type. It cannot be serialized.
type ItemList []string

// SelectList extends a list with a selection. It cannot be serialized.
type SelectList struct {
	ItemList
	SelectedIndex int
}
