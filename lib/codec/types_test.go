package codec

import (
	"github.com/google/uuid"
)

// test value trees shared by the tests of this package

type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

type Scalars struct {
	Text      string
	Number    int
	Small     int8
	Big       uint64
	Ratio     float64
	Flag      bool
	ID        uuid.UUID
	Color     Color
	OptText   *string
	OptNumber *int
	OptRatio  *float64
	OptID     *uuid.UUID
	OptColor  *Color
}

type Nickname string

type Collections struct {
	Names  []string
	Scores map[string]int
	Rows   [][]int
}

type Holder struct {
	Content any
}

type Button struct {
	Type string
	Text string
}

type NoType struct {
	Name string
}

// Widget has no TypeCSharp member and is registered outside the default module.
type Widget struct {
	Type string
	Size int
}

type Panel struct {
	Type       string
	TypeCSharp string
	Title      string
	Children   []any
}

type Card struct {
	Type       string
	TypeCSharp string
	Title      string
}

type OtherCard struct {
	Type       string
	TypeCSharp string
	Caption    string
}

type Pet interface {
	PetName() string
}

type Animal struct {
	Type string
	Name string
}

func (a Animal) PetName() string { return a.Name }

type Dog struct {
	Animal
	Breed string
}

type Zoo struct {
	Pets []Pet
}

type Dictionaries struct {
	Values  map[string]int
	Objects map[any]any
}

type IntKeys struct {
	Values map[int]string
}

type ItemList []string

type SelectList struct {
	ItemList
	SelectIndex int
}

type Lookup map[string]int

type WithNamedList struct {
	Items ItemList
}

type WithSelectList struct {
	Items SelectList
}

type WithNestedSelect struct {
	Lists   [][]string
	Selects []SelectList
}

type WithSelectPointer struct {
	Items *SelectList
}

type WithLookup struct {
	Values Lookup
}

type Tagged struct {
	Visible string `json:"visible"`
	Hidden  string `json:"-"`
	secret  string
}

// Tile promotes the members of Header through an embedded pointer.
type Header struct {
	Type  string
	Title string
}

type Tile struct {
	*Header
	Width float64
}

type Tree struct {
	Name     string
	Parent   *Tree
	Children []Tree
	Meta     map[string]any
}

// testModules returns fresh modules so that no test shares registry state:
// ui (default, namespace Codec.UI) with Button, Panel, Animal and Dog, and
// other (namespace Codec.Other) with Widget.
func testModules() (ui *Module, other *Module) {
	ui = NewModule("ui", "Codec.UI").MustRegister(Button{}, &Panel{}, Animal{}, Dog{})
	other = NewModule("other", "Codec.Other").MustRegister(Widget{})
	return ui, other
}
