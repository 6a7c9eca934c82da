package demo

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Sample is a named value tree used by the CLI and the perf command.
type Sample struct {
	Name        string
	Description string
	// Root is the root type name (see RootType) of the value.
	Root string
	// Valid is false for samples that demonstrate a rejected value.
	Valid bool
	New   func() any
}

var pageID = uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

func ptr[T any](v T) *T { return &v }

var samples = []Sample{
	{
		Name:        "page",
		Description: "page with components, layouts and free-form properties",
		Root:        "Page",
		Valid:       true,
		New:         newPage,
	},
	{
		Name:        "form",
		Description: "stack of text boxes with a header",
		Root:        "Stack",
		Valid:       true,
		New: func() any {
			return &Stack{
				Base:       Base{Type: "Stack", Name: "login"},
				TypeCSharp: "DState.Layout.Stack",
				Header:     &Label{Base: Base{Type: "Label", Name: "title"}, Text: "Sign in", Size: 18},
				Items: []Component{
					TextBox{Base: Base{Type: "TextBox", Name: "user"}, Placeholder: ptr("user name"), MaxLength: 64},
					TextBox{Base: Base{Type: "TextBox", Name: "password"}, MaxLength: 128},
					Button{Base: Base{Type: "Button", Name: "submit"}, Text: "Login", Enabled: true},
				},
			}
		},
	},
	{
		Name:        "empty",
		Description: "page without content, collections are written as [] and {}",
		Root:        "Page",
		Valid:       true,
		New:         func() any { return &Page{} },
	},
	{
		Name:        "integer",
		Description: "integer boxed in page content (rejected)",
		Root:        "Page",
		New: func() any {
			return &Page{Title: "numbers", Content: []any{"one", 2}}
		},
	},
	{
		Name:        "derived",
		Description: "select list stored as a page property (rejected)",
		Root:        "Page",
		New: func() any {
			return &Page{Properties: map[string]any{
				"choices": SelectList{ItemList: ItemList{"a", "b"}, SelectedIndex: 1},
			}}
		},
	},
	{
		Name:        "ambiguous",
		Description: "label without qualified tag while both modules define Label (rejected with the layout module)",
		Root:        "Page",
		New: func() any {
			return &Page{Content: []any{Label{Base: Base{Type: "Label", Name: "l"}, Text: "hi"}}}
		},
	},
	{
		Name:        "key",
		Description: "object dictionary with a non-string key (rejected)",
		Root:        "Page",
		New: func() any {
			return &Page{Extras: map[any]any{"ok": true, 7: "seven"}}
		},
	},
}

func newPage() any {
	return &Page{
		Title:   "Dashboard",
		ID:      pageID,
		Theme:   ThemeDark,
		Version: ptr(3),
		Content: []any{
			"Welcome",
			1.5,
			true,
			nil,
			Button{Base: Base{Type: "Button", Name: "refresh"}, Text: "Refresh", Enabled: true, OnClick: ptr("reload")},
			Image{Base: Base{Type: "Image", Name: "logo"}, Source: "logo.png", Width: ptr(120.0)},
			&Grid{
				Base:       Base{Type: "Grid", Name: "stats"},
				TypeCSharp: "DState.Layout.Grid",
				Gap:        4,
				Rows: [][]any{
					{"cpu", 0.42},
					{"memory", 0.73},
				},
			},
			Caption{Base: Base{Type: "Label", Name: "footer"}, TypeCSharp: "DState.Layout.Label", Text: "v3"},
		},
		Focus: Button{Base: Base{Type: "Button", Name: "refresh"}, Text: "Refresh", Enabled: true},
		Properties: map[string]any{
			"refreshSeconds": 30.0,
			"owner":          "ops",
			"compact":        false,
		},
		Extras: map[any]any{
			"region": "eu-west",
		},
		Counter: map[string]int{"visits": 12, "errors": 0},
	}
}

// Samples returns all samples sorted by name.
func Samples() []Sample {
	out := append([]Sample(nil), samples...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetSample returns the sample with the given name.
func GetSample(name string) (Sample, error) {
	for _, s := range samples {
		if s.Name == name {
			return s, nil
		}
	}
	names := make([]string, 0, len(samples))
	for _, s := range samples {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return Sample{}, fmt.Errorf("unknown sample %s (available: %v)", name, names)
}
