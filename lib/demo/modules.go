package demo

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/ValentinKolb/dState/lib/codec"
)

const (
	ComponentsModule = "components"
	LayoutModule     = "layout"
)

// NewComponentsModule returns a module with the basic components.
func NewComponentsModule() *codec.Module {
	return codec.NewModule(ComponentsModule, "DState.Components").
		MustRegister(Button{}, Label{}, TextBox{}, Image{})
}

// NewLayoutModule returns a module with the layout containers. It registers
// Caption under the tag Label, which collides with the components module.
func NewLayoutModule() *codec.Module {
	m := codec.NewModule(LayoutModule, "DState.Layout").MustRegister(&Grid{}, &Stack{})
	if err := m.RegisterAs("Label", Caption{}); err != nil {
		panic(err)
	}
	return m
}

var moduleFactories = map[string]func() *codec.Module{
	ComponentsModule: NewComponentsModule,
	LayoutModule:     NewLayoutModule,
}

// ModuleNames returns the names of all known modules, sorted.
func ModuleNames() []string {
	names := make([]string, 0, len(moduleFactories))
	for name := range moduleFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Modules builds the named modules in the given order. The first one becomes
// the default module of a codec created from the result.
func Modules(names ...string) ([]*codec.Module, error) {
	modules := make([]*codec.Module, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		factory, ok := moduleFactories[name]
		if !ok {
			return nil, fmt.Errorf("unknown module %s (available: %v)", name, ModuleNames())
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		modules = append(modules, factory())
	}
	return modules, nil
}

// --------------------------------------------------------------------------
// Root types
// --------------------------------------------------------------------------

var roots = map[string]reflect.Type{
	"Page":    reflect.TypeOf(Page{}),
	"Button":  reflect.TypeOf(Button{}),
	"Label":   reflect.TypeOf(Label{}),
	"TextBox": reflect.TypeOf(TextBox{}),
	"Image":   reflect.TypeOf(Image{}),
	"Grid":    reflect.TypeOf(Grid{}),
	"Stack":   reflect.TypeOf(Stack{}),
	"Caption": reflect.TypeOf(Caption{}),
}

// RootNames returns the names accepted by RootType, sorted.
func RootNames() []string {
	names := make([]string, 0, len(roots))
	for name := range roots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RootType returns the struct type of a root name.
func RootType(name string) (reflect.Type, error) {
	t, ok := roots[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %s (available: %v)", name, RootNames())
	}
	return t, nil
}

// NewRoot returns a pointer to a zero value of the named root type, suitable
// as a deserialization target.
func NewRoot(name string) (any, error) {
	t, err := RootType(name)
	if err != nil {
		return nil, err
	}
	return reflect.New(t).Interface(), nil
}
