package demo

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dState/lib/codec"
)

func allModules(t *testing.T) []*codec.Module {
	t.Helper()
	modules, err := Modules(ComponentsModule, LayoutModule)
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	return modules
}

func TestValidSamplesRoundTrip(t *testing.T) {
	c := codec.New(allModules(t)...)

	for _, s := range Samples() {
		if !s.Valid {
			continue
		}
		t.Run(s.Name, func(t *testing.T) {
			first, err := c.Serialize(s.New())
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			target, err := NewRoot(s.Root)
			if err != nil {
				t.Fatalf("NewRoot: %v", err)
			}
			if err := c.Deserialize(first, target); err != nil {
				t.Fatalf("Deserialize: %v", err)
			}
			second, err := c.Serialize(target)
			if err != nil {
				t.Fatalf("second Serialize: %v", err)
			}
			if !bytes.Equal(first, second) {
				t.Errorf("re-serialization differs:\n%s\n%s", first, second)
			}
		})
	}
}

func TestPageRoundTrip(t *testing.T) {
	c := codec.New(allModules(t)...)
	page := newPage().(*Page)

	data, err := c.Serialize(page)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	var out Page
	if err := c.Deserialize(data, &out); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !reflect.DeepEqual(*page, out) {
		t.Errorf("round trip mismatch:\nOriginal: %#v\nResult: %#v", *page, out)
	}
	if _, ok := out.Content[6].(*Grid); !ok {
		t.Errorf("grid restored as %T", out.Content[6])
	}
	if _, ok := out.Content[7].(Caption); !ok {
		t.Errorf("caption restored as %T", out.Content[7])
	}
}

func TestRejectedSamples(t *testing.T) {
	tests := map[string]*codec.Error{
		"integer":   codec.ErrUnsupportedObjectType,
		"derived":   codec.ErrDerivedCollectionNotSupported,
		"ambiguous": codec.ErrMissingTypeDiscriminator,
		"key":       codec.ErrInvalidDictionaryKey,
	}
	c := codec.New(allModules(t)...)

	for name, kind := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := GetSample(name)
			if err != nil {
				t.Fatalf("GetSample: %v", err)
			}
			if s.Valid {
				t.Fatalf("sample %s is marked valid", name)
			}
			_, err = c.Serialize(s.New())
			if !errors.Is(err, kind) {
				t.Errorf("Serialize error = %v, want kind %s", err, kind.Kind)
			}
		})
	}
}

func TestLabelWithoutCollision(t *testing.T) {
	modules, err := Modules(ComponentsModule)
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	s, _ := GetSample("ambiguous")
	if _, err := codec.Serialize(s.New(), modules...); err != nil {
		t.Errorf("label rejected without the layout module: %v", err)
	}
}

func TestModules(t *testing.T) {
	modules, err := Modules(LayoutModule, ComponentsModule, LayoutModule)
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	if len(modules) != 2 || modules[0].Name() != LayoutModule {
		t.Errorf("unexpected module order")
	}
	if _, err := Modules("widgets"); err == nil {
		t.Errorf("expected error for unknown module")
	}
	if _, err := RootType("Table"); err == nil {
		t.Errorf("expected error for unknown root")
	}
	if _, err := GetSample("nope"); err == nil {
		t.Errorf("expected error for unknown sample")
	}
}
