package codec

import (
	"errors"
	"reflect"
	"testing"
)

var petType = reflect.TypeOf((*Pet)(nil)).Elem()

func TestResolve(t *testing.T) {
	ui, other := testModules()
	cards := NewModule("cards", "Codec.Cards").MustRegister(Card{})
	moreCards := NewModule("more", "Codec.More").MustRegister(Card{}, OtherCard{})

	tests := []struct {
		name      string
		tag       string
		qualified string
		target    reflect.Type
		modules   []*Module
		want      reflect.Type
		pointer   bool
		err       *Error
		msg       string
	}{
		{
			name:    "simple lookup in the default module",
			tag:     "Button",
			modules: []*Module{ui, other},
			want:    reflect.TypeOf(Button{}),
		},
		{
			name:    "pointer registration",
			tag:     "Panel",
			modules: []*Module{ui},
			want:    reflect.TypeOf(Panel{}),
			pointer: true,
		},
		{
			name:    "found in a non-default module",
			tag:     "Widget",
			modules: []*Module{ui, other},
			want:    reflect.TypeOf(Widget{}),
		},
		{
			name:      "qualified tag",
			tag:       "Card",
			qualified: "Codec.Cards.Card",
			modules:   []*Module{ui, cards},
			want:      reflect.TypeOf(Card{}),
		},
		{
			name:      "qualified tag of another module",
			tag:       "Card",
			qualified: "Codec.Other.Card",
			modules:   []*Module{ui, cards},
			err:       ErrTypeNotFound,
			msg:       "Type not found: Codec.Other.Card",
		},
		{
			name:    "unknown tag",
			tag:     "Slider",
			modules: []*Module{ui, other},
			err:     ErrTypeNotFound,
			msg:     "Type not found: Slider",
		},
		{
			name: "no modules",
			tag:  "Button",
			err:  ErrTypeNotFound,
			msg:  "Type not found: Button",
		},
		{
			name:    "same type in two modules is not ambiguous",
			tag:     "Card",
			modules: []*Module{cards, moreCards},
			want:    reflect.TypeOf(Card{}),
		},
		{
			name:    "slot type filters candidates",
			tag:     "Button",
			target:  petType,
			modules: []*Module{ui},
			err:     ErrTypeNotFound,
			msg:     "Type not found: Button",
		},
		{
			name:    "interface slot",
			tag:     "Dog",
			target:  petType,
			modules: []*Module{ui},
			want:    reflect.TypeOf(Dog{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			if target == nil {
				target = anyType
			}
			res, err := Resolve(tt.tag, tt.qualified, target, tt.modules...)
			if tt.err != nil {
				expectError(t, err, tt.err, tt.msg)
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if res.Entry.Type != tt.want || res.Pointer != tt.pointer {
				t.Errorf("resolved %s (pointer %v), want %s (pointer %v)", res.Entry.Type, res.Pointer, tt.want, tt.pointer)
			}
		})
	}
}

// Two distinct Go types registered under the same tag in different modules.
type dupButton struct {
	Type       string
	TypeCSharp string
}

func TestResolveAmbiguous(t *testing.T) {
	ui, _ := testModules()
	shadow := NewModule("shadow", "Codec.Shadow")
	if err := shadow.RegisterAs("Button", dupButton{}); err != nil {
		t.Fatalf("RegisterAs: %v", err)
	}

	// the default module alone would resolve, the collision is still reported
	_, err := Resolve("Button", "", anyType, ui, shadow)
	expectError(t, err, ErrAmbiguousType, "Type is ambiguous: Button")

	res, err := Resolve("Button", "Codec.Shadow.Button", anyType, ui, shadow)
	if err != nil {
		t.Fatalf("qualified Resolve: %v", err)
	}
	if res.Entry.Type != reflect.TypeOf(dupButton{}) {
		t.Errorf("resolved %s", res.Entry.Type)
	}

	// a shared namespace makes the qualified tag ambiguous too
	twin := NewModule("twin", "Codec.Shadow").MustRegister(Card{})
	if err := twin.RegisterAs("Button", Panel{}); err != nil {
		t.Fatalf("RegisterAs: %v", err)
	}
	_, err = Resolve("Button", "Codec.Shadow.Button", anyType, ui, shadow, twin)
	expectError(t, err, ErrAmbiguousType, "Type is ambiguous: Codec.Shadow.Button")
}

func TestAmbiguousRoundTrip(t *testing.T) {
	ui, _ := testModules()
	shadow := NewModule("shadow", "Codec.Shadow")
	if err := shadow.RegisterAs("Button", dupButton{}); err != nil {
		t.Fatalf("RegisterAs: %v", err)
	}
	c := New(ui, shadow)

	// Button has no TypeCSharp and its tag collides
	_, err := c.Serialize(Holder{Content: Button{Type: "Button"}})
	expectError(t, err, ErrMissingTypeDiscriminator, "Object has no TypeCSharp field!")

	value := Holder{Content: dupButton{Type: "Button", TypeCSharp: "Codec.Shadow.Button"}}
	data, err := c.Serialize(value)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	var out Holder
	if err := c.Deserialize(data, &out); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !reflect.DeepEqual(value, out) {
		t.Errorf("round trip mismatch: %+v", out)
	}

	err = c.Deserialize([]byte(`{"Content":{"Type":"Button"}}`), &out)
	expectError(t, err, ErrAmbiguousType, "Type is ambiguous: Button")
	var cerr *Error
	if errors.As(err, &cerr) && cerr.Path != "$.Content" {
		t.Errorf("path = %s, want $.Content", cerr.Path)
	}
}

func TestCrossModuleDeserialize(t *testing.T) {
	data := []byte(`{"Content":{"Type":"Widget","Size":3}}`)
	ui, other := testModules()

	_, err := Deserialize[Holder](data, ui)
	expectError(t, err, ErrTypeNotFound, "Type not found: Widget")

	out, err := Deserialize[Holder](data, ui, other)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if want := (Holder{Content: Widget{Type: "Widget", Size: 3}}); !reflect.DeepEqual(out, want) {
		t.Errorf("Deserialize() = %+v, want %+v", out, want)
	}

	gadgets := NewModule("gadgets", "Codec.Gadgets")
	if err := gadgets.RegisterAs("Widget", Card{}); err != nil {
		t.Fatalf("RegisterAs: %v", err)
	}
	_, err = Deserialize[Holder](data, ui, other, gadgets)
	expectError(t, err, ErrAmbiguousType, "Type is ambiguous: Widget")
}

func TestRegistration(t *testing.T) {
	m := NewModule("m", "Codec.M")

	tests := []struct {
		name   string
		tag    string
		sample any
	}{
		{"nil sample", "X", nil},
		{"not a struct", "X", 3},
		{"anonymous struct", "X", struct{ Type string }{}},
		{"empty tag", "", Button{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, m.RegisterAs(tt.tag, tt.sample), ErrInvalidRegistration, "")
		})
	}

	if err := m.Register(Button{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := m.Register(Button{}); err != nil {
		t.Errorf("registering the same type twice: %v", err)
	}
	expectError(t, m.RegisterAs("Button", Widget{}), ErrInvalidRegistration, "")

	e, ok := m.Lookup("Button")
	if !ok || e.Qualified != "Codec.M.Button" || e.Module != "m" {
		t.Errorf("Lookup = %+v, %v", e, ok)
	}
	if _, ok := m.LookupType(reflect.TypeOf(Button{})); !ok {
		t.Errorf("LookupType failed")
	}
}

func TestMustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	NewModule("m", "Codec.M").MustRegister(42)
}

func TestModuleEntries(t *testing.T) {
	ui, _ := testModules()
	var tags []string
	for _, e := range ui.Entries() {
		tags = append(tags, e.Tag)
	}
	want := []string{"Animal", "Button", "Dog", "Panel"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("Entries() tags = %v, want %v", tags, want)
	}
}

func TestResolutionNew(t *testing.T) {
	ui, _ := testModules()
	res, err := New(ui).Resolve("Panel", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	record, slot := res.New()
	if record.Type() != reflect.TypeOf(Panel{}) || !record.CanSet() {
		t.Errorf("record = %s (settable %v)", record.Type(), record.CanSet())
	}
	if slot.Type() != reflect.TypeOf(&Panel{}) {
		t.Errorf("slot = %s", slot.Type())
	}
}
