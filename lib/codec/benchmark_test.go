package codec

import (
	"reflect"
	"strconv"
	"testing"
)

var panelType = reflect.TypeOf(Panel{})

// benchmarkValues returns a set of value trees for targeted benchmarking
func benchmarkValues() map[string]any {
	rows := make([]any, 0, 100)
	for i := 0; i < 100; i++ {
		rows = append(rows, Button{Type: "Button", Text: "button-" + strconv.Itoa(i)})
	}
	scores := make(map[string]int, 256)
	for i := 0; i < 256; i++ {
		scores["key-"+strconv.Itoa(i)] = i
	}

	return map[string]any{
		"Empty": Collections{},
		"Scalars": Scalars{
			Text:   "benchmark",
			Number: 42,
			Ratio:  3.14,
			Flag:   true,
			ID:     testID,
			Color:  ColorGreen,
		},
		"SmallPolymorphic": Holder{Content: Button{Type: "Button", Text: "ok"}},
		"LargePolymorphicList": &Panel{
			Type:       "Panel",
			TypeCSharp: "Codec.UI.Panel",
			Title:      "rows",
			Children:   rows,
		},
		"Dictionary": Collections{Scores: scores},
		"Zoo": Zoo{Pets: []Pet{
			Animal{Type: "Animal", Name: "a"},
			Dog{Animal: Animal{Type: "Dog", Name: "b"}, Breed: "c"},
		}},
	}
}

// BenchmarkSerialize benchmarks serialization with a shared codec for various value trees
func BenchmarkSerialize(b *testing.B) {
	ui, other := testModules()

	for name, value := range benchmarkValues() {
		b.Run(name, func(b *testing.B) {
			c := New(ui, other)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := c.Serialize(value); err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}
			}
		})
	}
}

// BenchmarkDeserialize benchmarks deserialization with a shared codec for various value trees
func BenchmarkDeserialize(b *testing.B) {
	ui, other := testModules()
	c := New(ui, other)

	for name, value := range benchmarkValues() {
		data, err := c.Serialize(value)
		if err != nil {
			b.Fatalf("Failed to serialize %s: %v", name, err)
		}

		b.Run(name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var out any
				switch value.(type) {
				case Collections:
					out = new(Collections)
				case Scalars:
					out = new(Scalars)
				case Holder:
					out = new(Holder)
				case *Panel:
					out = new(Panel)
				case Zoo:
					out = new(Zoo)
				}
				if err := c.Deserialize(data, out); err != nil {
					b.Fatalf("Failed to deserialize: %v", err)
				}
			}
		})
	}
}

// BenchmarkDescribe measures the cost of a cold descriptor lookup against a warm cache
func BenchmarkDescribe(b *testing.B) {
	b.Run("Cold", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			d := newDescriber()
			d.describe(panelType)
		}
	})
	b.Run("Cached", func(b *testing.B) {
		d := newDescriber()
		d.describe(panelType)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			d.describe(panelType)
		}
	})
}
