// Package codec implements the JSON codec used to move application state
// between the server process and the UI client. Unlike encoding/json it keeps
// the concrete type of values stored in interface typed members, so that a
// serialize → deserialize round trip restores exactly the types that went in.
//
// The package focuses on:
//   - A closed discriminator convention (Type / TypeCSharp members) instead of
//     a general purpose type system
//   - Explicit, caller supplied candidate modules for type resolution
//   - Strict validation with a small, fixed error taxonomy
//   - Deterministic output (declaration order, sorted dictionary keys)
//
// Key Components:
//
//   - TypeDescriptor: Lists the serializable members of a struct in declaration
//     order and classifies each one (scalar, nullable scalar, list, dictionary,
//     record, polymorphic). Classification never looks at instance data.
//
//   - Module: A candidate set of concrete record types (the Go form of an
//     assembly). Types are registered under a short tag (their Go type name by
//     default) and get a qualified tag namespace.tag.
//
//   - Resolver: Maps a Type/TypeCSharp pair back to exactly one registered type,
//     reporting TypeNotFound and AmbiguousType. Name collisions across modules
//     are always detected, even when the default module alone would resolve.
//
//   - Codec: Serializer and deserializer core, exposed through the
//     IStateSerializer interface and the generic Serialize / Deserialize helpers.
//
// Rules:
//
//   - Nil lists and dictionaries are written as [] and {} and read back as empty
//     collections. Nil pointers and nil interfaces stay nil.
//   - Lists and dictionaries must be exactly []T and map[K]V. Named slice or map
//     types and structs embedding one are rejected with
//     "No derived list or dictionary for json!".
//   - Dictionary keys must be strings ("Dictionary key needs to be of type string!").
//   - Interface members accept string, float64 and bool values and records with a
//     Type member. Integers are rejected ("Allowed types: string, double or bool!")
//     so that callers normalize numbers before boxing them. A record that is not
//     reachable by simple lookup in the default module also needs a TypeCSharp
//     member ("Object has no TypeCSharp field!").
//   - A record in an interface member must have the form it was registered
//     with: Button{} registrations accept Button values, &Button{}
//     registrations accept *Button. float32 values are rejected like integers.
//   - Embedded structs and exported embedded struct pointers are flattened.
//     A nil embedded pointer is written as zero values and allocated on read.
//
// Thread Safety:
//
//	A Codec is safe for concurrent use. The descriptor cache is a lock-free map
//	and never changes results. Modules must not be modified while calls that
//	received them are running, and a value tree must not be mutated while it
//	is serialized.
//
// Usage:
//
//	ui := codec.NewModule("ui", "App.Components")
//	ui.MustRegister(Button{}, Label{})
//
//	data, err := codec.Serialize(page, ui)
//	// ... send data to the client ...
//	restored, err := codec.Deserialize[Page](data, ui)
package codec
