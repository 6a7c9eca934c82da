// Package demo defines a small UI state model and the candidate modules that
// describe it. It is used by the dstate command line tool to encode, decode
// and benchmark realistic value trees, and doubles as an example of how an
// application declares its state for the codec.
//
// Two modules are provided:
//
//   - components (DState.Components): Button, Label, TextBox, Image
//   - layout (DState.Layout): Grid, Stack and Caption, which is registered
//     under the tag Label and therefore collides with components.Label
//
// Layout records carry a TypeCSharp member, so they can always be resolved
// even when components is the default module.
package demo
