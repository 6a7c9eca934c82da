package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("codec")

// IStateSerializer is the interface the rest of the application uses to move
// state to and from the UI client.
type IStateSerializer interface {
	// Serialize converts a value tree into JSON text.
	// It returns the text and an error (*Error) if any
	Serialize(v any) ([]byte, error)
	// Deserialize parses JSON text into the value pointed to by v.
	// Nothing is written to v if an error is returned
	Deserialize(b []byte, v any) error
}

// Options tune the output of a Codec without changing its semantics.
type Options struct {
	// Backfill sets nil list and dictionary fields of the serialized value to
	// empty collections, so that the in-memory value matches its output.
	// Only fields reachable through pointers can be backfilled.
	Backfill bool
	// Indent, when not empty, indents the output with json.Indent.
	Indent string
}

// Codec serializes and deserializes value trees against a fixed, ordered list
// of candidate modules. The first module is the default module. A Codec is
// safe for concurrent use.
type Codec struct {
	modules []*Module
	opts    Options
	desc    *describer
}

// New creates a codec with default options.
func New(modules ...*Module) *Codec {
	return NewWithOptions(Options{}, modules...)
}

// NewWithOptions creates a codec with the given options.
func NewWithOptions(opts Options, modules ...*Module) *Codec {
	return &Codec{
		modules: append([]*Module(nil), modules...),
		opts:    opts,
		desc:    newDescriber(),
	}
}

// NewJSONSerializer creates a new IStateSerializer backed by a Codec.
func NewJSONSerializer(modules ...*Module) IStateSerializer {
	return New(modules...)
}

// Serialize converts value into JSON text using a fresh codec.
func Serialize(value any, modules ...*Module) ([]byte, error) {
	return New(modules...).Serialize(value)
}

// Deserialize parses data into a new value of type T using a fresh codec.
func Deserialize[T any](data []byte, modules ...*Module) (T, error) {
	var v T
	if err := New(modules...).Deserialize(data, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Modules returns the candidate modules in search order.
func (c *Codec) Modules() []*Module {
	return append([]*Module(nil), c.modules...)
}

// Describe returns the (cached) descriptor of a record type.
func (c *Codec) Describe(t reflect.Type) *TypeDescriptor {
	return c.desc.describe(t)
}

// Resolve resolves a discriminator for an `any` slot against the codec's modules.
func (c *Codec) Resolve(tag, qualified string) (Resolution, error) {
	return Resolve(tag, qualified, anyType, c.modules...)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.IStateSerializer)
// --------------------------------------------------------------------------

func (c *Codec) Serialize(v any) ([]byte, error) {
	e := &encodeState{codec: c, resolver: resolver{modules: c.modules}}
	if err := e.root(v); err != nil {
		return nil, err
	}
	if c.opts.Indent == "" {
		return e.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, e.Bytes(), "", c.opts.Indent); err != nil {
		return nil, errInvalidJSONCause("$", err)
	}
	return out.Bytes(), nil
}

func (c *Codec) Deserialize(b []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("codec: deserialize target must be a non-nil pointer, got %T", v)
	}
	d := &decodeState{codec: c, resolver: resolver{modules: c.modules}}
	out, err := d.root(b, rv.Elem().Type())
	if err != nil {
		return err
	}
	rv.Elem().Set(out)
	return nil
}
