package codec

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// encodeState walks a value tree depth-first and writes compact JSON.
// It lives for a single Serialize call.
type encodeState struct {
	bytes.Buffer
	codec    *Codec
	resolver resolver
}

func (e *encodeState) root(v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		e.WriteString("null")
		return nil
	}
	return e.value(rv, e.codec.desc.shape(rv.Type()), "$")
}

// value writes v according to its declared shape.
func (e *encodeState) value(v reflect.Value, s *Shape, path string) error {
	switch s.Kind {
	case MemberScalar:
		return e.scalar(v, s.Scalar, path)
	case MemberNullableScalar:
		if v.IsNil() {
			e.WriteString("null")
			return nil
		}
		return e.scalar(v.Elem(), s.Scalar, path)
	case MemberList:
		return e.list(v, s, path)
	case MemberDictionary, MemberObjectDictionary:
		return e.dictionary(v, s, path)
	case MemberRecord:
		return e.record(v, path, nil)
	case MemberNullableRecord:
		if v.IsNil() {
			e.WriteString("null")
			return nil
		}
		return e.record(v.Elem(), path, nil)
	case MemberPolymorphic:
		return e.polymorphic(v, s.Type, path)
	default:
		return errUnsupportedMemberType(path, v.Type().String())
	}
}

func (e *encodeState) scalar(v reflect.Value, kind ScalarKind, path string) error {
	switch kind {
	case ScalarString:
		e.string(v.String())
	case ScalarBool:
		e.WriteString(strconv.FormatBool(v.Bool()))
	case ScalarDouble:
		return e.float(v, path)
	case ScalarInteger, ScalarEnum:
		if v.CanInt() {
			e.WriteString(strconv.FormatInt(v.Int(), 10))
		} else {
			e.WriteString(strconv.FormatUint(v.Uint(), 10))
		}
	case ScalarGuid:
		var id uuid.UUID
		for i := range id {
			id[i] = byte(v.Index(i).Uint())
		}
		e.string(id.String())
	default:
		return errUnsupportedMemberType(path, v.Type().String())
	}
	return nil
}

func (e *encodeState) float(v reflect.Value, path string) error {
	var b []byte
	var err error
	if v.Kind() == reflect.Float32 {
		b, err = json.Marshal(float32(v.Float()))
	} else {
		b, err = json.Marshal(v.Float())
	}
	if err != nil {
		return errInvalidJSONCause(path, err)
	}
	e.Write(b)
	return nil
}

func (e *encodeState) string(s string) {
	b, _ := json.Marshal(s)
	e.Write(b)
}

// list writes a slice. A nil slice is written as [] (collection normalization).
func (e *encodeState) list(v reflect.Value, s *Shape, path string) error {
	if s.Derived {
		return errDerivedCollection(path)
	}
	if v.IsNil() {
		e.backfill(v)
		e.WriteString("[]")
		return nil
	}

	e.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			e.WriteByte(',')
		}
		if err := e.value(v.Index(i), s.Elem, path+"["+strconv.Itoa(i)+"]"); err != nil {
			return err
		}
	}
	e.WriteByte(']')
	return nil
}

// dictionary writes a map with keys in sorted order. Every key is checked
// before the first value is written.
func (e *encodeState) dictionary(v reflect.Value, s *Shape, path string) error {
	if s.Derived {
		return errDerivedCollection(path)
	}
	if !validKeyType(v.Type().Key()) {
		return errInvalidDictionaryKey(path)
	}
	if v.IsNil() {
		e.backfill(v)
		e.WriteString("{}")
		return nil
	}

	type entry struct {
		name string
		key  reflect.Value
	}
	keys := v.MapKeys()
	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		name, ok := dictionaryKey(k)
		if !ok {
			return errInvalidDictionaryKey(path)
		}
		entries = append(entries, entry{name: name, key: k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	e.WriteByte('{')
	for i, en := range entries {
		if i > 0 {
			e.WriteByte(',')
		}
		e.string(en.name)
		e.WriteByte(':')
		if err := e.value(v.MapIndex(en.key), s.Elem, path+"."+en.name); err != nil {
			return err
		}
	}
	e.WriteByte('}')
	return nil
}

// record writes the members of a struct. tags, when set, overrides the
// discriminator members of a record that sits in a polymorphic slot.
func (e *encodeState) record(v reflect.Value, path string, tags *[2]string) error {
	desc := e.codec.desc.describe(v.Type())

	e.WriteByte('{')
	for i, m := range desc.Members {
		if i > 0 {
			e.WriteByte(',')
		}
		e.string(m.Name)
		e.WriteByte(':')

		switch {
		case tags != nil && i == desc.typeIdx:
			e.string(tags[0])
		case tags != nil && i == desc.qualified:
			e.string(tags[1])
		default:
			field, ok := fieldByIndex(v, m.Index, false)
			if !ok {
				field = reflect.Zero(m.Shape.Type)
			}
			if err := e.value(field, m.Shape, path+"."+m.Name); err != nil {
				return err
			}
		}
	}
	e.WriteByte('}')
	return nil
}

// polymorphic writes the runtime value of an interface slot. Only string,
// double and bool scalars and records exposing the discriminator members are
// accepted.
func (e *encodeState) polymorphic(v reflect.Value, slot reflect.Type, path string) error {
	if v.IsNil() {
		e.WriteString("null")
		return nil
	}
	inner := v.Elem()
	pointer := inner.Kind() == reflect.Pointer
	if pointer {
		if inner.IsNil() {
			e.WriteString("null")
			return nil
		}
		if inner.Elem().Kind() != reflect.Struct {
			return errUnsupportedObjectType(path)
		}
		inner = inner.Elem()
	}

	t := inner.Type()
	if t.PkgPath() == "" && t.Name() != "" {
		switch t.Kind() {
		case reflect.String:
			e.string(inner.String())
			return nil
		case reflect.Bool:
			e.WriteString(strconv.FormatBool(inner.Bool()))
			return nil
		case reflect.Float64:
			return e.float(inner, path)
		}
	}

	s := e.codec.desc.shape(t)
	switch {
	case s.Derived:
		return errDerivedCollection(path)
	case s.Kind != MemberRecord:
		return errUnsupportedObjectType(path)
	}

	desc := e.codec.desc.describe(t)
	if !desc.HasTypeField() {
		return errMissingType(path)
	}
	tags := e.resolver.tags(t, slot)
	if tags.required && !desc.HasQualifiedTypeField() {
		return errMissingTypeCSharp(path)
	}
	// the output does not tell value from pointer, it must match the
	// registered form to come back as the same type
	if tags.registered && tags.pointer != pointer {
		return errUnsupportedObjectType(path)
	}
	return e.record(inner, path, &[2]string{tags.tag, tags.qualified})
}

// backfill replaces a nil collection with an empty one when enabled and possible.
func (e *encodeState) backfill(v reflect.Value) {
	if !e.codec.opts.Backfill || !v.CanSet() {
		return
	}
	switch v.Kind() {
	case reflect.Slice:
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	case reflect.Map:
		v.Set(reflect.MakeMap(v.Type()))
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// dictionaryKey returns the member name of a map key. Declared keys must be
// of kind string; keys of an interface typed map must hold a plain string.
func dictionaryKey(k reflect.Value) (string, bool) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "", false
		}
		k = k.Elem()
		if k.Type() != stringType {
			return "", false
		}
	}
	if k.Kind() != reflect.String {
		return "", false
	}
	return k.String(), true
}
