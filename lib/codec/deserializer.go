package codec

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

var jsonNull = []byte("null")

// decodeState mirrors encodeState. The only state carried through the
// recursion is the codec (modules, descriptor cache) and the current
// position in the input.
type decodeState struct {
	codec    *Codec
	resolver resolver
}

// root decodes data into a fresh value of type t. The caller assigns the
// result only when no error occurred, so no partial value escapes.
func (d *decodeState) root(data []byte, t reflect.Type) (reflect.Value, error) {
	if !json.Valid(data) {
		return reflect.Value{}, errInvalidJSON("$", "malformed input")
	}
	out := reflect.New(t).Elem()
	if err := d.value(data, out, d.codec.desc.shape(t), "$"); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

// value decodes raw into the settable value v according to its declared shape.
func (d *decodeState) value(raw []byte, v reflect.Value, s *Shape, path string) error {
	raw = bytes.TrimSpace(raw)
	null := bytes.Equal(raw, jsonNull)

	switch s.Kind {
	case MemberScalar:
		if null {
			return errInvalidJSON(path, "null is not a valid %s", s.Type)
		}
		return d.scalar(raw, v, s.Scalar, path)
	case MemberNullableScalar:
		if null {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		p := reflect.New(v.Type().Elem())
		if err := d.scalar(raw, p.Elem(), s.Scalar, path); err != nil {
			return err
		}
		v.Set(p)
		return nil
	case MemberList:
		return d.list(raw, null, v, s, path)
	case MemberDictionary, MemberObjectDictionary:
		return d.dictionary(raw, null, v, s, path)
	case MemberRecord:
		if null {
			return nil
		}
		return d.record(raw, v, path)
	case MemberNullableRecord:
		if null {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		p := reflect.New(v.Type().Elem())
		if err := d.record(raw, p.Elem(), path); err != nil {
			return err
		}
		v.Set(p)
		return nil
	case MemberPolymorphic:
		return d.polymorphic(raw, v, path)
	default:
		return errUnsupportedMemberType(path, v.Type().String())
	}
}

func (d *decodeState) scalar(raw []byte, v reflect.Value, kind ScalarKind, path string) error {
	switch kind {
	case ScalarString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return errInvalidJSONCause(path, err)
		}
		v.SetString(s)
	case ScalarBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return errInvalidJSONCause(path, err)
		}
		v.SetBool(b)
	case ScalarDouble:
		f, err := strconv.ParseFloat(string(raw), v.Type().Bits())
		if err != nil {
			return errInvalidJSONCause(path, err)
		}
		v.SetFloat(f)
	case ScalarInteger, ScalarEnum:
		if v.CanInt() {
			n, err := strconv.ParseInt(string(raw), 10, v.Type().Bits())
			if err != nil {
				return errInvalidJSONCause(path, err)
			}
			v.SetInt(n)
		} else {
			n, err := strconv.ParseUint(string(raw), 10, v.Type().Bits())
			if err != nil {
				return errInvalidJSONCause(path, err)
			}
			v.SetUint(n)
		}
	case ScalarGuid:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return errInvalidJSONCause(path, err)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return errInvalidJSONCause(path, err)
		}
		v.Set(reflect.ValueOf(id))
	default:
		return errUnsupportedMemberType(path, v.Type().String())
	}
	return nil
}

// list rebuilds exactly the declared slice type. null becomes an empty slice.
func (d *decodeState) list(raw []byte, null bool, v reflect.Value, s *Shape, path string) error {
	if s.Derived {
		return errDerivedCollection(path)
	}
	if null {
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return errInvalidJSONCause(path, err)
	}
	out := reflect.MakeSlice(v.Type(), len(items), len(items))
	for i, item := range items {
		if err := d.value(item, out.Index(i), s.Elem, path+"["+strconv.Itoa(i)+"]"); err != nil {
			return err
		}
	}
	v.Set(out)
	return nil
}

// dictionary rebuilds exactly the declared map type. null becomes an empty map.
func (d *decodeState) dictionary(raw []byte, null bool, v reflect.Value, s *Shape, path string) error {
	if s.Derived {
		return errDerivedCollection(path)
	}
	keyType := v.Type().Key()
	if !validKeyType(keyType) {
		return errInvalidDictionaryKey(path)
	}
	if null {
		v.Set(reflect.MakeMap(v.Type()))
		return nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return errInvalidJSONCause(path, err)
	}
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	out := reflect.MakeMapWithSize(v.Type(), len(members))
	for _, name := range names {
		elem := reflect.New(v.Type().Elem()).Elem()
		if err := d.value(members[name], elem, s.Elem, path+"."+name); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(name).Convert(keyType), elem)
	}
	v.Set(out)
	return nil
}

// record parses a JSON object and populates the members of the struct v.
func (d *decodeState) record(raw []byte, v reflect.Value, path string) error {
	members, err := object(raw, path)
	if err != nil {
		return err
	}
	return d.members(members, v, path)
}

// members populates v from parsed object members. Unknown members are
// ignored; missing collections become empty ones.
func (d *decodeState) members(members map[string]json.RawMessage, v reflect.Value, path string) error {
	desc := d.codec.desc.describe(v.Type())
	for _, m := range desc.Members {
		raw, ok := members[m.Name]
		if !ok {
			raw = jsonNull
			if !isCollection(m.Shape) {
				continue
			}
		}
		field, _ := fieldByIndex(v, m.Index, true)
		if err := d.value(raw, field, m.Shape, path+"."+m.Name); err != nil {
			return err
		}
	}
	return nil
}

// polymorphic restores an interface slot: bare scalars become string,
// float64 or bool, objects are resolved through their discriminator.
func (d *decodeState) polymorphic(raw []byte, v reflect.Value, path string) error {
	if len(raw) == 0 {
		return errInvalidJSON(path, "empty value")
	}

	var out reflect.Value
	switch raw[0] {
	case 'n':
		v.Set(reflect.Zero(v.Type()))
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return errInvalidJSONCause(path, err)
		}
		out = reflect.ValueOf(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return errInvalidJSONCause(path, err)
		}
		out = reflect.ValueOf(b)
	case '{':
		return d.discriminated(raw, v, path)
	case '[':
		return errUnsupportedObjectType(path)
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return errInvalidJSONCause(path, err)
		}
		out = reflect.ValueOf(f)
	}

	if !out.Type().AssignableTo(v.Type()) {
		return errUnsupportedObjectType(path)
	}
	v.Set(out)
	return nil
}

// discriminated resolves the Type/TypeCSharp members of an object and
// populates a fresh instance of the resolved type. There is no guessing:
// an object without Type is rejected.
func (d *decodeState) discriminated(raw []byte, v reflect.Value, path string) error {
	members, err := object(raw, path)
	if err != nil {
		return err
	}

	tagRaw, ok := members[TypeField]
	if !ok || bytes.Equal(bytes.TrimSpace(tagRaw), jsonNull) {
		return errMissingType(path)
	}
	var tag string
	if err := json.Unmarshal(tagRaw, &tag); err != nil {
		return errInvalidJSONCause(path+"."+TypeField, err)
	}
	var qualified string
	if qRaw, ok := members[QualifiedTypeField]; ok && !bytes.Equal(bytes.TrimSpace(qRaw), jsonNull) {
		if err := json.Unmarshal(qRaw, &qualified); err != nil {
			return errInvalidJSONCause(path+"."+QualifiedTypeField, err)
		}
	}

	res, rerr := d.resolver.resolve(tag, qualified, v.Type())
	if rerr != nil {
		return rerr.at(path)
	}
	record, slot := res.New()
	if err := d.members(members, record, path); err != nil {
		return err
	}
	v.Set(slot)
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func object(raw []byte, path string) (map[string]json.RawMessage, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, errInvalidJSONCause(path, err)
	}
	if members == nil {
		return nil, errInvalidJSON(path, "expected an object")
	}
	return members, nil
}

func isCollection(s *Shape) bool {
	switch s.Kind {
	case MemberList, MemberDictionary, MemberObjectDictionary:
		return !s.Derived
	}
	return false
}
