package codec

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Discriminator member names. They are part of the contract with the UI client.
const (
	TypeField          = "Type"
	QualifiedTypeField = "TypeCSharp"
)

var (
	guidType   = reflect.TypeOf(uuid.UUID{})
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
	stringType = reflect.TypeOf("")
)

// --------------------------------------------------------------------------
// Classification
// --------------------------------------------------------------------------

// MemberKind is the declared kind of a member, list element or dictionary value.
type MemberKind uint8

const (
	MemberUnsupported      MemberKind = iota // no JSON mapping (chan, func, complex, ...)
	MemberScalar                             // string, double, bool, integer, guid, enum
	MemberNullableScalar                     // pointer to a scalar
	MemberList                               // []T
	MemberDictionary                         // map[K]V
	MemberObjectDictionary                   // exactly map[any]any
	MemberRecord                             // struct
	MemberNullableRecord                     // pointer to struct
	MemberPolymorphic                        // interface
)

func (k MemberKind) String() string {
	switch k {
	case MemberScalar:
		return "scalar"
	case MemberNullableScalar:
		return "nullable-scalar"
	case MemberList:
		return "list"
	case MemberDictionary:
		return "dictionary"
	case MemberObjectDictionary:
		return "object-dictionary"
	case MemberRecord:
		return "record"
	case MemberNullableRecord:
		return "nullable-record"
	case MemberPolymorphic:
		return "polymorphic"
	default:
		return "unsupported"
	}
}

// ScalarKind refines MemberScalar and MemberNullableScalar.
type ScalarKind uint8

const (
	ScalarNone ScalarKind = iota
	ScalarString
	ScalarDouble
	ScalarBool
	ScalarInteger
	ScalarGuid
	ScalarEnum
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "string"
	case ScalarDouble:
		return "double"
	case ScalarBool:
		return "bool"
	case ScalarInteger:
		return "integer"
	case ScalarGuid:
		return "guid"
	case ScalarEnum:
		return "enum"
	default:
		return ""
	}
}

// Shape describes how a declared type maps to JSON.
type Shape struct {
	Kind   MemberKind
	Scalar ScalarKind
	// Type is the declared Go type.
	Type reflect.Type
	// Elem is the list element, dictionary value or pointer target shape.
	// It is nil for derived containers, which are never walked.
	Elem *Shape
	// Key is the declared dictionary key type.
	Key reflect.Type
	// Derived is set for lists and dictionaries that are not exactly the
	// generic container: named slice/map types and structs embedding one.
	Derived bool
}

// RecordType returns the struct type of a record or nullable record shape.
func (s *Shape) RecordType() reflect.Type {
	if s.Kind == MemberNullableRecord {
		return s.Type.Elem()
	}
	return s.Type
}

// String renders the shape the way the describe command prints it,
// e.g. "list<nullable-record>" or "scalar(enum)".
func (s *Shape) String() string {
	var sb strings.Builder
	sb.WriteString(s.Kind.String())
	if s.Scalar != ScalarNone {
		sb.WriteString("(" + s.Scalar.String() + ")")
	}
	switch s.Kind {
	case MemberList, MemberDictionary, MemberObjectDictionary:
		if s.Elem != nil {
			sb.WriteString("<" + s.Elem.String() + ">")
		}
	}
	if s.Derived {
		sb.WriteString(" derived")
	}
	return sb.String()
}

// Member is a single serializable field of a record.
type Member struct {
	// Name is the JSON member name.
	Name string
	// Field is the Go field name.
	Field string
	// Index is the field index path, suitable for reflect.Value.FieldByIndex.
	Index []int
	Shape *Shape
}

// TypeDescriptor lists the serializable members of a record type in
// declaration order.
type TypeDescriptor struct {
	Type    reflect.Type
	Members []Member

	byName    map[string]int
	typeIdx   int
	qualified int
}

// Member returns the member with the given JSON name.
func (d *TypeDescriptor) Member(name string) (Member, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Member{}, false
	}
	return d.Members[i], true
}

// HasTypeField reports whether the record exposes a string Type member.
func (d *TypeDescriptor) HasTypeField() bool {
	return d.typeIdx >= 0
}

// HasQualifiedTypeField reports whether the record exposes a string TypeCSharp member.
func (d *TypeDescriptor) HasQualifiedTypeField() bool {
	return d.qualified >= 0
}

// --------------------------------------------------------------------------
// Describe
// --------------------------------------------------------------------------

// Describe classifies the members of a struct type. It never inspects
// instance data and never fails; a non-struct type yields a descriptor
// without members.
func Describe(t reflect.Type) *TypeDescriptor {
	return describeWith(t, ShapeOf)
}

func describeWith(t reflect.Type, shapeOf func(reflect.Type) *Shape) *TypeDescriptor {
	d := &TypeDescriptor{
		Type:      t,
		byName:    make(map[string]int),
		typeIdx:   -1,
		qualified: -1,
	}
	if t.Kind() != reflect.Struct {
		return d
	}

	// collect with depth, the shallowest member of a name wins
	type candidate struct {
		member Member
		depth  int
	}
	var all []candidate
	visiting := map[reflect.Type]bool{t: true}
	var walk func(st reflect.Type, prefix []int, depth int)
	walk = func(st reflect.Type, prefix []int, depth int) {
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			index := append(append([]int(nil), prefix...), i)

			// embedded structs and exported embedded struct pointers are flattened
			if embedded := flattened(f); embedded != nil {
				if !visiting[embedded] {
					visiting[embedded] = true
					walk(embedded, index, depth+1)
					delete(visiting, embedded)
				}
				continue
			}
			if !f.IsExported() {
				continue
			}
			name, skip := jsonName(f)
			if skip {
				continue
			}
			all = append(all, candidate{
				member: Member{Name: name, Field: f.Name, Index: index, Shape: shapeOf(f.Type)},
				depth:  depth,
			})
		}
	}
	walk(t, nil, 0)

	best := make(map[string]int)
	for _, c := range all {
		if depth, ok := best[c.member.Name]; !ok || c.depth < depth {
			best[c.member.Name] = c.depth
		}
	}
	for _, c := range all {
		if best[c.member.Name] != c.depth {
			continue
		}
		if _, dup := d.byName[c.member.Name]; dup {
			continue
		}
		d.byName[c.member.Name] = len(d.Members)
		d.Members = append(d.Members, c.member)
	}

	if i, ok := d.byName[TypeField]; ok && isStringShape(d.Members[i].Shape) {
		d.typeIdx = i
	}
	if i, ok := d.byName[QualifiedTypeField]; ok && isStringShape(d.Members[i].Shape) {
		d.qualified = i
	}
	return d
}

// ShapeOf classifies a declared type.
func ShapeOf(t reflect.Type) *Shape {
	return shapeWith(t, ShapeOf)
}

func shapeWith(t reflect.Type, elemOf func(reflect.Type) *Shape) *Shape {
	s := &Shape{Type: t}
	if t == guidType {
		s.Kind, s.Scalar = MemberScalar, ScalarGuid
		return s
	}

	switch t.Kind() {
	case reflect.Interface:
		s.Kind = MemberPolymorphic
	case reflect.String:
		s.Kind, s.Scalar = MemberScalar, ScalarString
	case reflect.Bool:
		s.Kind, s.Scalar = MemberScalar, ScalarBool
	case reflect.Float32, reflect.Float64:
		s.Kind, s.Scalar = MemberScalar, ScalarDouble
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s.Kind, s.Scalar = MemberScalar, ScalarInteger
		if t.PkgPath() != "" {
			s.Scalar = ScalarEnum
		}
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Pointer {
			break
		}
		target := elemOf(t.Elem())
		switch target.Kind {
		case MemberScalar:
			s.Kind, s.Scalar, s.Elem = MemberNullableScalar, target.Scalar, target
		case MemberRecord:
			s.Kind, s.Elem = MemberNullableRecord, target
		case MemberList, MemberDictionary, MemberObjectDictionary:
			// only kept to report the derived container
			if target.Derived {
				s.Kind, s.Derived = target.Kind, true
			}
		}
	case reflect.Slice:
		s.Kind = MemberList
		s.Derived = t.Name() != ""
		if !s.Derived {
			s.Elem = elemOf(t.Elem())
		}
	case reflect.Map:
		s.Kind = MemberDictionary
		if t.Key() == anyType && t.Elem() == anyType {
			s.Kind = MemberObjectDictionary
		}
		s.Key = t.Key()
		s.Derived = t.Name() != ""
		if !s.Derived {
			s.Elem = elemOf(t.Elem())
		}
	case reflect.Struct:
		if container := embeddedContainer(t); container != nil {
			inner := elemOf(container)
			s.Kind, s.Elem, s.Key = inner.Kind, inner.Elem, inner.Key
			s.Derived = true
			break
		}
		s.Kind = MemberRecord
	}
	return s
}

// --------------------------------------------------------------------------
// Cached describer
// --------------------------------------------------------------------------

// describer memoizes shapes and descriptors. The cache is a pure
// optimization: every entry equals what Describe/ShapeOf would return.
type describer struct {
	shapes      *xsync.MapOf[reflect.Type, *Shape]
	descriptors *xsync.MapOf[reflect.Type, *TypeDescriptor]
}

func newDescriber() *describer {
	return &describer{
		shapes:      xsync.NewMapOf[reflect.Type, *Shape](),
		descriptors: xsync.NewMapOf[reflect.Type, *TypeDescriptor](),
	}
}

func (d *describer) shape(t reflect.Type) *Shape {
	if s, ok := d.shapes.Load(t); ok {
		return s
	}
	s, _ := d.shapes.LoadOrStore(t, shapeWith(t, d.shape))
	return s
}

func (d *describer) describe(t reflect.Type) *TypeDescriptor {
	if desc, ok := d.descriptors.Load(t); ok {
		return desc
	}
	desc, _ := d.descriptors.LoadOrStore(t, describeWith(t, d.shape))
	return desc
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// embeddedContainer returns the type of the first anonymously embedded
// slice or map of a struct, or nil.
func embeddedContainer(t reflect.Type) reflect.Type {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Slice, reflect.Map:
			return f.Type
		}
	}
	return nil
}

func hasEmbeddedContainer(t reflect.Type) bool {
	return embeddedContainer(t) != nil
}

// flattened returns the struct type whose members are promoted through the
// field f, or nil.
func flattened(f reflect.StructField) reflect.Type {
	if !f.Anonymous {
		return nil
	}
	t := f.Type
	if t.Kind() == reflect.Pointer {
		if !f.IsExported() {
			return nil
		}
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || hasEmbeddedContainer(t) {
		return nil
	}
	return t
}

// fieldByIndex returns the field at index. A nil embedded pointer on the way
// is allocated when alloc is set, otherwise ok is false.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (field reflect.Value, ok bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// validKeyType reports whether a declared dictionary key type can hold the
// string keys of a JSON object.
func validKeyType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String:
		return true
	case reflect.Interface:
		return stringType.Implements(t)
	}
	return false
}

func isStringShape(s *Shape) bool {
	return s.Kind == MemberScalar && s.Scalar == ScalarString
}

// jsonName returns the member name of a field honoring `json:"name"` and `json:"-"`.
func jsonName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name, false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name, false
	}
	return name, false
}
