package codec

import (
	"reflect"

	"github.com/lni/dragonboat/v4/logger"
)

var resolverLogger = logger.GetLogger("resolver")

// Resolution is the result of resolving a discriminator.
type Resolution struct {
	Entry ModuleEntry
	// Pointer tells whether the value assigned to the slot is *Entry.Type.
	Pointer bool
}

// New returns a fresh, addressable record of the resolved type together
// with the value to assign to the slot (the record itself or a pointer to it).
func (r Resolution) New() (record reflect.Value, slot reflect.Value) {
	ptr := reflect.New(r.Entry.Type)
	if r.Pointer {
		return ptr.Elem(), ptr
	}
	return ptr.Elem(), ptr.Elem()
}

// resolver maps discriminator tags to concrete types across an ordered list
// of candidate modules. It holds no state besides the (immutable) module list.
type resolver struct {
	modules []*Module
}

// Resolve maps a discriminator to exactly one concrete type.
//
// qualified may be empty. target is the declared slot type; a non-empty
// interface only accepts types (or pointers to types) implementing it.
// Resolution first tries a simple tag lookup in the default module and then
// always scans every module, so that a name collision is reported as
// AmbiguousType even when the default module alone would have succeeded.
func Resolve(tag, qualified string, target reflect.Type, modules ...*Module) (Resolution, error) {
	res, err := resolver{modules: modules}.resolve(tag, qualified, target)
	if err != nil {
		return Resolution{}, err
	}
	return res, nil
}

func (r resolver) resolve(tag, qualified string, target reflect.Type) (Resolution, *Error) {
	if target == nil {
		target = anyType
	}
	name := tag
	if qualified != "" {
		name = qualified
	}

	// (a) simple lookup in the default module
	var found *Resolution
	if qualified == "" && len(r.modules) > 0 {
		if e, ok := r.modules[0].Lookup(tag); ok {
			if res, ok := compatible(e, target); ok {
				found = &res
			}
		}
	}

	// (b) scan all candidate modules
	var distinct []Resolution
	for _, m := range r.modules {
		e, ok := m.Lookup(tag)
		if !ok || (qualified != "" && e.Qualified != qualified) {
			continue
		}
		res, ok := compatible(e, target)
		if !ok {
			continue
		}
		if !containsType(distinct, e.Type) {
			distinct = append(distinct, res)
		}
	}

	switch {
	case len(distinct) > 1:
		resolverLogger.Debugf("discriminator %s matches %d types", name, len(distinct))
		return Resolution{}, errAmbiguousType(name)
	case len(distinct) == 0:
		resolverLogger.Debugf("discriminator %s matches no type in %d modules", name, len(r.modules))
		return Resolution{}, errTypeNotFound(name)
	case found != nil:
		return *found, nil
	default:
		return distinct[0], nil
	}
}

// discriminators are the tags written for a record in a polymorphic slot.
type discriminators struct {
	tag, qualified string
	// required is set when the qualified tag must be present
	required bool
	// registered is set when some candidate module knows the type; pointer
	// then tells the form a deserializer rebuilds for the slot
	registered, pointer bool
}

// tags returns the discriminators written for a record type. The qualified
// tag is required when the type cannot be reached by a unique simple lookup
// in the default module.
func (r resolver) tags(t reflect.Type, target reflect.Type) discriminators {
	var entry ModuleEntry
	registered := false
	for _, m := range r.modules {
		if e, ok := m.LookupType(t); ok {
			entry, registered = e, true
			break
		}
	}
	if !registered {
		return discriminators{tag: t.Name(), qualified: t.PkgPath() + "." + t.Name(), required: true}
	}

	d := discriminators{tag: entry.Tag, qualified: entry.Qualified, registered: true}
	if res, ok := compatible(entry, target); ok {
		d.pointer = res.Pointer
	}
	if e, ok := r.modules[0].Lookup(entry.Tag); !ok || e.Type != t {
		d.required = true
	} else if _, err := r.resolve(entry.Tag, "", target); err != nil {
		d.required = true
	}
	return d
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// compatible decides how an entry is instantiated for a slot of type target.
// The registered form (value or pointer) is preferred.
func compatible(e ModuleEntry, target reflect.Type) (Resolution, bool) {
	value, pointer := e.Type, reflect.PointerTo(e.Type)
	first, second := value, pointer
	if e.Pointer {
		first, second = pointer, value
	}
	if first.AssignableTo(target) {
		return Resolution{Entry: e, Pointer: first == pointer}, true
	}
	if second.AssignableTo(target) {
		return Resolution{Entry: e, Pointer: second == pointer}, true
	}
	return Resolution{}, false
}

func containsType(list []Resolution, t reflect.Type) bool {
	for _, r := range list {
		if r.Entry.Type == t {
			return true
		}
	}
	return false
}
