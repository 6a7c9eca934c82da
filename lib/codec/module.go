package codec

import (
	"reflect"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// ModuleEntry is a concrete record type registered in a Module.
type ModuleEntry struct {
	// Tag is the short discriminator written to the Type member.
	Tag string
	// Qualified is the discriminator written to the TypeCSharp member
	// (namespace + "." + tag).
	Qualified string
	// Type is the struct type of the record.
	Type reflect.Type
	// Pointer is set when the sample was registered as a pointer; the
	// deserializer then instantiates *Type.
	Pointer bool
	// Module is the name of the module the entry belongs to.
	Module string
}

// Module is a candidate set of concrete record types that may complete a
// polymorphic slot. Callers pass an ordered list of modules to every
// codec call; the first one is the default module that is searched by
// simple tag lookup.
//
// Registration is safe for concurrent use. A module should not be changed
// while calls that received it are running.
type Module struct {
	name      string
	namespace string
	byTag     *xsync.MapOf[string, ModuleEntry]
	byType    *xsync.MapOf[reflect.Type, ModuleEntry]
}

// NewModule creates an empty module. The namespace prefixes the qualified
// tag of every type registered in it; two modules may share a namespace.
func NewModule(name, namespace string) *Module {
	return &Module{
		name:      name,
		namespace: namespace,
		byTag:     xsync.NewMapOf[string, ModuleEntry](),
		byType:    xsync.NewMapOf[reflect.Type, ModuleEntry](),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Namespace returns the namespace used for qualified tags.
func (m *Module) Namespace() string {
	return m.namespace
}

// Register adds the types of the given samples under their Go type name.
// Samples are struct values or pointers to structs, e.g. Button{} or &Button{}.
func (m *Module) Register(samples ...any) error {
	for _, sample := range samples {
		t, _, err := sampleType(sample)
		if err != nil {
			return err
		}
		if err := m.RegisterAs(t.Name(), sample); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAs adds the type of sample under an explicit tag.
func (m *Module) RegisterAs(tag string, sample any) error {
	t, pointer, err := sampleType(sample)
	if err != nil {
		return err
	}
	if tag == "" {
		return errInvalidRegistration("empty tag for %s in module %s", t, m.name)
	}

	entry := ModuleEntry{
		Tag:       tag,
		Qualified: m.qualify(tag),
		Type:      t,
		Pointer:   pointer,
		Module:    m.name,
	}
	if existing, loaded := m.byTag.LoadOrStore(tag, entry); loaded && existing.Type != t {
		return errInvalidRegistration("tag %s already used by %s in module %s", tag, existing.Type, m.name)
	}
	m.byType.LoadOrStore(t, entry)

	Logger.Debugf("registered %s as %s in module %s", t, entry.Qualified, m.name)
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// package level module definitions.
func (m *Module) MustRegister(samples ...any) *Module {
	if err := m.Register(samples...); err != nil {
		panic(err)
	}
	return m
}

// Lookup returns the entry registered under tag.
func (m *Module) Lookup(tag string) (ModuleEntry, bool) {
	return m.byTag.Load(tag)
}

// LookupType returns the entry of a struct type.
func (m *Module) LookupType(t reflect.Type) (ModuleEntry, bool) {
	return m.byType.Load(t)
}

// Entries returns all entries sorted by tag.
func (m *Module) Entries() []ModuleEntry {
	entries := make([]ModuleEntry, 0, m.byTag.Size())
	m.byTag.Range(func(_ string, e ModuleEntry) bool {
		entries = append(entries, e)
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Tag < entries[j].Tag })
	return entries
}

func (m *Module) qualify(tag string) string {
	if m.namespace == "" {
		return tag
	}
	return m.namespace + "." + tag
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// sampleType returns the struct type of a registration sample and whether it
// was given as a pointer.
func sampleType(sample any) (reflect.Type, bool, error) {
	t := reflect.TypeOf(sample)
	if t == nil {
		return nil, false, errInvalidRegistration("nil sample")
	}
	pointer := false
	if t.Kind() == reflect.Pointer {
		t, pointer = t.Elem(), true
	}
	if t.Kind() != reflect.Struct {
		return nil, false, errInvalidRegistration("%s is not a struct", t)
	}
	if t.Name() == "" {
		return nil, false, errInvalidRegistration("anonymous struct %s cannot be registered", t)
	}
	return t, pointer, nil
}
