package codec

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Error Kinds
// --------------------------------------------------------------------------

// ErrorKind classifies every failure the codec can report.
type ErrorKind uint64

const (
	KindUnknownError                  ErrorKind = iota // 0: should never be returned
	KindUnsupportedObjectType                          // 1: polymorphic slot holds an integer or other disallowed value
	KindMissingTypeDiscriminator                       // 2: record in a polymorphic slot lacks Type or TypeCSharp
	KindAmbiguousType                                  // 3: discriminator matches more than one concrete type
	KindTypeNotFound                                   // 4: discriminator matches no concrete type
	KindInvalidDictionaryKey                           // 5: dictionary key is not a string
	KindDerivedCollectionNotSupported                  // 6: list or dictionary is not exactly the generic container
	KindInvalidJSON                                    // 7: input is not JSON or does not fit the declared member
	KindInvalidRegistration                            // 8: a module registration was rejected
	KindUnsupportedMemberType                          // 9: declared member type has no JSON mapping
)

// String returns the name of the kind as used in logs and the CLI.
func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedObjectType:
		return "UnsupportedObjectType"
	case KindMissingTypeDiscriminator:
		return "MissingTypeDiscriminator"
	case KindAmbiguousType:
		return "AmbiguousType"
	case KindTypeNotFound:
		return "TypeNotFound"
	case KindInvalidDictionaryKey:
		return "InvalidDictionaryKey"
	case KindDerivedCollectionNotSupported:
		return "DerivedCollectionNotSupported"
	case KindInvalidJSON:
		return "InvalidJSON"
	case KindInvalidRegistration:
		return "InvalidRegistration"
	case KindUnsupportedMemberType:
		return "UnsupportedMemberType"
	default:
		return "Unknown"
	}
}

// Fixed messages. Callers and tests match on these literally.
const (
	MsgUnsupportedObjectType  = "Allowed types: string, double or bool!"
	MsgMissingType            = "Object has no Type field!"
	MsgMissingTypeCSharp      = "Object has no TypeCSharp field!"
	MsgInvalidDictionaryKey   = "Dictionary key needs to be of type string!"
	MsgDerivedCollection      = "No derived list or dictionary for json!"
	msgAmbiguousTypePrefix    = "Type is ambiguous: "
	msgTypeNotFoundPrefix     = "Type not found: "
	msgInvalidJSONPrefix      = "Invalid json: "
	msgInvalidRegistration    = "Invalid registration: "
	msgUnsupportedMemberTypes = "Member type is not supported: "
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is returned by every codec operation. Msg holds the fixed message of
// the kind and is returned verbatim by Error(). Path is the location inside
// the value tree (e.g. "$.Rows[2].Content") when it is known and Err an
// optional underlying cause.
type Error struct {
	Kind ErrorKind
	Msg  string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Msg
}

// Detail returns the message followed by the location, for logs and the CLI.
func (e *Error) Detail() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s (at %s)", e.Msg, e.Path)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a codec error of the same kind, so that
// errors.Is(err, codec.ErrAmbiguousType) works regardless of message and path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError creates a new codec error with the given kind and message.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{
		Kind: kind,
		Msg:  msg,
	}
}

// at returns a copy of the error located at path. The innermost location wins.
func (e *Error) at(path string) *Error {
	if e.Path != "" {
		return e
	}
	c := *e
	c.Path = path
	return &c
}

// --------------------------------------------------------------------------
// Sentinels (for errors.Is)
// --------------------------------------------------------------------------

var (
	ErrUnsupportedObjectType         = NewError(KindUnsupportedObjectType, MsgUnsupportedObjectType)
	ErrMissingTypeDiscriminator      = NewError(KindMissingTypeDiscriminator, MsgMissingType)
	ErrAmbiguousType                 = NewError(KindAmbiguousType, "Type is ambiguous")
	ErrTypeNotFound                  = NewError(KindTypeNotFound, "Type not found")
	ErrInvalidDictionaryKey          = NewError(KindInvalidDictionaryKey, MsgInvalidDictionaryKey)
	ErrDerivedCollectionNotSupported = NewError(KindDerivedCollectionNotSupported, MsgDerivedCollection)
	ErrInvalidJSON                   = NewError(KindInvalidJSON, "Invalid json")
	ErrInvalidRegistration           = NewError(KindInvalidRegistration, "Invalid registration")
	ErrUnsupportedMemberType         = NewError(KindUnsupportedMemberType, "Member type is not supported")
)

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

func errUnsupportedObjectType(path string) *Error {
	return &Error{Kind: KindUnsupportedObjectType, Msg: MsgUnsupportedObjectType, Path: path}
}

func errMissingType(path string) *Error {
	return &Error{Kind: KindMissingTypeDiscriminator, Msg: MsgMissingType, Path: path}
}

func errMissingTypeCSharp(path string) *Error {
	return &Error{Kind: KindMissingTypeDiscriminator, Msg: MsgMissingTypeCSharp, Path: path}
}

func errAmbiguousType(tag string) *Error {
	return &Error{Kind: KindAmbiguousType, Msg: msgAmbiguousTypePrefix + tag}
}

func errTypeNotFound(tag string) *Error {
	return &Error{Kind: KindTypeNotFound, Msg: msgTypeNotFoundPrefix + tag}
}

func errInvalidDictionaryKey(path string) *Error {
	return &Error{Kind: KindInvalidDictionaryKey, Msg: MsgInvalidDictionaryKey, Path: path}
}

func errDerivedCollection(path string) *Error {
	return &Error{Kind: KindDerivedCollectionNotSupported, Msg: MsgDerivedCollection, Path: path}
}

func errInvalidJSON(path string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidJSON, Msg: msgInvalidJSONPrefix + fmt.Sprintf(format, args...), Path: path}
}

func errInvalidJSONCause(path string, cause error) *Error {
	return &Error{Kind: KindInvalidJSON, Msg: msgInvalidJSONPrefix + cause.Error(), Path: path, Err: cause}
}

func errInvalidRegistration(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidRegistration, Msg: msgInvalidRegistration + fmt.Sprintf(format, args...)}
}

func errUnsupportedMemberType(path string, typeName string) *Error {
	return &Error{Kind: KindUnsupportedMemberType, Msg: msgUnsupportedMemberTypes + typeName, Path: path}
}
