package sparsemap

import "fmt"

// KeyType is the key representation of a tag-constructed map.
type KeyType byte

const (
	KeyInt64 KeyType = 'L'
	KeyInt32 KeyType = 'I'
)

func (k KeyType) String() string {
	switch k {
	case KeyInt64:
		return "int64"
	case KeyInt32:
		return "int32"
	default:
		return fmt.Sprintf("KeyType(%q)", byte(k))
	}
}

// ValueType is the value representation of a tag-constructed map.
type ValueType byte

const (
	ValueInt64 ValueType = 'L'
	ValueInt32 ValueType = 'I'
	// ValueRef stores opaque references. A stored reference is released
	// through the release hook when it is overwritten, deleted or closed.
	ValueRef ValueType = 'O'
)

func (v ValueType) String() string {
	switch v {
	case ValueInt64:
		return "int64"
	case ValueInt32:
		return "int32"
	case ValueRef:
		return "ref"
	default:
		return fmt.Sprintf("ValueType(%q)", byte(v))
	}
}

// Binding fixes the key and value representation of a map. It is resolved
// once at construction and cannot change afterwards.
type Binding struct {
	Key   KeyType
	Value ValueType
}

// ParseBinding resolves a pair of type tags.
func ParseBinding(keyTag, valueTag byte) (Binding, error) {
	b := Binding{Key: KeyType(keyTag), Value: ValueType(valueTag)}

	switch b.Key {
	case KeyInt64, KeyInt32:
	default:
		return Binding{}, fmt.Errorf("%w: key tag %q", ErrUnsupportedType, keyTag)
	}

	switch b.Value {
	case ValueInt64, ValueInt32, ValueRef:
	default:
		return Binding{}, fmt.Errorf("%w: value tag %q", ErrUnsupportedType, valueTag)
	}

	return b, nil
}

func (b Binding) String() string {
	return string([]byte{byte(b.Key), byte(b.Value)})
}
