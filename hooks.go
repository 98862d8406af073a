package vstack

// Version identifies the field and behavior set of a container.
type Version uint8

const (
	// Version0 is the base container: raw copy semantics, no hooks.
	Version0 Version = iota
	// Version1 is the extended container carrying element lifecycle hooks.
	Version1
)

func (v Version) String() string {
	switch v {
	case Version0:
		return "v0"
	case Version1:
		return "v1"
	default:
		return "unknown"
	}
}

// HookKind identifies a lifecycle hook for metrics.
type HookKind uint8

const (
	HookConstruct HookKind = iota
	HookCopy
	HookDestroy
)

func (k HookKind) String() string {
	switch k {
	case HookConstruct:
		return "construct"
	case HookCopy:
		return "copy"
	case HookDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Hooks is the element lifecycle policy of a Stack. Every hook is optional;
// a missing hook falls back to plain value semantics.
type Hooks[T any] struct {
	// Construct initializes a zeroed slot in place. Emplace uses it when called
	// without a factory.
	Construct func(dst *T) error

	// Copy initializes a zeroed slot from src. Push uses it instead of assignment.
	Copy func(dst *T, src *T) error

	// Destroy tears an element down before its slot is vacated.
	Destroy func(elem *T)
}

// ConstructFunc initializes a zeroed stride-sized slot from caller arguments.
// The number and types of args are a private contract between the caller of
// Emplace and the constructor; the container never inspects them.
type ConstructFunc func(slot []byte, args []any) error

// CopyFunc initializes a zeroed stride-sized slot from src (also stride bytes).
type CopyFunc func(dst, src []byte) error

// DestroyFunc tears down the element held in a stride-sized slot.
type DestroyFunc func(slot []byte)

// RawHooks is the element lifecycle policy of a Raw container.
type RawHooks struct {
	Construct ConstructFunc
	Copy      CopyFunc
	Destroy   DestroyFunc
}
