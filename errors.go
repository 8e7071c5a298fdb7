package gtirb

import "errors"

// Error kinds. I/O failures from the underlying reader or writer are
// wrapped and passed through as-is; everything else wraps one of these
// sentinels so callers can classify with errors.Is.
var (
	// ErrBadEnvelope reports a missing magic, a truncated header, or an
	// unknown schema version with no upgrade path.
	ErrBadEnvelope = errors.New("gtirb: bad envelope")

	// ErrDecode reports a payload malformed relative to the schema.
	ErrDecode = errors.New("gtirb: decode error")

	// ErrAuxDataType reports an unparseable type expression or a value that
	// does not match its type.
	ErrAuxDataType = errors.New("gtirb: auxdata type error")

	// ErrUsage reports API misuse detectable at call time, such as a block
	// extent outside its interval or a duplicate set element.
	ErrUsage = errors.New("gtirb: usage error")
)

// ChangeStatus is the tri-state result of a container mutation.
type ChangeStatus uint8

const (
	// Accepted means the mutation took place and indices were updated.
	Accepted ChangeStatus = iota
	// NoChange means the container was already in the requested state.
	NoChange
	// Rejected means the mutation would violate an invariant; nothing
	// observable was changed.
	Rejected
)

func (s ChangeStatus) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case NoChange:
		return "no-change"
	default:
		return "rejected"
	}
}
