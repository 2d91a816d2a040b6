package standard

import "fmt"

// Kind classifies where in an invocation an error originated.
type Kind int

const (
	KindCapability Kind = iota
	KindFetch
	KindWrite
	KindAlert
	KindReport
)

func (k Kind) String() string {
	switch k {
	case KindCapability:
		return "capability"
	case KindFetch:
		return "fetch"
	case KindWrite:
		return "write"
	case KindAlert:
		return "alert"
	case KindReport:
		return "report"
	default:
		return "unknown"
	}
}

// Error is a tagged invocation error. The kind and operation are the
// primary representation; the normalized display message is derived
// from them and from the underlying cause.
type Error struct {
	Kind  Kind
	Op    string
	Cause error
}

func NewError(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s error: %s: %s", e.Kind, e.Op, e.Cause.Error())
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Normalize renders any error into the display string used in log and
// result messages.
func Normalize(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// KindOf extracts the kind of a tagged error, walking wrapped causes.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if tagged, ok := err.(*Error); ok {
			return tagged.Kind, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	return 0, false
}
