package nsearch

import "github.com/pkg/errors"

// ErrKind classifies an error raised by the core or its collaborators,
// per spec.md §7. NoHit is deliberately absent here: an empty hit list
// is a normal result, not an error.
type ErrKind int

const (
	// ErrInputFormat wraps a malformed sequence input, propagated from
	// a reader collaborator rather than generated by the core itself.
	ErrInputFormat ErrKind = iota
	// ErrConfiguration marks a fatal misconfiguration discovered at
	// Database construction time, e.g. a k-mer length too wide for the
	// alphabet's encoding.
	ErrConfiguration
)

func (k ErrKind) String() string {
	switch k {
	case ErrInputFormat:
		return "input format"
	case ErrConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a classification.
type Error struct {
	Kind  ErrKind
	cause error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// wrapErrorf classifies and stack-annotates an error the way the
// teacher's fatalf wrapped messages for exit, except here the error is
// returned rather than os.Exit'd — only cmd/nsearch's main is allowed
// to turn a returned error into a process exit.
func wrapErrorf(kind ErrKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}
