package common

import "fmt"

// ErrKind tags every error this core produces, so that a caller can react
// to the kind without depending on string matching or global exception
// propagation. §7 of the design enumerates exactly these six kinds.
type ErrKind uint32

const (
	InvalidSignature ErrKind = iota
	ConnectionFailure
	UnknownPeer
	QuorumNotMet
	UnknownAccount
	EmptyBatch
)

func (k ErrKind) String() string {
	switch k {
	case InvalidSignature:
		return "InvalidSignature"
	case ConnectionFailure:
		return "ConnectionFailure"
	case UnknownPeer:
		return "UnknownPeer"
	case QuorumNotMet:
		return "QuorumNotMet"
	case UnknownAccount:
		return "UnknownAccount"
	case EmptyBatch:
		return "EmptyBatch"
	default:
		return "Unknown"
	}
}

// Err is a kind-tagged error. It carries an optional subject (an address,
// an account ID, a hex hash) for logging, but callers should branch on
// Kind, not on the formatted message.
type Err struct {
	Kind    ErrKind
	Subject string
}

func New(kind ErrKind, subject string) Err {
	return Err{Kind: kind, Subject: subject}
}

func (e Err) Error() string {
	if e.Subject == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
}

// Is reports whether err is an Err of the given kind.
func Is(err error, kind ErrKind) bool {
	e, ok := err.(Err)
	return ok && e.Kind == kind
}
