package service

import (
	"errors"
	"fmt"
	"strings"

	"mafia/backend/internal/auth"
	"mafia/backend/internal/roles"
)

// Kind classifies a failure so transports can map it to a response.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindInvalidTransition
	KindInsufficientPlayers
	KindInvalidRosterSize
	KindRosterCapExceeded
	KindInvalidSignature
	KindUnauthenticated
	KindUnconfigured
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidInput:
		return "InvalidInput"
	case KindInvalidTransition:
		return "InvalidTransition"
	case KindInsufficientPlayers:
		return "InsufficientPlayers"
	case KindInvalidRosterSize:
		return "InvalidRosterSize"
	case KindRosterCapExceeded:
		return "RosterCapExceeded"
	case KindInvalidSignature:
		return "InvalidSignature"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindUnconfigured:
		return "Unconfigured"
	default:
		return "Internal"
	}
}

// Error is a classified service failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrRoomNotFound        = &Error{Kind: KindNotFound, Message: "Room not found"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrGameAlreadyStarted  = &Error{Kind: KindInvalidTransition, Message: "Game already started"}
	ErrRoomFull            = &Error{Kind: KindInvalidTransition, Message: "Room is full"}
	ErrInvalidTransition   = &Error{Kind: KindInvalidTransition, Message: "Game already started or finished"}
	ErrInsufficientPlayers = &Error{Kind: KindInsufficientPlayers, Message: "Minimum 4 players required"}
	ErrRosterCapExceeded   = &Error{Kind: KindRosterCapExceeded, Message: "Maximum 20 players reached"}
	ErrInvalidCredentials  = &Error{Kind: KindUnauthenticated, Message: "Invalid credentials"}
)

// MissingField reports a required request field that was not supplied.
func MissingField(names ...string) error {
	msg := "missing required field"
	if len(names) > 0 {
		msg = fmt.Sprintf("%v required", joinNames(names))
	}
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func invalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf classifies any error returned by this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	switch {
	case errors.Is(err, roles.ErrInvalidRosterSize):
		return KindInvalidRosterSize
	case errors.Is(err, auth.ErrInvalidSignature):
		return KindInvalidSignature
	case errors.Is(err, auth.ErrHashMissing):
		return KindInvalidInput
	case errors.Is(err, auth.ErrBotTokenNotConfigured):
		return KindUnconfigured
	}
	return KindInternal
}

func joinNames(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
