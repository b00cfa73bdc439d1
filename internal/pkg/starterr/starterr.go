// Package starterr classifies the fatal errors that can end the startup of the service.
package starterr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration is a missing or invalid setting.
	KindConfiguration
	// KindBind is a listener that could not bind its address.
	KindBind
	// KindConnection is an infrastructure dependency that could not be reached.
	KindConnection
	// KindLifecycle is a misuse of the bootstrap sequence itself, e.g. a second start.
	KindLifecycle
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindBind:
		return "BindError"
	case KindConnection:
		return "ConnectionError"
	case KindLifecycle:
		return "LifecycleError"
	default:
		return "UnknownError"
	}
}

// Exit codes reported to the OS for each kind. 0 is reserved for a graceful shutdown.
const (
	ExitUnknown       = 1
	ExitConfiguration = 2
	ExitBind          = 3
	ExitConnection    = 4
)

// ErrAlreadyStarted is returned when the bootstrap sequence is invoked more than once.
var ErrAlreadyStarted = &Error{
	Kind:      KindLifecycle,
	Component: "bootstrap",
	Err:       errors.New("startup has already been invoked in this process"),
}

type Error struct {
	Kind      Kind
	Component string
	Err       error
}

func New(kind Kind, component string, err error) *Error {
	return &Error{
		Kind:      kind,
		Component: component,
		Err:       err,
	}
}

func Configuration(component string, err error) *Error {
	return New(KindConfiguration, component, err)
}

func Bind(component string, err error) *Error {
	return New(KindBind, component, err)
}

func Connection(component string, err error) *Error {
	return New(KindConnection, component, err)
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Component)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Component, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind whose target leaves Component and Err empty,
// so that errors.Is(err, &Error{Kind: KindBind}) works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.Kind == e.Kind && t.Component == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ExitCode maps err to the status the process should exit with.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindConfiguration:
		return ExitConfiguration
	case KindBind:
		return ExitBind
	case KindConnection:
		return ExitConnection
	default:
		return ExitUnknown
	}
}
