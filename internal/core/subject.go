package core

import (
	"reflect"

	"github.com/thisdougb/framemetrics/internal/metrics"
)

// Subject is one on-screen surface whose frames are measured. It is only
// used as a map key, so its dynamic type must be comparable; pointers
// are the usual choice.
type Subject interface {
	TypeName() string
}

// Listener receives samples for one subject. The platform may call
// OnSample from any goroutine.
type Listener interface {
	OnSample(s metrics.Sample)
}

// Platform delivers samples for a subject to an attached listener.
type Platform interface {
	// Supported reports whether the host can deliver samples at all.
	Supported() bool
	Attach(subject Subject, l Listener)
	Detach(subject Subject, l Listener)
}

// AppContext resolves the host specific values needed at Init.
type AppContext interface {
	AppLabel() (string, error)
	StorageRoot() (string, error)
}

// SimpleTypeName returns the unqualified type name of v, dereferencing
// pointers. Hosts can use it to implement Subject.TypeName.
func SimpleTypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

func isComparable(subject Subject) bool {
	return reflect.TypeOf(subject).Comparable()
}
