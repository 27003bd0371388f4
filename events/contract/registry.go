// Package contract pins the authoritative set of resolution events the engine
// may emit. The registry is consumed by the schema generator and the journal,
// so event names and payload shapes change here first.
package contract

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	errEmptyName        = errors.New("event name must not be empty")
	errNilPayload       = errors.New("payload must not be nil")
	errNonPointer       = errors.New("payload must be a pointer")
	errNonStructPointer = errors.New("payload must point to a struct")
)

// Definition associates an event name with the payload type it carries.
type Definition struct {
	Name    string
	Payload any
}

type noPayload struct{}

// NoPayload marks an event that carries no payload.
var NoPayload any = noPayload{}

// Registry is a collection of event definitions. Callers should Validate
// before use.
type Registry []Definition

// Validate ensures the registry contains unique names and structurally valid
// payload declarations.
func (r Registry) Validate() error {
	seen := make(map[string]struct{}, len(r))
	for _, def := range r {
		if err := def.validate(); err != nil {
			return fmt.Errorf("contract: %w", err)
		}
		if _, exists := seen[def.Name]; exists {
			return fmt.Errorf("contract: duplicate event name %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}
	return nil
}

func (d Definition) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errEmptyName
	}
	if d.Payload == nil {
		return fmt.Errorf("%q: %w", d.Name, errNilPayload)
	}
	if d.Payload == NoPayload {
		return nil
	}
	t := reflect.TypeOf(d.Payload)
	if t.Kind() != reflect.Ptr {
		return fmt.Errorf("%q: %w (%s)", d.Name, errNonPointer, t)
	}
	if t.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%q: %w (%s)", d.Name, errNonStructPointer, t)
	}
	return nil
}

// Index materialises a lookup map from the registry after validation.
func (r Registry) Index() (map[string]Definition, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := make(map[string]Definition, len(r))
	for _, def := range r {
		out[def.Name] = def
	}
	return out, nil
}
