package convert

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched (via errors.Is) by TypeMismatchError and
// InvalidParameterError. Callers that only care about bad values can test for it.
var ErrInvalidParameter = errors.New("invalid parameter")

// MissingInstanceError is returned when a required entity, relationship, property bag
// or bean is nil.
type MissingInstanceError struct {
	Kind string
	// What is missing, e.g. "entity" or "properties".
	What string
}

func (e *MissingInstanceError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Kind, e.What)
}

// InvalidBeanClassError is returned when no converter is registered for a kind,
// or when a bean does not have the type that the kind's converter expects.
type InvalidBeanClassError struct {
	Kind   string
	Reason string
}

func (e *InvalidBeanClassError) Error() string {
	return fmt.Sprintf("%s: invalid bean class: %s", e.Kind, e.Reason)
}

// TypeMismatchError is returned when a property value cannot be coerced to the
// type of the field it is decoded into.
type TypeMismatchError struct {
	Kind   string
	Field  string
	Reason string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", e.Kind, e.Field, e.Reason)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// InvalidParameterError is returned when a bean field cannot be encoded.
type InvalidParameterError struct {
	Kind   string
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid parameter %q: %s", e.Kind, e.Field, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// BadInstanceError is returned when an entity or relationship lacks information
// needed to classify it, such as its type or the ends of a relationship.
type BadInstanceError struct {
	Kind string
	GUID string
	// Reason is a human-readable explanation of what is wrong.
	Reason string
}

func (e *BadInstanceError) Error() string {
	if e.GUID == "" {
		return fmt.Sprintf("%s: bad instance: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: bad instance %s: %s", e.Kind, e.GUID, e.Reason)
}
