package fleet

import (
	"errors"
	"fmt"
)

// EntityKind names the referenced entity in lookup errors.
type EntityKind string

const (
	KindCompany   EntityKind = "Company"
	KindVehicle   EntityKind = "Vehicle"
	KindRoute     EntityKind = "Route"
	KindTelemetry EntityKind = "Telemetry"
	KindUser      EntityKind = "User"
)

// ErrInvalidTimeRange is returned when a range bound cannot be parsed as an
// ISO-8601 timestamp.
var ErrInvalidTimeRange = errors.New("invalid time range: bounds must be ISO-8601 timestamps")

// NotFoundError reports a lookup that did not resolve. It is a client
// error, never retried.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Kind, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(kind EntityKind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AlreadyExistsError reports a uniqueness violation.
type AlreadyExistsError struct {
	Kind  EntityKind
	Field string
	Value string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with %s %q is already registered", e.Kind, e.Field, e.Value)
}

// AlreadyExists builds an AlreadyExistsError.
func AlreadyExists(kind EntityKind, field, value string) error {
	return &AlreadyExistsError{Kind: kind, Field: field, Value: value}
}

// IsAlreadyExists reports whether err is an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var ae *AlreadyExistsError
	return errors.As(err, &ae)
}
