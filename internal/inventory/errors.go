package inventory

import (
	"errors"
	"fmt"
)

var (
	errNoBacking   = errors.New("device has no backing")
	errNoDatastore = errors.New("datastore reference resolved to nothing")
)

// MissingAttributeError reports a sub-object that lacks a field the record
// schema requires. It means the endpoint returned less than expected.
type MissingAttributeError struct {
	Object string
	Field  string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("missing attribute %s.%s", e.Object, e.Field)
}

func missing(object, field string) error {
	return &MissingAttributeError{Object: object, Field: field}
}

// UnresolvableBackingError reports a virtual disk whose storage location
// could not be dereferenced.
type UnresolvableBackingError struct {
	DeviceKey int32
	Label     string
	Datastore string
	Err       error
}

func (e *UnresolvableBackingError) Error() string {
	if e.Datastore != "" {
		return fmt.Sprintf("disk %d (%s): datastore %s unresolvable: %v", e.DeviceKey, e.Label, e.Datastore, e.Err)
	}
	return fmt.Sprintf("disk %d (%s): unresolvable backing: %v", e.DeviceKey, e.Label, e.Err)
}

func (e *UnresolvableBackingError) Unwrap() error {
	return e.Err
}

// HostError reports a host that could not be resolved or projected.
// Host is the host name, or its managed object id when the name is unknown.
type HostError struct {
	Host string
	Err  error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host %s: %v", e.Host, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// RecordError names the VM whose record could not be built.
type RecordError struct {
	VM  string
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("vm %q: %v", e.VM, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
