package inventory

import (
	"context"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// DatastoreResolver dereferences a datastore reference found on a disk backing.
type DatastoreResolver interface {
	Datastore(ctx context.Context, ref types.ManagedObjectReference) (*mo.Datastore, error)
}

// HostResolver dereferences the host a VM is running on.
type HostResolver interface {
	Host(ctx context.Context, ref types.ManagedObjectReference) (*mo.HostSystem, error)
}

// Resolver is everything the VM record builder reads beyond the VM itself.
type Resolver interface {
	HostResolver
	DatastoreResolver
}
