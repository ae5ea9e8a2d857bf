package service

import (
	"context"

	"github.com/EpicMandM/esxi-inventory/internal/inventory"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// VMwareClient abstracts VMware operations for testability.
type VMwareClient interface {
	inventory.Resolver
	ListVirtualMachines(ctx context.Context) ([]types.ManagedObjectReference, error)
	VirtualMachine(ctx context.Context, ref types.ManagedObjectReference) (*mo.VirtualMachine, error)
	Endpoint() string
	Close(ctx context.Context) error
}

var _ VMwareClient = (*VMwareService)(nil)
