package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/EpicMandM/esxi-inventory/internal/models"
	"github.com/vmware/govmomi/vim25/mo"
)

// VMProperties are the VirtualMachine properties the builder reads.
var VMProperties = []string{"name", "guest", "config", "runtime", "summary"}

// HostProperties are the HostSystem properties BuildHostRecord reads.
var HostProperties = []string{"name", "summary", "config.product", "runtime"}

// DatastoreProperties are the Datastore properties ProjectDatastore reads.
var DatastoreProperties = []string{"name", "summary"}

// Builder turns retrieved VirtualMachine objects into VM records.
type Builder struct {
	resolver Resolver
}

func NewBuilder(resolver Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build produces the record for one VM. scanTime is stamped on the record
// as-is so every record of one scan carries the same value. Any failure is
// returned as a *RecordError naming the VM.
func (b *Builder) Build(ctx context.Context, vm *mo.VirtualMachine, scanTime time.Time) (*models.VMRecord, error) {
	if vm == nil {
		return nil, &RecordError{VM: "<nil>", Err: missing("vm", "self")}
	}
	rec, err := b.build(ctx, vm, scanTime)
	if err != nil {
		return nil, &RecordError{VM: VMName(vm), Err: err}
	}
	return rec, nil
}

func (b *Builder) build(ctx context.Context, vm *mo.VirtualMachine, scanTime time.Time) (*models.VMRecord, error) {
	rec := &models.VMRecord{RunTime: scanTime}

	guest, err := ProjectGuest(vm.Guest)
	if err != nil {
		return nil, err
	}
	guest.Apply(rec)

	config, err := ProjectVMConfig(vm.Config)
	if err != nil {
		return nil, err
	}
	config.Apply(rec)

	files, err := ProjectVMFiles(vm.Config.Files)
	if err != nil {
		return nil, err
	}
	files.Apply(rec)

	ProjectVMHardware(vm.Config.Hardware).Apply(rec)

	runtime, err := ProjectVMRuntime(vm.Runtime)
	if err != nil {
		return nil, err
	}
	runtime.Apply(rec)

	ProjectVMSummary(vm.Summary.Config).Apply(rec)

	disks, err := CollectDisks(ctx, vm.Config.Hardware.Device, b.resolver)
	if err != nil {
		return nil, err
	}
	rec.Disks = disks

	if vm.Runtime.Host == nil {
		return nil, missing("vm.runtime", "host")
	}
	ref := *vm.Runtime.Host
	host, err := b.resolver.Host(ctx, ref)
	if err != nil {
		return nil, &HostError{Host: ref.Value, Err: fmt.Errorf("resolve: %w", err)}
	}
	hostRecord, err := BuildHostRecord(host)
	if err != nil {
		return nil, err
	}
	if host.Name == "" {
		return nil, missing("host", "name")
	}
	rec.Host = host.Name
	rec.ESXHost = hostRecord

	return rec, nil
}

// VMName is the best available name for log lines and errors.
func VMName(vm *mo.VirtualMachine) string {
	switch {
	case vm.Name != "":
		return vm.Name
	case vm.Config != nil && vm.Config.Name != "":
		return vm.Config.Name
	}
	return vm.Self.Value
}
