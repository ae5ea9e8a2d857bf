package inventory

import (
	"context"
	"fmt"

	"github.com/EpicMandM/esxi-inventory/internal/models"
	"github.com/vmware/govmomi/vim25/types"
)

// vSphere numbers virtual disk devices from 2000 up to 2999.
const (
	diskKeyFirst int32 = 2000
	diskKeyLimit int32 = 3000
)

// IsVirtualDiskKey reports whether a device key lies in the virtual disk
// range [2000, 3000). The key is the only thing the classifier looks at.
func IsVirtualDiskKey(key int32) bool {
	return key >= diskKeyFirst && key < diskKeyLimit
}

// CollectDisks returns one entry per device whose key is in the virtual disk
// range, in device order, each joined to a freshly resolved datastore record.
//
// A backing without a datastore reference (raw device backings, for example)
// yields an entry with a nil Datastore. A datastore reference that cannot be
// dereferenced fails the whole collection.
func CollectDisks(ctx context.Context, devices []types.BaseVirtualDevice, resolver DatastoreResolver) ([]models.DiskEntry, error) {
	disks := make([]models.DiskEntry, 0)
	for _, device := range devices {
		if device == nil || !IsVirtualDiskKey(device.GetVirtualDevice().Key) {
			continue
		}
		entry, err := collectDisk(ctx, device, resolver)
		if err != nil {
			return nil, err
		}
		disks = append(disks, entry)
	}
	return disks, nil
}

func collectDisk(ctx context.Context, device types.BaseVirtualDevice, resolver DatastoreResolver) (models.DiskEntry, error) {
	d := device.GetVirtualDevice()
	object := fmt.Sprintf("device[%d]", d.Key)

	if d.DeviceInfo == nil {
		return models.DiskEntry{}, missing(object, "deviceInfo")
	}
	label := d.DeviceInfo.GetDescription().Label

	if d.Backing == nil {
		return models.DiskEntry{}, &UnresolvableBackingError{DeviceKey: d.Key, Label: label, Err: errNoBacking}
	}
	disk, ok := device.(*types.VirtualDisk)
	if !ok {
		return models.DiskEntry{}, missing(object, "capacityInKB")
	}
	if d.UnitNumber == nil {
		return models.DiskEntry{}, missing(object, "unitNumber")
	}
	uuid, ok := backingUUID(d.Backing)
	if !ok {
		return models.DiskEntry{}, missing(object+".backing", "uuid")
	}

	entry := models.DiskEntry{
		Disk: models.DiskRecord{
			UUID:         uuid,
			Label:        label,
			UnitNumber:   *d.UnitNumber,
			CapacityInKB: disk.CapacityInKB,
		},
	}

	file, ok := d.Backing.(types.BaseVirtualDeviceFileBackingInfo)
	if !ok {
		return entry, nil
	}
	info := file.GetVirtualDeviceFileBackingInfo()
	if info.FileName == "" {
		return models.DiskEntry{}, missing(object+".backing", "fileName")
	}
	entry.Disk.FileName = info.FileName
	if info.Datastore == nil {
		return entry, nil
	}

	ds, err := resolver.Datastore(ctx, *info.Datastore)
	if err != nil {
		return models.DiskEntry{}, &UnresolvableBackingError{DeviceKey: d.Key, Label: label, Datastore: info.Datastore.Value, Err: err}
	}
	if ds == nil {
		return models.DiskEntry{}, &UnresolvableBackingError{DeviceKey: d.Key, Label: label, Datastore: info.Datastore.Value, Err: errNoDatastore}
	}
	record, err := ProjectDatastore(ds.Summary)
	if err != nil {
		return models.DiskEntry{}, err
	}
	entry.Datastore = &record
	return entry, nil
}

// backingUUID reads the disk uuid from the backing kinds that carry one.
func backingUUID(backing types.BaseVirtualDeviceBackingInfo) (string, bool) {
	switch b := backing.(type) {
	case *types.VirtualDiskFlatVer2BackingInfo:
		return b.Uuid, true
	case *types.VirtualDiskSeSparseBackingInfo:
		return b.Uuid, true
	case *types.VirtualDiskSparseVer2BackingInfo:
		return b.Uuid, true
	case *types.VirtualDiskRawDiskMappingVer1BackingInfo:
		return b.Uuid, true
	case *types.VirtualDiskRawDiskVer2BackingInfo:
		return b.Uuid, true
	case *types.VirtualDiskPartitionedRawDiskVer2BackingInfo:
		return b.Uuid, true
	case *types.VirtualDiskLocalPMemBackingInfo:
		return b.Uuid, true
	}
	return "", false
}
