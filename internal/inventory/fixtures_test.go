package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// --- fake resolver ---

type fakeResolver struct {
	hosts      map[string]*mo.HostSystem
	datastores map[string]*mo.Datastore
	hostCalls  int
	dsCalls    []string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		hosts:      map[string]*mo.HostSystem{},
		datastores: map[string]*mo.Datastore{},
	}
}

func (f *fakeResolver) Host(_ context.Context, ref types.ManagedObjectReference) (*mo.HostSystem, error) {
	f.hostCalls++
	h, ok := f.hosts[ref.Value]
	if !ok {
		return nil, fmt.Errorf("host %s not found", ref.Value)
	}
	return h, nil
}

func (f *fakeResolver) Datastore(_ context.Context, ref types.ManagedObjectReference) (*mo.Datastore, error) {
	f.dsCalls = append(f.dsCalls, ref.Value)
	ds, ok := f.datastores[ref.Value]
	if !ok {
		return nil, fmt.Errorf("datastore %s not found", ref.Value)
	}
	return ds, nil
}

// --- builders for raw inventory objects ---

func int32Ptr(v int32) *int32 { return &v }

func dsRef(value string) *types.ManagedObjectReference {
	return &types.ManagedObjectReference{Type: "Datastore", Value: value}
}

func flatDisk(key int32, unit int32, label, file string, ds *types.ManagedObjectReference) *types.VirtualDisk {
	return &types.VirtualDisk{
		VirtualDevice: types.VirtualDevice{
			Key:        key,
			DeviceInfo: &types.Description{Label: label, Summary: "16,777,216 KB"},
			UnitNumber: int32Ptr(unit),
			Backing: &types.VirtualDiskFlatVer2BackingInfo{
				VirtualDeviceFileBackingInfo: types.VirtualDeviceFileBackingInfo{
					FileName:  file,
					Datastore: ds,
				},
				Uuid: fmt.Sprintf("6000C29-%d", key),
			},
		},
		CapacityInKB: 16777216,
	}
}

func nic(key int32) *types.VirtualE1000 {
	return &types.VirtualE1000{
		VirtualEthernetCard: types.VirtualEthernetCard{
			VirtualDevice: types.VirtualDevice{
				Key:        key,
				DeviceInfo: &types.Description{Label: "Network adapter 1"},
			},
		},
	}
}

func datastore(name string) *mo.Datastore {
	return &mo.Datastore{
		Summary: types.DatastoreSummary{
			Name:        name,
			Capacity:    500 << 30,
			FreeSpace:   120 << 30,
			Uncommitted: 40 << 30,
			Url:         "ds:///vmfs/volumes/" + name + "/",
		},
	}
}

func host(name string) *mo.HostSystem {
	boot := time.Date(2024, 11, 2, 7, 0, 0, 0, time.UTC)
	h := &mo.HostSystem{
		Summary: types.HostListSummary{
			Hardware: &types.HostHardwareSummary{
				Vendor:        "Dell Inc.",
				Model:         "PowerEdge R650",
				Uuid:          "4c4c4544-0042",
				MemorySize:    512 << 30,
				CpuModel:      "Intel(R) Xeon(R) Gold 6338",
				CpuMhz:        2000,
				NumCpuPkgs:    2,
				NumCpuCores:   64,
				NumCpuThreads: 128,
				NumNics:       4,
				NumHBAs:       2,
			},
			Config: types.HostConfigSummary{
				Name:          name,
				Port:          443,
				SslThumbprint: "AB:CD:EF:01",
			},
			OverallStatus:      types.ManagedEntityStatusGreen,
			RebootRequired:     false,
			ManagementServerIp: "10.0.0.2",
			MaxEVCModeKey:      "intel-icelake",
			CurrentEVCModeKey:  "intel-cascadelake",
		},
		Config: &types.HostConfigInfo{
			Product: types.AboutInfo{
				Name:                  "VMware ESXi",
				FullName:              "VMware ESXi 8.0.2 build-22380479",
				Vendor:                "VMware, Inc.",
				Version:               "8.0.2",
				Build:                 "22380479",
				ApiVersion:            "8.0.2.0",
				LicenseProductName:    "VMware ESX Server",
				LicenseProductVersion: "8.0",
			},
		},
		Runtime: types.HostRuntimeInfo{
			PowerState: types.HostSystemPowerStatePoweredOn,
			BootTime:   &boot,
		},
	}
	h.Name = name
	h.Self = types.ManagedObjectReference{Type: "HostSystem", Value: "host-" + name}
	return h
}

func virtualMachine(name string, hostRef string, devices ...types.BaseVirtualDevice) *mo.VirtualMachine {
	boot := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	vm := &mo.VirtualMachine{
		Guest: &types.GuestInfo{
			ToolsStatus:         types.VirtualMachineToolsStatusToolsOk,
			ToolsVersionStatus:  "guestToolsCurrent",
			ToolsVersionStatus2: "guestToolsCurrent",
			ToolsRunningStatus:  "guestToolsRunning",
			ToolsVersion:        "12352",
			GuestId:             "rhel9_64Guest",
			GuestFamily:         "linuxGuest",
			GuestFullName:       "Red Hat Enterprise Linux 9 (64-bit)",
			HostName:            name + ".lab",
			IpAddress:           "10.0.10.21",
			GuestState:          "running",
		},
		Config: &types.VirtualMachineConfigInfo{
			Name:         name,
			Uuid:         "4204-" + name,
			InstanceUuid: "5004-" + name,
			Version:      "vmx-19",
			Annotation:   "owner: platform",
			Files: types.VirtualMachineFileInfo{
				VmPathName:        "[datastore1] " + name + "/" + name + ".vmx",
				SnapshotDirectory: "[datastore1] " + name + "/",
				SuspendDirectory:  "[datastore1] " + name + "/",
				LogDirectory:      "[datastore1] " + name + "/",
			},
			Hardware: types.VirtualHardware{
				NumCPU:            4,
				NumCoresPerSocket: 2,
				MemoryMB:          8192,
				Device:            devices,
			},
		},
		Runtime: types.VirtualMachineRuntimeInfo{
			Host:            &types.ManagedObjectReference{Type: "HostSystem", Value: hostRef},
			ConnectionState: types.VirtualMachineConnectionStateConnected,
			PowerState:      types.VirtualMachinePowerStatePoweredOn,
			BootTime:        &boot,
		},
		Summary: types.VirtualMachineSummary{
			Config: types.VirtualMachineConfigSummary{
				Name:             name,
				Template:         false,
				NumEthernetCards: 1,
				NumVirtualDisks:  int32(len(devices)),
			},
		},
	}
	vm.Name = name
	vm.Self = types.ManagedObjectReference{Type: "VirtualMachine", Value: "vm-" + name}
	return vm
}
