package inventory

import (
	"github.com/EpicMandM/esxi-inventory/internal/models"
	"github.com/vmware/govmomi/vim25/types"
)

// Projections copy one sub-object into its record shape. Pointer sub-objects
// that are nil, and identity strings vSphere always fills in, are treated as
// absent and reported with a MissingAttributeError.

func ProjectHostConfig(summary types.HostListSummary) (models.HostConfig, error) {
	c := summary.Config
	if c.Name == "" {
		return models.HostConfig{}, missing("host.summary.config", "name")
	}
	if c.SslThumbprint == "" {
		return models.HostConfig{}, missing("host.summary.config", "sslThumbprint")
	}
	return models.HostConfig{
		Name:          c.Name,
		Port:          c.Port,
		SSLThumbprint: c.SslThumbprint,
	}, nil
}

func ProjectHostHardware(hw *types.HostHardwareSummary) (models.HostHardware, error) {
	if hw == nil {
		return models.HostHardware{}, missing("host.summary", "hardware")
	}
	if hw.Uuid == "" {
		return models.HostHardware{}, missing("host.summary.hardware", "uuid")
	}
	return models.HostHardware{
		UUID:          hw.Uuid,
		Vendor:        hw.Vendor,
		Model:         hw.Model,
		MemorySize:    hw.MemorySize,
		CPUModel:      hw.CpuModel,
		CPUMhz:        hw.CpuMhz,
		NumCPUPkgs:    hw.NumCpuPkgs,
		NumCPUCores:   hw.NumCpuCores,
		NumCPUThreads: hw.NumCpuThreads,
		NumNics:       hw.NumNics,
		NumHBAs:       hw.NumHBAs,
	}, nil
}

func ProjectHostProduct(cfg *types.HostConfigInfo) (models.HostProduct, error) {
	if cfg == nil {
		return models.HostProduct{}, missing("host", "config")
	}
	p := cfg.Product
	if p.Name == "" {
		return models.HostProduct{}, missing("host.config.product", "name")
	}
	if p.Version == "" {
		return models.HostProduct{}, missing("host.config.product", "version")
	}
	return models.HostProduct{
		Name:                  p.Name,
		FullName:              p.FullName,
		Vendor:                p.Vendor,
		Version:               p.Version,
		Build:                 p.Build,
		APIVersion:            p.ApiVersion,
		LicenseProductName:    p.LicenseProductName,
		LicenseProductVersion: p.LicenseProductVersion,
	}, nil
}

func ProjectHostRuntime(rt types.HostRuntimeInfo) (models.HostRuntime, error) {
	if rt.PowerState == "" {
		return models.HostRuntime{}, missing("host.runtime", "powerState")
	}
	return models.HostRuntime{
		PowerState: string(rt.PowerState),
		BootTime:   rt.BootTime,
	}, nil
}

func ProjectHostSummary(s types.HostListSummary) (models.HostSummary, error) {
	if s.OverallStatus == "" {
		return models.HostSummary{}, missing("host.summary", "overallStatus")
	}
	return models.HostSummary{
		ManagementServerIP: s.ManagementServerIp,
		OverallStatus:      string(s.OverallStatus),
		RebootRequired:     s.RebootRequired,
		MaxEVCModeKey:      s.MaxEVCModeKey,
		CurrentEVCModeKey:  s.CurrentEVCModeKey,
	}, nil
}

func ProjectDatastore(s types.DatastoreSummary) (models.DatastoreRecord, error) {
	if s.Name == "" {
		return models.DatastoreRecord{}, missing("datastore.summary", "name")
	}
	if s.Url == "" {
		return models.DatastoreRecord{}, missing("datastore.summary", "url")
	}
	return models.DatastoreRecord{
		Name:        s.Name,
		Capacity:    s.Capacity,
		FreeSpace:   s.FreeSpace,
		Uncommitted: s.Uncommitted,
		URL:         s.Url,
	}, nil
}

// ProjectGuest reads the tools and guest OS fields. Most of them are empty
// while VMware Tools is not running, which is a valid state.
func ProjectGuest(g *types.GuestInfo) (models.GuestInfo, error) {
	if g == nil {
		return models.GuestInfo{}, missing("vm", "guest")
	}
	return models.GuestInfo{
		ToolsStatus:         string(g.ToolsStatus),
		ToolsVersionStatus:  g.ToolsVersionStatus,
		ToolsVersionStatus2: g.ToolsVersionStatus2,
		ToolsRunningStatus:  g.ToolsRunningStatus,
		ToolsVersion:        g.ToolsVersion,
		GuestID:             g.GuestId,
		GuestFamily:         g.GuestFamily,
		GuestFullName:       g.GuestFullName,
		HostName:            g.HostName,
		IPAddress:           g.IpAddress,
		GuestState:          g.GuestState,
	}, nil
}

func ProjectVMConfig(c *types.VirtualMachineConfigInfo) (models.VMConfig, error) {
	if c == nil {
		return models.VMConfig{}, missing("vm", "config")
	}
	if c.Name == "" {
		return models.VMConfig{}, missing("vm.config", "name")
	}
	if c.Uuid == "" {
		return models.VMConfig{}, missing("vm.config", "uuid")
	}
	return models.VMConfig{
		UUID:         c.Uuid,
		InstanceUUID: c.InstanceUuid,
		Name:         c.Name,
		Version:      c.Version,
		Annotation:   c.Annotation,
	}, nil
}

func ProjectVMFiles(f types.VirtualMachineFileInfo) (models.VMFiles, error) {
	if f.VmPathName == "" {
		return models.VMFiles{}, missing("vm.config.files", "vmPathName")
	}
	return models.VMFiles{
		VMPathName:        f.VmPathName,
		SnapshotDirectory: f.SnapshotDirectory,
		SuspendDirectory:  f.SuspendDirectory,
		LogDirectory:      f.LogDirectory,
	}, nil
}

func ProjectVMHardware(h types.VirtualHardware) models.VMHardware {
	return models.VMHardware{
		NumCPU:            h.NumCPU,
		NumCoresPerSocket: h.NumCoresPerSocket,
		MemoryMB:          h.MemoryMB,
	}
}

func ProjectVMRuntime(rt types.VirtualMachineRuntimeInfo) (models.VMRuntime, error) {
	if rt.PowerState == "" {
		return models.VMRuntime{}, missing("vm.runtime", "powerState")
	}
	if rt.ConnectionState == "" {
		return models.VMRuntime{}, missing("vm.runtime", "connectionState")
	}
	return models.VMRuntime{
		PowerState:      string(rt.PowerState),
		ConnectionState: string(rt.ConnectionState),
		BootTime:        rt.BootTime,
	}, nil
}

func ProjectVMSummary(c types.VirtualMachineConfigSummary) models.VMSummary {
	return models.VMSummary{
		Template:         c.Template,
		NumEthernetCards: c.NumEthernetCards,
		NumVirtualDisks:  c.NumVirtualDisks,
	}
}
