package models

import "time"

// VMRecord is the flat inventory line written for one virtual machine.
type VMRecord struct {
	RunTime time.Time `json:"runTime"`

	ToolsStatus         string `json:"toolsStatus"`
	ToolsVersionStatus  string `json:"toolsVersionStatus"`
	ToolsVersionStatus2 string `json:"toolsVersionStatus2"`
	ToolsRunningStatus  string `json:"toolsRunningStatus"`
	ToolsVersion        string `json:"toolsVersion"`
	GuestID             string `json:"guestId"`
	GuestFamily         string `json:"guestFamily"`
	GuestFullName       string `json:"guestFullName"`
	HostName            string `json:"hostName"`
	IPAddress           string `json:"ipAddress"`
	GuestState          string `json:"guestState"`

	UUID         string `json:"uuid"`
	InstanceUUID string `json:"instanceUuid"`
	Name         string `json:"name"`
	Version      string `json:"version"`
	Annotation   string `json:"annotation"`

	VMPathName        string `json:"vmPathName"`
	SnapshotDirectory string `json:"snapshotDirectory"`
	SuspendDirectory  string `json:"suspendDirectory"`
	LogDirectory      string `json:"logDirectory"`

	NumCPU            int32 `json:"numCPU"`
	NumCoresPerSocket int32 `json:"numCoresPerSocket"`
	MemoryMB          int32 `json:"memoryMB"`

	PowerState      string     `json:"powerState"`
	ConnectionState string     `json:"connectionState"`
	BootTime        *time.Time `json:"bootTime"`
	Host            string     `json:"host"`

	Template         bool  `json:"template"`
	NumEthernetCards int32 `json:"numEthernetCards"`
	NumVirtualDisks  int32 `json:"numVirtualDisks"`

	Disks   []DiskEntry `json:"disk_list"`
	ESXHost HostRecord  `json:"esx_host"`
}

// GuestInfo holds the tools and guest OS fields taken from vm.guest.
type GuestInfo struct {
	ToolsStatus         string
	ToolsVersionStatus  string
	ToolsVersionStatus2 string
	ToolsRunningStatus  string
	ToolsVersion        string
	GuestID             string
	GuestFamily         string
	GuestFullName       string
	HostName            string
	IPAddress           string
	GuestState          string
}

// VMConfig holds the identity fields taken from vm.config.
type VMConfig struct {
	UUID         string
	InstanceUUID string
	Name         string
	Version      string
	Annotation   string
}

// VMFiles holds the file layout taken from vm.config.files.
type VMFiles struct {
	VMPathName        string
	SnapshotDirectory string
	SuspendDirectory  string
	LogDirectory      string
}

// VMHardware holds the sizing taken from vm.config.hardware.
type VMHardware struct {
	NumCPU            int32
	NumCoresPerSocket int32
	MemoryMB          int32
}

// VMRuntime holds the state taken from vm.runtime.
type VMRuntime struct {
	PowerState      string
	ConnectionState string
	BootTime        *time.Time
}

// VMSummary holds the counters taken from vm.summary.config.
type VMSummary struct {
	Template         bool
	NumEthernetCards int32
	NumVirtualDisks  int32
}

// Apply copies the guest projection into the record.
func (g GuestInfo) Apply(r *VMRecord) {
	r.ToolsStatus = g.ToolsStatus
	r.ToolsVersionStatus = g.ToolsVersionStatus
	r.ToolsVersionStatus2 = g.ToolsVersionStatus2
	r.ToolsRunningStatus = g.ToolsRunningStatus
	r.ToolsVersion = g.ToolsVersion
	r.GuestID = g.GuestID
	r.GuestFamily = g.GuestFamily
	r.GuestFullName = g.GuestFullName
	r.HostName = g.HostName
	r.IPAddress = g.IPAddress
	r.GuestState = g.GuestState
}

func (c VMConfig) Apply(r *VMRecord) {
	r.UUID = c.UUID
	r.InstanceUUID = c.InstanceUUID
	r.Name = c.Name
	r.Version = c.Version
	r.Annotation = c.Annotation
}

func (f VMFiles) Apply(r *VMRecord) {
	r.VMPathName = f.VMPathName
	r.SnapshotDirectory = f.SnapshotDirectory
	r.SuspendDirectory = f.SuspendDirectory
	r.LogDirectory = f.LogDirectory
}

func (h VMHardware) Apply(r *VMRecord) {
	r.NumCPU = h.NumCPU
	r.NumCoresPerSocket = h.NumCoresPerSocket
	r.MemoryMB = h.MemoryMB
}

func (rt VMRuntime) Apply(r *VMRecord) {
	r.PowerState = rt.PowerState
	r.ConnectionState = rt.ConnectionState
	r.BootTime = rt.BootTime
}

func (s VMSummary) Apply(r *VMRecord) {
	r.Template = s.Template
	r.NumEthernetCards = s.NumEthernetCards
	r.NumVirtualDisks = s.NumVirtualDisks
}
