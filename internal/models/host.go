package models

import "time"

// HostRecord describes the ESXi server a VM was running on at scan time.
type HostRecord struct {
	Config   HostConfig   `json:"config"`
	Hardware HostHardware `json:"hardware"`
	Product  HostProduct  `json:"product"`
	Runtime  HostRuntime  `json:"runtime"`
	Summary  HostSummary  `json:"summary"`
}

type HostConfig struct {
	Name          string `json:"name"`
	Port          int32  `json:"port"`
	SSLThumbprint string `json:"sslThumbprint"`
}

type HostHardware struct {
	UUID          string `json:"uuid"`
	Vendor        string `json:"vendor"`
	Model         string `json:"model"`
	MemorySize    int64  `json:"memorySize"`
	CPUModel      string `json:"cpuModel"`
	CPUMhz        int32  `json:"cpuMhz"`
	NumCPUPkgs    int16  `json:"numCpuPkgs"`
	NumCPUCores   int16  `json:"numCpuCores"`
	NumCPUThreads int16  `json:"numCpuThreads"`
	NumNics       int32  `json:"numNics"`
	NumHBAs       int32  `json:"numHBAs"`
}

type HostProduct struct {
	Name                  string `json:"name"`
	FullName              string `json:"fullName"`
	Vendor                string `json:"vendor"`
	Version               string `json:"version"`
	Build                 string `json:"build"`
	APIVersion            string `json:"apiVersion"`
	LicenseProductName    string `json:"licenseProductName"`
	LicenseProductVersion string `json:"licenseProductVersion"`
}

type HostRuntime struct {
	PowerState string     `json:"powerState"`
	BootTime   *time.Time `json:"bootTime"`
}

type HostSummary struct {
	ManagementServerIP string `json:"managementServerIp"`
	OverallStatus      string `json:"overallStatus"`
	RebootRequired     bool   `json:"rebootRequired"`
	MaxEVCModeKey      string `json:"maxEVCModeKey"`
	CurrentEVCModeKey  string `json:"currentEVCModeKey"`
}
