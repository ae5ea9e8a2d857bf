package inventory

import (
	"github.com/EpicMandM/esxi-inventory/internal/models"
	"github.com/vmware/govmomi/vim25/mo"
)

// BuildHostRecord projects the config, hardware, product, runtime and summary
// sub-objects of a host. It returns no partial record: the first projection
// that fails aborts the build.
func BuildHostRecord(host *mo.HostSystem) (models.HostRecord, error) {
	if host == nil {
		return models.HostRecord{}, missing("vm.runtime", "host")
	}

	config, err := ProjectHostConfig(host.Summary)
	if err != nil {
		return models.HostRecord{}, hostError(host, err)
	}
	hardware, err := ProjectHostHardware(host.Summary.Hardware)
	if err != nil {
		return models.HostRecord{}, hostError(host, err)
	}
	product, err := ProjectHostProduct(host.Config)
	if err != nil {
		return models.HostRecord{}, hostError(host, err)
	}
	runtime, err := ProjectHostRuntime(host.Runtime)
	if err != nil {
		return models.HostRecord{}, hostError(host, err)
	}
	summary, err := ProjectHostSummary(host.Summary)
	if err != nil {
		return models.HostRecord{}, hostError(host, err)
	}

	return models.HostRecord{
		Config:   config,
		Hardware: hardware,
		Product:  product,
		Runtime:  runtime,
		Summary:  summary,
	}, nil
}

func hostError(host *mo.HostSystem, err error) error {
	name := host.Name
	if name == "" {
		name = host.Self.Value
	}
	return &HostError{Host: name, Err: err}
}
