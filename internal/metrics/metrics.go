package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	vmInventory = "vm_inventory"

	vmsScannedTotal     = "vms_scanned_total"
	vmsWrittenTotal     = "vms_written_total"
	vmsFailedTotal      = "vms_failed_total"
	disksWrittenTotal   = "disks_written_total"
	scanDurationSeconds = "scan_duration_seconds"
	lastScanTimestamp   = "last_scan_timestamp_seconds"
	lastScanSuccess     = "last_scan_success"

	// Labels
	reasonLabel   = "reason"
	endpointLabel = "endpoint"
)

// Metrics holds the counters of one scan in a private registry, so a run
// exports only its own series.
type Metrics struct {
	registry *prometheus.Registry
	endpoint string

	scanned  prometheus.Counter
	written  prometheus.Counter
	failed   *prometheus.CounterVec
	disks    prometheus.Counter
	duration prometheus.Gauge
	lastScan prometheus.Gauge
	success  prometheus.Gauge
}

func New(endpoint string) *Metrics {
	constLabels := prometheus.Labels{endpointLabel: endpoint}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		endpoint: endpoint,
		scanned: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem:   vmInventory,
			Name:        vmsScannedTotal,
			Help:        "number of virtual machines enumerated",
			ConstLabels: constLabels,
		}),
		written: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem:   vmInventory,
			Name:        vmsWrittenTotal,
			Help:        "number of inventory records written",
			ConstLabels: constLabels,
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem:   vmInventory,
			Name:        vmsFailedTotal,
			Help:        "number of virtual machines that could not be recorded",
			ConstLabels: constLabels,
		}, []string{reasonLabel}),
		disks: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem:   vmInventory,
			Name:        disksWrittenTotal,
			Help:        "number of virtual disks across written records",
			ConstLabels: constLabels,
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem:   vmInventory,
			Name:        scanDurationSeconds,
			Help:        "wall time of the last scan",
			ConstLabels: constLabels,
		}),
		lastScan: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem:   vmInventory,
			Name:        lastScanTimestamp,
			Help:        "start time of the last scan as a unix timestamp",
			ConstLabels: constLabels,
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem:   vmInventory,
			Name:        lastScanSuccess,
			Help:        "1 when the last scan recorded every virtual machine",
			ConstLabels: constLabels,
		}),
	}
	m.registry.MustRegister(m.scanned, m.written, m.failed, m.disks, m.duration, m.lastScan, m.success)
	return m
}

// The recording methods accept a nil receiver so callers can run without
// metrics.

func (m *Metrics) VMScanned() {
	if m == nil {
		return
	}
	m.scanned.Inc()
}

func (m *Metrics) VMWritten(disks int) {
	if m == nil {
		return
	}
	m.written.Inc()
	m.disks.Add(float64(disks))
}

func (m *Metrics) VMFailed(reason string) {
	if m == nil {
		return
	}
	m.failed.With(prometheus.Labels{reasonLabel: reason}).Inc()
}

func (m *Metrics) ScanFinished(scanTime time.Time, elapsed time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.lastScan.Set(float64(scanTime.Unix()))
	m.duration.Set(elapsed.Seconds())
	if ok {
		m.success.Set(1)
	} else {
		m.success.Set(0)
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
