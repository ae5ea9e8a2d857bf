package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EpicMandM/esxi-inventory/internal/config"
	"github.com/EpicMandM/esxi-inventory/internal/inventory"
	"github.com/EpicMandM/esxi-inventory/internal/logger"
	"github.com/EpicMandM/esxi-inventory/internal/metrics"
	"github.com/EpicMandM/esxi-inventory/internal/service"
	"github.com/EpicMandM/esxi-inventory/internal/store"
	"github.com/google/uuid"
	"github.com/vmware/govmomi/vim25/types"
)

// ErrPartialScan is returned under the skip policy when at least one VM
// could not be recorded.
var ErrPartialScan = errors.New("partial scan")

// Summary describes one finished (or interrupted) scan.
type Summary struct {
	ScanID     string
	ScanTime   time.Time
	Endpoint   string
	OutputPath string
	Scanned    int
	Written    int
	Failed     int
	Disks      int
	FailedVMs  []string
}

// Orchestrator coordinates one inventory scan.
type Orchestrator struct {
	Logger  *logger.Logger
	VMware  service.VMwareClient
	Builder *inventory.Builder
	Sink    store.Store
	Policy  config.FailurePolicy
	Metrics *metrics.Metrics
}

// Run enumerates every VM, builds its record and appends it to the sink
// immediately, in enumeration order. All records carry scanTime.
//
// Under PolicyAbort the first failing VM ends the scan with its error; lines
// already written stay in place. Under PolicySkip failures are logged and the
// scan continues, returning ErrPartialScan at the end. A failed write is
// always fatal.
func (o *Orchestrator) Run(ctx context.Context, scanTime time.Time) (*Summary, error) {
	started := time.Now()
	summary := &Summary{
		ScanID:     uuid.NewString(),
		ScanTime:   scanTime,
		Endpoint:   o.VMware.Endpoint(),
		OutputPath: o.Sink.Path(),
		FailedVMs:  []string{},
	}
	log := o.Logger.With(logger.ScanID(summary.ScanID))
	policy := o.Policy
	if policy == "" {
		policy = config.PolicyAbort
	}
	builder := o.Builder
	if builder == nil {
		builder = inventory.NewBuilder(o.VMware)
	}

	log.Info("Scan started", logger.Action("scan"), logger.Status("started"),
		logger.Endpoint(summary.Endpoint), logger.Policy(string(policy)), logger.Path(summary.OutputPath))

	refs, err := o.VMware.ListVirtualMachines(ctx)
	if err != nil {
		log.Error("Failed to enumerate virtual machines", logger.Action("enumerate"), logger.Error(err))
		o.finish(summary, started, false)
		return summary, fmt.Errorf("enumerate virtual machines: %w", err)
	}
	log.Info("Virtual machines enumerated", logger.Action("enumerate"), logger.Count(len(refs)))

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			o.finish(summary, started, false)
			return summary, err
		}
		summary.Scanned++
		o.Metrics.VMScanned()

		disks, err := o.recordVM(ctx, log, builder, ref, scanTime)
		if err == nil {
			summary.Written++
			summary.Disks += disks
			o.Metrics.VMWritten(disks)
			continue
		}

		var writeErr *sinkError
		if errors.As(err, &writeErr) {
			log.Error("Failed to write record", logger.Action("write"), logger.Status("failed"), logger.Error(writeErr.Err))
			o.finish(summary, started, false)
			return summary, writeErr.Err
		}

		name := failedVM(err, ref)
		reason := failureReason(err)
		summary.Failed++
		summary.FailedVMs = append(summary.FailedVMs, name)
		o.Metrics.VMFailed(reason)

		fields := append([]logger.Field{logger.Action("build"), logger.VM(name), logger.Reason(reason), logger.Error(err)},
			failureFields(err)...)
		if policy == config.PolicyAbort {
			log.Error("VM record failed", append(fields, logger.Status("aborted"))...)
			o.finish(summary, started, false)
			return summary, err
		}
		log.Warn("VM record skipped", append(fields, logger.Status("skipped"))...)
	}

	ok := summary.Failed == 0
	o.finish(summary, started, ok)
	log.Info("Scan finished", logger.Action("scan"), logger.Status("finished"),
		logger.Count(summary.Written), logger.Failed(summary.Failed), logger.F("DISKS", summary.Disks),
		logger.Path(summary.OutputPath))

	if !ok {
		return summary, fmt.Errorf("%w: %d of %d virtual machines failed", ErrPartialScan, summary.Failed, summary.Scanned)
	}
	return summary, nil
}

// sinkError marks a failure of the output file itself.
type sinkError struct {
	Err error
}

func (e *sinkError) Error() string { return e.Err.Error() }
func (e *sinkError) Unwrap() error { return e.Err }

func (o *Orchestrator) recordVM(ctx context.Context, log *logger.Logger, builder *inventory.Builder, ref types.ManagedObjectReference, scanTime time.Time) (int, error) {
	vm, err := o.VMware.VirtualMachine(ctx, ref)
	if err != nil {
		return 0, &inventory.RecordError{VM: ref.Value, Err: err}
	}

	rec, err := builder.Build(ctx, vm, scanTime)
	if err != nil {
		return 0, err
	}

	if err := o.Sink.Append(rec); err != nil {
		var encErr *store.EncodingError
		if errors.As(err, &encErr) {
			return 0, &inventory.RecordError{VM: rec.Name, Err: err}
		}
		return 0, &sinkError{Err: err}
	}
	log.Debug("VM recorded", logger.Action("write"), logger.VM(rec.Name), logger.Count(len(rec.Disks)))
	return len(rec.Disks), nil
}

func (o *Orchestrator) finish(summary *Summary, started time.Time, ok bool) {
	o.Metrics.ScanFinished(summary.ScanTime, time.Since(started), ok)
}

func failedVM(err error, ref types.ManagedObjectReference) string {
	var recErr *inventory.RecordError
	if errors.As(err, &recErr) && recErr.VM != "" {
		return recErr.VM
	}
	return ref.Value
}

// failureReason is the metrics label for a per-VM failure.
func failureReason(err error) string {
	var (
		missingErr *inventory.MissingAttributeError
		backingErr *inventory.UnresolvableBackingError
		encErr     *store.EncodingError
	)
	switch {
	case errors.As(err, &missingErr):
		return "missing_attribute"
	case errors.As(err, &backingErr):
		return "unresolvable_backing"
	case errors.As(err, &encErr):
		return "encoding"
	}
	return "retrieve"
}

// failureFields points a failure log line at the host, datastore or disk
// that caused it.
func failureFields(err error) []logger.Field {
	var fields []logger.Field
	var hostErr *inventory.HostError
	if errors.As(err, &hostErr) {
		fields = append(fields, logger.Host(hostErr.Host))
	}
	var backingErr *inventory.UnresolvableBackingError
	if errors.As(err, &backingErr) {
		fields = append(fields, logger.DeviceKey(backingErr.DeviceKey))
		if backingErr.Datastore != "" {
			fields = append(fields, logger.Datastore(backingErr.Datastore))
		}
	}
	return fields
}
