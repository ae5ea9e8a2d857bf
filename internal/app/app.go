package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/EpicMandM/esxi-inventory/internal/config"
	"github.com/EpicMandM/esxi-inventory/internal/logger"
	"github.com/EpicMandM/esxi-inventory/internal/metrics"
	"github.com/EpicMandM/esxi-inventory/internal/orchestrator"
	"github.com/EpicMandM/esxi-inventory/internal/service"
	"github.com/EpicMandM/esxi-inventory/internal/store"
)

type App struct {
	config  *config.Config
	profile *config.Profile
	service service.VMwareClient
	logger  *logger.Logger
	now     func() time.Time
}

func New(cfg *config.Config, profile *config.Profile, log *logger.Logger) *App {
	if log == nil {
		log = logger.NewWithWriter(io.Discard)
	}
	if profile == nil {
		profile = config.DefaultProfile()
	}
	return &App{
		config:  cfg,
		profile: profile,
		logger:  log,
		now:     time.Now,
	}
}

// WithService uses an already connected client instead of dialing the
// configured endpoint in Initialize.
func (a *App) WithService(svc service.VMwareClient) *App {
	a.service = svc
	return a
}

func (a *App) Initialize(ctx context.Context) error {
	if a.service != nil {
		return nil
	}
	if err := a.config.Validate(); err != nil {
		return err
	}
	vmwareService, err := service.NewVMwareService(ctx, a.config, a.logger)
	if err != nil {
		return err
	}
	a.service = vmwareService
	return nil
}

// Run performs one scan. The scan time is read once here and shared by the
// output file name and every record.
func (a *App) Run(ctx context.Context) (*orchestrator.Summary, error) {
	if a.service == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	policy, err := a.profile.Scan.Policy()
	if err != nil {
		return nil, err
	}

	scanTime := a.now()
	sink, err := store.NewJSONLStore(a.profile.Scan.OutputDir, a.service.Endpoint(), scanTime)
	if err != nil {
		return nil, fmt.Errorf("failed to open output: %w", err)
	}

	var m *metrics.Metrics
	if a.profile.Scan.MetricsFile != "" {
		m = metrics.New(a.service.Endpoint())
	}

	orch := &orchestrator.Orchestrator{
		Logger:  a.logger,
		VMware:  a.service,
		Sink:    sink,
		Policy:  policy,
		Metrics: m,
	}
	summary, runErr := orch.Run(ctx, scanTime)

	if err := sink.Close(); err != nil {
		a.logger.Error("Failed to close output", logger.Path(sink.Path()), logger.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	if err := m.WriteTextfile(a.profile.Scan.MetricsFile); err != nil {
		a.logger.Warn("Failed to write metrics", logger.Path(a.profile.Scan.MetricsFile), logger.Error(err))
	}
	return summary, runErr
}

func (a *App) Close(ctx context.Context) error {
	if a.service == nil {
		return nil
	}
	if err := a.service.Close(ctx); err != nil {
		return fmt.Errorf("failed to close VMware service: %w", err)
	}
	a.logger.Debug("Disconnected", logger.Endpoint(a.service.Endpoint()))
	return nil
}
