package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/EpicMandM/esxi-inventory/internal/config"
	"github.com/EpicMandM/esxi-inventory/internal/logger"
	"github.com/EpicMandM/esxi-inventory/internal/models"
	"github.com/EpicMandM/esxi-inventory/internal/orchestrator"
	"github.com/EpicMandM/esxi-inventory/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/types"
)

func TestNew(t *testing.T) {
	cfg := &config.Config{ESXiURL: "https://esxi.example.com", ESXiUsername: "admin", ESXiPassword: "password"}

	t.Run("with all parameters", func(t *testing.T) {
		log := logger.NewWithWriter(&bytes.Buffer{})
		profile := config.DefaultProfile()

		app := New(cfg, profile, log)
		assert.Equal(t, cfg, app.config)
		assert.Equal(t, profile, app.profile)
		assert.Equal(t, log, app.logger)
	})

	t.Run("with nil logger and profile", func(t *testing.T) {
		app := New(cfg, nil, nil)
		assert.NotNil(t, app.logger)
		require.NotNil(t, app.profile)
		assert.Equal(t, ".", app.profile.Scan.OutputDir)
	})
}

func TestRun_NotInitialized(t *testing.T) {
	app := New(&config.Config{}, nil, nil)
	_, err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service not initialized")
}

func TestInitialize_InvalidConfig(t *testing.T) {
	app := New(&config.Config{ESXiURL: "esxi.lab"}, nil, nil)
	err := app.Initialize(context.Background())
	assert.ErrorContains(t, err, "ESXI_USERNAME is required")
}

func TestInitialize_Unreachable(t *testing.T) {
	cfg := &config.Config{ESXiURL: "https://127.0.0.1:1/sdk", ESXiPort: 443, ESXiUsername: "root", ESXiPassword: "x", ESXiInsecure: true}
	err := New(cfg, nil, nil).Initialize(context.Background())

	var connErr *service.ConnectivityError
	assert.True(t, errors.As(err, &connErr))
}

func TestClose_NotInitialized(t *testing.T) {
	assert.NoError(t, New(&config.Config{}, nil, nil).Close(context.Background()))
}

// prepareSimulator makes the vcsim inventory look like a real endpoint:
// vcsim leaves host thumbprints empty and numbers disks outside the
// 2000-2999 key range. It returns the thumbprint given to each host name.
func prepareSimulator(model *simulator.Model) map[string]string {
	thumbprints := map[string]string{}
	for _, e := range simulator.Map.All("HostSystem") {
		h := e.(*simulator.HostSystem)
		h.Summary.Config.SslThumbprint = fmt.Sprintf("AA:BB:CC:%s", h.Self.Value)
		thumbprints[h.Name] = h.Summary.Config.SslThumbprint
	}
	for _, e := range simulator.Map.All("VirtualMachine") {
		vm := e.(*simulator.VirtualMachine)
		key := int32(2000)
		for _, d := range vm.Config.Hardware.Device {
			if disk, ok := d.(*types.VirtualDisk); ok {
				disk.Key = key
				key++
			}
		}
	}
	return thumbprints
}

func readRecords(t *testing.T, path string) []models.VMRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var recs []models.VMRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var rec models.VMRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		recs = append(recs, rec)
	}
	require.NoError(t, sc.Err())
	return recs
}

func newSimulatorApp(t *testing.T, c *vim25.Client, policy config.FailurePolicy) (*App, *config.Profile, time.Time) {
	t.Helper()
	dir := t.TempDir()
	profile := config.DefaultProfile()
	profile.Scan.OutputDir = dir
	profile.Scan.OnError = string(policy)
	profile.Scan.MetricsFile = filepath.Join(dir, "scan.prom")

	app := New(&config.Config{}, profile, logger.NewWithWriter(&bytes.Buffer{})).
		WithService(service.NewVMwareServiceFromClient(c, nil))
	fixed := time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)
	app.now = func() time.Time { return fixed }
	return app, profile, fixed
}

func TestRun_Simulator(t *testing.T) {
	model := simulator.VPX()
	simulator.Test(func(ctx context.Context, c *vim25.Client) {
		thumbprints := prepareSimulator(model)
		app, profile, fixed := newSimulatorApp(t, c, config.PolicyAbort)

		require.NoError(t, app.Initialize(ctx))
		summary, err := app.Run(ctx)
		require.NoError(t, err)
		require.NotNil(t, summary)

		assert.Positive(t, summary.Scanned)
		assert.Equal(t, summary.Scanned, summary.Written)
		assert.Zero(t, summary.Failed)
		assert.Empty(t, summary.FailedVMs)
		assert.Positive(t, summary.Disks)
		assert.Equal(t, summary.Written, summary.Disks, "every vcsim VM carries one disk")

		assert.Equal(t, "vms_detail_"+c.URL().Hostname()+"_20250115_103000.json", filepath.Base(summary.OutputPath))
		recs := readRecords(t, summary.OutputPath)
		require.Len(t, recs, summary.Written)

		for _, rec := range recs {
			assert.True(t, fixed.Equal(rec.RunTime))
			assert.NotEmpty(t, rec.Name)
			assert.NotEmpty(t, rec.UUID)
			assert.Equal(t, thumbprints[rec.Host], rec.ESXHost.Config.SSLThumbprint)
			assert.Equal(t, rec.Host, rec.ESXHost.Config.Name)
			assert.NotEmpty(t, rec.ESXHost.Hardware.UUID)
			assert.Equal(t, "VMware ESXi", rec.ESXHost.Product.Name)
			assert.NotEmpty(t, rec.ESXHost.Product.FullName)
			assert.NotEmpty(t, rec.ESXHost.Product.Version)

			require.Len(t, rec.Disks, 1)
			disk := rec.Disks[0]
			assert.NotEmpty(t, disk.Disk.UUID)
			assert.Contains(t, disk.Disk.FileName, "disk1.vmdk")
			require.NotNil(t, disk.Datastore)
			assert.NotEmpty(t, disk.Datastore.Name)
			assert.NotEmpty(t, disk.Datastore.URL)
		}

		_, err = os.Stat(profile.Scan.MetricsFile)
		assert.NoError(t, err)
		assert.NoError(t, app.Close(ctx))
	}, model)
}

func TestRun_SimulatorSkipsVMsOfBrokenHost(t *testing.T) {
	model := simulator.VPX()
	simulator.Test(func(ctx context.Context, c *vim25.Client) {
		prepareSimulator(model)

		vms := simulator.Map.All("VirtualMachine")
		require.NotEmpty(t, vms)
		brokenRef := *vms[0].(*simulator.VirtualMachine).Runtime.Host
		broken := simulator.Map.Get(brokenRef).(*simulator.HostSystem)
		broken.Summary.Config.SslThumbprint = ""

		var expectFailed []string
		for _, e := range vms {
			vm := e.(*simulator.VirtualMachine)
			if *vm.Runtime.Host == brokenRef {
				expectFailed = append(expectFailed, vm.Name)
			}
		}

		app, _, _ := newSimulatorApp(t, c, config.PolicySkip)
		summary, err := app.Run(ctx)
		require.ErrorIs(t, err, orchestrator.ErrPartialScan)

		assert.ElementsMatch(t, expectFailed, summary.FailedVMs)
		assert.Equal(t, len(expectFailed), summary.Failed)
		assert.Equal(t, len(vms)-len(expectFailed), summary.Written)

		recs := readRecords(t, summary.OutputPath)
		require.Len(t, recs, summary.Written)
		for _, rec := range recs {
			assert.NotEqual(t, broken.Name, rec.Host)
			assert.NotContains(t, expectFailed, rec.Name)
		}
	}, model)
}

func TestRun_BadPolicy(t *testing.T) {
	simulator.Test(func(ctx context.Context, c *vim25.Client) {
		profile := config.DefaultProfile()
		profile.Scan.OnError = "retry"
		app := New(&config.Config{}, profile, nil).WithService(service.NewVMwareServiceFromClient(c, nil))

		_, err := app.Run(ctx)
		assert.ErrorContains(t, err, "unknown failure policy")
	})
}
