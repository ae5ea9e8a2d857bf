package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"

	"github.com/EpicMandM/esxi-inventory/internal/config"
	"github.com/EpicMandM/esxi-inventory/internal/inventory"
	"github.com/EpicMandM/esxi-inventory/internal/logger"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"
)

// ConnectivityError reports an endpoint that could not be reached or
// refused the session.
type ConnectivityError struct {
	Endpoint string
	Err      error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot connect to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

type VMwareService struct {
	client   *vim25.Client
	session  *govmomi.Client
	endpoint string
	logger   *logger.Logger
}

func NewVMwareService(ctx context.Context, cfg *config.Config, log *logger.Logger) (*VMwareService, error) {
	if log == nil {
		log = logger.NewWithWriter(io.Discard)
	}
	endpoint := cfg.Endpoint()

	u, err := soap.ParseURL(cfg.ESXiURL)
	if err != nil {
		return nil, &ConnectivityError{Endpoint: endpoint, Err: fmt.Errorf("failed to parse URL: %w", err)}
	}
	if u.Port() == "" || (cfg.ESXiPort != 0 && cfg.ESXiPort != config.DefaultPort) {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(cfg.ESXiPort))
	}
	u.User = url.UserPassword(cfg.ESXiUsername, cfg.ESXiPassword)

	log.Debug("Connecting", logger.Action("connect"), logger.Endpoint(u.Host))
	client, err := govmomi.NewClient(ctx, u, cfg.ESXiInsecure)
	if err != nil {
		return nil, &ConnectivityError{Endpoint: endpoint, Err: err}
	}
	log.Info("Connected", logger.Action("connect"), logger.Status("success"), logger.Endpoint(endpoint),
		logger.F("API", client.ServiceContent.About.FullName))

	return &VMwareService{
		client:   client.Client,
		session:  client,
		endpoint: endpoint,
		logger:   log,
	}, nil
}

// NewVMwareServiceFromClient wraps an existing vim25 client. Close leaves
// the session alone.
func NewVMwareServiceFromClient(c *vim25.Client, log *logger.Logger) *VMwareService {
	if log == nil {
		log = logger.NewWithWriter(io.Discard)
	}
	return &VMwareService{
		client:   c,
		endpoint: c.URL().Hostname(),
		logger:   log,
	}
}

func (s *VMwareService) Endpoint() string {
	return s.endpoint
}

func (s *VMwareService) Close(ctx context.Context) error {
	if s.session == nil {
		return nil
	}
	return s.session.Logout(ctx)
}

// ListVirtualMachines returns every VirtualMachine reachable from the root
// folder. Templates are included.
func (s *VMwareService) ListVirtualMachines(ctx context.Context) ([]types.ManagedObjectReference, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	kind := []string{"VirtualMachine"}

	m := view.NewManager(s.client)
	v, err := m.CreateContainerView(ctx, s.client.ServiceContent.RootFolder, kind, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create container view: %w", err)
	}
	defer func() {
		if derr := v.Destroy(ctx); derr != nil {
			s.logger.Warn("Failed to destroy container view", logger.Error(derr))
		}
	}()

	refs, err := v.Find(ctx, kind, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list virtual machines: %w", err)
	}
	s.logger.Debug("Virtual machines enumerated", logger.Action("enumerate"), logger.Count(len(refs)))
	return refs, nil
}

func (s *VMwareService) VirtualMachine(ctx context.Context, ref types.ManagedObjectReference) (*mo.VirtualMachine, error) {
	var vm mo.VirtualMachine
	if err := s.retrieve(ctx, ref, inventory.VMProperties, &vm); err != nil {
		return nil, err
	}
	return &vm, nil
}

func (s *VMwareService) Host(ctx context.Context, ref types.ManagedObjectReference) (*mo.HostSystem, error) {
	var host mo.HostSystem
	if err := s.retrieve(ctx, ref, inventory.HostProperties, &host); err != nil {
		return nil, err
	}
	return &host, nil
}

func (s *VMwareService) Datastore(ctx context.Context, ref types.ManagedObjectReference) (*mo.Datastore, error) {
	var ds mo.Datastore
	if err := s.retrieve(ctx, ref, inventory.DatastoreProperties, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *VMwareService) retrieve(ctx context.Context, ref types.ManagedObjectReference, props []string, dst interface{}) error {
	pc := property.DefaultCollector(s.client)
	if err := pc.RetrieveOne(ctx, ref, props, dst); err != nil {
		return fmt.Errorf("failed to retrieve %s %s: %w", ref.Type, ref.Value, err)
	}
	return nil
}
