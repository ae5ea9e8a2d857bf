package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EpicMandM/esxi-inventory/internal/app"
	"github.com/EpicMandM/esxi-inventory/internal/config"
	"github.com/EpicMandM/esxi-inventory/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

type Options struct {
	Host        string
	Port        int
	User        string
	Password    string
	Insecure    bool
	EnvFile     string
	ConfigPath  string
	OutputDir   string
	OnError     string
	MetricsFile string
	LogLevel    string
}

func DefaultOptions() *Options {
	return &Options{
		Port:       config.DefaultPort,
		EnvFile:    ".env",
		ConfigPath: getEnvOrDefault("CONFIG_PATH", ""),
	}
}

func (o *Options) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Host, "host", "s", o.Host, "vSphere service to connect to (overrides ESXI_URL)")
	fs.IntVarP(&o.Port, "port", "o", o.Port, "port to connect on (overrides ESXI_PORT)")
	fs.StringVarP(&o.User, "user", "u", o.User, "user name to use when connecting to host (overrides ESXI_USERNAME)")
	fs.StringVarP(&o.Password, "password", "p", o.Password, "password to use when connecting to host (overrides ESXI_PASSWORD)")
	fs.BoolVarP(&o.Insecure, "disable-ssl-verification", "S", o.Insecure, "disable TLS certificate verification")
	fs.StringVar(&o.EnvFile, "env-file", o.EnvFile, "optional .env file with ESXI_* variables")
	fs.StringVar(&o.ConfigPath, "config", o.ConfigPath, "optional TOML scan profile")
	fs.StringVar(&o.OutputDir, "output-dir", o.OutputDir, "directory for the vms_detail_*.json file")
	fs.StringVar(&o.OnError, "on-error", o.OnError, "what to do when a VM cannot be recorded: abort or skip")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "write scan metrics to this node-exporter textfile")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "debug, info, warning or error")
}

// Resolve merges defaults, the TOML profile, the environment and the flags
// that were set explicitly, in increasing order of precedence.
func (o *Options) Resolve(fs *pflag.FlagSet) (*config.Config, *config.Profile, error) {
	profile, err := config.LoadProfile(o.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadWithFile(o.EnvFile)
	if err != nil {
		return nil, nil, err
	}

	if fs.Changed("host") {
		cfg.ESXiURL = o.Host
	}
	if fs.Changed("port") {
		cfg.ESXiPort = o.Port
	}
	if fs.Changed("user") {
		cfg.ESXiUsername = o.User
	}
	if fs.Changed("password") {
		cfg.ESXiPassword = o.Password
	}
	if fs.Changed("disable-ssl-verification") {
		cfg.ESXiInsecure = o.Insecure
	}
	if fs.Changed("output-dir") {
		profile.Scan.OutputDir = o.OutputDir
	}
	if fs.Changed("on-error") {
		profile.Scan.OnError = o.OnError
	}
	if fs.Changed("metrics-file") {
		profile.Scan.MetricsFile = o.MetricsFile
	}
	if fs.Changed("log-level") {
		profile.Scan.LogLevel = o.LogLevel
	}
	if _, err := profile.Scan.Policy(); err != nil {
		return nil, nil, err
	}
	return cfg, profile, nil
}

// readPassword prompts on the controlling terminal without echo.
var readPassword = func(host, user string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("ESXI_PASSWORD is required")
	}
	fmt.Fprintf(os.Stderr, "Enter password for host %s and user %s: ", host, user)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func (o *Options) Run(ctx context.Context, fs *pflag.FlagSet, log *logger.Logger) error {
	cfg, profile, err := o.Resolve(fs)
	if err != nil {
		return err
	}
	if err := log.SetLevel(profile.Scan.LogLevel); err != nil {
		return err
	}
	if cfg.ESXiPassword == "" && cfg.ESXiURL != "" && cfg.ESXiUsername != "" {
		password, err := readPassword(cfg.Endpoint(), cfg.ESXiUsername)
		if err != nil {
			return err
		}
		cfg.ESXiPassword = password
	}

	application := app.New(cfg, profile, log)
	if err := application.Initialize(ctx); err != nil {
		return err
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			log.Error("Failed to close VMware service", logger.Error(err))
		}
	}()

	summary, err := application.Run(ctx)
	if summary != nil {
		fmt.Println(summary.OutputPath)
	}
	return err
}

func NewCommand(log *logger.Logger) *cobra.Command {
	o := DefaultOptions()
	cmd := &cobra.Command{
		Use:           "vminventory [flags]",
		Short:         "Write a JSON-lines inventory of every virtual machine on a vSphere endpoint",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), cmd.Flags(), log)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func main() {
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCommand(log).ExecuteContext(ctx); err != nil {
		log.Error("Application error", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
