package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// FailurePolicy decides what a scan does when one VM cannot be recorded.
type FailurePolicy string

const (
	// PolicyAbort stops the scan at the first failing VM.
	PolicyAbort FailurePolicy = "abort"
	// PolicySkip logs the failing VM, continues, and reports a partial scan.
	PolicySkip FailurePolicy = "skip"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case PolicyAbort, PolicySkip:
		return p, nil
	case "":
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("unknown failure policy %q (want abort or skip)", s)
}

// ScanConfig holds non-sensitive settings for one inventory run.
// Source: TOML configuration file, overridden by command line flags.
type ScanConfig struct {
	OutputDir   string `toml:"output_dir"`
	OnError     string `toml:"on_error"`
	MetricsFile string `toml:"metrics_file"` // Optional: no metrics are written when empty
	LogLevel    string `toml:"log_level"`
}

type Profile struct {
	Scan ScanConfig `toml:"scan"`
}

func DefaultProfile() *Profile {
	return &Profile{Scan: ScanConfig{
		OutputDir: ".",
		OnError:   string(PolicyAbort),
		LogLevel:  "info",
	}}
}

// LoadProfile reads a TOML profile on top of the defaults. An empty path
// returns the defaults.
func LoadProfile(path string) (*Profile, error) {
	cfg := DefaultProfile()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load scan profile: %w", err)
	}
	if _, err := cfg.Scan.Policy(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s ScanConfig) Policy() (FailurePolicy, error) {
	return ParseFailurePolicy(s.OnError)
}
