package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultPort = 443

type Config struct {
	ESXiURL      string
	ESXiPort     int
	ESXiUsername string
	ESXiPassword string
	ESXiInsecure bool
}

// Load loads configuration from environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional .env file and environment variables.
// The result is not validated: the password may still be prompted for.
func LoadWithFile(envFile string) (*Config, error) {
	// Attempt to load .env file if provided, but don't fail if it doesn't exist.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	port, err := parsePort(os.Getenv("ESXI_PORT"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ESXiURL:      os.Getenv("ESXI_URL"),
		ESXiPort:     port,
		ESXiUsername: os.Getenv("ESXI_USERNAME"),
		ESXiPassword: os.Getenv("ESXI_PASSWORD"),
		ESXiInsecure: parseInsecure(os.Getenv("ESXI_INSECURE")),
	}, nil
}

// Validate checks if all required fields are set.
func (c *Config) Validate() error {
	if c.ESXiURL == "" {
		return fmt.Errorf("ESXI_URL is required")
	}
	if c.ESXiUsername == "" {
		return fmt.Errorf("ESXI_USERNAME is required")
	}
	if c.ESXiPassword == "" {
		return fmt.Errorf("ESXI_PASSWORD is required")
	}
	if c.ESXiPort < 1 || c.ESXiPort > 65535 {
		return fmt.Errorf("ESXI_PORT %d out of range", c.ESXiPort)
	}
	return nil
}

// Endpoint is the bare host name of ESXI_URL, used to name output files.
func (c *Config) Endpoint() string {
	raw := c.ESXiURL
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return c.ESXiURL
	}
	return u.Hostname()
}

func parsePort(s string) (int, error) {
	if s == "" {
		return DefaultPort, nil
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ESXI_PORT %q: %w", s, err)
	}
	return port, nil
}

// parseInsecure converts a string to a boolean, defaulting to false.
func parseInsecure(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
