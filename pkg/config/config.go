// Package config loads declarative service configuration.
//
// A config file carries the service descriptor (namespace, names,
// bind path) and logging options; operation handlers are code and
// always registered programmatically. The binding layer loads a
// Config, builds a registry from Descriptor(), and registers its
// handlers against it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getsoapd/soapd/pkg/logging"
	"github.com/getsoapd/soapd/pkg/registry"
)

// Config is the root of a service configuration file.
type Config struct {
	Service Service `yaml:"service" json:"service"`
	Logging Logging `yaml:"logging,omitempty" json:"logging,omitempty"`
}

// Service configures the service descriptor.
type Service struct {
	Namespace   string `yaml:"namespace" json:"namespace"`
	ServiceName string `yaml:"serviceName" json:"serviceName"`
	PortName    string `yaml:"portName,omitempty" json:"portName,omitempty"`
	Path        string `yaml:"path" json:"path"`
}

// Logging configures the engine logger.
type Logging struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse unmarshals and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Service.Namespace == "" {
		errs = append(errs, errors.New("service.namespace is required"))
	}
	if c.Service.ServiceName == "" {
		errs = append(errs, errors.New("service.serviceName is required"))
	}
	if c.Service.Path == "" {
		errs = append(errs, errors.New("service.path is required"))
	} else if !strings.HasPrefix(c.Service.Path, "/") {
		errs = append(errs, fmt.Errorf("service.path %q must start with /", c.Service.Path))
	}
	return errors.Join(errs...)
}

// Descriptor converts the configuration to a service descriptor. The
// port name defaults to serviceName + "Port" when unset.
func (c *Config) Descriptor() registry.Service {
	port := c.Service.PortName
	if port == "" {
		port = c.Service.ServiceName + "Port"
	}
	return registry.Service{
		Namespace:   c.Service.Namespace,
		ServiceName: c.Service.ServiceName,
		PortName:    port,
		BindPath:    c.Service.Path,
	}
}

// LoggerConfig maps the logging section to a logging.Config.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Logging.Level)
	cfg.Format = logging.ParseFormat(c.Logging.Format)
	return cfg
}
