// Package lab holds the device and test plan configuration a job is
// generated from. Entries are loaded from a YAML file and treated as
// read-only for the lifetime of the process.
package lab

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DeviceConfig describes one device type the lab can schedule on.
type DeviceConfig struct {
	Name           string `yaml:"-"`
	BootMethod     string `yaml:"boot_method" validate:"required"`
	BaseDeviceType string `yaml:"base_device_type"`
	Arch           string `yaml:"arch"`
}

// PlanConfig describes one test plan: which template renders it and the
// plan-level job parameters.
type PlanConfig struct {
	Name            string         `yaml:"-"`
	TemplatePattern string         `yaml:"template_pattern"`
	Params          map[string]any `yaml:"params"`
}

// TemplatePath resolves the template file for a boot method, e.g.
// "boot/uboot.yaml.tmpl" for pattern "boot/{boot_method}.yaml.tmpl".
func (p PlanConfig) TemplatePath(bootMethod string) string {
	pattern := p.TemplatePattern
	if pattern == "" {
		pattern = p.Name + "/{boot_method}.yaml.tmpl"
	}
	return strings.ReplaceAll(pattern, "{boot_method}", bootMethod)
}

// Priority returns the plan's nominal job priority, defaulting to 20.
// YAML decodes bare numbers as int, but accept float too since Params is
// an open map.
func (p PlanConfig) Priority() int {
	switch v := p.Params["priority"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 20
}

// Config is the full lab configuration file.
type Config struct {
	DeviceTypes map[string]DeviceConfig `yaml:"device_types" validate:"required,min=1,dive"`
	TestPlans   map[string]PlanConfig   `yaml:"test_plans" validate:"required,min=1"`
}

// Device looks up a device type by name.
func (c *Config) Device(name string) (DeviceConfig, bool) {
	d, ok := c.DeviceTypes[name]
	return d, ok
}

// Plan looks up a test plan by name.
func (c *Config) Plan(name string) (PlanConfig, bool) {
	p, ok := c.TestPlans[name]
	return p, ok
}

// Load reads and validates the lab configuration file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read lab config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse lab config file: %w", err)
	}

	// Map keys are the entry names.
	for name, device := range config.DeviceTypes {
		device.Name = name
		config.DeviceTypes[name] = device
	}
	for name, plan := range config.TestPlans {
		plan.Name = name
		config.TestPlans[name] = plan
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid lab config: %w", err)
	}

	return &config, nil
}
