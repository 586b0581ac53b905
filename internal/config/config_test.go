package config

import (
	"testing"

	"github.com/kernelci/lava-bridge/internal/lava"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func validConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Database = "lava_jobs"
	cfg.RabbitMQ.Host = "localhost"
	cfg.RabbitMQ.Port = 5672
	cfg.RabbitMQ.Exchange.Name = "lava_jobs_exchange"
	cfg.RabbitMQ.Queue.Name = "lava_jobs_queue"
	cfg.Lab = lava.Config{Name: "lab-collabora", QueueTimeout: 60}
	cfg.Lava.URL = "https://lava.example.org"
	cfg.Jobs.LabConfigPath = "config/lab.yaml"
	cfg.Jobs.OutputDir = "/tmp/jobs"
	cfg.Worker.Concurrency = 4
	cfg.Worker.JobTimeout = 1
	cfg.Worker.ShutdownTimeout = 1
	return cfg
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				// Verify some key fields are populated
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "lava_jobs", cfg.Database.Database)
				assert.Equal(t, "lava_jobs_exchange", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "lava_jobs_queue", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "lava-bridge", cfg.App.Name)
				assert.Equal(t, "lab-collabora", cfg.Lab.Name)
				assert.Equal(t, 60, cfg.Lab.QueueTimeout)
				assert.Equal(t, 50, cfg.Lab.Priority)
				assert.Equal(t, "https://lava.example.org", cfg.Lava.URL)
				assert.Equal(t, []string{"config/lava", "/etc/kernelci/lava"}, cfg.Jobs.TemplatePaths)
			}
		})
	}
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "invalid server port",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:      "missing exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			wantErr:   true,
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "missing lab name",
			mutate:    func(c *Config) { c.Lab.Name = "" },
			wantErr:   true,
			errString: "lab name is required",
		},
		{
			name:      "priority scale out of range",
			mutate:    func(c *Config) { c.Lab.Priority = 150 },
			wantErr:   true,
			errString: "invalid lab priority scale",
		},
		{
			name:      "priority_min without priority_max",
			mutate:    func(c *Config) { c.Lab.PriorityMin = intPtr(10) },
			wantErr:   true,
			errString: "must be set together",
		},
		{
			name: "priority_min above priority_max",
			mutate: func(c *Config) {
				c.Lab.PriorityMin = intPtr(60)
				c.Lab.PriorityMax = intPtr(10)
			},
			wantErr:   true,
			errString: "must not exceed",
		},
		{
			name: "valid priority range",
			mutate: func(c *Config) {
				c.Lab.PriorityMin = intPtr(10)
				c.Lab.PriorityMax = intPtr(60)
			},
		},
		{
			name:      "missing lab config path",
			mutate:    func(c *Config) { c.Jobs.LabConfigPath = "" },
			wantErr:   true,
			errString: "lab config path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			wantErr:   true,
			errString: "concurrency must be greater than 0",
		},
		{
			name:      "zero job timeout",
			mutate:    func(c *Config) { c.Worker.JobTimeout = 0 },
			wantErr:   true,
			errString: "job_timeout must be greater than 0",
		},
		{
			name:      "missing lava url",
			mutate:    func(c *Config) { c.Lava.URL = "" },
			wantErr:   true,
			errString: "lava API URL is required",
		},
		{
			name:      "missing output dir",
			mutate:    func(c *Config) { c.Jobs.OutputDir = "" },
			wantErr:   true,
			errString: "output_dir is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
