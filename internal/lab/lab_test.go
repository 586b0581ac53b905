package lab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid lab config",
			filePath: "testdata/valid_lab.yaml",
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read lab config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse lab config file",
		},
		{
			name:      "device without boot method",
			filePath:  "testdata/missing_boot_method.yaml",
			wantErr:   true,
			errString: "invalid lab config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			device, ok := cfg.Device("qemu_x86_64-uefi-chromeos")
			require.True(t, ok)
			assert.Equal(t, "qemu_x86_64-uefi-chromeos", device.Name)
			assert.Equal(t, "qemu", device.BootMethod)
			assert.Equal(t, "x86_64", device.Arch)

			plan, ok := cfg.Plan("boot")
			require.True(t, ok)
			assert.Equal(t, "boot", plan.Name)
			assert.Equal(t, 40, plan.Priority())

			_, ok = cfg.Device("unknown")
			assert.False(t, ok)
		})
	}
}

func TestPlanConfig_TemplatePath(t *testing.T) {
	tests := []struct {
		name     string
		plan     PlanConfig
		boot     string
		expected string
	}{
		{
			name:     "explicit pattern",
			plan:     PlanConfig{Name: "boot", TemplatePattern: "boot/{boot_method}.yaml.tmpl"},
			boot:     "u-boot",
			expected: "boot/u-boot.yaml.tmpl",
		},
		{
			name:     "default pattern from plan name",
			plan:     PlanConfig{Name: "baseline"},
			boot:     "depthcharge",
			expected: "baseline/depthcharge.yaml.tmpl",
		},
		{
			name:     "pattern without placeholder",
			plan:     PlanConfig{Name: "sleep", TemplatePattern: "sleep/generic.yaml.tmpl"},
			boot:     "u-boot",
			expected: "sleep/generic.yaml.tmpl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.plan.TemplatePath(tt.boot))
		})
	}
}

func TestPlanConfig_Priority(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]any
		expected int
	}{
		{
			name:     "integer priority",
			params:   map[string]any{"priority": 40},
			expected: 40,
		},
		{
			name:     "float priority from JSON payloads",
			params:   map[string]any{"priority": 35.0},
			expected: 35,
		},
		{
			name:     "missing priority defaults to 20",
			params:   map[string]any{},
			expected: 20,
		},
		{
			name:     "nil params default to 20",
			expected: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanConfig{Name: "boot", Params: tt.params}
			assert.Equal(t, tt.expected, plan.Priority())
		})
	}
}
