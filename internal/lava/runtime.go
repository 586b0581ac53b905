package lava

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kernelci/lava-bridge/internal/lab"
)

// Params holds the variables of a single job: the raw build/test
// parameters supplied by the caller plus the fields computed by the
// runtime before rendering.
type Params map[string]any

// String returns the parameter as a string, or "" when absent or not a
// string.
func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Renderer turns a job template and a parameter mapping into a job
// definition document.
type Renderer interface {
	Render(templateFile string, params Params) (string, error)
}

// Submitter hands a rendered job definition to the lab scheduler and
// returns the identifier it assigned.
type Submitter interface {
	Submit(ctx context.Context, definition string) (string, error)
}

// Config is the lab-level runtime configuration. At most one of the two
// priority scaling modes should be set; the flat factor wins when both
// are.
type Config struct {
	// Name identifies the lab in generated jobs.
	Name string `yaml:"name"`

	// QueueTimeout is forwarded to the scheduler as-is (minutes). It is
	// not enforced locally.
	QueueTimeout int `yaml:"queue_timeout"`

	// Priority scales nominal plan priorities by a percentage (0-100).
	// Zero means unset.
	Priority int `yaml:"priority"`

	// PriorityMin and PriorityMax map nominal priorities onto the lab's
	// valid range when both are set.
	PriorityMin *int `yaml:"priority_min"`
	PriorityMax *int `yaml:"priority_max"`
}

// Runtime generates LAVA job definitions from device and plan
// configuration and submits them through the scheduler API.
type Runtime struct {
	cfg       Config
	renderer  Renderer
	submitter Submitter
	logger    *slog.Logger
}

// NewRuntime creates a Runtime. The renderer and submitter are injected
// so the parameter computation can be exercised without templates on
// disk or a live lab connection.
func NewRuntime(cfg Config, renderer Renderer, submitter Submitter, logger *slog.Logger) *Runtime {
	return &Runtime{
		cfg:       cfg,
		renderer:  renderer,
		submitter: submitter,
		logger:    logger,
	}
}

// Generate renders the job definition for the given device and plan.
// params is augmented in place with the device and plan defaults and the
// computed fields (queue_timeout, lab_name, aliased base_device_type,
// scaled priority, shortened name and callback fields) before rendering.
func (r *Runtime) Generate(params Params, device lab.DeviceConfig, plan lab.PlanConfig, opts *CallbackOptions) (string, error) {
	templateFile := plan.TemplatePath(device.BootMethod)

	name, err := shortenJobName(params)
	if err != nil {
		return "", err
	}

	priority := scalePriority(plan.Priority(), r.cfg)

	// Device and plan defaults apply unless the caller set them already.
	deviceDefaults := map[string]string{
		"base_device_type": device.BaseDeviceType,
		"arch":             device.Arch,
	}
	for k, v := range deviceDefaults {
		if v == "" {
			continue
		}
		if _, ok := params[k]; !ok {
			params[k] = v
		}
	}
	for k, v := range plan.Params {
		if _, ok := params[k]; !ok {
			params[k] = v
		}
	}

	params["queue_timeout"] = r.cfg.QueueTimeout
	params["lab_name"] = r.cfg.Name
	params["base_device_type"] = aliasDeviceType(params.String("base_device_type"))
	params["priority"] = priority
	params["name"] = name
	addCallbackParams(params, opts)

	r.logger.Debug("Generating job definition",
		slog.String("name", name),
		slog.String("template", templateFile),
		slog.Int("priority", priority),
	)

	return r.renderer.Render(templateFile, params)
}

// Submit reads a rendered job definition from disk and hands it to the
// scheduler. Scheduler errors are returned unmodified.
func (r *Runtime) Submit(ctx context.Context, jobPath string) (string, error) {
	definition, err := os.ReadFile(jobPath)
	if err != nil {
		return "", fmt.Errorf("failed to read job file: %w", err)
	}
	return r.submitter.Submit(ctx, string(definition))
}
