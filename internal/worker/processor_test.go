package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/kernelci/lava-bridge/internal/lab"
	"github.com/kernelci/lava-bridge/internal/lava"
	"github.com/kernelci/lava-bridge/internal/worker/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	output string
	err    error
}

func (f *fakeRenderer) Render(_ string, _ lava.Params) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

type fakeSubmitter struct {
	definition string
	jobID      string
	err        error
}

func (f *fakeSubmitter) Submit(_ context.Context, definition string) (string, error) {
	f.definition = definition
	if f.err != nil {
		return "", f.err
	}
	return f.jobID, nil
}

func testLabConfig() *lab.Config {
	return &lab.Config{
		DeviceTypes: map[string]lab.DeviceConfig{
			"qemu": {Name: "qemu", BootMethod: "qemu", BaseDeviceType: "qemu"},
		},
		TestPlans: map[string]lab.PlanConfig{
			"boot": {Name: "boot", Params: map[string]any{"priority": 40}},
		},
	}
}

func testWorker(t *testing.T, renderer lava.Renderer, submitter lava.Submitter) *Worker {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Worker{
		logger:    logger,
		runtime:   lava.NewRuntime(lava.Config{Name: "lab", QueueTimeout: 60}, renderer, submitter, logger),
		lab:       testLabConfig(),
		outputDir: t.TempDir(),
	}
}

func TestWorker_GenerateAndSubmit(t *testing.T) {
	renderer := &fakeRenderer{output: "job: definition\n"}
	submitter := &fakeSubmitter{jobID: "4567"}
	w := testWorker(t, renderer, submitter)

	job := &domain.Job{
		JobID:      "job-1",
		DeviceType: "qemu",
		Plan:       "boot",
		Params:     `{"name":"mainline-v6.6-boot","device_type":"qemu","plan":"boot"}`,
	}

	name, lavaJobID, err := w.generateAndSubmit(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "mainline-v6.6-boot", name)
	assert.Equal(t, "4567", lavaJobID)

	// the rendered definition was written to the output directory and
	// handed to the scheduler
	written, err := os.ReadFile(filepath.Join(w.outputDir, "mainline-v6.6-boot.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "job: definition\n", string(written))
	assert.Equal(t, "job: definition\n", submitter.definition)
}

func TestWorker_GenerateAndSubmit_InvalidParams(t *testing.T) {
	w := testWorker(t, &fakeRenderer{output: "ok"}, &fakeSubmitter{jobID: "1"})

	job := &domain.Job{
		JobID:      "job-1",
		DeviceType: "qemu",
		Plan:       "boot",
		Params:     `{not json`,
	}

	_, _, err := w.generateAndSubmit(context.Background(), job)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestWorker_GenerateAndSubmit_UnknownDevice(t *testing.T) {
	w := testWorker(t, &fakeRenderer{output: "ok"}, &fakeSubmitter{jobID: "1"})

	job := &domain.Job{
		JobID:      "job-1",
		DeviceType: "no-such-device",
		Plan:       "boot",
		Params:     `{"name":"job"}`,
	}

	_, _, err := w.generateAndSubmit(context.Background(), job)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestWorker_GenerateAndSubmit_InvalidCallback(t *testing.T) {
	w := testWorker(t, &fakeRenderer{output: "ok"}, &fakeSubmitter{jobID: "1"})

	job := &domain.Job{
		JobID:      "job-1",
		DeviceType: "qemu",
		Plan:       "boot",
		Params:     `{"name":"job"}`,
		Callback:   `{not json`,
	}

	_, _, err := w.generateAndSubmit(context.Background(), job)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestWorker_GenerateAndSubmit_RenderErrorIsPermanent(t *testing.T) {
	renderer := &fakeRenderer{err: fmt.Errorf("lookup: %w", lava.ErrTemplateNotFound)}
	w := testWorker(t, renderer, &fakeSubmitter{jobID: "1"})

	job := &domain.Job{
		JobID:      "job-1",
		DeviceType: "qemu",
		Plan:       "boot",
		Params:     `{"name":"job"}`,
	}

	_, _, err := w.generateAndSubmit(context.Background(), job)
	require.Error(t, err)
	assert.ErrorIs(t, err, lava.ErrTemplateNotFound)

	var retryable *domain.RetryableError
	assert.False(t, errors.As(err, &retryable))
}

func TestWorker_GenerateAndSubmit_SubmitErrorIsRetryable(t *testing.T) {
	submitter := &fakeSubmitter{err: fmt.Errorf("connection refused")}
	w := testWorker(t, &fakeRenderer{output: "ok"}, submitter)

	job := &domain.Job{
		JobID:      "job-1",
		DeviceType: "qemu",
		Plan:       "boot",
		Params:     `{"name":"job"}`,
	}

	_, _, err := w.generateAndSubmit(context.Background(), job)
	require.Error(t, err)

	var retryable *domain.RetryableError
	assert.True(t, errors.As(err, &retryable))
}

func TestWorker_ShouldRequeueJob(t *testing.T) {
	w := testWorker(t, &fakeRenderer{}, &fakeSubmitter{})

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "already claimed is not requeued",
			err:  domain.ErrJobAlreadyClaimed,
			want: false,
		},
		{
			name: "max retries exceeded is not requeued",
			err:  fmt.Errorf("%w: submit failed", domain.ErrMaxRetriesExceeded),
			want: false,
		},
		{
			name: "invalid payload is not requeued",
			err:  fmt.Errorf("%w: bad json", domain.ErrInvalidPayload),
			want: false,
		},
		{
			name: "retryable error is requeued",
			err:  domain.NewRetryableError(fmt.Errorf("connection refused")),
			want: true,
		},
		{
			name: "wrapped retryable error is requeued",
			err:  fmt.Errorf("processing: %w", domain.NewRetryableError(fmt.Errorf("timeout"))),
			want: true,
		},
		{
			name: "unknown error is not requeued",
			err:  fmt.Errorf("something unexpected"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.shouldRequeueJob(tt.err))
		})
	}
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "malformed defconfig",
			err:  fmt.Errorf("generate: %w", lava.ErrMalformedConfigName),
			want: "malformed_config",
		},
		{
			name: "template not found",
			err:  fmt.Errorf("render: %w", lava.ErrTemplateNotFound),
			want: "template_not_found",
		},
		{
			name: "invalid payload",
			err:  fmt.Errorf("%w: bad json", domain.ErrInvalidPayload),
			want: "invalid_payload",
		},
		{
			name: "anything else",
			err:  fmt.Errorf("disk full"),
			want: "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failureReason(tt.err))
		})
	}
}
