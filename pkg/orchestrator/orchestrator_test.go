package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/user/pfmshot/pkg/adapters/logger"
	"github.com/user/pfmshot/pkg/mocks"
	"github.com/user/pfmshot/pkg/pipeline"
)

// mockReadStage is a mock for the read stage.
type mockReadStage struct {
	result pipeline.ReadResult
	err    error
	calls  int
}

func (m *mockReadStage) Execute(ctx context.Context, input pipeline.ReadInput) (pipeline.ReadResult, error) {
	m.calls++
	if m.err != nil {
		return pipeline.ReadResult{}, m.err
	}
	return m.result, nil
}

// mockEncodeStage is a mock for the encode stage.
type mockEncodeStage struct {
	result pipeline.EncodeResult
	err    error
	inputs []pipeline.EncodeInput
}

func (m *mockEncodeStage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return pipeline.EncodeResult{}, m.err
	}
	return m.result, nil
}

type harness struct {
	read     *mockReadStage
	encode   *mockEncodeStage
	fs       *mocks.FileSystem
	sink     *mocks.DebugSink
	renderer *mocks.Renderer
	orch     *Orchestrator
}

func newHarness(debug bool) *harness {
	h := &harness{
		read: &mockReadStage{
			result: pipeline.ReadResult{
				Image:  pipeline.NewRasterImage(2, 1),
				Header: pipeline.HeaderInfo{Width: 2, Height: 1, ScaleToken: "-1.0", PayloadOffset: 12, FileSize: 36},
			},
		},
		encode: &mockEncodeStage{
			result: pipeline.EncodeResult{Data: []byte("fpx-bytes"), Steps: 2, Growths: 1, FinalCapacity: 128},
		},
		fs:       mocks.NewFileSystem(),
		sink:     mocks.NewDebugSink(debug),
		renderer: &mocks.Renderer{},
	}
	h.orch = New(h.read, h.encode, h.fs, h.sink, h.renderer, logger.NewNoop())
	return h
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.InputPath = "in.pfm"
	cfg.OutputPath = "out.fpx"
	cfg.Workers = 2
	cfg.InitialCapacity = 32
	return cfg
}

func TestOrchestrator_Run(t *testing.T) {
	h := newHarness(false)
	cfg := testConfig()

	result, err := h.orch.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ExitCode(err) != ExitOK {
		t.Errorf("expected exit code 0, got %d", ExitCode(err))
	}

	written, ok := h.fs.GetFile("out.fpx")
	if !ok || string(written) != "fpx-bytes" {
		t.Errorf("expected output to be written, got %q", written)
	}
	if n := h.fs.WriteCount("out.fpx"); n != 1 {
		t.Errorf("expected a single write of the output, got %d", n)
	}

	if len(h.encode.inputs) != 1 {
		t.Fatalf("expected 1 encode call, got %d", len(h.encode.inputs))
	}
	in := h.encode.inputs[0]
	if in.Image != h.read.result.Image {
		t.Error("expected the decoded image to be passed to the encoder")
	}
	if in.Options != cfg.Encoder || in.Workers != 2 || in.InitialCapacity != 32 {
		t.Errorf("unexpected encode input: %+v", in)
	}

	if result.Width != 2 || result.Height != 1 {
		t.Errorf("expected 2x1, got %dx%d", result.Width, result.Height)
	}
	if result.InputBytes != 36 || result.OutputBytes != 9 {
		t.Errorf("unexpected sizes: %d -> %d", result.InputBytes, result.OutputBytes)
	}
	if result.Growths != 1 || result.FinalCapacity != 128 || result.Steps != 2 {
		t.Errorf("unexpected drain stats: %+v", result)
	}
	if result.Codec != "zstd" {
		t.Errorf("expected codec zstd, got %q", result.Codec)
	}
	if result.CompressionRatio() != 4 {
		t.Errorf("expected ratio 4, got %v", result.CompressionRatio())
	}

	if len(h.renderer.ToneMapCalls) != 0 {
		t.Error("expected no preview without debug output")
	}
}

func TestOrchestrator_Run_ReadFailure(t *testing.T) {
	h := newHarness(false)
	h.read.err = fmt.Errorf("in.pfm: %w", pipeline.ErrFormat)

	_, err := h.orch.Run(context.Background(), testConfig())

	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageRead {
		t.Fatalf("expected read StageError, got %v", err)
	}
	if !errors.Is(err, pipeline.ErrFormat) {
		t.Errorf("expected ErrFormat to be preserved, got %v", err)
	}
	if ExitCode(err) != ExitRead {
		t.Errorf("expected exit code %d, got %d", ExitRead, ExitCode(err))
	}
	if len(h.encode.inputs) != 0 {
		t.Error("encoder must not run after a read failure")
	}
	if len(h.fs.WriteCalls) != 0 {
		t.Errorf("no file must be written after a read failure, got %v", h.fs.WriteCalls)
	}
}

func TestOrchestrator_Run_EncodeFailure(t *testing.T) {
	h := newHarness(false)
	h.encode.err = fmt.Errorf("%w: process output", pipeline.ErrEncode)

	_, err := h.orch.Run(context.Background(), testConfig())

	if ExitCode(err) != ExitEncode {
		t.Errorf("expected exit code %d, got %d (%v)", ExitEncode, ExitCode(err), err)
	}
	if !errors.Is(err, pipeline.ErrEncode) {
		t.Errorf("expected ErrEncode, got %v", err)
	}
	if n := h.fs.WriteCount("out.fpx"); n != 0 {
		t.Errorf("no output must be written after an encode failure, got %d writes", n)
	}
}

func TestOrchestrator_Run_WriteFailure(t *testing.T) {
	h := newHarness(false)
	h.fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("disk full")
	}

	_, err := h.orch.Run(context.Background(), testConfig())

	if ExitCode(err) != ExitWrite {
		t.Errorf("expected exit code %d, got %d (%v)", ExitWrite, ExitCode(err), err)
	}
	if !errors.Is(err, pipeline.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	if n := h.fs.WriteCount("out.fpx"); n != 1 {
		t.Errorf("expected exactly one write attempt, got %d", n)
	}
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	h := newHarness(false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel once the read stage has finished.
	orig := h.read.result
	h.orch.readStage = pipeline.StageFunc[pipeline.ReadInput, pipeline.ReadResult](
		func(ctx context.Context, in pipeline.ReadInput) (pipeline.ReadResult, error) {
			cancel()
			return orig, nil
		})

	_, err := h.orch.Run(ctx, testConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(h.encode.inputs) != 0 {
		t.Error("encoder must not run after cancellation")
	}
}

func TestOrchestrator_Run_WithDebugSink(t *testing.T) {
	h := newHarness(true)

	if _, err := h.orch.Run(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var header pipeline.HeaderInfo
	if err := json.Unmarshal(h.sink.HeaderJSON, &header); err != nil {
		t.Fatalf("invalid header JSON: %v", err)
	}
	if header.Width != 2 || header.ScaleToken != "-1.0" {
		t.Errorf("unexpected header: %+v", header)
	}

	if len(h.renderer.ToneMapCalls) != 1 {
		t.Fatalf("expected 1 ToneMap call, got %d", len(h.renderer.ToneMapCalls))
	}
	if h.renderer.ToneMapCalls[0].MaxSize != DefaultConfig().Preview.MaxSize {
		t.Errorf("unexpected preview options: %+v", h.renderer.ToneMapCalls[0])
	}
	if h.sink.Preview == nil {
		t.Error("expected preview to be saved")
	}

	var run RunResult
	if err := json.Unmarshal(h.sink.RunJSON, &run); err != nil {
		t.Fatalf("invalid run JSON: %v", err)
	}
	if run.OutputBytes != 9 {
		t.Errorf("expected 9 output bytes in run JSON, got %d", run.OutputBytes)
	}
}

func TestOrchestrator_Run_EmptyImageSkipsPreview(t *testing.T) {
	h := newHarness(true)
	h.read.result.Image = pipeline.NewRasterImage(0, 0)

	if _, err := h.orch.Run(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.renderer.ToneMapCalls) != 0 {
		t.Error("expected no preview for an empty image")
	}
	if h.sink.HeaderJSON == nil {
		t.Error("expected header JSON to be saved")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("bad flag"), ExitUsage},
		{"read", &StageError{Stage: StageRead, Err: pipeline.ErrIO}, ExitRead},
		{"encode", &StageError{Stage: StageEncode, Err: pipeline.ErrEncode}, ExitEncode},
		{"write", &StageError{Stage: StageWrite, Err: pipeline.ErrIO}, ExitWrite},
		{"wrapped", fmt.Errorf("run: %w", &StageError{Stage: StageWrite}), ExitWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestStageError_Message(t *testing.T) {
	err := &StageError{Stage: StageRead, Err: errors.New("boom")}
	if err.Error() != "read stage: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
