// Package main provides the CLI entry point for pfmshot.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/pfmshot/pkg/adapters/filesink"
	"github.com/user/pfmshot/pkg/adapters/fpxencoder"
	"github.com/user/pfmshot/pkg/adapters/ggrenderer"
	"github.com/user/pfmshot/pkg/adapters/logger"
	"github.com/user/pfmshot/pkg/adapters/nullsink"
	"github.com/user/pfmshot/pkg/adapters/osfilesystem"
	"github.com/user/pfmshot/pkg/adapters/workerpool"
	"github.com/user/pfmshot/pkg/config"
	"github.com/user/pfmshot/pkg/orchestrator"
	"github.com/user/pfmshot/pkg/pfmshot"
	"github.com/user/pfmshot/pkg/ports"
	"github.com/user/pfmshot/pkg/stages/encode"
	"github.com/user/pfmshot/pkg/stages/read"
	"github.com/user/pfmshot/pkg/summarizer"
)

var version = "dev"

// errUsage marks a usage error whose message has already been printed.
var errUsage = errors.New("usage error")

// Flag categories
const (
	categoryEncoding = "Encoding"
	categoryOutput   = "Output"
	categoryDebug    = "Debug"
	categoryLogging  = "Logging"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(args)
	if err == nil {
		return orchestrator.ExitOK
	}

	var se *orchestrator.StageError
	if !errors.As(err, &se) && !errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, err)
	}
	if errors.Is(err, errConfig) {
		return orchestrator.ExitConfig
	}
	return orchestrator.ExitCode(err)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:            "pfmshot",
		Usage:           l10n.T("Compress a Portable FloatMap image into an FPX file"),
		UsageText:       "pfmshot [options] <pfm> <fpx>",
		Version:         version,
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags:           flags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				printUsage(stderr, c.App.Name)
				return errUsage
			}
			return transcode(c, c.Args().Get(0), c.Args().Get(1))
		},
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			fmt.Fprintf(stderr, "%s\n\n", err)
			printUsage(stderr, c.App.Name)
			return errUsage
		},
		ExitErrHandler: func(c *cli.Context, err error) {},
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			Category: l10n.T(categoryEncoding),
		},
		&cli.StringFlag{
			Name:     "preset",
			Aliases:  []string{"p"},
			Value:    string(pfmshot.PresetBalanced),
			Usage:    l10n.T("Encoder preset (fast, balanced, small)"),
			Category: l10n.T(categoryEncoding),
		},
		&cli.StringFlag{
			Name:     "codec",
			Usage:    l10n.T("Stripe codec (zstd, lz4, brotli, none), overrides preset"),
			Category: l10n.T(categoryEncoding),
		},
		&cli.IntFlag{
			Name:     "level",
			Usage:    l10n.T("Codec compression level (0 = codec default), overrides preset"),
			Category: l10n.T(categoryEncoding),
		},
		&cli.IntFlag{
			Name:     "workers",
			Aliases:  []string{"j"},
			Usage:    l10n.T("Compression workers (0 = number of CPUs)"),
			Category: l10n.T(categoryEncoding),
		},
		&cli.IntFlag{
			Name:     "stripe-rows",
			Value:    pfmshot.DefaultStripeRows,
			Usage:    l10n.T("Rows per independently compressed stripe"),
			Category: l10n.T(categoryEncoding),
		},
		&cli.BoolFlag{
			Name:     "no-shuffle",
			Usage:    l10n.T("Disable the byte-plane shuffle"),
			Category: l10n.T(categoryEncoding),
		},
		&cli.IntFlag{
			Name:     "initial-capacity",
			Usage:    l10n.T("Initial output buffer size in bytes (0 = 64)"),
			Category: l10n.T(categoryEncoding),
		},
		&cli.BoolFlag{
			Name:     "verify",
			Usage:    l10n.T("Decode the output and compare it with the input before writing"),
			Category: l10n.T(categoryOutput),
		},
		&cli.StringFlag{
			Name:     "summary",
			Usage:    l10n.T("Output execution summary to file (Markdown format)"),
			Category: l10n.T(categoryOutput),
		},
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Enable debug output"),
			Category: l10n.T(categoryDebug),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Value:    "./debug",
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T(categoryDebug),
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Value:    "info",
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T(categoryLogging),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T(categoryLogging),
		},
	}
}

func printUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage: %s [options] <pfm> <fpx>\n", name)
	fmt.Fprintln(w, "Where:")
	fmt.Fprintf(w, "  pfm = %s\n", l10n.T("input Portable FloatMap image filename"))
	fmt.Fprintf(w, "  fpx = %s\n", l10n.T("output FPX image filename"))
	fmt.Fprintln(w, l10n.T("Output files will be overwritten."))
	fmt.Fprintln(w, l10n.T("Exit status: 0 success, 1 usage, 2 read, 3 encode, 4 write, 5 configuration."))
}

// settings holds everything resolved from defaults, the config file and flags.
type settings struct {
	transcode pfmshot.Config
	preset    string // empty when codec or level were chosen explicitly
	summary   string
	debug     bool
	debugDir  string
	logLevel  string
	quiet     bool
}

// errConfig marks settings that parse as flags but cannot be used.
var errConfig = errors.New("invalid configuration")

// resolveSettings applies defaults, then the config file, then the preset
// flag, then flags that were set explicitly.
func resolveSettings(c *cli.Context) (settings, error) {
	s := settings{
		preset:   c.String("preset"),
		summary:  c.String("summary"),
		debug:    c.Bool("debug"),
		debugDir: c.String("debug-dir"),
		logLevel: c.String("log-level"),
		quiet:    c.Bool("quiet"),
	}
	builder := pfmshot.NewConfigBuilder()
	custom := false

	if path := c.String("config"); path != "" {
		file, err := config.LoadFromFile(path)
		if err != nil {
			return s, fmt.Errorf("%w: %v", errConfig, err)
		}
		if err := file.Apply(builder); err != nil {
			return s, fmt.Errorf("%w: %s: %v", errConfig, path, err)
		}
		if file.Preset != "" {
			s.preset = file.Preset
		}
		custom = file.Codec != nil || file.Level != nil
		if file.Summary != "" && !c.IsSet("summary") {
			s.summary = file.Summary
		}
		if file.Debug && !c.IsSet("debug") {
			s.debug = true
		}
		if file.DebugDir != "" && !c.IsSet("debug-dir") {
			s.debugDir = file.DebugDir
		}
		if file.LogLevel != "" && !c.IsSet("log-level") {
			s.logLevel = file.LogLevel
		}
	}

	if c.IsSet("preset") {
		preset, err := pfmshot.ParsePreset(c.String("preset"))
		if err != nil {
			return s, fmt.Errorf("%w: %v", errConfig, err)
		}
		builder.WithPreset(preset)
		s.preset = string(preset)
		custom = false
	}
	if c.IsSet("codec") {
		builder.WithCodec(c.String("codec"))
		custom = true
	}
	if c.IsSet("level") {
		builder.WithLevel(c.Int("level"))
		custom = true
	}
	if c.IsSet("workers") {
		builder.WithWorkers(c.Int("workers"))
	}
	if c.IsSet("stripe-rows") {
		builder.WithStripeRows(c.Int("stripe-rows"))
	}
	if c.Bool("no-shuffle") {
		builder.WithShuffle(false)
	}
	if c.IsSet("initial-capacity") {
		builder.WithInitialCapacity(c.Int("initial-capacity"))
	}
	if c.Bool("verify") {
		builder.WithVerify(true)
	}

	s.transcode = builder.Build()
	if custom {
		s.preset = ""
	}

	if err := fpxencoder.ValidateOptions(ports.EncoderOptions{
		Codec:      s.transcode.Codec,
		Level:      s.transcode.Level,
		StripeRows: s.transcode.StripeRows,
		Shuffle:    s.transcode.Shuffle,
	}); err != nil {
		return s, fmt.Errorf("%w: %v", errConfig, err)
	}
	return s, nil
}

// transcode wires the adapters and runs the pipeline.
func transcode(c *cli.Context, inputPath, outputPath string) error {
	s, err := resolveSettings(c)
	if err != nil {
		return err
	}

	var log ports.Logger
	if s.quiet {
		log = logger.NewNoop()
	} else {
		level, err := ports.ParseLogLevel(s.logLevel)
		if err != nil {
			return fmt.Errorf("%w: %v", errConfig, err)
		}
		log = logger.NewConsole(level)
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var sink ports.DebugSink
	if s.debug {
		sink = filesink.New(s.debugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	readStage := read.New(fs, log)
	encodeStage := encode.New(
		func(workers int) (ports.ParallelRunner, error) {
			return workerpool.New(workers), nil
		},
		func(runner ports.ParallelRunner, opts ports.EncoderOptions) (ports.ImageEncoder, error) {
			return fpxencoder.New(runner, opts)
		},
		fpxencoder.Decode,
		log,
	)

	orch := orchestrator.New(readStage, encodeStage, fs, sink, renderer, log)

	result, err := orch.Run(ctx, s.transcode.ToOrchestratorConfig(inputPath, outputPath))
	if err != nil {
		return err
	}

	if s.summary != "" {
		summary := summarizer.NewBuilder().
			WithInput(result.InputPath, result.Width, result.Height, int64(result.InputBytes)).
			WithSettings(summarizer.Settings{
				Preset:     s.preset,
				Codec:      result.Codec,
				Level:      result.Level,
				StripeRows: result.StripeRows,
				Shuffle:    result.Shuffle,
				Workers:    result.Workers,
			}).
			WithOutput(result.OutputPath, int64(result.OutputBytes), result.Verified).
			WithDrain(result.Steps, result.Growths, result.FinalCapacity).
			WithElapsed(result.Elapsed).
			Build()

		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		if err := summarizer.NewWriter(formatter, fs).Write(s.summary, summary); err != nil {
			log.Warn(l10n.F("Failed to write summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", s.summary))
		}
	}

	return nil
}
