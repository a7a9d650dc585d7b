package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"collage/layout"
)

const (
	VERSION = "0.2.0"
)

// App holds state shared by all commands.
type App struct {
	logger *log.Logger
}

// Options holds the parameters of one collage run.
type Options struct {
	InputDir     string        // directory with source images
	Output       string        // collage image path
	Manifest     string        // optional layout manifest path (.json, .yaml)
	ConfigFile   string        // optional TOML run configuration
	IsFilesSort  bool          // natural filename order instead of directory order
	Width        int           // canvas width
	Height       int           // canvas height
	Background   string        // "transparent", "#rgb", "#rrggbb" or "r,g,b"
	Strategy     string        // rows or organic
	Rows         int           // 0 = try every row count
	Iterations   int           // trials per row count
	Jitter       float64       // positional jitter as a fraction of item size
	MaxRotation  float64       // degrees, 0 disables rotation
	Protected    float64       // protected core fraction
	MaxOverlap   float64       // overlap ceiling for gap filling
	Style        string        // simple, organic or chaotic
	Prescale     bool          // organic: resize items around the canvas_area/n baseline
	MaxAttempts  int           // organic: samples per item
	Seed         uint64        // 0 = random
	Workers      int           // parallel trials, 0 = one per CPU
	Timeout      time.Duration // layout search deadline, 0 = none
}

func defaultOptions() Options {
	cfg := layout.DefaultConfig()
	return Options{
		InputDir:    ".",
		Output:      "collage.png",
		IsFilesSort: true,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Background:  "#222222",
		Strategy:    cfg.Strategy.String(),
		Rows:        cfg.Rows,
		Iterations:  cfg.Iterations,
		Jitter:      cfg.Jitter,
		MaxRotation: cfg.MaxRotation,
		Protected:   cfg.Protected,
		MaxOverlap:  cfg.MaxOverlap,
		Style:       cfg.Style.String(),
		Prescale:    cfg.Prescale,
		MaxAttempts: cfg.MaxAttempts,
	}
}

// layoutConfig converts the options into an engine configuration.
func (o *Options) layoutConfig(logger *log.Logger) (layout.Config, error) {
	cfg := layout.DefaultConfig()
	strategy, err := layout.ParseStrategy(o.Strategy)
	if err != nil {
		return cfg, err
	}
	style, err := layout.ParseStyle(o.Style)
	if err != nil {
		return cfg, err
	}
	bg, err := parseColor(o.Background)
	if err != nil {
		return cfg, err
	}
	cfg.Width = o.Width
	cfg.Height = o.Height
	cfg.Background = bg
	cfg.Strategy = strategy
	cfg.Rows = o.Rows
	cfg.Iterations = o.Iterations
	cfg.Jitter = o.Jitter
	cfg.MaxRotation = o.MaxRotation
	cfg.Protected = o.Protected
	cfg.MaxOverlap = o.MaxOverlap
	cfg.Style = style
	cfg.Prescale = o.Prescale
	cfg.MaxAttempts = o.MaxAttempts
	cfg.Seed = o.Seed
	cfg.Workers = o.Workers
	cfg.Logger = logger
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func (a *App) rootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "collage",
		Short:        "Collage arranges a folder of images on one canvas",
		Long:         `Collage lays out a folder of images on a fixed-size canvas without a grid, either in jittered rows or scattered organically, and writes the composite image.`,
		Version:      VERSION,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				a.logger.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(a.makeCommand())
	root.AddCommand(a.renderCommand())
	return root
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	app := &App{logger: newLogger(stderr, log.InfoLevel)}
	root := app.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
