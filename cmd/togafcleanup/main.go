package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/htmltree"
	"github.com/togaf-epub/togafcleanup/internal/logging"
	"github.com/togaf-epub/togafcleanup/internal/pipeline"
	"github.com/togaf-epub/togafcleanup/internal/storage"
)

type options struct {
	configPath   string
	logLevel     string
	logFormat    string
	mode         string
	index        string
	skipManifest bool
	skipRewrite  bool
	input        string
	output       string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("togafcleanup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "usage: togafcleanup [flags] <input> <output>")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to config YAML")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	fs.StringVar(&opts.mode, "mode", "", "Override rewriter mode (strip-titles, preserve-titles)")
	fs.StringVar(&opts.index, "index", "", "Build a search index at this path")
	fs.BoolVar(&opts.skipManifest, "skip-manifest", false, "Skip the manifest pass")
	fs.BoolVar(&opts.skipRewrite, "skip-rewrite", false, "Skip the rewrite pass")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return options{}, fmt.Errorf("expected <input> <output>, got %d arguments", fs.NArg())
	}
	opts.input, opts.output = fs.Arg(0), fs.Arg(1)
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	logger := logging.BuildLogger(opts.logLevel, opts.logFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cleanup(ctx, logger, opts); err != nil {
		var serr *htmltree.StructuralError
		if errors.As(err, &serr) {
			logger.Error("structural violation", "error", err)
		} else {
			logger.Error("cleanup failed", "error", err)
		}
		os.Exit(1)
	}
}

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.mode != "" {
		cfg.Mode = opts.mode
	}
	if opts.index != "" {
		cfg.IndexPath = opts.index
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func cleanup(ctx context.Context, logger *slog.Logger, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if info, err := os.Stat(opts.input); err != nil {
		return fmt.Errorf("input: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("input %s is not a directory", opts.input)
	}

	indexer, err := pipeline.OpenIndexer(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting cleanup", "input", opts.input, "output", opts.output, "mode", cfg.Mode)
	runner := &pipeline.Runner{
		Config:       cfg,
		InputDir:     opts.input,
		Storage:      storage.NewFSStorage(opts.output),
		Indexer:      indexer,
		Logger:       logger,
		Progress:     os.Stdout,
		SkipManifest: opts.skipManifest,
		SkipRewrite:  opts.skipRewrite,
	}
	_, err = runner.Run(ctx)
	return err
}
