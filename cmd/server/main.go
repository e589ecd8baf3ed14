package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/togaf-epub/togafcleanup/internal/config"
	"github.com/togaf-epub/togafcleanup/internal/logging"
	"github.com/togaf-epub/togafcleanup/internal/search"
	"github.com/togaf-epub/togafcleanup/internal/web"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config YAML")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "Log format (text, json)")
	root := flag.String("root", "", "Output tree to serve")
	index := flag.String("index", "", "Search index path (overrides config)")
	addr := flag.String("addr", ":8080", "HTTP bind address")
	flag.Parse()

	logger := logging.BuildLogger(*logLevel, *logFormat)

	if *root == "" {
		logger.Error("missing -root")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if *index != "" {
		cfg.IndexPath = *index
	}

	var searcher web.Searcher
	if cfg.IndexPath != "" {
		s, err := search.NewSQLiteSearcher(cfg.IndexPath)
		if err != nil {
			logger.Warn("search index unavailable", "error", err)
		} else {
			defer func() { _ = s.Close() }()
			searcher = s
		}
	}

	server := web.NewServer(*root, cfg, searcher, logger)
	if err := server.ListenAndServe(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
