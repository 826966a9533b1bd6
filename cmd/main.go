// Package main is the relmap command line tool: it loads a declarative
// adapter file, runs the configuration load sequence, and reports backend
// status.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/relmap/relmap"
	"github.com/relmap/relmap/internal/logging"
)

// loadEnvFiles loads .env from standard locations
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	// Try loading from ~/.config/relmap/.env first
	configEnv := filepath.Join(homeDir, ".config", "relmap", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Also load local .env (can override)
	_ = godotenv.Load()
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "check":
			runCheck(os.Args[2:])
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}
	printHelp()
}

func printHelp() {
	fmt.Print(`relmap - adapter configuration tool

Usage:
  relmap check [flags]   load the adapter file and ping every backend

Flags:
  --config path          adapter file (default: relmap.yaml)
  --log-level level      zerolog level (default: info)
  --log-format format    "json" or "console" (default: console on a TTY)
`)
}

// runCheck loads the adapter file, builds every backend, and pings them.
func runCheck(args []string) {
	loadEnvFiles()

	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "relmap.yaml", "path to adapter file")
	logLevel := fs.String("log-level", "info", "log level")
	logFormat := fs.String("log-format", "", "log format: json or console")
	_ = fs.Parse(args) // ExitOnError handles errors

	format := *logFormat
	if format == "" {
		format = "json"
		if term.IsTerminal(int(os.Stdout.Fd())) {
			format = "console"
		}
	}
	logging.Global(logging.Config{Level: *logLevel, Format: format})

	cfg := relmap.New()
	if err := cfg.LoadFile(*configPath); err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("failed to load adapter file")
	}

	// No collections to declare here; an empty mapping still drives the
	// build so every backend is constructed and verified.
	if err := cfg.Mapping(func(d *relmap.Definition) {}); err != nil {
		log.Fatal().Err(err).Msg("failed to create mapping")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cfg.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}

	adapters := cfg.Adapters()
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a := adapters[name]
		event := log.Info().Str("adapter", name).Str("kind", a.Kind())
		if def := cfg.DefaultAdapter(); def != nil && def.Name() == name {
			event = event.Bool("default", true)
		}
		if err := a.Ping(ctx); err != nil {
			event.Err(err).Msg("backend unreachable")
			continue
		}
		event.Msg("backend ok")
	}

	cfg.Unload()
}
