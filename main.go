package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tinyrange/polydemo/internal/config"
	"github.com/tinyrange/polydemo/internal/demo"
	"github.com/tinyrange/polydemo/internal/graphics"
)

func init() {
	// Cocoa and GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags := config.RegisterFlags(fs)

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	flags.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	gfx, err := graphics.New(cfg.Window())
	if err != nil {
		fatal("failed to initialize window", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = demo.Run(ctx, gfx, cfg)
	stop()
	gfx.Close()
	if err != nil {
		fatal("run", err)
	}
}

// fatal logs through slog, which now owns the log package's output, and exits
// with status 1.
func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
