package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
)

type serveCmd struct {
	addr    string
	presets string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve valuations over HTTP" }
func (*serveCmd) Usage() string {
	return `dcf serve [-addr <host:port>] [-presets <file>]

  Starts an HTTP server computing valuations:

    GET  /healthz
    GET  /api/presets
    POST /api/valuation          form (json, yaml or hjson) -> valuation json
    POST /api/report             ?format=md|html
    POST /api/charts/<name>      fcf, fcf_terminal, margin or gauge, ?format=svg|png

  POST endpoints accept ?preset=<name> to start from a preset.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	addr := os.Getenv(EnvAddr)
	if addr == "" {
		addr = ":8080"
	}
	f.StringVar(&c.addr, "addr", addr, "address to listen on (env "+EnvAddr+")")
	f.StringVar(&c.presets, "presets", os.Getenv(EnvPresets), "yaml file of additional presets (env "+EnvPresets+")")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	presets, err := loadPresets(c.presets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	app := NewServer(presets, currency())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Listen(c.addr) }()
	fmt.Fprintf(os.Stderr, "dcf listening on %s\n", c.addr)

	select {
	case err := <-errc:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: forced shutdown: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
