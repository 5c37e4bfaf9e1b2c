// Command salon-devapi serves the fixture salon backend for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/salonhub/salon-admin/config"
	"github.com/salonhub/salon-admin/internal/bootstrap"
	"github.com/salonhub/salon-admin/internal/devapi"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

func main() {
	logger := bootstrap.InitLogger()

	args := os.Args[1:]
	cmdName := "serve"
	if len(args) > 0 {
		cmdName, args = args[0], args[1:]
	}
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	bootstrap.SetDebugLogging(cfg.IsDev)

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, args); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"serve": {
			name:        "serve",
			description: "Serve the fixture backend (default)",
			run:         runServe,
		},
		"accounts": {
			name:        "accounts",
			description: "List the seeded sign-in accounts",
			run:         runAccounts,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: salon-devapi [command] [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(commands()))
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, commands()[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func runServe(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ctx.Config.DevAPI.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv, err := devapi.New(devapi.Options{
		Secret:   []byte(ctx.Config.DevAPI.JWTSecret),
		TokenTTL: ctx.Config.DevAPI.TokenTTL,
		Logger:   ctx.Logger,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	server := bootstrap.StartServer(ctx.Logger, srv, *addr, errCh)
	if err := printAccounts(ctx.Out); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case <-sigCtx.Done():
	case err := <-errCh:
		return err
	}
	return bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
		Context: ctx.Ctx,
		Server:  server,
		Logger:  ctx.Logger,
	})
}

func runAccounts(ctx *commandContext, _ []string) error {
	return printAccounts(ctx.Out)
}

func printAccounts(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ROLE\tEMAIL\tPASSWORD\tNOTE\n"); err != nil {
		return err
	}
	for _, a := range devapi.SeedAccounts {
		if err := writef(tw, "%s\t%s\t%s\t%s\n", a.Role, a.Email, a.Password, a.Note); err != nil {
			return err
		}
	}
	return tw.Flush()
}
