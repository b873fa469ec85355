package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"citedeck/internal/config"
	"citedeck/internal/host"
	"citedeck/internal/logging"
	"citedeck/internal/style"
	"citedeck/internal/worker"
)

// app carries the per-invocation wiring shared by every command.
type app struct {
	io          *IO
	deps        Deps
	environ     []string
	logger      *zap.Logger
	styleName   style.Name
	store       *config.Store
	allowPrompt bool
}

// Run is the main entry point. Returns exit code.
func Run(_ io.Reader, out, errOut io.Writer, args []string, environ []string, deps Deps) int {
	o := NewIO(out, errOut)

	flags := flag.NewFlagSet("citedeck", flag.ContinueOnError)
	flags.SetOutput(&strings.Builder{}) // discard pflag output

	var (
		styleFlag  = flags.String("style", string(style.Default), "citation style (apa, ieee, chicago, harvard)")
		configFlag = flags.String("config", "", "path to the credential file")
		debugFlag  = flags.Bool("debug", false, "enable debug logging")
		noPrompt   = flags.Bool("no-prompt", false, "never prompt for credentials")
	)

	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(o)

			return 0
		}

		o.ErrPrintln("error:", err)

		return 1
	}

	remaining := flags.Args()
	if len(remaining) == 0 {
		printUsage(o)

		return 0
	}

	if err := style.CheckRules(); err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	styleName, err := style.Parse(*styleFlag)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	logger := logging.Nop()

	if *debugFlag {
		logger, err = logging.New(true)
		if err != nil {
			o.ErrPrintln("error:", err)

			return 1
		}

		defer func() { _ = logger.Sync() }()
	}

	configPath := *configFlag
	if configPath == "" {
		configPath, err = config.DefaultPath(environ)
		if err != nil {
			o.ErrPrintln("error: locate config:", err)

			return 1
		}
	}

	a := &app{
		io:          o,
		deps:        deps,
		environ:     environ,
		logger:      logger,
		styleName:   styleName,
		store:       config.NewStore(configPath),
		allowPrompt: !*noPrompt,
	}

	ctx := context.Background()

	var cmdErr error

	switch cmd := remaining[0]; cmd {
	case "search":
		cmdErr = cmdSearch(ctx, a, remaining[1:])
	case "cite":
		cmdErr = cmdCite(ctx, a, remaining[1:])
	case "bibliography":
		cmdErr = cmdBibliography(ctx, a)
	case "set-anchor":
		cmdErr = cmdSetAnchor(ctx, a)
	case "status":
		cmdErr = cmdStatus(ctx, a)
	case "config":
		cmdErr = cmdConfig(a)
	case "set-config":
		cmdErr = cmdSetConfig(a)
	case "delete-config":
		cmdErr = cmdDeleteConfig(a)
	case "styles":
		cmdErr = cmdStyles(a)
	case "help", "-h", "--help":
		printUsage(o)
	default:
		o.ErrPrintln("error: unknown command:", cmd)
		printUsage(o)

		return 1
	}

	if cmdErr != nil {
		o.ErrPrintln("error:", friendlyError(cmdErr))

		return 1
	}

	return 0
}

// friendlyError rewrites the well-known outcomes into actionable messages.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, worker.ErrNoCursor):
		return "no text cursor: place the cursor where the citation should go and retry"
	case errors.Is(err, host.ErrNoDocument):
		return "no document open"
	case errors.Is(err, config.ErrNoCredentials):
		return "no credentials configured: run 'citedeck set-config' or set " +
			config.EnvAPIKey + ", " + config.EnvLibraryID + " and " + config.EnvLibraryType
	case config.IsCancelled(err):
		return "cancelled"
	default:
		return err.Error()
	}
}

func printUsage(o *IO) {
	o.Println("Usage: citedeck [flags] <command> [args]")
	o.Println()
	o.Println("Commands:")
	o.Println("  search <query>     search the reference library")
	o.Println("  cite <key>         insert an in-text citation at the cursor")
	o.Println("  bibliography       rewrite the bibliography anchor shape")
	o.Println("  set-anchor         mark the selected shape as the bibliography anchor")
	o.Println("  status             show document, anchor and credential state")
	o.Println("  config             show the resolved credentials (key redacted)")
	o.Println("  set-config         prompt for credentials and save them")
	o.Println("  delete-config      remove the saved credential file")
	o.Println("  styles             list supported citation styles")
	o.Println()
	o.Println("Flags:")
	o.Println("  --style <name>     citation style: apa, ieee, chicago, harvard (default apa)")
	o.Println("  --config <path>    credential file path")
	o.Println("  --no-prompt        never prompt for credentials")
	o.Println("  --debug            enable debug logging")
}
