package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterh/liner"

	"github.com/ostnam/treelox/pkg/config"
	"github.com/ostnam/treelox/pkg/lox"
)

// Exit codes, following sysexits.h.
const (
	exitUsage    = 64
	exitDataErr  = 65
	exitNoInput  = 66
	exitSoftware = 70
)

// Run the file at the given path as a lox program.
func runFile(path string, opts *lox.Options) int {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "treelox: %v\n", err)
		return exitNoInput
	}
	session := lox.NewSession(opts)
	switch session.Run(string(content)) {
	case lox.OutcomeSyntaxError:
		return exitDataErr
	case lox.OutcomeRuntimeError:
		return exitSoftware
	}
	return 0
}

// Runs the REPL. Errors are reported and the session goes on; bindings
// persist from one line to the next.
func runRepl(cfg config.Config, opts *lox.Options, logger *slog.Logger) int {
	if cfg.Repl.Banner {
		fmt.Println("treelox REPL. Ctrl+C cancels input, Ctrl+D exits.")
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.Repl.HistoryFile != "" {
		if f, err := os.Open(cfg.Repl.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(cfg.Repl.HistoryFile)
			if err != nil {
				logger.Warn("cannot save history", slog.String("path", cfg.Repl.HistoryFile), slog.Any("err", err))
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	session := lox.NewSession(opts)
	for {
		line, err := ln.Prompt(cfg.Repl.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			// on ctrl-D, err is EOF
			if !errors.Is(err, io.EOF) {
				logger.Error("reading input", slog.Any("err", err))
			}
			fmt.Println()
			return 0
		}
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		outcome := session.Run(line)
		logger.Debug("line evaluated", slog.String("outcome", outcome.String()))
		session.Reset()
	}
}

// Resolves the dump switches: flags set on the command line win over the
// config file's debug section.
func debugDumps(fs *flag.FlagSet, debug config.Debug) (dumpTokens, dumpAST bool) {
	dumpTokens, dumpAST = debug.Tokens, debug.AST
	fs.Visit(func(f *flag.Flag) {
		on := f.Value.String() == "true"
		switch f.Name {
		case "tokens":
			dumpTokens = on
		case "ast":
			dumpAST = on
		}
	})
	return dumpTokens, dumpAST
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: treelox [-config FILE] [-tokens] [-ast] [SOURCE_FILE_PATH]")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	configPath := flag.String("config", "", "YAML config file (default $"+config.EnvVar+" or ~/"+config.DefaultFile+")")
	flag.Bool("tokens", false, "print the scanned tokens before parsing")
	flag.Bool("ast", false, "print the parsed tree before execution")
	flag.Parse()

	args := flag.Args()
	if len(args) > 1 {
		usage()
		os.Exit(exitUsage)
	}

	path := *configPath
	if path == "" {
		path = config.Locate()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "treelox: %v\n", err)
		os.Exit(exitUsage)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	opts := &lox.Options{
		Out:        os.Stdout,
		Reporter:   &lox.WriterReporter{W: os.Stderr},
		Logger:     logger,
	}
	opts.DumpTokens, opts.DumpAST = debugDumps(flag.CommandLine, cfg.Debug)

	if len(args) == 1 {
		os.Exit(runFile(args[0], opts))
	}
	os.Exit(runRepl(cfg, opts, logger))
}
