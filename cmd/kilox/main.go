package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xyproto/kilox"
)

func main() {
	cfg := kilox.DefaultConfig()
	flag.IntVar(&cfg.TabStop, "tabstop", cfg.TabStop, "display width of a tab")
	flag.IntVar(&cfg.QuitTimes, "quit-times", cfg.QuitTimes, "extra Ctrl-Q presses needed to discard unsaved changes")
	flag.DurationVar(&cfg.StatusTimeout, "status-timeout", cfg.StatusTimeout, "how long status messages stay visible")
	flag.BoolVar(&cfg.AutoIndent, "autoindent", cfg.AutoIndent, "keep indentation when splitting a line")
	flag.BoolVar(&cfg.JoinLines, "join", cfg.JoinLines, "backspace at the start of a line joins it with the previous one")
	flag.BoolVar(&cfg.Highlight, "highlight", cfg.Highlight, "enable syntax highlighting")
	flag.StringVar(&cfg.Style, "style", cfg.Style, "chroma style for syntax highlighting")
	logPath := flag.String("log", os.Getenv("KILOX_LOG"), "append diagnostics to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kilox [flags] [filename]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(io.Discard, "", 0)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %s\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(f, "kilox ", log.LstdFlags)
	}

	if err := run(cfg, logger, flag.Arg(0)); err != nil {
		logger.Printf("exit: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(cfg kilox.Config, logger *log.Logger, filename string) error {
	s, err := kilox.OpenSession(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	// Restore the terminal on SIGTERM, SIGINT and SIGHUP
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		s.Close()
		logger.Printf("terminated by %s", sig)
		os.Exit(1)
	}()

	e, err := kilox.New(cfg, s)
	if err != nil {
		return err
	}
	e.SetLogger(logger)
	if filename != "" {
		e.Open(filename)
	}
	return e.Run()
}
