package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.creack.net/kaleido/driver"
)

func main() {
	cfg := driver.DefaultConfig()
	flag.BoolVar(&cfg.Interactive, "i", false, "Interactive mode: compile stdin line by line")
	flag.BoolVar(&cfg.Verbose, "v", false, "Trace tokens, trees and lowering on stderr")
	flag.BoolVar(&cfg.KeepGoing, "k", false, "Keep going after a failed statement")
	flag.BoolVar(&cfg.DumpIR, "dump", true, "Print the module IR at the end of the input")
	flag.StringVar(&cfg.Output, "o", "", "Object file to emit")
	flag.StringVar(&cfg.Triple, "triple", "", "Target triple (default: host)")
	flag.StringVar(&cfg.LLC, "llc", "", "Path to llc (default: from PATH)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	input := os.Stdin
	switch flag.NArg() {
	case 0:
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("Fail: %s.", err)
		}
		defer func() { _ = f.Close() }() // Best effort.
		input = f
		cfg.ModuleName = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := driver.New(cfg, os.Stdout, os.Stderr).Run(ctx, input); err != nil {
		cancel()
		log.Fatalf("Fail: %s.", err)
	}
}
