// Package driver runs the Kaleidoscope pipeline over a whole program or an
// interactive session and writes the result out.
package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/kr/pretty"

	"go.creack.net/kaleido/backend"
	"go.creack.net/kaleido/codegen"
	"go.creack.net/kaleido/lexer"
	"go.creack.net/kaleido/parser"
)

// ErrStatementsFailed is returned by a KeepGoing batch run where some
// statements were rejected.
var ErrStatementsFailed = errors.New("statements failed")

// Config controls a run.
type Config struct {
	Interactive bool   // Read and compile line by line, prompting before each line.
	Verbose     bool   // Trace tokens, trees and lowering on stderr.
	KeepGoing   bool   // Batch only: report a failed statement and continue with the next one.
	DumpIR      bool   // Print the module IR to stdout at the end of the input.
	Output      string // Object file to emit at the end of the input, none when empty.
	Triple      string // Target triple, the host's when empty.
	LLC         string // Path to llc, looked up in PATH when empty.
	Prompt      string
	ModuleName  string
}

// DefaultConfig returns the configuration of a plain batch run.
func DefaultConfig() Config {
	return Config{
		Prompt:     "ready> ",
		ModuleName: "module",
	}
}

// Driver owns the module and the lowering context of one run.
type Driver struct {
	cfg Config
	mod *backend.Module
	cg  *codegen.Context
	log *log.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a driver writing results to stdout and diagnostics to stderr.
func New(cfg Config, stdout, stderr io.Writer) *Driver {
	logOut := io.Discard
	if cfg.Verbose {
		logOut = stderr
	}
	logger := log.New(logOut, "kaleido: ", 0)
	mod := backend.NewModule(cfg.ModuleName)
	return &Driver{
		cfg:    cfg,
		mod:    mod,
		cg:     codegen.NewContext(mod, logger),
		log:    logger,
		stdout: stdout,
		stderr: stderr,
	}
}

// Module returns the module built so far.
func (d *Driver) Module() *backend.Module { return d.mod }

// Context returns the lowering context, i.e. the global function table.
func (d *Driver) Context() *codegen.Context { return d.cg }

// Run compiles input then dumps and emits the module as configured.
func (d *Driver) Run(ctx context.Context, input io.Reader) error {
	var runErr error
	if d.cfg.Interactive {
		runErr = d.runInteractive(input)
	} else {
		runErr = d.runBatch(input)
	}
	if runErr != nil && !errors.Is(runErr, ErrStatementsFailed) {
		return runErr
	}

	if d.cfg.DumpIR {
		if _, err := io.WriteString(d.stdout, d.mod.String()); err != nil {
			return fmt.Errorf("dump ir: %w", err)
		}
	}
	if d.cfg.Output != "" {
		target := backend.Target{Triple: d.cfg.Triple, LLC: d.cfg.LLC}
		if err := target.EmitObject(ctx, d.mod, d.cfg.Output); err != nil {
			return err
		}
		d.log.Printf("Wrote %s.", d.cfg.Output)
	}
	return runErr
}

func (d *Driver) runBatch(input io.Reader) error {
	buf, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	p := parser.New(lexer.New(string(buf)), d.log)
	var total, failed int
	for {
		done, err := d.step(p)
		if done {
			break
		}
		total++
		if err == nil {
			continue
		}
		if !d.cfg.KeepGoing {
			return err
		}
		failed++
		fmt.Fprintf(d.stderr, "kaleido: %s\n", err)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrStatementsFailed, failed, total)
	}
	return nil
}

// runInteractive compiles the input one line at a time. A failed statement
// drops the rest of its line. A blank or comment-only line ends the session.
func (d *Driver) runInteractive(input io.Reader) error {
	p := parser.New(lexer.New(""), d.log)
	scanner := bufio.NewScanner(input)
	for {
		fmt.Fprint(d.stdout, d.cfg.Prompt)
		if !scanner.Scan() {
			break
		}
		p.Reset(scanner.Text())
		if p.AtEOF() {
			break
		}

		for {
			done, err := d.step(p)
			if done {
				break
			}
			if err != nil {
				fmt.Fprintf(d.stderr, "kaleido: %s\n", err)
				break
			}
		}
	}
	fmt.Fprintln(d.stdout)
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// step parses and lowers the next statement. done is set at the end of input.
func (d *Driver) step(p *parser.Parser) (done bool, err error) {
	decl, err := p.Next()
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		p.Skip()
		return false, err
	}
	d.log.Printf("Parsed %# v", pretty.Formatter(decl))

	name, err := d.cg.Lower(decl)
	if err != nil {
		return false, err
	}
	d.log.Printf("Lowered %s.", name)
	return false, nil
}
