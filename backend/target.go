package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsupportedHost is returned when no LLVM triple is known for a GOOS/GOARCH pair.
var ErrUnsupportedHost = errors.New("unsupported host")

// TargetError is fatal: once the target can't be resolved or the object
// can't be written there is no output to produce.
type TargetError struct {
	Triple string
	Err    error
}

func (e *TargetError) Error() string {
	if e.Triple == "" {
		return fmt.Sprintf("target: %s", e.Err)
	}
	return fmt.Sprintf("target %s: %s", e.Triple, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

var archTriples = map[string]string{
	"amd64":   "x86_64",
	"386":     "i686",
	"arm64":   "aarch64",
	"arm":     "armv7",
	"riscv64": "riscv64",
	"ppc64le": "powerpc64le",
	"s390x":   "s390x",
	"wasm":    "wasm32",
}

var osTriples = map[string]string{
	"linux":   "unknown-linux-gnu",
	"darwin":  "apple-darwin",
	"windows": "pc-windows-msvc",
	"freebsd": "unknown-freebsd",
	"netbsd":  "unknown-netbsd",
	"openbsd": "unknown-openbsd",
	"wasip1":  "wasi",
}

// Triple returns the LLVM target triple of a GOOS/GOARCH pair.
func Triple(goos, goarch string) (string, error) {
	arch, ok := archTriples[goarch]
	if !ok {
		return "", &TargetError{Err: fmt.Errorf("%w: architecture %q", ErrUnsupportedHost, goarch)}
	}
	sys, ok := osTriples[goos]
	if !ok {
		return "", &TargetError{Err: fmt.Errorf("%w: os %q", ErrUnsupportedHost, goos)}
	}
	return arch + "-" + sys, nil
}

// HostTriple returns the LLVM target triple of the running host.
func HostTriple() (string, error) {
	return Triple(runtime.GOOS, runtime.GOARCH)
}

// Target describes where and how a module is turned into object code.
type Target struct {
	Triple string // Empty means the host triple.
	LLC    string // Path to llc, looked up in PATH when empty.
}

// Resolve fills in the host triple and the llc path.
func (t Target) Resolve() (Target, error) {
	if t.Triple == "" {
		triple, err := HostTriple()
		if err != nil {
			return t, err
		}
		t.Triple = triple
	}
	llc := t.LLC
	if llc == "" {
		llc = "llc"
	}
	path, err := exec.LookPath(llc)
	if err != nil {
		return t, &TargetError{Triple: t.Triple, Err: fmt.Errorf("lookup llc: %w", err)}
	}
	t.LLC = path
	return t, nil
}

// toolCmd wraps an LLVM tool invocation, keeping its stderr for diagnostics.
type toolCmd struct {
	*exec.Cmd
	stderr bytes.Buffer
}

func newToolCmd(ctx context.Context, path string, stdin string, args ...string) *toolCmd {
	c := &toolCmd{Cmd: exec.CommandContext(ctx, path, args...)}
	c.Stdin = strings.NewReader(stdin)
	c.Stderr = &c.stderr
	return c
}

func (c *toolCmd) run() error {
	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(c.stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", c.Path, err, msg)
		}
		return fmt.Errorf("%s: %w", c.Path, err)
	}
	return nil
}

// EmitObject verifies m, stamps it with the target triple and compiles it
// to an object file at path.
func (t Target) EmitObject(ctx context.Context, m *Module, path string) error {
	t, err := t.Resolve()
	if err != nil {
		return err
	}
	if err := m.Verify(); err != nil {
		return &TargetError{Triple: t.Triple, Err: err}
	}
	m.SetTargetTriple(t.Triple)

	cmd := newToolCmd(ctx, t.LLC, m.String(), "-filetype=obj", "-mtriple="+t.Triple, "-o", path, "-")
	if err := cmd.run(); err != nil {
		return &TargetError{Triple: t.Triple, Err: fmt.Errorf("emit %q: %w", path, err)}
	}
	return nil
}
