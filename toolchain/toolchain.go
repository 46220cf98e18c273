// Package toolchain drives the external compiler that turns a scaffold's
// generated crates into wasm binaries, classifying its diagnostics as it
// streams them (spec §2 item 6, §7 "Toolchain errors").
package toolchain

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level classifies one line of compiler diagnostic output.
type Level uint8

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Diagnostic is one classified line of compiler stderr output.
type Diagnostic struct {
	Level Level
	Text  string
}

// classify assigns a Level to one line of stderr by its leading token,
// matching rustc/cargo's own diagnostic line convention.
func classify(line string) Level {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "error"):
		return LevelError
	case strings.HasPrefix(trimmed, "warning"):
		return LevelWarn
	default:
		return LevelInfo
	}
}

// BuildError wraps a non-zero toolchain exit, carrying the classified
// diagnostics alongside the underlying *exec.ExitError.
type BuildError struct {
	Packages    []string
	Diagnostics []Diagnostic
	Err         error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("toolchain: build of %v failed: %v", e.Packages, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Driver invokes the external compiler from a fixed cargo directory.
type Driver struct {
	cargoDir string
	binary   string
	log      *logrus.Entry
}

// New returns a Driver that invokes binary (e.g. "cargo") from cargoDir.
func New(cargoDir, binary string, log *logrus.Entry) *Driver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Driver{cargoDir: cargoDir, binary: binary, log: log.WithField("component", "toolchain")}
}

// Build invokes the toolchain to compile packages, streaming stderr
// line-by-line and classifying it into Diagnostics. A non-zero exit returns
// a *BuildError with the diagnostics collected so far.
func (d *Driver) Build(ctx context.Context, packages []string) ([]Diagnostic, error) {
	args := append([]string{"build", "--release"}, packages...)
	cmd := exec.CommandContext(ctx, d.binary, args...)
	cmd.Dir = d.cargoDir

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("toolchain: open stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("toolchain: start %s: %w", d.binary, err)
	}

	var diags []Diagnostic
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		lvl := classify(line)
		diags = append(diags, Diagnostic{Level: lvl, Text: line})
		switch lvl {
		case LevelError:
			d.log.Errorf("toolchain: %s", line)
		case LevelWarn:
			d.log.Warnf("toolchain: %s", line)
		default:
			d.log.Debugf("toolchain: %s", line)
		}
	}

	waitErr := cmd.Wait()
	if waitErr != nil {
		return diags, &BuildError{Packages: packages, Diagnostics: diags, Err: waitErr}
	}
	return diags, nil
}
