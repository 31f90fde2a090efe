// Package config handles application configuration and setup
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// DefaultScale is the pixel scale for screenshots and the desktop window.
const DefaultScale = 10

// Options of the command line front end.
type Options struct {
	Input      string // assembly source to assemble
	Output     string // binary output, derived from Input when empty
	RunBin     string // program image to execute
	Resume     string // snapshot to start from
	Hibernate  string // snapshot written after the run
	Screenshot string // PNG written after the run

	Cycles uint64 // cycles to run, 0 runs until interrupted
	Scale  int

	Run    bool // execute the freshly assembled output
	Dump   bool
	Disasm bool
	Debug  bool
	Quiet  bool
}

// Runs reports whether the options ask for the machine to execute.
func (o Options) Runs() bool {
	return o.Run || o.RunBin != "" || o.Resume != ""
}

// Validate normalises option values and checks their combinations.
func (o *Options) Validate() error {
	if o.Scale < 1 {
		return fmt.Errorf("invalid scale %d: must be at least 1", o.Scale)
	}

	if o.Input == "" && o.RunBin == "" && o.Resume == "" {
		return errors.New("nothing to do: provide -in to assemble, -run-bin to run a binary or -resume to continue a snapshot")
	}

	if o.RunBin != "" && o.Resume != "" {
		return errors.New("use either -run-bin or -resume, not both")
	}

	if o.Run {
		if o.Input == "" {
			return errors.New("-run requires -in, or use -run-bin <file>")
		}
		if o.RunBin != "" || o.Resume != "" {
			return errors.New("use either -run or -run-bin/-resume, not both")
		}
	}

	if !o.Runs() && (o.Hibernate != "" || o.Screenshot != "" || o.Dump) {
		return errors.New("-hibernate, -screenshot and -dump need a running machine")
	}

	if o.Disasm && o.Input == "" && o.RunBin == "" {
		return errors.New("-disasm needs a program from -in or -run-bin")
	}

	if o.Input != "" && o.Output == "" {
		o.Output = DefaultOutputPath(o.Input)
	}
	return nil
}

// DefaultOutputPath swaps the extension of the input for .ch8.
func DefaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".ch8"
	}
	return strings.TrimSuffix(inPath, ext) + ".ch8"
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
