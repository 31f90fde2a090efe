// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"gochip8/pkg/config"
)

// ParseFlags parses the command line arguments, without the program name,
// into validated options.
func ParseFlags(args []string) (config.Options, error) {
	flags := flag.NewFlagSet("gochip8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := config.Options{}
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &UsageError{flags: flags}
		}
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	if rest := flags.Args(); len(rest) > 0 {
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s, all inputs are passed as flags", rest[0]),
		}
	}

	if err := opts.Validate(); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "usage: gochip8 [options]\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	_, _ = fmt.Fprintln(w)
}

func readOptionFlags(flags *flag.FlagSet, opts *config.Options) {
	flags.StringVar(&opts.Input, "in", "", "input assembly file path")
	flags.StringVar(&opts.Output, "out", "", "output binary file path (default: input with .ch8 extension)")
	flags.BoolVar(&opts.Run, "run", false, "run the assembled output on the virtual machine")
	flags.StringVar(&opts.RunBin, "run-bin", "", "run an existing program image on the virtual machine")
	flags.StringVar(&opts.Resume, "resume", "", "continue from a hibernation snapshot")
	flags.Uint64Var(&opts.Cycles, "cycles", 0, "number of cycles to run, 0 runs until interrupted")
	flags.BoolVar(&opts.Dump, "dump", false, "print a memory dump after the run")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the program")
	flags.StringVar(&opts.Screenshot, "screenshot", "", "write the final display as PNG to this path")
	flags.IntVar(&opts.Scale, "scale", config.DefaultScale, "pixel scale of screenshots")
	flags.StringVar(&opts.Hibernate, "hibernate", "", "write a hibernation snapshot to this path after the run")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging of every executed instruction")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
