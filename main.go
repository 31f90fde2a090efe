// Package main implements the command line front end: assembling programs
// and running them headless.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/asm"
	"gochip8/pkg/cli"
	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/utils"
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			if msg := usageErr.Error(); msg != "" {
				logger.Error(msg)
			}
			usageErr.ShowUsage(os.Stderr)
			os.Exit(2)
		}
		logger.Fatal(err.Error())
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err := run(ctx, logger, opts, os.Stdout); err != nil {
		logger.Fatal("Run failed", log.Err(err))
	}
}

// run executes every action requested by opts, writing listings and dumps
// to out.
func run(ctx context.Context, logger *log.Logger, opts config.Options, out io.Writer) error {
	var image []byte

	if opts.Input != "" {
		source, err := utils.ReadProgram(opts.Input)
		if err != nil {
			return err
		}
		code, _, err := asm.Assemble(string(source))
		if err != nil {
			return fmt.Errorf("assembly failed: %w", err)
		}
		if err := os.WriteFile(opts.Output, code, 0o644); err != nil {
			return fmt.Errorf("writing binary file '%s': %w", opts.Output, err)
		}
		logger.Info("Assembled program", log.Int("bytes", len(code)), log.String("output", opts.Output))
		image = code
	}

	if opts.RunBin != "" {
		data, err := utils.ReadProgram(opts.RunBin)
		if err != nil {
			return err
		}
		image = data
	}

	if opts.Disasm {
		if err := cpu.Disassemble(out, image, cpu.ProgramStart); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}

	if !opts.Runs() {
		return nil
	}

	vm, err := newMachine(logger, opts, image)
	if err != nil {
		return err
	}

	err = cpu.Drive(ctx, vm, opts.Cycles, nil, nil)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("Run interrupted")
	case err != nil:
		return err
	}
	logger.Info("Run complete",
		log.Int("cycles", int(vm.Cycles)),
		log.Hex("pc", vm.PC),
		log.Hex("i", vm.I),
		log.Int("lit", vm.Display.Lit()))

	return writeResults(logger, opts, vm, out)
}

// newMachine either resumes a snapshot or loads image into a fresh machine.
func newMachine(logger *log.Logger, opts config.Options, image []byte) (*cpu.CPU, error) {
	if opts.Resume != "" {
		vm, err := cpu.ResumeFromFile(opts.Resume, logger)
		if err != nil {
			return nil, fmt.Errorf("resuming '%s': %w", opts.Resume, err)
		}
		logger.Info("Resumed snapshot", log.String("file", opts.Resume), log.Int("cycles", int(vm.Cycles)))
		return vm, nil
	}

	vm := cpu.NewCPU(logger)
	if err := vm.LoadProgram(image); err != nil {
		return nil, err
	}
	return vm, nil
}

func writeResults(logger *log.Logger, opts config.Options, vm *cpu.CPU, out io.Writer) error {
	if opts.Dump {
		if err := vm.DumpMemory(out); err != nil {
			return fmt.Errorf("writing memory dump: %w", err)
		}
	}

	if opts.Screenshot != "" {
		if err := vm.SaveScreenshot(opts.Screenshot, opts.Scale); err != nil {
			return fmt.Errorf("saving screenshot: %w", err)
		}
		logger.Info("Saved screenshot", log.String("file", opts.Screenshot))
	}

	if opts.Hibernate != "" {
		if err := vm.HibernateToFile(opts.Hibernate); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		logger.Info("Saved snapshot", log.String("file", opts.Hibernate))
	}
	return nil
}
