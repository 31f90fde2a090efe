//go:build !windows

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/asm"
	"gochip8/pkg/config"
	"gochip8/pkg/console"
	"gochip8/pkg/cpu"
)

func main() {
	ctx := app.Context()

	flags := flag.NewFlagSet("console", flag.ExitOnError)
	debug := flags.Bool("debug", false, "enable debug logging of every executed instruction")
	cycles := flags.Uint64("cycles", 0, "number of cycles to run, 0 runs until interrupted")
	_ = flags.Parse(os.Args[1:])

	// Info output would scroll the rendered display away.
	logger := config.CreateLogger(*debug, !*debug)
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: console [-debug] [-cycles n] <rom>")
		os.Exit(2)
	}

	image, err := asm.LoadImage(flags.Arg(0))
	if err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}
	vm := cpu.NewCPU(logger)
	if err := vm.LoadProgram(image); err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}

	if err := run(ctx, vm, *cycles); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Running program failed", log.Err(err))
	}
}

func run(ctx context.Context, vm *cpu.CPU, cycles uint64) error {
	var term console.Terminal
	if err := term.Initialise(os.Stdin, os.Stdout); err != nil {
		return err
	}
	if err := term.CBreakMode(); err != nil {
		return fmt.Errorf("entering cbreak mode: %w", err)
	}
	defer term.CleanUp()

	var keys console.KeyReader
	go func() { _ = keys.Run(ctx, os.Stdin) }()

	_ = console.Clear(os.Stdout)
	err := cpu.Drive(ctx, vm, cycles, keys.Poll, func(d cpu.Display) {
		_ = console.Render(os.Stdout, d)
	})
	term.Print("cycles %d  PC 0x%03X  I 0x%03X\r\n", vm.Cycles, vm.PC, vm.I)
	return err
}
