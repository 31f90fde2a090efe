package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
)

const boxProgram = `
; draws a 4x5 box at (10, 5) and spins
		LD I, glyph
		LD V0, 10
		LD V1, 5
		DRW V0, V1, 5
halt:	JP halt
glyph:	.BYTE 0xF0, 0x90, 0x90, 0x90, 0xF0
`

func writeSource(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "box.asm")
	assert.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestAssembleAndRun(t *testing.T) {
	dir := t.TempDir()
	opts := config.Options{
		Input:      writeSource(t, dir, boxProgram),
		Run:        true,
		Cycles:     6,
		Dump:       true,
		Disasm:     true,
		Screenshot: filepath.Join(dir, "box.png"),
		Hibernate:  filepath.Join(dir, "box.zip"),
		Scale:      2,
	}
	assert.NoError(t, opts.Validate())

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), opts, &out))

	image, err := os.ReadFile(filepath.Join(dir, "box.ch8"))
	assert.NoError(t, err)
	assert.Len(t, image, 15)
	assert.Equal(t, []byte{0xA2, 0x0A}, image[:2])

	listing := strings.ToUpper(out.String())
	assert.Contains(t, listing, "0X206  D015  DRW")
	assert.Contains(t, listing, "0X208  1208  JP")
	assert.Contains(t, out.String(), "0x200 [0xa2 0x0a 0x60 0x0a 0x61 0x05 0xd0 0x15] 0x207")

	_, err = os.Stat(opts.Screenshot)
	assert.NoError(t, err)

	vm, err := cpu.ResumeFromFile(opts.Hibernate, log.NewTestLogger(t))
	assert.NoError(t, err)
	assert.Equal(t, uint64(6), vm.Cycles)
	assert.Equal(t, uint16(0x208), vm.PC)
	assert.Equal(t, uint16(0x20A), vm.I)
	assert.Equal(t, 14, vm.Display.Lit())
	assert.Equal(t, cpu.White, vm.Display[5][10])
	assert.Equal(t, cpu.Black, vm.Display[6][11])
	assert.Equal(t, uint8(0), vm.V[cpu.FlagRegister])
}

func TestResumeContinuesSnapshot(t *testing.T) {
	dir := t.TempDir()
	first := config.Options{
		Input:     writeSource(t, dir, boxProgram),
		Run:       true,
		Cycles:    4,
		Hibernate: filepath.Join(dir, "a.zip"),
		Scale:     1,
	}
	assert.NoError(t, first.Validate())
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), first, &bytes.Buffer{}))

	second := config.Options{
		Resume:    first.Hibernate,
		Cycles:    2,
		Hibernate: filepath.Join(dir, "b.zip"),
		Scale:     1,
	}
	assert.NoError(t, second.Validate())
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), second, &bytes.Buffer{}))

	vm, err := cpu.ResumeFromFile(second.Hibernate, log.NewTestLogger(t))
	assert.NoError(t, err)
	assert.Equal(t, uint64(6), vm.Cycles)
	assert.Equal(t, uint16(0x208), vm.PC)
	assert.Equal(t, 14, vm.Display.Lit())
}

func TestRunBinTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.ch8")
	assert.NoError(t, os.WriteFile(path, make([]byte, cpu.MaxProgramSize+1), 0o644))

	opts := config.Options{RunBin: path, Cycles: 1, Scale: 1}
	assert.NoError(t, opts.Validate())
	err := run(context.Background(), log.NewTestLogger(t), opts, &bytes.Buffer{})
	assert.True(t, errors.Is(err, cpu.ErrProgramTooLarge))
}

func TestRunInterrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spin.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x12, 0x00}, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := config.Options{RunBin: path, Scale: 1}
	assert.NoError(t, opts.Validate())
	assert.NoError(t, run(ctx, log.NewTestLogger(t), opts, &bytes.Buffer{}))
}

func TestAssemblyError(t *testing.T) {
	dir := t.TempDir()
	opts := config.Options{Input: writeSource(t, dir, "CLS\nCALL 0x300\n"), Scale: 1}
	assert.NoError(t, opts.Validate())

	err := run(context.Background(), log.NewTestLogger(t), opts, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown instruction on line 2")
	_, statErr := os.Stat(opts.Output)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}
