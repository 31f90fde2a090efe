package cpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	MemorySize     = 4096
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart

	RegisterCount = 16
	// FlagRegister is VF, written by opcodes that detect a condition.
	FlagRegister = 0xF

	// Cadence is the fixed period between two Step calls.
	Cadence = 50 * time.Millisecond
)

var (
	ErrProgramTooLarge = errors.New("program too large for memory")
	ErrProgramLoaded   = errors.New("program already loaded")
)

type CPU struct {
	Memory [MemorySize]byte

	V [RegisterCount]uint8
	I uint16

	PC uint16
	// SP, DelayTimer and SoundTimer are part of the machine state but no
	// supported opcode reads or writes them.
	SP         uint8
	DelayTimer uint8
	SoundTimer uint8

	Display Display

	// Keys holds the logical key state passed to the latest Step.
	Keys Keys

	Cycles uint64

	loaded bool
	logger *log.Logger
}

// NewCPU creates a machine with zeroed memory and registers, a cleared
// display and the program counter at the program entry point. A nil logger
// selects the default configuration.
func NewCPU(logger *log.Logger) *CPU {
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}
	return &CPU{
		PC:     ProgramStart,
		logger: logger,
	}
}

// LoadProgram copies a program image into memory starting at ProgramStart.
// An oversized image is rejected before any byte is written.
func (c *CPU) LoadProgram(program []byte) error {
	if c.loaded {
		return ErrProgramLoaded
	}
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes > %d bytes", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	copy(c.Memory[ProgramStart:], program)
	c.loaded = true

	c.logger.Info("Program loaded",
		log.Int("size", len(program)),
		log.Hex("start", uint16(ProgramStart)))
	return nil
}

// Fetch reads the byte at PC and advances PC, wrapping to 0 at the end of
// the address space.
func (c *CPU) Fetch() byte {
	b := c.Memory[c.PC]
	c.PC++
	if c.PC >= MemorySize {
		c.PC = 0
	}
	return b
}

// Execute applies a decoded instruction. Unsupported instructions leave the
// machine untouched.
func (c *CPU) Execute(ins Instruction) {
	switch ins.Kind() {
	case KindNull:
		c.logger.Debug("Null operation", log.Hex("pc", c.PC))

	case KindClear:
		c.Display.Clear()

	case KindJump:
		c.PC = ins.NNN()

	case KindLoadImmediate:
		c.V[ins.X()] = ins.NN()

	case KindAddImmediate:
		c.V[ins.X()] += ins.NN()

	case KindLoadIndex:
		c.I = ins.NNN()

	case KindDraw:
		c.drawSprite(c.V[ins.X()], c.V[ins.Y()], ins.N())

	default:
		c.logger.Debug("Unsupported instruction ignored",
			log.Hex("opcode", ins.Word()),
			log.String("mnemonic", Mnemonic(ins.Bytes())))
	}
}

// drawSprite composites n sprite rows read from I onwards at (vx, vy) and
// sets VF when a lit pixel is erased.
func (c *CPU) drawSprite(vx, vy, n uint8) {
	c.V[FlagRegister] = 0

	for row := uint16(0); row < uint16(n); row++ {
		sprite := c.Memory[(c.I+row)%MemorySize]
		if c.Display.DrawRow(int(vx), int(vy)+int(row), sprite) {
			c.V[FlagRegister] = 1
		}
	}
}

// Step runs one fetch-decode-execute cycle and returns a snapshot of the
// display. It always returns a frame, even when the display did not change.
func (c *CPU) Step(keys Keys) Display {
	c.Keys = keys

	pc := c.PC
	hi := c.Fetch()
	lo := c.Fetch()
	ins := Decode(hi, lo)

	c.logger.Debug("Execute",
		log.Hex("pc", pc),
		log.Hex("opcode", ins.Word()),
		log.Stringer("op", ins.Kind()))

	c.Execute(ins)
	c.Cycles++

	return c.Display
}

// Speed returns the fixed period at which Step should be called.
func (c *CPU) Speed() time.Duration {
	return Cadence
}

// BuzzerActive reports whether the sound timer is driving the buzzer. No
// supported opcode sets the sound timer, so this is always false.
func (c *CPU) BuzzerActive() bool {
	return false
}
