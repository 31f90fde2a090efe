package cpu

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

const unknownMnemonic = "???"

// Mnemonic returns the conventional CHIP-8 name of the instruction encoded
// by hi and lo, or "???" when the opcode table has no matching entry.
func Mnemonic(hi, lo byte) string {
	w := uint16(hi)<<8 | uint16(lo)
	firstNibble := (w & 0xF000) >> 12
	opcodes := chip8.Opcodes[int(firstNibble)]
	for _, op := range opcodes {
		if op.Info.Mask&w == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return unknownMnemonic
}

// DumpMemory writes the address space in rows of eight bytes, each row
// labelled with its first and last address.
func (c *CPU) DumpMemory(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for addr := 0; addr < MemorySize; addr += 8 {
		row := c.Memory[addr : addr+8]
		_, err := fmt.Fprintf(bw, "0x%03x [0x%02x 0x%02x 0x%02x 0x%02x 0x%02x 0x%02x 0x%02x 0x%02x] 0x%03x\n",
			addr, row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7], addr+7)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Disassemble writes a listing of program as it would be laid out from base,
// one line per two-byte word. A trailing odd byte is listed as data.
func Disassemble(w io.Writer, program []byte, base uint16) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < len(program); i += 2 {
		addr := (int(base) + i) % MemorySize
		if i+1 >= len(program) {
			if _, err := fmt.Fprintf(bw, "0x%03X  %02X    .BYTE\n", addr, program[i]); err != nil {
				return err
			}
			break
		}

		hi, lo := program[i], program[i+1]
		ins := Decode(hi, lo)
		support := ""
		if ins.Kind() == KindUnsupported {
			support = "  ; ignored"
		}
		if _, err := fmt.Fprintf(bw, "0x%03X  %04X  %-5s%s\n", addr, ins.Word(), Mnemonic(hi, lo), support); err != nil {
			return err
		}
	}
	return bw.Flush()
}
