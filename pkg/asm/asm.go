package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gochip8/pkg/cpu"
)

// Fixed encodings that take no operands.
var zeroOperandOps = map[string]uint16{
	"NOP": 0x0000,
	"CLS": 0x00E0,
}

// Opcodes whose only operand is a 12-bit address.
var addressOps = map[string]uint16{
	"JP": 0x1000,
}

// Opcodes taking a register and an 8-bit immediate.
var regAndByteOps = map[string]uint16{
	"LD":  0x6000,
	"ADD": 0x7000,
}

const (
	opLoadIndex uint16 = 0xA000
	opDraw      uint16 = 0xD000
)

type Assembler struct {
	labels map[string]uint16
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		labels: make(map[string]uint16),
	}
}

// Assemble translates source into a program image meant to be loaded at
// cpu.ProgramStart. The returned map links each emitted address to its line.
func Assemble(code string) ([]byte, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) ([]byte, map[uint16]int, error) {
	lines := strings.Split(code, "\n")

	if err := a.pass1(lines); err != nil {
		return nil, nil, err
	}

	return a.pass2(lines)
}

func (a *Assembler) pass1(lines []string) error {
	address := uint32(cpu.ProgramStart)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return err
		}

		for _, lbl := range p.labels {
			if address > cpu.MemorySize-1 {
				return fmt.Errorf("label '%s' on line %d points past addressable memory", lbl, lineNo)
			}
			key := normalizeLabel(lbl)
			if _, exists := a.labels[key]; exists {
				return fmt.Errorf("duplicate label '%s' on line %d", lbl, lineNo)
			}
			a.labels[key] = uint16(address)
		}

		switch p.mnemonic {
		case "":
			continue

		case ".BYTE":
			if len(p.operands) == 0 {
				return fmt.Errorf(".BYTE expects at least one operand on line %d", lineNo)
			}
			address += uint32(len(p.operands))

		case ".ORG":
			target, err := parseOrigin(p.operands[0], lineNo)
			if err != nil {
				return err
			}
			if uint32(target) < address {
				return fmt.Errorf("cannot move origin backward on line %d", lineNo)
			}
			address = uint32(target)

		default:
			length, ok := instructionLength(p.mnemonic)
			if !ok {
				return fmt.Errorf("unknown instruction on line %d: %s", lineNo, p.mnemonic)
			}
			address += uint32(length)
		}

		if address > cpu.MemorySize {
			return fmt.Errorf("program too large near line %d", lineNo)
		}
	}

	return nil
}

func (a *Assembler) pass2(lines []string) ([]byte, map[uint16]int, error) {
	program := make([]byte, 0)
	sourceMap := make(map[uint16]int)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, nil, err
		}

		if p.mnemonic == "" {
			continue
		}

		address := uint16(cpu.ProgramStart + len(program))
		sourceMap[address] = lineNo

		mnemonic := p.mnemonic
		ops := p.operands

		if mnemonic == ".ORG" {
			target, err := parseOrigin(ops[0], lineNo)
			if err != nil {
				return nil, nil, err
			}
			padding := int(target) - int(address)
			if padding > 0 {
				program = append(program, make([]byte, padding)...)
			}
			continue
		}

		if mnemonic == ".BYTE" {
			for _, op := range ops {
				val, err := a.parseValue(op, 0xFF, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val))
			}
			continue
		}

		instr, err := a.encode(mnemonic, ops, lineNo)
		if err != nil {
			return nil, nil, err
		}
		program = append(program, byte(instr>>8), byte(instr&0xFF))
	}

	if len(program) > cpu.MaxProgramSize {
		return nil, nil, fmt.Errorf("program too large: %d bytes > %d bytes", len(program), cpu.MaxProgramSize)
	}

	return program, sourceMap, nil
}

// encode produces the big-endian instruction word for one source line.
func (a *Assembler) encode(mnemonic string, ops []string, lineNo int) (uint16, error) {
	if opcode, ok := zeroOperandOps[mnemonic]; ok {
		if len(ops) != 0 {
			return 0, fmt.Errorf("%s expects 0 operands on line %d", mnemonic, lineNo)
		}
		return opcode, nil
	}

	if opcode, ok := addressOps[mnemonic]; ok {
		if len(ops) != 1 {
			return 0, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, lineNo)
		}
		addr, err := a.parseValue(ops[0], 0xFFF, lineNo)
		if err != nil {
			return 0, err
		}
		return opcode | addr, nil
	}

	if mnemonic == "LD" && len(ops) == 2 && strings.EqualFold(ops[0], "I") {
		addr, err := a.parseValue(ops[1], 0xFFF, lineNo)
		if err != nil {
			return 0, err
		}
		return opLoadIndex | addr, nil
	}

	if opcode, ok := regAndByteOps[mnemonic]; ok {
		if len(ops) != 2 {
			return 0, fmt.Errorf("%s expects 2 operands on line %d", mnemonic, lineNo)
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return 0, err
		}
		imm, err := a.parseValue(ops[1], 0xFF, lineNo)
		if err != nil {
			return 0, err
		}
		return opcode | x<<8 | imm, nil
	}

	if mnemonic == "DRW" {
		if len(ops) != 3 {
			return 0, fmt.Errorf("DRW expects 3 operands on line %d", lineNo)
		}
		x, err := parseRegister(ops[0], lineNo)
		if err != nil {
			return 0, err
		}
		y, err := parseRegister(ops[1], lineNo)
		if err != nil {
			return 0, err
		}
		n, err := a.parseValue(ops[2], 0xF, lineNo)
		if err != nil {
			return 0, err
		}
		return opDraw | x<<8 | y<<4 | n, nil
	}

	return 0, fmt.Errorf("unknown instruction on line %d: %s", lineNo, mnemonic)
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}
	line := strings.TrimSpace(stripComments(raw))

	for {
		colon := strings.Index(line, ":")
		if colon < 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if beforeColon == "" {
			return p, fmt.Errorf("invalid label on line %d", lineNo)
		}

		if strings.ContainsAny(beforeColon, " \t") {
			break
		}

		if !isIdentifier(beforeColon) {
			return p, fmt.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	line = normalizeInstructionText(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p, nil
	}

	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		p.operands = fields[1:]
	}

	if p.mnemonic == ".ORG" && len(p.operands) != 1 {
		return p, fmt.Errorf(".ORG expects exactly one operand on line %d", lineNo)
	}

	return p, nil
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func normalizeInstructionText(line string) string {
	replacer := strings.NewReplacer(",", " ")
	return replacer.Replace(line)
}

// parseRegister accepts V0-VF in either case.
func parseRegister(token string, lineNo int) (uint16, error) {
	if len(token) == 2 && (token[0] == 'V' || token[0] == 'v') {
		if n, err := strconv.ParseUint(token[1:], 16, 8); err == nil {
			return uint16(n), nil
		}
	}
	return 0, fmt.Errorf("invalid register '%s' on line %d", token, lineNo)
}

// parseValue resolves a numeric literal or label and checks it against max.
func (a *Assembler) parseValue(token string, max uint16, lineNo int) (uint16, error) {
	if value, err := strconv.ParseUint(token, 0, 32); err == nil {
		if value > uint64(max) {
			return 0, fmt.Errorf("value out of range on line %d: %s", lineNo, token)
		}
		return uint16(value), nil
	}

	label := normalizeLabel(token)
	if addr, ok := a.labels[label]; ok {
		if addr > max {
			return 0, fmt.Errorf("label '%s' out of range on line %d", token, lineNo)
		}
		return addr, nil
	}

	if isIdentifier(token) {
		return 0, fmt.Errorf("undefined label '%s' on line %d", token, lineNo)
	}

	return 0, fmt.Errorf("invalid value '%s' on line %d", token, lineNo)
}

func parseOrigin(token string, lineNo int) (uint16, error) {
	target, err := strconv.ParseUint(token, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid .ORG value on line %d: %s", lineNo, token)
	}
	if target < cpu.ProgramStart || target > cpu.MemorySize {
		return 0, fmt.Errorf(".ORG out of range on line %d: %s", lineNo, token)
	}
	return uint16(target), nil
}

// instructionLength returns the byte length of an instruction. Every
// instruction is two bytes.
func instructionLength(mnemonic string) (uint16, bool) {
	mnemonic = strings.ToUpper(mnemonic)

	if _, ok := zeroOperandOps[mnemonic]; ok {
		return 2, true
	}
	if _, ok := addressOps[mnemonic]; ok {
		return 2, true
	}
	if _, ok := regAndByteOps[mnemonic]; ok {
		return 2, true
	}
	if mnemonic == "DRW" {
		return 2, true
	}
	return 0, false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func normalizeLabel(label string) string {
	return strings.ToUpper(label)
}
