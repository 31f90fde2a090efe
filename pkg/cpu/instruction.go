package cpu

// Instruction is a two-byte opcode split into four 4-bit fields.
type Instruction struct {
	N0, N1, N2, N3 uint8
}

// Decode splits the two fetched bytes into their nibbles. Every pair of
// bytes decodes; classification happens in Kind.
func Decode(hi, lo byte) Instruction {
	return Instruction{
		N0: hi >> 4,
		N1: hi & 0x0F,
		N2: lo >> 4,
		N3: lo & 0x0F,
	}
}

func (ins Instruction) Bytes() (hi, lo byte) {
	return ins.N0<<4 | ins.N1, ins.N2<<4 | ins.N3
}

func (ins Instruction) Word() uint16 {
	hi, lo := ins.Bytes()
	return uint16(hi)<<8 | uint16(lo)
}

func (ins Instruction) X() uint8 { return ins.N1 }
func (ins Instruction) Y() uint8 { return ins.N2 }
func (ins Instruction) N() uint8 { return ins.N3 }

// NN is the low byte, used as an 8-bit immediate.
func (ins Instruction) NN() uint8 { return ins.N2<<4 | ins.N3 }

// NNN is the 12-bit address formed by the three low fields.
func (ins Instruction) NNN() uint16 {
	return uint16(ins.N1)<<8 | uint16(ins.N2)<<4 | uint16(ins.N3)
}

// Kind identifies which supported operation an instruction selects.
type Kind uint8

const (
	KindUnsupported Kind = iota
	KindNull
	KindClear
	KindJump
	KindLoadImmediate
	KindAddImmediate
	KindLoadIndex
	KindDraw
)

var kindNames = [...]string{
	KindUnsupported:   "unsupported",
	KindNull:          "null",
	KindClear:         "clear",
	KindJump:          "jump",
	KindLoadImmediate: "load-immediate",
	KindAddImmediate:  "add-immediate",
	KindLoadIndex:     "load-index",
	KindDraw:          "draw",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnsupported]
}

// Kind matches the field pattern against the supported opcodes.
func (ins Instruction) Kind() Kind {
	switch ins.N0 {
	case 0x0:
		switch {
		case ins.N1 == 0 && ins.N2 == 0 && ins.N3 == 0:
			return KindNull
		case ins.N1 == 0 && ins.N2 == 0xE && ins.N3 == 0:
			return KindClear
		}
	case 0x1:
		return KindJump
	case 0x6:
		return KindLoadImmediate
	case 0x7:
		return KindAddImmediate
	case 0xA:
		return KindLoadIndex
	case 0xD:
		return KindDraw
	}
	return KindUnsupported
}
