package cpu

import (
	"bytes"
	"strings"
	"testing"
)

func TestMnemonic(t *testing.T) {
	tests := []struct {
		hi, lo byte
		want   string
	}{
		{0x00, 0xE0, "cls"},
		{0x1A, 0xBC, "jp"},
		{0x61, 0x23, "ld"},
		{0x71, 0x23, "add"},
		{0xA1, 0x23, "ld"},
		{0xD1, 0x25, "drw"},
		{0x00, 0xEE, "ret"},
	}
	for _, tc := range tests {
		if got := Mnemonic(tc.hi, tc.lo); !strings.EqualFold(got, tc.want) {
			t.Errorf("Mnemonic(0x%02X%02X) = %q; want %q", tc.hi, tc.lo, got, tc.want)
		}
	}

	if got := Mnemonic(0xE1, 0xFF); got != unknownMnemonic {
		t.Errorf("Mnemonic(0xE1FF) = %q; want %q", got, unknownMnemonic)
	}
}

func TestDumpMemory(t *testing.T) {
	c := newTestCPU(t)
	if err := c.LoadProgram([]byte{0x00, 0xE0, 0xA2, 0x2A}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := c.DumpMemory(&buf); err != nil {
		t.Fatalf("DumpMemory: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != MemorySize/8 {
		t.Fatalf("lines: expected %d, got %d", MemorySize/8, len(lines))
	}
	if want := "0x000 [0x00 0x00 0x00 0x00 0x00 0x00 0x00 0x00] 0x007"; lines[0] != want {
		t.Errorf("line 0: expected %q, got %q", want, lines[0])
	}
	if want := "0x200 [0x00 0xe0 0xa2 0x2a 0x00 0x00 0x00 0x00] 0x207"; lines[0x200/8] != want {
		t.Errorf("line 0x40: expected %q, got %q", want, lines[0x200/8])
	}
	if want := "0xff8 [0x00 0x00 0x00 0x00 0x00 0x00 0x00 0x00] 0xfff"; lines[len(lines)-1] != want {
		t.Errorf("last line: expected %q, got %q", want, lines[len(lines)-1])
	}
}

func TestDisassemble(t *testing.T) {
	program := []byte{
		0x00, 0xE0,
		0x12, 0x00,
		0xF1, 0x33,
		0xFF,
	}

	var buf bytes.Buffer
	if err := Disassemble(&buf, program, ProgramStart); err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines: expected 4, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "0x200  00E0") {
		t.Errorf("line 0: got %q", lines[0])
	}
	if strings.Contains(lines[1], "ignored") {
		t.Errorf("line 1: jump is supported, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "0x204  F133") || !strings.HasSuffix(lines[2], "; ignored") {
		t.Errorf("line 2: got %q", lines[2])
	}
	if lines[3] != "0x206  FF    .BYTE" {
		t.Errorf("line 3: got %q", lines[3])
	}
}
