package cpu

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// humanReadableState is the JSON-serializable snapshot of register state.
type humanReadableState struct {
	V          [RegisterCount]uint8 `json:"v"`
	I          uint16               `json:"i"`
	PC         uint16               `json:"pc"`
	SP         uint8                `json:"sp"`
	DelayTimer uint8                `json:"delay_timer"`
	SoundTimer uint8                `json:"sound_timer"`
	Cycles     uint64               `json:"cycles"`
	Loaded     bool                 `json:"loaded"`
}

// HibernateToBytes serialises the complete machine state into an in-memory
// ZIP archive and returns the raw bytes.
func (c *CPU) HibernateToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	state := humanReadableState{
		V:          c.V,
		I:          c.I,
		PC:         c.PC,
		SP:         c.SP,
		DelayTimer: c.DelayTimer,
		SoundTimer: c.SoundTimer,
		Cycles:     c.Cycles,
		Loaded:     c.loaded,
	}

	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cpu_state: %w", err)
	}
	if err := writeZipEntry(zw, "cpu_state.json", jsonData); err != nil {
		return nil, err
	}

	if err := writeZipEntry(zw, "memory.bin", c.Memory[:]); err != nil {
		return nil, err
	}

	if err := writeZipEntry(zw, "display.bin", displayToBytes(&c.Display)); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// Resume builds a new machine from an archive produced by HibernateToBytes.
// A running machine is never rewound; callers replace it with the result.
func Resume(data []byte, logger *log.Logger) (*CPU, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open zip: %v", ErrInvalidSnapshot, err)
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, "cpu_state.json")
	if err != nil {
		return nil, err
	}
	var state humanReadableState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return nil, fmt.Errorf("%w: unmarshal cpu_state: %v", ErrInvalidSnapshot, err)
	}
	if state.PC >= MemorySize {
		return nil, fmt.Errorf("%w: program counter 0x%04X out of range", ErrInvalidSnapshot, state.PC)
	}

	memData, err := readZipEntry(fileMap, "memory.bin")
	if err != nil {
		return nil, err
	}
	if len(memData) != MemorySize {
		return nil, fmt.Errorf("%w: memory.bin is %d bytes, expected %d", ErrInvalidSnapshot, len(memData), MemorySize)
	}

	displayData, err := readZipEntry(fileMap, "display.bin")
	if err != nil {
		return nil, err
	}
	if len(displayData) != DisplayWidth*DisplayHeight {
		return nil, fmt.Errorf("%w: display.bin is %d bytes, expected %d", ErrInvalidSnapshot, len(displayData), DisplayWidth*DisplayHeight)
	}

	c := NewCPU(logger)
	c.V = state.V
	c.I = state.I
	c.PC = state.PC
	c.SP = state.SP
	c.DelayTimer = state.DelayTimer
	c.SoundTimer = state.SoundTimer
	c.Cycles = state.Cycles
	c.loaded = state.Loaded
	copy(c.Memory[:], memData)
	bytesToDisplay(displayData, &c.Display)

	return c, nil
}

// HibernateToFile writes the hibernation archive to the given file path.
func (c *CPU) HibernateToFile(path string) error {
	data, err := c.HibernateToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResumeFromFile reads a hibernation archive from the given file path.
func ResumeFromFile(path string, logger *log.Logger) (*CPU, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Resume(data, logger)
}

// ── helpers ────────────────────────────────────────────────────────────────

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("%w: zip entry %q not found", ErrInvalidSnapshot, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// displayToBytes stores one byte per cell, row-major.
func displayToBytes(d *Display) []byte {
	out := make([]byte, 0, DisplayWidth*DisplayHeight)
	for y := range d {
		for x := range d[y] {
			out = append(out, byte(d[y][x]))
		}
	}
	return out
}

func bytesToDisplay(src []byte, d *Display) {
	for i, b := range src {
		y, x := i/DisplayWidth, i%DisplayWidth
		if b != 0 {
			d[y][x] = White
		} else {
			d[y][x] = Black
		}
	}
}
