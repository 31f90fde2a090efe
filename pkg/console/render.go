package console

import (
	"bufio"
	"io"

	"gochip8/pkg/cpu"
)

const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Half-block glyphs indexed by top<<1 | bottom.
var halfBlocks = [4]string{" ", "▄", "▀", "█"}

// Render draws the display at the top left of the terminal. Each text line
// holds two display rows.
func Render(w io.Writer, d cpu.Display) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(hideCursor + cursorHome)

	for y := 0; y < cpu.DisplayHeight; y += 2 {
		for x := 0; x < cpu.DisplayWidth; x++ {
			idx := 0
			if d.At(x, y) == cpu.White {
				idx |= 2
			}
			if y+1 < cpu.DisplayHeight && d.At(x, y+1) == cpu.White {
				idx |= 1
			}
			_, _ = bw.WriteString(halfBlocks[idx])
		}
		_, _ = bw.WriteString("\r\n")
	}
	return bw.Flush()
}

// Clear wipes the terminal and homes the cursor.
func Clear(w io.Writer) error {
	_, err := io.WriteString(w, clearScreen+cursorHome)
	return err
}
