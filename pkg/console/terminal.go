//go:build !windows

// Package console presents the machine on a posix terminal. Terminal is a thin
// wrapper around "github.com/pkg/term/termios" with friendlier names.
package console

import (
	"errors"
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal switches the input file between canonical and cbreak modes and
// restores the original attributes on CleanUp.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios
}

// Initialise the fields in the Terminal struct
func (pt *Terminal) Initialise(inputFile, outputFile *os.File) error {
	if inputFile == nil {
		return errors.New("terminal requires an input file")
	}
	if outputFile == nil {
		return errors.New("terminal requires an output file")
	}

	pt.input = inputFile
	pt.output = outputFile

	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return fmt.Errorf("reading terminal attributes: %w", err)
	}
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)
	// single bytes without waiting for a line, keys are not echoed
	pt.cbreakAttr.Lflag &^= unix.ECHO

	return nil
}

// CBreakMode puts terminal into cbreak mode
func (pt *Terminal) CBreakMode() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.cbreakAttr)
}

// CanonicalMode puts terminal into normal, everyday canonical mode
func (pt *Terminal) CanonicalMode() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr)
}

// CleanUp restores canonical mode, shows the cursor again and discards any
// unread input.
func (pt *Terminal) CleanUp() {
	_ = pt.CanonicalMode()
	_, _ = pt.output.WriteString(showCursor)
	_ = termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH)
}

// Print writes the formatted string to the output file
func (pt *Terminal) Print(s string, a ...any) {
	_, _ = fmt.Fprintf(pt.output, s, a...)
}
