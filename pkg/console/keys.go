package console

import (
	"context"
	"io"
	"sync"

	"gochip8/pkg/cpu"
)

// KeyMap is the conventional layout of the 16-key hex pad on a QWERTY
// keyboard.
//
//	1 2 3 C     1 2 3 4
//	4 5 6 D  ←  q w e r
//	7 8 9 E     a s d f
//	A 0 B F     z x c v
var KeyMap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// HoldCycles is how many polls a key stays held after its byte arrives. A
// terminal only reports presses, never releases.
const HoldCycles = 4

// KeyReader turns a byte stream of key presses into per-cycle key state.
type KeyReader struct {
	mu   sync.Mutex
	held [cpu.KeyCount]int
}

// Feed registers the presses contained in buf. Unmapped bytes are ignored.
// Upper case letters map like lower case ones.
func (k *KeyReader) Feed(buf []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, b := range buf {
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		if key, ok := KeyMap[b]; ok {
			k.held[key] = HoldCycles
		}
	}
}

// Poll returns the keys currently held and ages every held key by one cycle.
func (k *KeyReader) Poll() cpu.Keys {
	k.mu.Lock()
	defer k.mu.Unlock()

	var keys cpu.Keys
	for i, n := range k.held {
		if n > 0 {
			keys.Press(uint8(i))
			k.held[i] = n - 1
		}
	}
	return keys
}

// Run feeds everything read from r until ctx is done or r fails. The read
// itself is not interruptible, so Run may outlive ctx until the next byte.
func (k *KeyReader) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			k.Feed(buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
