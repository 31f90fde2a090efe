package cpu

const KeyCount = 16

// Keys is the pressed state of the 16 logical keys 0x0-0xF. Harnesses hand a
// fresh value to every Step call.
type Keys [KeyCount]bool

// Press marks key as held. Keys outside 0x0-0xF are ignored.
func (k *Keys) Press(key uint8) {
	if int(key) < KeyCount {
		k[key] = true
	}
}

// Release marks key as not held.
func (k *Keys) Release(key uint8) {
	if int(key) < KeyCount {
		k[key] = false
	}
}

// Pressed returns the lowest held key, if any.
func (k Keys) Pressed() (uint8, bool) {
	for i, down := range k {
		if down {
			return uint8(i), true
		}
	}
	return 0, false
}
