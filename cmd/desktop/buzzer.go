package main

const (
	sampleRate      = 44100
	buzzerFrequency = 440
	buzzerAmplitude = 0x1000
)

// squareWave is an endless 16-bit little endian stereo tone, the format
// audio.Context players consume.
type squareWave struct {
	period int // samples per cycle
	pos    int
}

func newSquareWave(rate, freq int) *squareWave {
	return &squareWave{period: rate / freq}
}

func (s *squareWave) Read(buf []byte) (int, error) {
	n := len(buf) / 4 * 4
	for i := 0; i < n; i += 4 {
		v := int16(buzzerAmplitude)
		if s.pos >= s.period/2 {
			v = -v
		}
		s.pos = (s.pos + 1) % s.period

		buf[i] = byte(v)
		buf[i+1] = byte(uint16(v) >> 8)
		buf[i+2] = buf[i]
		buf[i+3] = buf[i+1]
	}
	return n, nil
}
