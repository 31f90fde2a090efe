package grid

// GetGridCoords converts a linear row-major index into (x, y) for a grid
// that is cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Wrap reduces v into [0, n). Negative values wrap from the far edge.
func Wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
