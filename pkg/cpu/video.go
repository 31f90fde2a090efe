package cpu

import (
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"gochip8/pkg/grid"
)

const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Pixel is a single monochrome display cell.
type Pixel uint8

const (
	Black Pixel = 0
	White Pixel = 1
)

// Display is the framebuffer, addressed [row][column].
type Display [DisplayHeight][DisplayWidth]Pixel

// Clear sets every cell to Black.
func (d *Display) Clear() {
	*d = Display{}
}

// At returns the cell at (x, y) with both coordinates wrapped onto the grid.
func (d *Display) At(x, y int) Pixel {
	return d[grid.Wrap(y, DisplayHeight)][grid.Wrap(x, DisplayWidth)]
}

// DrawRow XORs the eight bits of sprite into row y starting at column x,
// most significant bit first. Both axes wrap around the screen edges. It
// reports whether any White cell turned Black.
func (d *Display) DrawRow(x, y int, sprite byte) (erased bool) {
	row := &d[grid.Wrap(y, DisplayHeight)]
	for col := 0; col < 8; col++ {
		bit := Pixel(sprite>>(7-col)) & 1
		cell := &row[grid.Wrap(x+col, DisplayWidth)]
		before := *cell
		*cell ^= bit
		if before == White && *cell == Black {
			erased = true
		}
	}
	return erased
}

// Lit returns the number of White cells.
func (d *Display) Lit() int {
	n := 0
	for y := range d {
		for x := range d[y] {
			if d[y][x] == White {
				n++
			}
		}
	}
	return n
}

// FramebufferRGBA encodes the display as a 64×32 RGBA8888 byte slice
// (length 64*32*4). White cells are opaque white, Black cells opaque black.
func (d *Display) FramebufferRGBA() []byte {
	pixels := make([]byte, DisplayWidth*DisplayHeight*4)
	for i := 0; i < DisplayWidth*DisplayHeight; i++ {
		x, y := grid.GetGridCoords(i, DisplayWidth)
		var v byte
		if d[y][x] == White {
			v = 0xFF
		}
		pixels[i*4+0] = v
		pixels[i*4+1] = v
		pixels[i*4+2] = v
		pixels[i*4+3] = 0xFF
	}
	return pixels
}

// FramebufferImage returns the display as an *image.RGBA enlarged by scale
// using nearest-neighbour sampling. A scale below 1 is treated as 1.
func (d *Display) FramebufferImage(scale int) *image.RGBA {
	src := &image.RGBA{
		Pix:    d.FramebufferRGBA(),
		Stride: DisplayWidth * 4,
		Rect:   image.Rect(0, 0, DisplayWidth, DisplayHeight),
	}
	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, DisplayWidth*scale, DisplayHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// GetFramebufferRGBA returns the current display encoded as RGBA bytes.
func (c *CPU) GetFramebufferRGBA() []byte {
	return c.Display.FramebufferRGBA()
}

// GetFramebufferImage returns the current display as an image enlarged by scale.
func (c *CPU) GetFramebufferImage(scale int) *image.RGBA {
	return c.Display.FramebufferImage(scale)
}

// SaveScreenshot encodes the current display as a PNG and writes it to filename.
func (c *CPU) SaveScreenshot(filename string, scale int) error {
	img := c.GetFramebufferImage(scale)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
