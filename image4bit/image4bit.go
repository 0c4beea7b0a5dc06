// Package image4bit implements the 4-bit grayscale framebuffer used by the SH1122.
//
// The SH1122 stores two pixels per byte: the high nibble holds the even column,
// the low nibble the odd column of the same row.
package image4bit

import (
	"image"
	"image/color"
)

// Gray4 is a 4-bit grayscale intensity (0-15). Only the lower 4 bits of Y are used.
type Gray4 struct {
	Y uint8
}

// Black and White are the two ends of the gray scale.
var (
	Black = Gray4{Y: 0}
	White = Gray4{Y: 15}
)

// Clamp returns the Gray4 nearest to v, saturating below 0 and above 15.
func Clamp(v int) Gray4 {
	switch {
	case v < 0:
		return Black
	case v > 15:
		return White
	}
	return Gray4{Y: uint8(v)}
}

// RGBA implements color.Color.
func (c Gray4) RGBA() (r, g, b, a uint32) {
	y := uint32(c.Packed()) * 0x101
	return y, y, y, 0xFFFF
}

// Packed returns the byte with both nibbles set to c.
func (c Gray4) Packed() byte {
	y := c.Y & 0x0F
	return y<<4 | y
}

func toGray4(c color.Color) color.Color {
	if g, ok := c.(Gray4); ok {
		return g
	}
	return Gray4{Y: color.GrayModel.Convert(c).(color.Gray).Y >> 4}
}

// Gray4Model converts colors to Gray4.
var Gray4Model = color.ModelFunc(toGray4)

// HorizontalNibble is a 4-bit grayscale image, two horizontally adjacent pixels
// per byte.
type HorizontalNibble struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// NewHorizontalNibble returns a zeroed image. The width of r must be even.
func NewHorizontalNibble(r image.Rectangle) *HorizontalNibble {
	if r.Empty() {
		return &HorizontalNibble{Rect: r}
	}
	if r.Dx()&1 != 0 {
		panic("image4bit: width must be even")
	}
	stride := r.Dx() >> 1
	return &HorizontalNibble{Pix: make([]byte, stride*r.Dy()), Stride: stride, Rect: r}
}

// ColorModel implements image.Image.
func (p *HorizontalNibble) ColorModel() color.Model {
	return Gray4Model
}

// Bounds implements image.Image.
func (p *HorizontalNibble) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *HorizontalNibble) At(x, y int) color.Color {
	return p.Gray4At(x, y)
}

// Gray4At returns the pixel at (x, y), or Black outside the bounds.
func (p *HorizontalNibble) Gray4At(x, y int) Gray4 {
	i, shift, ok := p.nibble(x, y)
	if !ok {
		return Black
	}
	return Gray4{Y: p.Pix[i] >> shift & 0x0F}
}

// Set implements draw.Image.
func (p *HorizontalNibble) Set(x, y int, c color.Color) {
	p.SetGray4(x, y, Gray4Model.Convert(c).(Gray4))
}

// SetGray4 replaces the nibble at (x, y) and keeps its neighbour. Writes outside
// the bounds are ignored.
func (p *HorizontalNibble) SetGray4(x, y int, c Gray4) {
	if i, shift, ok := p.nibble(x, y); ok {
		p.Pix[i] = p.Pix[i]&^(0x0F<<shift) | (c.Y&0x0F)<<shift
	}
}

// Fill sets every pixel to c.
func (p *HorizontalNibble) Fill(c Gray4) {
	b := c.Packed()
	for i := range p.Pix {
		p.Pix[i] = b
	}
}

// Row returns the packed bytes of row y. The slice aliases Pix.
func (p *HorizontalNibble) Row(y int) []byte {
	start := (y - p.Rect.Min.Y) * p.Stride
	return p.Pix[start : start+p.Stride]
}

// PixOffset returns the byte offset and bit shift of the pixel at (x, y).
// Columns are counted from Rect.Min.X: even ones live in the high nibble
// (shift 4), odd ones in the low nibble.
func (p *HorizontalNibble) PixOffset(x, y int) (offset int, shift uint) {
	col := x - p.Rect.Min.X
	offset = (y-p.Rect.Min.Y)*p.Stride + col>>1
	if col&1 == 0 {
		shift = 4
	}
	return offset, shift
}

func (p *HorizontalNibble) nibble(x, y int) (int, uint, bool) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0, 0, false
	}
	offset, shift := p.PixOffset(x, y)
	return offset, shift, true
}
