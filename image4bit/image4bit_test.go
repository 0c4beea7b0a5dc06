package image4bit

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in   int
		want uint8
	}{
		{-100, 0},
		{-1, 0},
		{0, 0},
		{7, 7},
		{15, 15},
		{16, 15},
		{20, 15},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got.Y != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got.Y, tt.want)
		}
	}
}

func TestGray4RGBA(t *testing.T) {
	tests := []struct {
		name string
		gray Gray4
		want uint32
	}{
		{"black", Black, 0x0000},
		{"mid gray", Gray4{Y: 8}, 0x8888},
		{"white", White, 0xFFFF},
		{"mask ignored", Gray4{Y: 0x5F}, 0xFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.gray.RGBA()
			if r != tt.want || g != tt.want || b != tt.want || a != 0xFFFF {
				t.Errorf("RGBA() = (%x, %x, %x, %x), want %x", r, g, b, a, tt.want)
			}
		})
	}
}

func TestGray4Packed(t *testing.T) {
	if got := (Gray4{Y: 0xA}).Packed(); got != 0xAA {
		t.Errorf("Packed() = 0x%02X, want 0xAA", got)
	}
	if got := (Gray4{Y: 0xF3}).Packed(); got != 0x33 {
		t.Errorf("Packed() = 0x%02X, want 0x33", got)
	}
}

func TestGray4ModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  uint8
	}{
		{"gray4 passthrough", Gray4{Y: 7}, 7},
		{"black", color.Black, 0},
		{"white", color.White, 15},
		{"gray rgb", color.RGBA{0x88, 0x88, 0x88, 0xFF}, 8},
		{"gray", color.Gray{Y: 0x3F}, 3},
		{"pure green", color.RGBA{0, 0xFF, 0, 0xFF}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Gray4Model.Convert(tt.input).(Gray4); got.Y != tt.want {
				t.Errorf("Convert(%v).Y = %d, want %d", tt.input, got.Y, tt.want)
			}
		})
	}
}

func TestNewHorizontalNibble(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 256, 64))
	if img.Stride != 128 {
		t.Errorf("Stride = %d, want 128", img.Stride)
	}
	if len(img.Pix) != 8192 {
		t.Errorf("len(Pix) = %d, want 8192", len(img.Pix))
	}
	defer func() {
		if recover() == nil {
			t.Error("odd width should panic")
		}
	}()
	NewHorizontalNibble(image.Rect(0, 0, 5, 2))
}

func TestHorizontalNibblePacking(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 4, 1))
	img.SetGray4(0, 0, Gray4{Y: 5})
	img.SetGray4(1, 0, Gray4{Y: 10})
	img.SetGray4(2, 0, Gray4{Y: 3})
	img.SetGray4(3, 0, Gray4{Y: 12})
	if want := []byte{0x5A, 0x3C}; !bytes.Equal(img.Pix, want) {
		t.Errorf("Pix = % X, want % X", img.Pix, want)
	}
}

func TestHorizontalNibbleKeepsNeighbour(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 2, 1))
	img.Pix[0] = 0x9C
	img.SetGray4(0, 0, Gray4{Y: 1})
	if img.Pix[0] != 0x1C {
		t.Errorf("even write: Pix[0] = 0x%02X, want 0x1C", img.Pix[0])
	}
	img.SetGray4(1, 0, Gray4{Y: 2})
	if img.Pix[0] != 0x12 {
		t.Errorf("odd write: Pix[0] = 0x%02X, want 0x12", img.Pix[0])
	}
}

func TestHorizontalNibbleOutOfBounds(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 4, 4))
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		img.SetGray4(p.X, p.Y, White)
		if got := img.Gray4At(p.X, p.Y); got != Black {
			t.Errorf("Gray4At(%v) = %v, want black", p, got)
		}
	}
	if !bytes.Equal(img.Pix, make([]byte, len(img.Pix))) {
		t.Errorf("out of bounds writes changed Pix: % X", img.Pix)
	}
}

func TestHorizontalNibbleOffsetRect(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(100, 50, 104, 52))
	img.SetGray4(100, 50, Gray4{Y: 11})
	if got := img.Gray4At(100, 50); got.Y != 11 {
		t.Errorf("Gray4At(100, 50).Y = %d, want 11", got.Y)
	}
	if img.Pix[0]>>4 != 11 {
		t.Errorf("Pix[0]>>4 = %d, want 11", img.Pix[0]>>4)
	}
	if row := img.Row(51); &row[0] != &img.Pix[2] {
		t.Error("Row(51) does not alias the second row")
	}
}

func TestHorizontalNibblePixOffset(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 8, 2))
	tests := []struct {
		x, y   int
		offset int
		shift  uint
	}{
		{0, 0, 0, 4},
		{1, 0, 0, 0},
		{2, 0, 1, 4},
		{3, 0, 1, 0},
		{0, 1, 4, 4},
		{7, 1, 7, 0},
	}
	for _, tt := range tests {
		offset, shift := img.PixOffset(tt.x, tt.y)
		if offset != tt.offset || shift != tt.shift {
			t.Errorf("PixOffset(%d, %d) = (%d, %d), want (%d, %d)", tt.x, tt.y, offset, shift, tt.offset, tt.shift)
		}
	}
}

func TestHorizontalNibbleFill(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 6, 3))
	img.Fill(Gray4{Y: 6})
	for i, b := range img.Pix {
		if b != 0x66 {
			t.Fatalf("Pix[%d] = 0x%02X, want 0x66", i, b)
		}
	}
}

func TestHorizontalNibbleDraw(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(0, 0, 4, 2))
	draw.Draw(img, image.Rect(2, 0, 4, 2), image.NewUniform(color.White), image.Point{}, draw.Src)
	for y := 0; y < 2; y++ {
		if got := img.Row(y); !bytes.Equal(got, []byte{0x00, 0xFF}) {
			t.Errorf("Row(%d) = % X, want 00 FF", y, got)
		}
	}
}

func TestHorizontalNibbleOddOrigin(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(3, 0, 7, 1))
	img.SetGray4(3, 0, Gray4{Y: 1})
	img.SetGray4(4, 0, Gray4{Y: 2})
	img.SetGray4(6, 0, Gray4{Y: 4})
	if want := []byte{0x12, 0x04}; !bytes.Equal(img.Pix, want) {
		t.Errorf("Pix = % X, want % X", img.Pix, want)
	}
	if got := img.Gray4At(4, 0); got.Y != 2 {
		t.Errorf("Gray4At(4, 0).Y = %d, want 2", got.Y)
	}
}

func TestNewHorizontalNibbleEmpty(t *testing.T) {
	img := NewHorizontalNibble(image.Rect(4, 4, 4, 8))
	if len(img.Pix) != 0 || img.Stride != 0 {
		t.Errorf("empty image has Pix %d bytes, Stride %d", len(img.Pix), img.Stride)
	}
	img.SetGray4(4, 4, White)
	if got := img.Gray4At(4, 4); got != Black {
		t.Errorf("Gray4At() = %v, want black", got)
	}
}
