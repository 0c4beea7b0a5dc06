package sh1122

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/sh1122/image4bit"
)

// Panel geometry in pixels.
const (
	Width  = 256
	Height = 64
)

// resetDelay is the minimum hold time on each edge of the reset pulse.
const resetDelay = 20 * time.Millisecond

// DefaultOpts is the configuration used when NewSPI is passed nil.
var DefaultOpts = Opts{
	AddressingMode: DefaultAddressingMode,
}

// Opts is the configuration for the SH1122 display.
type Opts struct {
	// RowOffset shifts every row at refresh time. Adjust it if the picture is
	// shifted vertically; rows wrap around the 64 row RAM.
	RowOffset int
	// ColOffset is the horizontal shift correction. The column window is always
	// programmed full width, so the value is only reported by String.
	ColOffset int
	// AddressingMode is the argument of the addressing mode command. Zero means
	// DefaultAddressingMode.
	AddressingMode byte

	// CS is an optional chip-select pin driven around every transfer. Leave it
	// nil when the SPI port asserts chip-select itself.
	CS gpio.PinOut
	// RST is an optional reset pin. When nil the hardware reset is skipped and
	// the panel relies on its power-on reset.
	RST gpio.PinOut
}

// Dev is an open handle to the display controller.
type Dev struct {
	// Communication
	c   conn.Conn
	dc  gpio.PinOut
	cs  gpio.PinOut
	rst gpio.PinOut

	rect      image.Rectangle
	rowOffset int
	colOffset int
	mode      byte

	// buf is the framebuffer; it is only sent to the panel by Show.
	buf *image4bit.HorizontalNibble
}

var _ display.Drawer = &Dev{}

// NewSPI returns a Dev that communicates over SPI with a SH1122 controller.
//
// The port is configured for 8MHz, Mode0, 8-bit words. dc is the Data/Command
// pin and is required. The panel is configured and turned on before NewSPI
// returns; its RAM content is undefined until the first Show.
//
// The hardware reset pulse, RST held low then high for at least 20ms each, is
// only sent when opts.RST is set. Without it the controller must already be
// out of its power-on reset.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil {
		return nil, errors.New("sh1122: dc pin is required")
	}
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("sh1122: %w", err)
	}
	d := newDev(c, dc, opts)
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func newDev(c conn.Conn, dc gpio.PinOut, opts *Opts) *Dev {
	mode := opts.AddressingMode
	if mode == 0 {
		mode = DefaultAddressingMode
	}
	rect := image.Rect(0, 0, Width, Height)
	return &Dev{
		c:         c,
		dc:        dc,
		cs:        opts.CS,
		rst:       opts.RST,
		rect:      rect,
		rowOffset: opts.RowOffset,
		colOffset: opts.ColOffset,
		mode:      mode,
		buf:       image4bit.NewHorizontalNibble(rect),
	}
}

// init resets the controller, sends the configuration sequence and turns the
// display on.
func (d *Dev) init() error {
	if d.cs != nil {
		if err := d.cs.Out(gpio.High); err != nil {
			return fmt.Errorf("sh1122: failed to release CS: %w", err)
		}
	}
	if err := d.reset(); err != nil {
		return err
	}
	for _, cmd := range initSequence(d.mode) {
		if err := d.sendCommand(cmd); err != nil {
			return err
		}
	}
	return d.sendCommand(command{op: _DISPLAYON})
}

func (d *Dev) reset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("sh1122: failed to pull RST low: %w", err)
	}
	time.Sleep(resetDelay)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("sh1122: failed to pull RST high: %w", err)
	}
	time.Sleep(resetDelay)
	return nil
}

func (d *Dev) sendCommand(cmd command) error {
	if err := d.tx(gpio.Low, cmd.bytes()); err != nil {
		return fmt.Errorf("sh1122: command 0x%02X: %w", cmd.op, err)
	}
	return nil
}

func (d *Dev) sendData(data []byte) error {
	return d.tx(gpio.High, data)
}

// tx sends w as a single transfer. DC is set first, then CS is asserted; CS is
// released on every return path.
func (d *Dev) tx(dc gpio.Level, w []byte) (err error) {
	if err := d.dc.Out(dc); err != nil {
		return err
	}
	if d.cs != nil {
		defer func() {
			if errCS := d.cs.Out(gpio.High); err == nil {
				err = errCS
			}
		}()
		if err := d.cs.Out(gpio.Low); err != nil {
			return err
		}
	}
	return d.c.Tx(w, nil)
}

// Show transfers the whole framebuffer to the panel.
//
// Rows are sent in increasing order, each one preceded by its row and column
// window. A transport error aborts the refresh and leaves the panel partially
// updated.
func (d *Dev) Show() error {
	for y := 0; y < d.rect.Dy(); y++ {
		if err := d.sendCommand(rowWindow(d.panelRow(y))); err != nil {
			return err
		}
		if err := d.sendCommand(columnWindow()); err != nil {
			return err
		}
		if err := d.sendData(d.buf.Row(y)); err != nil {
			return fmt.Errorf("sh1122: row %d: %w", y, err)
		}
	}
	return nil
}

// panelRow maps a framebuffer row to the controller row, wrapping around the
// 64 row RAM.
func (d *Dev) panelRow(y int) byte {
	return byte((y + d.rowOffset) & lastRow)
}

// SetContrast sets the display contrast. level is clamped to 0-255.
func (d *Dev) SetContrast(level int) error {
	switch {
	case level < 0:
		level = 0
	case level > 255:
		level = 255
	}
	return d.sendCommand(command{op: _SETCONTRAST, args: []byte{byte(level)}})
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	op := byte(_NORMALDISPLAY)
	if invert {
		op = _INVERTDISPLAY
	}
	return d.sendCommand(command{op: op})
}

// Fill sets every pixel of the framebuffer to gray, clamped to 0-15.
func (d *Dev) Fill(gray int) {
	d.buf.Fill(image4bit.Clamp(gray))
}

// SetPixel sets the pixel at (x, y) to gray, clamped to 0-15. Coordinates
// outside the panel are ignored.
func (d *Dev) SetPixel(x, y, gray int) {
	d.buf.SetGray4(x, y, image4bit.Clamp(gray))
}

// Pixel returns the framebuffer value at (x, y), or 0 outside the panel.
func (d *Dev) Pixel(x, y int) int {
	return int(d.buf.Gray4At(x, y).Y)
}

// HLine draws length pixels to the right of (x, y). Pixels off the panel are
// clipped.
func (d *Dev) HLine(x, y, length, gray int) {
	for i := 0; i < length; i++ {
		d.SetPixel(x+i, y, gray)
	}
}

// VLine draws length pixels downward from (x, y).
func (d *Dev) VLine(x, y, length, gray int) {
	for i := 0; i < length; i++ {
		d.SetPixel(x, y+i, gray)
	}
}

// Rect draws the outline of the w by h rectangle whose top-left corner is (x, y).
func (d *Dev) Rect(x, y, w, h, gray int) {
	d.HLine(x, y, w, gray)
	d.HLine(x, y+h-1, w, gray)
	d.VLine(x, y, h, gray)
	d.VLine(x+w-1, y, h, gray)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image4bit.Gray4Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// src is rendered into the framebuffer, then the whole frame is shown.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if img, ok := src.(*image4bit.HorizontalNibble); ok && r == d.rect && img.Rect == d.rect && sp == (image.Point{}) {
		copy(d.buf.Pix, img.Pix)
	} else {
		draw.Src.Draw(d.buf, r, src, sp)
	}
	return d.Show()
}

// Write replaces the framebuffer with pixels and shows it.
//
// pixels uses the image4bit.HorizontalNibble layout and must be exactly
// Width*Height/2 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != len(d.buf.Pix) {
		return 0, fmt.Errorf("sh1122: invalid pixel stream length; expected %d bytes, got %d bytes", len(d.buf.Pix), len(pixels))
	}
	copy(d.buf.Pix, pixels)
	if err := d.Show(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Halt implements conn.Resource.
//
// The driver has no power-down sequence; the panel keeps showing the last frame.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("sh1122.Dev{%s, %s, %s, row offset %d, col offset %d}", d.c, d.dc, d.rect.Max, d.rowOffset, d.colOffset)
}
