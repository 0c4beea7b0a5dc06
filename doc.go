// Package sh1122 controls a SH1122 OLED display via SPI.
//
// The SH1122 drives 256×64 pixel panels with 16 gray levels. This driver
// implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 4-bit grayscale with 16 intensity levels (0-15)
// - Fixed 256×64 resolution, two pixels per RAM byte
// - Adjustable contrast (0-255)
// - Display inversion
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select, or a GPIO passed as Opts.CS
//	RES         → Optional: GPIO passed as Opts.RST
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/sh1122"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//		b, _ := spireg.Open("")
//		dev, _ := sh1122.NewSPI(b, gpioreg.ByName("GPIO25"), &sh1122.Opts{
//			RST: gpioreg.ByName("GPIO24"),
//		})
//
//		dev.Fill(0)
//		dev.Rect(0, 0, sh1122.Width, sh1122.Height, 15)
//		dev.SetPixel(5, 10, 7)
//		dev.Show()
//	}
//
// # Framebuffer
//
// Fill, SetPixel, HLine, VLine and Rect only modify the in-memory framebuffer.
// Nothing reaches the panel until Show, which sends every row in order. Gray
// levels outside 0-15 are clamped and pixels outside the panel are ignored;
// neither is an error.
//
// Draw and Write are the display.Drawer and io.Writer style entry points: they
// replace framebuffer content and call Show.
//
// # Panel Alignment
//
// Some modules wire the controller rows with a shift. Set Opts.RowOffset until
// the crosshair pattern of examples/sh1122_patterns is centered; rows wrap
// around the 64 row RAM.
//
// # Errors
//
// Bus and GPIO errors are returned as is, wrapped with the failing command or
// row. There is no retry: a failed Show leaves the panel partially updated and
// the caller decides whether to call it again.
//
// # Concurrency
//
// A Dev is not safe for concurrent use. Callers rendering from several
// goroutines must serialize access.
package sh1122
