// Package tinygobus lets the SH1122 driver run on a TinyGo SPI bus.
//
// TinyGo boards expose their SPI peripherals through tinygo.org/x/drivers.SPI
// and their GPIOs as machine.Pin. Port and Pin wrap those into the periph.io
// interfaces expected by sh1122.NewSPI:
//
//	machine.SPI0.Configure(machine.SPIConfig{Frequency: 8000000, Mode: 0})
//	dc := tinygobus.NewPin("GP20", machine.GP20)
//	dev, err := sh1122.NewSPI(&tinygobus.Port{Bus: machine.SPI0}, dc, &sh1122.Opts{
//		CS:  tinygobus.NewPin("GP17", machine.GP17),
//		RST: tinygobus.NewPin("GP21", machine.GP21),
//	})
package tinygobus

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"
)

// Port is a spi.Port backed by an already configured TinyGo SPI bus.
//
// TinyGo configures clock and mode on the bus itself, so Connect only records
// the requested settings.
type Port struct {
	Bus drivers.SPI

	mu   sync.Mutex
	freq physic.Frequency
	mode spi.Mode
}

// Connect implements spi.Port. Only 8-bit words are supported.
func (p *Port) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if p.Bus == nil {
		return nil, errors.New("tinygobus: nil bus")
	}
	if bits != 8 {
		return nil, fmt.Errorf("tinygobus: unsupported word size %d", bits)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freq = f
	p.mode = mode
	return &Conn{bus: p.Bus, port: p}, nil
}

// LimitSpeed implements spi.Port.
func (p *Port) LimitSpeed(f physic.Frequency) error {
	return nil
}

func (p *Port) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("tinygobus.Port{%s, %s}", p.freq, p.mode)
}

// Conn is the spi.Conn returned by Port.Connect.
type Conn struct {
	bus  drivers.SPI
	port *Port
}

// Tx implements conn.Conn.
func (c *Conn) Tx(w, r []byte) error {
	return c.bus.Tx(w, r)
}

// TxPackets implements spi.Conn.
func (c *Conn) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if pkt.BitsPerWord != 0 && pkt.BitsPerWord != 8 {
			return fmt.Errorf("tinygobus: unsupported word size %d", pkt.BitsPerWord)
		}
		if err := c.bus.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

// Duplex implements conn.Conn.
func (c *Conn) Duplex() conn.Duplex {
	return conn.Full
}

// Halt implements conn.Resource.
func (c *Conn) Halt() error {
	return nil
}

func (c *Conn) String() string {
	return c.port.String()
}

// Setter is implemented by TinyGo's machine.Pin once configured as an output.
type Setter interface {
	Set(high bool)
}

// Pin is a gpio.PinOut driving a TinyGo output pin.
type Pin struct {
	name string
	out  Setter

	mu    sync.Mutex
	level gpio.Level
}

// NewPin wraps out under the given name.
func NewPin(name string, out Setter) *Pin {
	return &Pin{name: name, out: out}
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out.Set(bool(l))
	p.level = l
	return nil
}

// PWM implements gpio.PinOut. It is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("tinygobus: PWM is not supported")
}

// Level returns the last level set by Out.
func (p *Pin) Level() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Pin) String() string {
	return p.name
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin. TinyGo pin numbers are board specific.
func (p *Pin) Number() int {
	return -1
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return "Out/" + p.Level().String()
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

var _ spi.Port = &Port{}
var _ spi.Conn = &Conn{}
var _ gpio.PinOut = &Pin{}
