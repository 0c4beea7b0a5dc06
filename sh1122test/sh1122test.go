// Package sh1122test implements an emulated SH1122 panel for tests and for
// running the driver without hardware.
//
// A Panel acts as the SPI port and hands out the DC, CS and RST pins. It logs
// every pin change and transfer in order, validates command framing and keeps
// a model of the controller's grayscale RAM.
package sh1122test

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/sh1122/image4bit"
)

// RAM geometry of the controller.
const (
	RAMRows    = 64
	RAMColumns = 128 // bytes, two pixels each
)

// ErrInjected is returned by Tx once FailAfter transfers have succeeded.
var ErrInjected = errors.New("sh1122test: injected transfer failure")

// argCount lists the argument bytes each opcode takes.
var argCount = map[byte]int{
	0xAE: 0, // display off
	0xAF: 0, // display on
	0x2F: 0, // internal power
	0xA4: 0, // display follows RAM
	0xA5: 0, // entire display on
	0xA6: 0, // normal
	0xA7: 0, // inverse
	0xA0: 0, // segment remap normal
	0xA1: 0, // segment remap reversed
	0xC0: 0, // COM scan normal
	0xC8: 0, // COM scan reversed
	0xAD: 1, // DC-DC / regulator
	0x81: 1, // contrast
	0x20: 1, // addressing mode
	0x15: 2, // column window
	0x75: 2, // row window
}

// EventKind tells what an Event recorded.
type EventKind int

// Recorded event kinds.
const (
	PinEvent EventKind = iota
	CommandEvent
	DataEvent
)

// Event is one entry of the Panel log.
type Event struct {
	Kind  EventKind
	Pin   string     // PinEvent only
	Level gpio.Level // PinEvent only
	Bytes []byte     // CommandEvent and DataEvent
}

func (e Event) String() string {
	switch e.Kind {
	case PinEvent:
		return fmt.Sprintf("%s=%s", e.Pin, e.Level)
	case CommandEvent:
		return fmt.Sprintf("cmd % X", e.Bytes)
	default:
		return fmt.Sprintf("data[%d]", len(e.Bytes))
	}
}

// State is a snapshot of the emulated controller registers.
type State struct {
	On             bool
	Inverted       bool
	Contrast       byte
	AddressingMode byte
	StartLine      byte
	ColumnWindow   [2]byte
	RowWindow      [2]byte

	// Bus settings passed to Connect.
	Freq physic.Frequency
	Mode spi.Mode
	Bits int
}

// Panel is an emulated SH1122. The zero value is not usable, use NewPanel.
type Panel struct {
	// FailAfter makes every transfer after the first FailAfter ones return
	// ErrInjected. Zero disables injection.
	FailAfter int

	mu        sync.Mutex
	dc        *Pin
	cs        *Pin
	rst       *Pin
	dcLevel   gpio.Level
	csLevel   gpio.Level
	csWired   bool
	rstLevel  gpio.Level
	transfers int
	events    []Event
	state     State
	col, row  byte
	ram       [RAMRows * RAMColumns]byte
}

// NewPanel returns a powered panel with its reset line released.
func NewPanel() *Panel {
	p := &Panel{
		dcLevel:  gpio.Low,
		csLevel:  gpio.High,
		rstLevel: gpio.High,
	}
	p.dc = &Pin{Pin: &gpiotest.Pin{N: "DC", L: gpio.Low}, panel: p}
	p.cs = &Pin{Pin: &gpiotest.Pin{N: "CS", L: gpio.High}, panel: p}
	p.rst = &Pin{Pin: &gpiotest.Pin{N: "RST", L: gpio.High}, panel: p}
	p.powerOn()
	return p
}

// DC returns the Data/Command pin.
func (p *Panel) DC() *Pin {
	return p.dc
}

// CS returns the chip-select pin. Once the pin is driven, transfers with CS
// deasserted are rejected.
func (p *Panel) CS() *Pin {
	return p.cs
}

// RST returns the reset pin.
func (p *Panel) RST() *Pin {
	return p.rst
}

// Events returns a copy of the log.
func (p *Panel) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// ClearEvents empties the log.
func (p *Panel) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// State returns the current controller registers.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Image returns a copy of the controller RAM.
func (p *Panel) Image() *image4bit.HorizontalNibble {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := image4bit.NewHorizontalNibble(image.Rect(0, 0, RAMColumns*2, RAMRows))
	copy(img.Pix, p.ram[:])
	return img
}

// Transfers returns the number of Tx calls made so far, failed ones included.
func (p *Panel) Transfers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transfers
}

// ChipSelected reports whether CS is currently asserted.
func (p *Panel) ChipSelected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.csLevel == gpio.Low
}

func (p *Panel) String() string {
	return "sh1122test.Panel"
}

// Halt implements conn.Resource.
func (p *Panel) Halt() error {
	return nil
}

// Connect implements spi.Port.
func (p *Panel) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, fmt.Errorf("sh1122test: unsupported word size %d", bits)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Freq = f
	p.state.Mode = mode
	p.state.Bits = bits
	return p, nil
}

// LimitSpeed implements spi.Port.
func (p *Panel) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Duplex implements conn.Conn.
func (p *Panel) Duplex() conn.Duplex {
	return conn.Half
}

// TxPackets implements spi.Conn. Each packet counts as a separate transfer.
func (p *Panel) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if err := p.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

// Tx implements conn.Conn. With DC low the bytes are one command, with DC high
// they are pixel data written at the current RAM pointer.
func (p *Panel) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("sh1122test: read not supported")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transfers++
	if p.FailAfter > 0 && p.transfers > p.FailAfter {
		return ErrInjected
	}
	if p.csWired && p.csLevel != gpio.Low {
		return errors.New("sh1122test: transfer with chip-select deasserted")
	}
	if p.rstLevel == gpio.Low {
		return errors.New("sh1122test: transfer while in reset")
	}
	b := append([]byte(nil), w...)
	if p.dcLevel == gpio.Low {
		p.events = append(p.events, Event{Kind: CommandEvent, Bytes: b})
		return p.execute(b)
	}
	p.events = append(p.events, Event{Kind: DataEvent, Bytes: b})
	p.writeRAM(b)
	return nil
}

func (p *Panel) execute(cmd []byte) error {
	if len(cmd) == 0 {
		return errors.New("sh1122test: empty command")
	}
	op, args := cmd[0], cmd[1:]
	n, ok := argCount[op]
	if !ok {
		if op&0xC0 != 0x40 {
			return fmt.Errorf("sh1122test: unknown command 0x%02X", op)
		}
		// 0x40-0x7F: display start line, except the row window opcode above.
		n = 0
	}
	if len(args) != n {
		return fmt.Errorf("sh1122test: command 0x%02X takes %d arguments, got %d", op, n, len(args))
	}
	switch op {
	case 0xAE:
		p.state.On = false
	case 0xAF:
		p.state.On = true
	case 0xA6:
		p.state.Inverted = false
	case 0xA7:
		p.state.Inverted = true
	case 0x81:
		p.state.Contrast = args[0]
	case 0x20:
		p.state.AddressingMode = args[0]
	case 0x15:
		p.state.ColumnWindow = [2]byte{args[0], args[1]}
		p.col = args[0]
	case 0x75:
		p.state.RowWindow = [2]byte{args[0], args[1]}
		p.row = args[0]
	default:
		if op&0xC0 == 0x40 {
			p.state.StartLine = op & 0x3F
		}
	}
	return nil
}

// writeRAM stores data at the RAM pointer, wrapping to the next row at the end
// of the column window and back to the first row at the end of the row window.
func (p *Panel) writeRAM(data []byte) {
	for _, b := range data {
		if int(p.row) < RAMRows && int(p.col) < RAMColumns {
			p.ram[int(p.row)*RAMColumns+int(p.col)] = b
		}
		p.col++
		if p.col > p.state.ColumnWindow[1] {
			p.col = p.state.ColumnWindow[0]
			p.row++
			if p.row > p.state.RowWindow[1] {
				p.row = p.state.RowWindow[0]
			}
		}
	}
}

func (p *Panel) powerOn() {
	p.state.On = false
	p.state.Inverted = false
	p.state.Contrast = 0x80
	p.state.StartLine = 0
	p.state.ColumnWindow = [2]byte{0, RAMColumns - 1}
	p.state.RowWindow = [2]byte{0, RAMRows - 1}
	p.col, p.row = 0, 0
}

func (p *Panel) pinOut(pin *Pin, l gpio.Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{Kind: PinEvent, Pin: pin.Name(), Level: l})
	switch pin {
	case p.dc:
		p.dcLevel = l
	case p.cs:
		p.csWired = true
		p.csLevel = l
	case p.rst:
		if l == gpio.Low && p.rstLevel == gpio.High {
			p.powerOn()
		}
		p.rstLevel = l
	}
}

// Pin is a recording output pin connected to a Panel.
type Pin struct {
	*gpiotest.Pin
	panel *Panel
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if err := p.Pin.Out(l); err != nil {
		return err
	}
	p.panel.pinOut(p, l)
	return nil
}

var _ spi.Port = &Panel{}
var _ spi.Conn = &Panel{}
var _ gpio.PinOut = &Pin{}
