package sh1122

const (
	_DISPLAYOFF     = 0xAE
	_DISPLAYON      = 0xAF
	_INTERNALPOWER  = 0x2F
	_DISPLAYFOLLOW  = 0xA4
	_NORMALDISPLAY  = 0xA6
	_INVERTDISPLAY  = 0xA7
	_DCDCSETTING    = 0xAD
	_SETCONTRAST    = 0x81
	_ADDRESSINGMODE = 0x20
	_SEGREMAPNORMAL = 0xA0
	_COMSCANNORMAL  = 0xC0
	_SETSTARTLINE   = 0x40
	_COLUMNADDR     = 0x15
	_ROWADDR        = 0x75
)

const (
	// DefaultAddressingMode selects 4-bit grayscale addressing.
	DefaultAddressingMode = 0x81

	defaultContrast   = 0x80
	internalRegulator = 0x80

	// lastColumn is the last byte column of the 256 pixel wide RAM.
	lastColumn = 0x7F

	// lastRow is the last row of the controller RAM, independent of Height.
	lastRow = 0x3F
)

// command is a controller opcode followed by its fixed arguments. Each command
// is sent as one bracketed transfer.
type command struct {
	op   byte
	args []byte
}

func (c command) bytes() []byte {
	return append([]byte{c.op}, c.args...)
}

// initSequence returns the configuration commands in the order the controller
// requires. Addressing mode and remap must be programmed before the windows.
// The display is turned on separately once all of them have been accepted.
func initSequence(mode byte) []command {
	return []command{
		{op: _DISPLAYOFF},
		{op: _INTERNALPOWER},
		{op: _DISPLAYFOLLOW},
		{op: _NORMALDISPLAY},
		{op: _DCDCSETTING, args: []byte{internalRegulator}},
		{op: _SETCONTRAST, args: []byte{defaultContrast}},
		{op: _ADDRESSINGMODE, args: []byte{mode}},
		{op: _SEGREMAPNORMAL},
		{op: _COMSCANNORMAL},
		{op: _SETSTARTLINE | 0x00},
		columnWindow(),
		rowWindow(0),
	}
}

// columnWindow spans the full width: 256 pixels are 128 byte columns.
func columnWindow() command {
	return command{op: _COLUMNADDR, args: []byte{0x00, lastColumn}}
}

// rowWindow always runs to the last RAM row; the controller advances rows
// within the window on its own.
func rowWindow(start byte) command {
	return command{op: _ROWADDR, args: []byte{start, lastRow}}
}
