package slip

import "fmt"

// SLIP special bytes (RFC 1055).
const (
	End    = 0xC0
	Esc    = 0xDB
	EscEnd = 0xDC
	EscEsc = 0xDD
)

// HCI three-wire UART additionally reserves the software flow control bytes.
const (
	XON     = 0x11
	XOFF    = 0x13
	EscXON  = 0xDE
	EscXOFF = 0xDF
)

// Variant selects the escape table used by an Encoder or Decoder.
type Variant uint8

const (
	// Standard is plain RFC 1055 SLIP.
	Standard Variant = iota
	// ThreeWire is the Bluetooth HCI three-wire variant, which also escapes XON and XOFF.
	ThreeWire
)

// String returns the config/flag spelling of the variant.
func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case ThreeWire:
		return "three-wire"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// ParseVariant parses "standard" or "three-wire".
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "", "standard", "slip":
		return Standard, nil
	case "three-wire", "threewire", "3wire", "h5":
		return ThreeWire, nil
	default:
		return Standard, fmt.Errorf("slip: unknown variant %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	switch v {
	case Standard, ThreeWire:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("slip: unknown variant %d", uint8(v))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// escape returns the byte that follows Esc for a reserved raw byte.
func escape(v Variant, b byte) (byte, bool) {
	switch b {
	case End:
		return EscEnd, true
	case Esc:
		return EscEsc, true
	}
	if v == ThreeWire {
		switch b {
		case XON:
			return EscXON, true
		case XOFF:
			return EscXOFF, true
		}
	}
	return 0, false
}

// unescape maps the byte after Esc back to the raw byte.
func unescape(v Variant, b byte) (byte, bool) {
	switch b {
	case EscEnd:
		return End, true
	case EscEsc:
		return Esc, true
	}
	if v == ThreeWire {
		switch b {
		case EscXON:
			return XON, true
		case EscXOFF:
			return XOFF, true
		}
	}
	return 0, false
}
