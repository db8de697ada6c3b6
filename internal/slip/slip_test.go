package slip

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncode_EmptyData(t *testing.T) {
	result := Encode(nil)
	expected := []byte{End, End}
	if !bytes.Equal(result, expected) {
		t.Errorf("Encode(nil) = %v, want %v", result, expected)
	}

	result = Encode([]byte{})
	if !bytes.Equal(result, expected) {
		t.Errorf("Encode([]) = %v, want %v", result, expected)
	}
}

func TestEncode_NoSpecialBytes(t *testing.T) {
	input := []byte{0x01, 0x02, 0x03, 0x04}
	result := Encode(input)
	expected := []byte{End, 0x01, 0x02, 0x03, 0x04, End}
	if !bytes.Equal(result, expected) {
		t.Errorf("Encode(%v) = %v, want %v", input, result, expected)
	}
}

func TestEncode_EscapeEndByte(t *testing.T) {
	input := []byte{0x01, End, 0x03}
	result := Encode(input)
	expected := []byte{End, 0x01, Esc, EscEnd, 0x03, End}
	if !bytes.Equal(result, expected) {
		t.Errorf("Encode(%v) = %v, want %v", input, result, expected)
	}
}

func TestEncode_EscapeEscByte(t *testing.T) {
	input := []byte{0x01, Esc, 0x03}
	result := Encode(input)
	expected := []byte{End, 0x01, Esc, EscEsc, 0x03, End}
	if !bytes.Equal(result, expected) {
		t.Errorf("Encode(%v) = %v, want %v", input, result, expected)
	}
}

func TestEncode_MultipleSpecialBytes(t *testing.T) {
	input := []byte{End, Esc, End, Esc}
	result := Encode(input)
	expected := []byte{End, Esc, EscEnd, Esc, EscEsc, Esc, EscEnd, Esc, EscEsc, End}
	if !bytes.Equal(result, expected) {
		t.Errorf("Encode(%v) = %v, want %v", input, result, expected)
	}
}

func TestEncode_StandardLeavesFlowControlBytes(t *testing.T) {
	input := []byte{XON, XOFF}
	result := Encode(input)
	expected := []byte{End, XON, XOFF, End}
	if !bytes.Equal(result, expected) {
		t.Errorf("Encode(%v) = %v, want %v", input, result, expected)
	}
}

func TestEncodeVariant_ThreeWire(t *testing.T) {
	input := []byte{XON, XOFF}
	result := EncodeVariant(ThreeWire, input)
	expected := []byte{End, Esc, EscXON, Esc, EscXOFF, End}
	if !bytes.Equal(result, expected) {
		t.Errorf("EncodeVariant(ThreeWire, %v) = %v, want %v", input, result, expected)
	}
}

func TestDecode_ValidFrame(t *testing.T) {
	frame := []byte{End, 0x01, 0x02, 0x03, End}
	result, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode(%v) error = %v", frame, err)
	}
	expected := []byte{0x01, 0x02, 0x03}
	if !bytes.Equal(result, expected) {
		t.Errorf("Decode(%v) = %v, want %v", frame, result, expected)
	}
}

func TestDecode_UnescapeEndByte(t *testing.T) {
	frame := []byte{End, 0x01, Esc, EscEnd, 0x03, End}
	result, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode(%v) error = %v", frame, err)
	}
	expected := []byte{0x01, End, 0x03}
	if !bytes.Equal(result, expected) {
		t.Errorf("Decode(%v) = %v, want %v", frame, result, expected)
	}
}

func TestDecode_UnescapeEscByte(t *testing.T) {
	frame := []byte{End, 0x01, Esc, EscEsc, 0x03, End}
	result, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode(%v) error = %v", frame, err)
	}
	expected := []byte{0x01, Esc, 0x03}
	if !bytes.Equal(result, expected) {
		t.Errorf("Decode(%v) = %v, want %v", frame, result, expected)
	}
}

func TestDecode_EmptyFrame(t *testing.T) {
	// END END is a delimiter run, not an empty frame.
	frame := []byte{End, End}
	result, err := Decode(frame)
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("Decode(%v) error = %v, want ErrIncomplete", frame, err)
	}
	if result != nil {
		t.Errorf("Decode(%v) = %v, want nil", frame, result)
	}
}

func TestDecode_TooShort(t *testing.T) {
	if _, err := Decode([]byte{End}); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Decode([0xC0]) error = %v, want ErrIncomplete", err)
	}

	if _, err := Decode(nil); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Decode(nil) error = %v, want ErrIncomplete", err)
	}
}

func TestDecode_MultipleLeadingEndBytes(t *testing.T) {
	frame := []byte{End, End, End, 0x01, 0x02, End}
	result, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode(%v) error = %v", frame, err)
	}
	expected := []byte{0x01, 0x02}
	if !bytes.Equal(result, expected) {
		t.Errorf("Decode(%v) = %v, want %v", frame, result, expected)
	}
}

func TestDecode_MultipleTrailingEndBytes(t *testing.T) {
	frame := []byte{End, 0x01, 0x02, End, End, End}
	result, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode(%v) error = %v", frame, err)
	}
	expected := []byte{0x01, 0x02}
	if !bytes.Equal(result, expected) {
		t.Errorf("Decode(%v) = %v, want %v", frame, result, expected)
	}
}

func TestDecode_UnknownEscapeSequence(t *testing.T) {
	frame := []byte{End, 0x01, Esc, 0xFF, 0x03, End}
	result, err := Decode(frame)
	if !errors.Is(err, ErrBadEscape) {
		t.Errorf("Decode(%v) error = %v, want ErrBadEscape", frame, err)
	}
	if result != nil {
		t.Errorf("Decode(%v) = %v, want nil", frame, result)
	}
}

func TestDecode_ResultDoesNotAliasInput(t *testing.T) {
	frame := []byte{End, 0x01, 0x02, End}
	result, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode(%v) error = %v", frame, err)
	}
	frame[1] = 0xAA
	if result[0] != 0x01 {
		t.Errorf("Decode result changed with input: %v", result)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	testCases := [][]byte{
		{0x00},
		{0x01, 0x02, 0x03},
		{End},
		{Esc},
		{End, Esc},
		{0x00, End, 0x00, Esc, 0x00},
		{0xFF, 0xFE, 0xFD},
		{XON, XOFF, EscEnd, EscEsc},
		// Large data
		make([]byte, 256),
	}

	for i, tc := range testCases {
		encoded := Encode(tc)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Errorf("Case %d: Decode error = %v", i, err)
			continue
		}
		if !bytes.Equal(decoded, tc) {
			t.Errorf("Case %d: RoundTrip(%v) = %v, want %v", i, tc, decoded, tc)
		}
	}
}

func TestDecodeAll_BackToBackFrames(t *testing.T) {
	testCases := []struct {
		name   string
		stream []byte
		want   [][]byte
	}{
		{
			name:   "separate delimiters",
			stream: []byte{End, 0x02, End, End, 0x01, End},
			want:   [][]byte{{0x02}, {0x01}},
		},
		{
			name:   "garbage between frames",
			stream: []byte{End, 0x02, End, 0x03, End, End, 0x01, End},
			want:   [][]byte{{0x02}, {0x01}},
		},
		{
			name:   "trailing delimiter run",
			stream: []byte{End, 0x02, End, End, End},
			want:   [][]byte{{0x02}},
		},
		{
			name:   "leading garbage",
			stream: []byte{0x01, 0x01, End, 0x02, End},
			want:   [][]byte{{0x02}},
		},
		{
			name:   "double start",
			stream: []byte{End, End, 0x02, End},
			want:   [][]byte{{0x02}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeAll(tc.stream)
			if err != nil {
				t.Fatalf("DecodeAll error = %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("DecodeAll returned %d frames %v, want %d", len(got), got, len(tc.want))
			}
			for i := range got {
				if !bytes.Equal(got[i], tc.want[i]) {
					t.Errorf("frame %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestDecodeAll_SkipsBadEscape(t *testing.T) {
	stream := []byte{End, Esc, 0x05, End, End, 0x01, End}
	got, err := DecodeAll(stream)
	if !errors.Is(err, ErrBadEscape) {
		t.Errorf("DecodeAll error = %v, want ErrBadEscape", err)
	}
	if len(got) != 1 || !bytes.Equal(got[0], []byte{0x01}) {
		t.Errorf("DecodeAll frames = %v, want [[1]]", got)
	}
}

func TestDecodeAll_ThreeWire(t *testing.T) {
	stream := EncodeVariant(ThreeWire, []byte{XON, 0x42, XOFF})
	got, err := DecodeAll(stream, WithVariant(ThreeWire))
	if err != nil {
		t.Fatalf("DecodeAll error = %v", err)
	}
	if len(got) != 1 || !bytes.Equal(got[0], []byte{XON, 0x42, XOFF}) {
		t.Errorf("DecodeAll frames = %v", got)
	}
}
