package sig448

import (
	"encoding/hex"
	"fmt"
)

// Case selects the digit case used when rendering hex.
type Case uint8

const (
	Lower Case = iota
	Upper
)

func (c Case) String() string {
	if c == Upper {
		return "upper"
	}
	return "lower"
}

const (
	lowerDigits = "0123456789abcdef"
	upperDigits = "0123456789ABCDEF"
)

// AppendHex appends the hex form of R then s to dst in the requested case.
func (sig Signature) AppendHex(dst []byte, c Case) []byte {
	digits := lowerDigits
	if c == Upper {
		digits = upperDigits
	}
	for _, component := range [...]*[ComponentSize]byte{&sig.r, &sig.s} {
		for _, b := range component {
			dst = append(dst, digits[b>>4], digits[b&0x0f])
		}
	}
	return dst
}

// LowerHex returns the 228-character lowercase hex form.
func (sig Signature) LowerHex() string {
	return string(sig.AppendHex(make([]byte, 0, HexSize), Lower))
}

// UpperHex returns the 228-character uppercase hex form.
func (sig Signature) UpperHex() string {
	return string(sig.AppendHex(make([]byte, 0, HexSize), Upper))
}

func (sig Signature) String() string {
	return sig.LowerHex()
}

// Format implements fmt.Formatter: %x is lowercase, %X uppercase, and %s/%v
// fall back to lowercase.
func (sig Signature) Format(f fmt.State, verb rune) {
	switch verb {
	case 'x', 's', 'v':
		_, _ = f.Write(sig.AppendHex(make([]byte, 0, HexSize), Lower))
	case 'X':
		_, _ = f.Write(sig.AppendHex(make([]byte, 0, HexSize), Upper))
	default:
		fmt.Fprintf(f, "%%!%c(sig448.Signature=%s)", verb, sig.LowerHex())
	}
}

// MarshalText implements encoding.TextMarshaler using lowercase hex.
func (sig Signature) MarshalText() ([]byte, error) {
	return sig.AppendHex(make([]byte, 0, HexSize), Lower), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the rules of ParseHex.
// On failure the receiver is left untouched.
func (sig *Signature) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*sig = parsed
	return nil
}

// letterCase tracks which letter case a hex string has committed to.
type letterCase uint8

const (
	caseUnknown letterCase = iota
	caseLower
	caseUpper
)

// ParseHex decodes a signature from exactly HexSize hex characters.
//
// Upper and lower case are both accepted, mixed case is rejected. The case
// scan admits any ASCII letter; letters past f/F are rejected when the digit
// pairs are decoded.
func ParseHex(s string) (Signature, error) {
	if len(s) != HexSize {
		return Signature{}, newError(KindLength, "SIG448-HEX-001",
			fmt.Sprintf("hex signature must be %d characters, got %d", HexSize, len(s)))
	}

	seen := caseUnknown
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
			if seen == caseUpper {
				return Signature{}, newError(KindMixedCase, "SIG448-HEX-003",
					fmt.Sprintf("mixed case hex at offset %d", i))
			}
			seen = caseLower
		case c >= 'A' && c <= 'Z':
			if seen == caseLower {
				return Signature{}, newError(KindMixedCase, "SIG448-HEX-003",
					fmt.Sprintf("mixed case hex at offset %d", i))
			}
			seen = caseUpper
		default:
			return Signature{}, newError(KindCharacter, "SIG448-HEX-002",
				fmt.Sprintf("invalid character %q at offset %d", c, i))
		}
	}

	var flat [Size]byte
	for i := range flat {
		if _, err := hex.Decode(flat[i:i+1], []byte(s[2*i:2*i+2])); err != nil {
			return Signature{}, wrapError(KindDigit, "SIG448-HEX-004",
				fmt.Sprintf("invalid hex digit pair %q at offset %d", s[2*i:2*i+2], 2*i), err)
		}
	}
	return FromBytes(flat[:])
}
