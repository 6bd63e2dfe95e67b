package sig448

import "fmt"

const (
	// ComponentSize is the byte width of each of R and s.
	ComponentSize = 57
	// Size is the byte length of the flat R || s encoding.
	Size = 2 * ComponentSize
	// HexSize is the length of the hexadecimal text form.
	HexSize = 2 * Size
)

// Signature is an Ed448 signature. The zero value is all-zero R and s.
type Signature struct {
	r [ComponentSize]byte
	s [ComponentSize]byte
}

// New builds a Signature from its two components.
func New(r, s [ComponentSize]byte) Signature {
	return Signature{r: r, s: s}
}

// FromBytes builds a Signature from the flat R || s encoding.
//
// Only the length is checked. Whether R is a curve point and s is reduced is a
// verification concern.
func FromBytes(b []byte) (Signature, error) {
	if len(b) != Size {
		return Signature{}, newError(KindConstruct, "SIG448-SIG-001",
			fmt.Sprintf("signature must be %d bytes, got %d", Size, len(b)))
	}
	var sig Signature
	copy(sig.r[:], b[:ComponentSize])
	copy(sig.s[:], b[ComponentSize:])
	return sig, nil
}

// R returns a copy of the R component.
func (sig Signature) R() [ComponentSize]byte { return sig.r }

// S returns a copy of the s component.
func (sig Signature) S() [ComponentSize]byte { return sig.s }

// Bytes returns a fresh copy of R || s.
func (sig Signature) Bytes() []byte {
	out := make([]byte, 0, Size)
	out = append(out, sig.r[:]...)
	return append(out, sig.s[:]...)
}

func (sig Signature) Equal(other Signature) bool {
	return sig == other
}
