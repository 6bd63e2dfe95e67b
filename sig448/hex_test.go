package sig448

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(b byte) [ComponentSize]byte {
	var out [ComponentSize]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func patterned(seed byte) Signature {
	var r, s [ComponentSize]byte
	for i := range r {
		r[i] = seed + byte(i)*7
		s[i] = seed ^ byte(i*13)
	}
	return New(r, s)
}

func TestEncodeZeroAndFF(t *testing.T) {
	sig := New(filled(0x00), filled(0xff))
	want := strings.Repeat("00", ComponentSize) + strings.Repeat("ff", ComponentSize)

	got := sig.LowerHex()
	require.Len(t, got, HexSize)
	assert.Equal(t, want, got)
	assert.Equal(t, strings.ToUpper(want), sig.UpperHex())

	back, err := ParseHex(got)
	require.NoError(t, err)
	assert.Equal(t, filled(0x00), back.R())
	assert.Equal(t, filled(0xff), back.S())
}

func TestRoundTripBothCases(t *testing.T) {
	for seed := 0; seed < 256; seed += 17 {
		sig := patterned(byte(seed))
		for _, enc := range []string{sig.LowerHex(), sig.UpperHex()} {
			got, err := ParseHex(enc)
			require.NoError(t, err, "seed %d", seed)
			assert.True(t, sig.Equal(got), "seed %d", seed)
		}
	}
}

func TestEncodeOrderIsRThenS(t *testing.T) {
	var r, s [ComponentSize]byte
	r[0], r[ComponentSize-1] = 0x0a, 0xb1
	s[0], s[ComponentSize-1] = 0xc2, 0x03
	enc := New(r, s).LowerHex()

	assert.Equal(t, "0a", enc[:2])
	assert.Equal(t, "b1", enc[2*ComponentSize-2:2*ComponentSize])
	assert.Equal(t, "c2", enc[2*ComponentSize:2*ComponentSize+2])
	assert.Equal(t, "03", enc[HexSize-2:])
}

func TestFormatVerbs(t *testing.T) {
	sig := patterned(0x5a)
	assert.Equal(t, sig.LowerHex(), fmt.Sprintf("%x", sig))
	assert.Equal(t, sig.UpperHex(), fmt.Sprintf("%X", sig))
	assert.Equal(t, sig.LowerHex(), fmt.Sprintf("%v", sig))
	assert.Equal(t, sig.LowerHex(), fmt.Sprintf("%s", sig))
	assert.Equal(t, "%!d(sig448.Signature="+sig.LowerHex()+")", fmt.Sprintf("%d", sig))
}

func TestAppendHexKeepsPrefix(t *testing.T) {
	sig := patterned(0x01)
	out := sig.AppendHex([]byte("sig="), Upper)
	require.True(t, bytes.HasPrefix(out, []byte("sig=")))
	assert.Equal(t, sig.UpperHex(), string(out[4:]))
}

func TestParseRejectsLength(t *testing.T) {
	valid := patterned(0x33).LowerHex()
	for _, in := range []string{"", valid[:HexSize-1], valid + "0", valid[:HexSize-2], "0x" + valid, " " + valid} {
		_, err := ParseHex(in)
		require.Error(t, err, "len %d", len(in))
		assert.True(t, IsKind(err, KindLength), "len %d: %v", len(in), err)
		assert.Equal(t, "SIG448-HEX-001", RuleID(err))
	}
}

func TestParseRejectsPrefixWithinLength(t *testing.T) {
	valid := strings.Repeat("0", HexSize)
	_, err := ParseHex("0x" + valid[2:])
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDigit), "%v", err)
}

func TestParseRejectsSingleCaseFlip(t *testing.T) {
	sig := New(filled(0xab), filled(0xcd))
	lower := sig.LowerHex()
	for i := 0; i < len(lower); i++ {
		if lower[i] < 'a' || lower[i] > 'f' {
			continue
		}
		flipped := lower[:i] + strings.ToUpper(lower[i:i+1]) + lower[i+1:]
		_, err := ParseHex(flipped)
		require.Error(t, err, "offset %d", i)
		assert.True(t, IsKind(err, KindMixedCase), "offset %d: %v", i, err)
	}
}

func TestParseMixedCaseReportsFirstViolation(t *testing.T) {
	in := "aA" + strings.Repeat("0", HexSize-3) + " "
	_, err := ParseHex(in)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMixedCase))
}

func TestParseRejectsNonHexCharacters(t *testing.T) {
	base := strings.Repeat("0", HexSize)
	for _, c := range []byte{' ', '-', '+', '.', '\n', 0x00, 0xc3} {
		for _, pos := range []int{0, 1, HexSize / 2, HexSize - 1} {
			in := base[:pos] + string([]byte{c}) + base[pos+1:]
			_, err := ParseHex(in)
			require.Error(t, err, "char %q at %d", c, pos)
			assert.True(t, IsKind(err, KindCharacter), "char %q at %d: %v", c, pos, err)
		}
	}
}

func TestParseOutOfRangeLetterFailsAtDigitDecode(t *testing.T) {
	base := strings.Repeat("a", HexSize)
	for _, pos := range []int{0, 57, HexSize - 1} {
		in := base[:pos] + "g" + base[pos+1:]
		_, err := ParseHex(in)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindDigit), "pos %d: %v", pos, err)
	}

	_, err := ParseHex(strings.Repeat("G", HexSize))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDigit))
	assert.Equal(t, "SIG448-HEX-004", RuleID(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.NotNil(t, e.Unwrap())
}

func TestParseDigitsOnly(t *testing.T) {
	in := strings.Repeat("0123456789", HexSize/10) + strings.Repeat("9", HexSize%10)
	require.Len(t, in, HexSize)
	sig, err := ParseHex(in)
	require.NoError(t, err)
	assert.Equal(t, in, sig.LowerHex())
	assert.Equal(t, in, sig.UpperHex())
}

func TestFromBytes(t *testing.T) {
	flat := patterned(0x77).Bytes()
	require.Len(t, flat, Size)

	sig, err := FromBytes(flat)
	require.NoError(t, err)
	assert.Equal(t, flat, sig.Bytes())

	flat[0] ^= 0xff
	assert.NotEqual(t, flat, sig.Bytes(), "Bytes must return a copy")

	for _, n := range []int{0, Size - 1, Size + 1} {
		_, err := FromBytes(make([]byte, n))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindConstruct))
	}
}

func TestTextMarshalling(t *testing.T) {
	type envelope struct {
		Sig Signature `json:"sig"`
	}
	in := envelope{Sig: patterned(0x10)}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sig":"`+in.Sig.LowerHex()+`"}`, string(b))

	var out envelope
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, in.Sig.Equal(out.Sig))

	orig := out.Sig
	err = out.Sig.UnmarshalText([]byte("nope"))
	require.Error(t, err)
	assert.True(t, orig.Equal(out.Sig))
}

func TestConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed byte) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sig := patterned(seed + byte(i))
				got, err := ParseHex(sig.UpperHex())
				if err != nil || !got.Equal(sig) {
					t.Errorf("worker %d iteration %d: %v", seed, i, err)
					return
				}
			}
		}(byte(w * 31))
	}
	wg.Wait()
}
