package cidutil

import "testing"

func TestCIDv1RawSHA256Stable(t *testing.T) {
	a := CIDv1RawSHA256([]byte("message"))
	b := CIDv1RawSHA256([]byte("message"))
	if a == "" || a != b {
		t.Fatalf("expected stable non-empty CID, got %q and %q", a, b)
	}
	if a == CIDv1RawSHA256([]byte("other")) {
		t.Fatalf("expected different messages to differ")
	}
}

func TestParseRoundTrip(t *testing.T) {
	want, err := CIDv1RawSHA256CID([]byte("message"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	got, err := Parse(want.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != want {
		t.Fatalf("Parse mismatch: %s vs %s", got, want)
	}
	if _, err := Parse("not-a-cid"); err == nil {
		t.Fatalf("expected garbage to fail")
	}
}
