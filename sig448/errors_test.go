package sig448

import (
	"errors"
	"strings"
	"testing"
)

func TestParseHex_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		kind   Kind
		ruleID string
	}{
		{"length", "00", KindLength, "SIG448-HEX-001"},
		{"character", strings.Repeat("0", HexSize-1) + "_", KindCharacter, "SIG448-HEX-002"},
		{"mixed", "fF" + strings.Repeat("0", HexSize-2), KindMixedCase, "SIG448-HEX-003"},
		{"digit", "zz" + strings.Repeat("0", HexSize-2), KindDigit, "SIG448-HEX-004"},
	}
	for _, tc := range cases {
		_, err := ParseHex(tc.in)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var e *Error
		if !errors.As(err, &e) {
			t.Fatalf("%s: expected structured *sig448.Error, got %T", tc.name, err)
		}
		if e.Kind != tc.kind {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.kind, e.Kind)
		}
		if e.RuleID != tc.ruleID {
			t.Fatalf("%s: expected RuleID %s, got %s", tc.name, tc.ruleID, e.RuleID)
		}
	}
}

func TestParseHex_CharacterBeatsLaterMixedCase(t *testing.T) {
	// The scan stops at the first violation, so the '!' wins over the later case clash.
	in := "!" + "a" + "A" + strings.Repeat("0", HexSize-3)
	_, err := ParseHex(in)
	if !IsKind(err, KindCharacter) {
		t.Fatalf("expected KindCharacter, got %v", err)
	}
}

func TestFromBytes_ErrorTaxonomy(t *testing.T) {
	_, err := FromBytes(nil)
	if RuleID(err) != "SIG448-SIG-001" {
		t.Fatalf("expected RuleID SIG448-SIG-001, got %q", RuleID(err))
	}
	if !strings.HasPrefix(err.Error(), "sig448: ") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRuleIDUnknownError(t *testing.T) {
	if RuleID(errors.New("plain")) != "" {
		t.Fatalf("expected empty RuleID for foreign errors")
	}
	if IsKind(nil, KindLength) {
		t.Fatalf("nil is not a structured error")
	}
}
