package sig448

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Every decode failure is reported as *Error regardless of Kind, so callers
// that only need "valid or not" can treat the error as opaque.
type Kind string

const (
	KindLength    Kind = "Length"
	KindCharacter Kind = "Character"
	KindMixedCase Kind = "MixedCase"
	KindDigit     Kind = "Digit"
	KindConstruct Kind = "Construct"
)

// Error is the package's structured error type.
//
// RuleID names the violated rule (SIG448-HEX-001 and so on). Message is
// intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "sig448: " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
