// Package sig448 holds the Ed448 signature value and its hexadecimal text form.
//
// A Signature is the 114-byte pair R || s. It renders as 228 hex digits in a
// caller-chosen case and parses back from text that is either all lowercase or
// all uppercase. Signing and verification live in package keys; this package
// never touches curve arithmetic.
package sig448
