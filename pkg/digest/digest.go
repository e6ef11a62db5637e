// Package digest fingerprints the static shape of a template.
//
// A digest is a short, deterministic, comment-safe string computed from a
// template's static string segments. The server writes it into the open
// marker of every slot that holds a template result; the hydrator recomputes
// it from the value it was handed and refuses to bind when the two differ.
//
// The hash is structural, not cryptographic: two multiply-xor lanes of 32
// bits, packed little-endian and base64-encoded. Characters are hashed as
// UTF-16 code units so a digest computed here matches one computed by a
// browser runtime over the same strings.
package digest

import (
	"encoding/base64"
	"encoding/binary"
	"unicode/utf16"
)

const (
	// Lanes is the number of 32-bit accumulators.
	Lanes = 2

	// Seed is the initial value of every lane.
	Seed uint32 = 5381

	// Size is the encoded length of a digest.
	Size = (Lanes*4 + 2) / 3 * 4
)

// Compute returns the digest of the given static string segments.
// Characters are distributed over the lanes by their global index across
// all segments; segment boundaries themselves are not hashed.
func Compute(strs []string) string {
	var lanes [Lanes]uint32
	for i := range lanes {
		lanes[i] = Seed
	}

	i := 0
	for _, s := range strs {
		for _, r := range s {
			if r >= 0x10000 {
				r1, r2 := utf16.EncodeRune(r)
				lanes[i%Lanes] = lanes[i%Lanes]*33 ^ uint32(r1)
				i++
				lanes[i%Lanes] = lanes[i%Lanes]*33 ^ uint32(r2)
				i++
				continue
			}
			lanes[i%Lanes] = lanes[i%Lanes]*33 ^ uint32(r)
			i++
		}
	}

	var buf [Lanes * 4]byte
	for j, lane := range lanes {
		binary.LittleEndian.PutUint32(buf[j*4:], lane)
	}
	return base64.StdEncoding.EncodeToString(buf[:])
}

// Shape is implemented by values that carry static template strings.
type Shape interface {
	StaticStrings() []string
}

// Of returns the digest of a shape's static strings.
func Of(s Shape) string {
	return Compute(s.StaticStrings())
}

// Valid reports whether s has the form of a digest.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	b, err := base64.StdEncoding.DecodeString(s)
	return err == nil && len(b) == Lanes*4
}
