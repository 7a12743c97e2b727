package shared

import (
	"strings"

	"github.com/google/uuid"
)

// shortIDAlphabet omits look-alike characters (0/O, 1/I/l).
const shortIDAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// RandomString returns n characters drawn from the short-id alphabet.
// Randomness comes from version 4 UUIDs, 16 bytes per draw.
func RandomString(n int) string {
	var b strings.Builder
	b.Grow(n)
	for b.Len() < n {
		id := uuid.New()
		for _, c := range id {
			if b.Len() == n {
				break
			}
			b.WriteByte(shortIDAlphabet[int(c)%len(shortIDAlphabet)])
		}
	}
	return b.String()
}

// NewShortID returns prefix followed by ten random characters, e.g. "ord_7HkP2mQx9a"
func NewShortID(prefix string) string {
	return prefix + RandomString(10)
}
