package cache

import (
	"hash/fnv"
	"unicode/utf16"
)

// Hash computes the cache key of a fragment: 64-bit FNV-1a over the
// fragment's UTF-16 code units, each unit fed low byte first. Runes outside
// the BMP contribute their surrogate pair.
func Hash(source string) uint64 {
	h := fnv.New64a()
	var unit [2]byte
	write := func(u uint16) {
		unit[0] = byte(u)
		unit[1] = byte(u >> 8)
		_, _ = h.Write(unit[:])
	}
	for _, r := range source {
		if utf16.RuneLen(r) == 2 {
			r1, r2 := utf16.EncodeRune(r)
			write(uint16(r1))
			write(uint16(r2))
			continue
		}
		write(uint16(r))
	}
	return h.Sum64()
}
