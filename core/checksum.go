package core

import "unicode/utf16"

// Checksum is the 31-multiplier polynomial hash over the UTF-16 code units of
// text, wrapping at 32 bits. Marker files written by older clients carry
// exactly this value.
func Checksum(text string) int32 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(text)) {
		hash = 31*hash + int32(unit)
	}
	return hash
}
