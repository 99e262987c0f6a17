// SPDX-License-Identifier: EPL-2.0

package ogg

// Ogg uses CRC-32 with polynomial 0x04c11db7, no reflection, zero initial
// value and no final xor.
var crcTable = func() (t [256]uint32) {
	for i := range 256 {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}()

func crcUpdate(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}

// Checksum returns the Ogg CRC-32 of an encoded page whose checksum field
// (bytes 22..25) has been zeroed.
func Checksum(page []byte) uint32 {
	return crcUpdate(0, page)
}
