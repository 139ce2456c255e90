// The extra-bits/base tables and fixed Huffman table construction below
// are ported from clz/clzinflate.c.
// Original C version: Copyright 2016 Conor F. O'Rourke. All rights reserved.
// Distributed under the terms of the Simplified BSD License (2-Clause).

package inflate

// maxBits is the largest Huffman code length the DEFLATE format allows
// (RFC 1951 §3.2.2).
const maxBits = 15

// windowSize is the size of the LZ77 sliding window / history buffer.
const windowSize = 32768

const (
	maxLitLen  = 288 // literal/length alphabet size
	maxDist    = 32  // distance alphabet size
	maxCodeLen = 19  // code-length-code alphabet size

	litLenCodesOK = 286 // symbols 286, 287 are reserved, never used
	distCodesOK   = 30  // symbols 30, 31 are reserved, never used
)

// byteReverse[b] is the 8-bit bit-reversal of b. Huffman codes are
// stored MSB-first within their own bit length while bits are pulled
// from the stream LSB-first, so every fetched code must be reversed
// within its length before it can be compared against the canonical
// ordering built by huffmanTable.build.
var byteReverse [256]byte

// bitMask[n] is the low-n-bits all-ones mask, n in [1, maxBits].
var bitMask [maxBits + 1]uint32

// lengthExtraBits and lengthBase hold the "extra bits" and base value
// for length codes 257..285 (RFC 1951 §3.2.5), indexed by code-257.
var lengthExtraBits [29]uint8
var lengthBase [29]uint16

// distExtraBits and distBase hold the "extra bits" and base value for
// distance codes 0..29.
var distExtraBits [30]uint8
var distBase [30]uint16

// fixedLitLenTable and fixedDistTable are the Huffman decode tables
// defined directly by the format for "fixed Huffman" blocks (RFC 1951
// §3.2.6). Built once, read-only thereafter, and safely shared by any
// number of concurrent decoders.
var fixedLitLenTable huffmanTable
var fixedDistTable huffmanTable

func init() {
	buildByteReverse()
	buildBitMask()
	buildExtraBitsTables()
	buildFixedTables()
}

func buildByteReverse() {
	for i := 0; i < 256; i++ {
		var r byte
		for j := 0; j < 8; j++ {
			if i&(1<<uint(j)) != 0 {
				r |= 0x80 >> uint(j)
			}
		}
		byteReverse[i] = r
	}
}

func buildBitMask() {
	j := 2
	for i := 1; i <= maxBits; i++ {
		bitMask[i] = uint32(j - 1)
		j *= 2
	}
}

// buildExtraBitsTables fills in the length/distance extra-bits and base
// tables. Length code 285 (index 28) is a special case: base 258, 0
// extra bits, not the general doubling-step formula.
func buildExtraBitsTables() {
	k := 0
	for i := 0; i < 28; i++ {
		if i >= 8 && i%4 == 0 {
			k++
		}
		lengthExtraBits[i] = uint8(k)
	}
	lengthExtraBits[28] = 0

	k = 0
	for i := 4; i < 30; i++ {
		if i%2 == 0 {
			k++
		}
		distExtraBits[i] = uint8(k)
	}

	base := uint16(3)
	for i := 0; i < 28; i++ {
		lengthBase[i] = base
		base += 1 << lengthExtraBits[i]
	}
	lengthBase[28] = 258

	base = 1
	for i := 0; i < 30; i++ {
		distBase[i] = base
		base += 1 << distExtraBits[i]
	}
}

// buildFixedTables constructs the prebuilt fixed Huffman decode tables:
// literal/length symbols 0-143 have length 8, 144-255 have length 9,
// 256-279 have length 7, 280-287 have length 8; all 32 distance codes
// have length 5 (RFC 1951 §3.2.6).
func buildFixedTables() {
	lens := make([]byte, maxLitLen)
	for i := 0; i < 144; i++ {
		lens[i] = 8
	}
	for i := 144; i < 256; i++ {
		lens[i] = 9
	}
	for i := 256; i < 280; i++ {
		lens[i] = 7
	}
	for i := 280; i < maxLitLen; i++ {
		lens[i] = 8
	}
	if err := fixedLitLenTable.build(lens); err != nil {
		panic("inflate: failed to build fixed literal/length table: " + err.Error())
	}

	distLens := make([]byte, maxDist)
	for i := range distLens {
		distLens[i] = 5
	}
	if err := fixedDistTable.build(distLens); err != nil {
		panic("inflate: failed to build fixed distance table: " + err.Error())
	}
}
