// The canonical-Huffman table construction and fold-the-gaps decode
// below are ported from clz/clzinflate.c's cblseq_to_huff() and
// huff_decode_input().
// Original C version: Copyright 2016 Conor F. O'Rourke. All rights reserved.
// Distributed under the terms of the Simplified BSD License (2-Clause).

package inflate

import "fmt"

// huffmanTable holds a canonical Huffman decode table built from a
// sequence of per-symbol code lengths (RFC 1951, section 3.2.2). No
// explicit per-symbol code value is ever materialized; the position of
// a symbol in decode implicitly encodes its canonical code.
type huffmanTable struct {
	blCount [maxBits + 1]int16 // how many codes have length n, n in [1,15]
	bitsLo  int                // smallest non-zero length present
	bitsHi  int                // largest non-zero length present
	valid   int                // sum of blCount (len(decode)), lowered by cap
	decode  []int16            // symbols in canonical order
}

// build populates h from lens, where lens[i] is the code length for
// symbol i (0 meaning the symbol is unused). Every length must be in
// [0, 15]; a longer length is a corrupt-stream error.
func (h *huffmanTable) build(lens []byte) error {
	for i := range h.blCount {
		h.blCount[i] = 0
	}
	h.bitsLo, h.bitsHi, h.valid = 0, 0, 0

	for _, l := range lens {
		if int(l) > maxBits {
			return &CorruptInputError{Reason: fmt.Sprintf("huffman code length %d exceeds %d", l, maxBits)}
		}
		if l == 0 {
			continue
		}
		h.blCount[l]++
	}

	for n := 1; n <= maxBits; n++ {
		if h.blCount[n] != 0 {
			if h.bitsLo == 0 {
				h.bitsLo = n
			}
			h.bitsHi = n
		}
	}

	if h.bitsLo == 0 {
		// Empty table: every code of this kind is invalid.
		h.decode = h.decode[:0]
		return nil
	}

	var offset [maxBits + 1]int
	k := 0
	for n := h.bitsLo; n <= h.bitsHi; n++ {
		offset[n] = k
		k += int(h.blCount[n])
	}
	h.valid = k

	if cap(h.decode) < h.valid {
		h.decode = make([]int16, h.valid)
	} else {
		h.decode = h.decode[:h.valid]
	}

	for sym, l := range lens {
		if l == 0 {
			continue
		}
		h.decode[offset[l]] = int16(sym)
		offset[l]++
	}
	return nil
}

// cap limits the table to the first limit canonical slots: a
// maliciously crafted dynamic table must never be able to make decode
// return a reserved symbol (286/287 for literal/length, 30/31 for
// distance).
func (h *huffmanTable) cap(limit int) {
	if h.valid > limit {
		h.valid = limit
	}
}

// decodeSymbol walks the table from bitsLo upward. It fetches bitsLo
// bits, bit-reverses them within 16 bits to recover the canonical code
// value, then folds out the gaps between bit-length ranges by
// subtracting the running range total.
func (h *huffmanTable) decodeSymbol(b *bitReader) (int16, error) {
	if h.bitsLo == 0 {
		return 0, &CorruptInputError{Offset: b.consumed, Reason: "huffman code from empty table"}
	}

	raw, err := b.fetch(uint(h.bitsLo))
	if err != nil {
		return 0, err
	}
	code := reverse16(uint16(raw), h.bitsLo)

	n := h.bitsLo
	codeRange := 0
	for {
		codeRange += int(h.blCount[n])
		if int(code) >= h.valid {
			return 0, &CorruptInputError{Offset: b.consumed, Reason: "huffman code beyond valid range"}
		}
		if int(code) < codeRange {
			return h.decode[int(code)], nil
		}
		if n >= h.bitsHi {
			// build() guarantees every valid code terminates by bitsHi;
			// falling through here means the table itself is broken, not
			// that the bitstream is malformed (clzinflate.c treats the
			// equivalent case as CLZ_ERR_INTERNAL, not a decode error).
			return 0, InternalError("huffman code not found within max bit length")
		}
		bit, err := b.fetch(1)
		if err != nil {
			return 0, err
		}
		code = (code << 1) | uint16(bit)
		code -= uint16(codeRange)
		n++
	}
}

// reverse16 bit-reverses the low n bits of v within a 16-bit field,
// using the precomputed byte-reversal table: shift v to fill the top
// 16 bits, reverse each byte via the lookup table, then swap the
// bytes.
func reverse16(v uint16, n int) uint16 {
	v <<= uint(16 - n)
	hi := byteReverse[v>>8]
	lo := byteReverse[v&0xFF]
	return uint16(lo)<<8 | uint16(hi)
}
