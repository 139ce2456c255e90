// The bit-accumulator discipline below follows clz/clzinflate.c's
// getbits()/bytealign() routines.
// Original C version: Copyright 2016 Conor F. O'Rourke. All rights reserved.
// Distributed under the terms of the Simplified BSD License (2-Clause).

package inflate

// bitReader is a buffered, pull-based bit extractor. Bits are stored in
// bytes from the least significant bit to the most significant bit, so
// bits are dropped from the bottom of the accumulator (shift right) and
// new bytes are appended above the existing bits (shift left).
type bitReader struct {
	in    inputAdapter
	accum uint32 // bit accumulator, holds at least 32 bits
	nbits uint   // number of valid bits currently in accum

	consumed uint64 // running count of input bytes consumed
}

func (b *bitReader) init(in inputAdapter) {
	b.in = in
	b.accum = 0
	b.nbits = 0
	b.consumed = 0
}

// needBits ensures the accumulator holds at least n valid bits, pulling
// bytes from the input adapter as needed. Each pulled byte is appended
// above the existing bits.
func (b *bitReader) needBits(n uint) error {
	for b.nbits < n {
		c, err := b.in.nextByte()
		if err != nil {
			return &InputError{Err: err}
		}
		b.accum |= uint32(c) << b.nbits
		b.nbits += 8
		b.consumed++
	}
	return nil
}

// fetch requires 0 <= n <= 15. It returns the low n bits of the
// accumulator, consuming them.
func (b *bitReader) fetch(n uint) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n > maxBits {
		return 0, InternalError("fetch requested more than 15 bits")
	}
	if n > b.nbits {
		if err := b.needBits(n); err != nil {
			return 0, err
		}
	}
	val := b.accum & bitMask[n]
	b.accum >>= n
	b.nbits -= n
	return val, nil
}

// fetch16 reads a 16-bit little-endian field as two separate 8-bit
// fetches, since fetch itself is capped at maxBits per call. Used for
// the stored-block LEN/NLEN fields, which are always read immediately
// after discardToByte leaves the accumulator byte-aligned.
func (b *bitReader) fetch16() (uint32, error) {
	lo, err := b.fetch(8)
	if err != nil {
		return 0, err
	}
	hi, err := b.fetch(8)
	if err != nil {
		return 0, err
	}
	return lo | (hi << 8), nil
}

// discardToByte drops all bits currently buffered, aligning the next
// fetch to a byte boundary. Used by the stored-block entry point. More
// than 7 buffered bits at this point indicates a caller bug.
func (b *bitReader) discardToByte() error {
	if b.nbits >= 8 {
		return InternalError("discardToByte with 8 or more buffered bits")
	}
	b.accum = 0
	b.nbits = 0
	return nil
}
