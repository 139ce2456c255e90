// The dynamic-table header parse below follows clz/clzinflate.c's
// dynamic-table-building routine (RFC 1951, section 3.2.7).
// Original C version: Copyright 2016 Conor F. O'Rourke. All rights reserved.
// Distributed under the terms of the Simplified BSD License (2-Clause).

package inflate

// clsOrder is the fixed permutation used to scatter the hclen code-length
// code lengths into their 19-slot positions, per RFC 1951 §3.2.7.
var clsOrder = [maxCodeLen]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5,
	11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// buildDynamicTables parses a dynamic-Huffman block header (RFC 1951,
// section 3.2.7) and builds the literal/length and distance decode
// tables it describes.
func buildDynamicTables(b *bitReader, cls, litLen, dist *huffmanTable) error {
	hlitRaw, err := b.fetch(5)
	if err != nil {
		return err
	}
	hdistRaw, err := b.fetch(5)
	if err != nil {
		return err
	}
	hclenRaw, err := b.fetch(4)
	if err != nil {
		return err
	}

	hlit := int(hlitRaw) + 257
	hdist := int(hdistRaw) + 1
	hclen := int(hclenRaw) + 4

	if hlit > 286 || hclen > maxCodeLen {
		return &CorruptInputError{Offset: b.consumed, Reason: "hlit or hclen out of range"}
	}

	var clsLens [maxCodeLen]byte
	for i := 0; i < hclen; i++ {
		v, err := b.fetch(3)
		if err != nil {
			return err
		}
		clsLens[clsOrder[i]] = byte(v)
	}
	if err := cls.build(clsLens[:]); err != nil {
		return err
	}

	total := hlit + hdist
	combined := make([]byte, total)
	i := 0
	for i < total {
		sym, err := cls.decodeSymbol(b)
		if err != nil {
			return err
		}

		switch {
		case sym <= 15:
			combined[i] = byte(sym)
			i++

		case sym == 16:
			extra, err := b.fetch(2)
			if err != nil {
				return err
			}
			reps := int(extra) + 3
			if i == 0 {
				return &CorruptInputError{Offset: b.consumed, Reason: "repeat code 16 with no preceding code length"}
			}
			if i+reps > total {
				return &CorruptInputError{Offset: b.consumed, Reason: "repeat code 16 overruns code length count"}
			}
			prev := combined[i-1]
			for k := 0; k < reps; k++ {
				combined[i] = prev
				i++
			}

		case sym == 17:
			extra, err := b.fetch(3)
			if err != nil {
				return err
			}
			reps := int(extra) + 3
			if i+reps > total {
				return &CorruptInputError{Offset: b.consumed, Reason: "repeat code 17 overruns code length count"}
			}
			for k := 0; k < reps; k++ {
				combined[i] = 0
				i++
			}

		case sym == 18:
			extra, err := b.fetch(7)
			if err != nil {
				return err
			}
			reps := int(extra) + 11
			if i+reps > total {
				return &CorruptInputError{Offset: b.consumed, Reason: "repeat code 18 overruns code length count"}
			}
			for k := 0; k < reps; k++ {
				combined[i] = 0
				i++
			}

		default:
			return &CorruptInputError{Offset: b.consumed, Reason: "invalid code-length-code symbol"}
		}
	}

	if err := litLen.build(combined[:hlit]); err != nil {
		return err
	}
	if err := dist.build(combined[hlit:]); err != nil {
		return err
	}

	litLen.cap(litLenCodesOK)
	dist.cap(distCodesOK)
	return nil
}
