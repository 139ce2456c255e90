package inflate

// blockStored reads the raw "uncompressed" block body (RFC 1951,
// section 3.2.4) directly into the sliding window, bypassing the bit
// accumulator.
func blockStored(b *bitReader, win *slidingWindow) error {
	if err := b.discardToByte(); err != nil {
		return err
	}

	lenRaw, err := b.fetch16()
	if err != nil {
		return err
	}
	nlenRaw, err := b.fetch16()
	if err != nil {
		return err
	}

	length := int(lenRaw)
	if lenRaw != (^nlenRaw)&0xFFFF {
		return &CorruptInputError{Offset: b.consumed, Reason: "stored block length/complement mismatch"}
	}

	for length > 0 {
		room := windowSize - win.cpos
		if room == 0 {
			return InternalError("sliding window full with nothing flushed before stored copy")
		}
		want := room
		if length < want {
			want = length
		}
		n, err := b.in.readBulk(win.buf[win.cpos : win.cpos+want])
		if err != nil {
			return &InputError{Err: err}
		}
		if n == 0 {
			return &InputError{}
		}
		win.cpos += n
		b.consumed += uint64(n)
		length -= n
		if win.cpos == windowSize {
			if err := win.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// inflateLoop is the common literal/length-and-distance decode loop
// (RFC 1951, section 3.2.5) used by both the fixed and dynamic Huffman
// block processors.
func inflateLoop(b *bitReader, win *slidingWindow, litLen, dist *huffmanTable) error {
	for {
		sym, err := litLen.decodeSymbol(b)
		if err != nil {
			return err
		}

		if sym < 256 {
			if err := win.emitLiteral(byte(sym)); err != nil {
				return err
			}
			continue
		}
		if sym == 256 {
			return nil
		}
		if sym > 285 {
			return &CorruptInputError{Offset: b.consumed, Reason: "literal/length symbol beyond 285"}
		}

		i := int(sym) - 257
		extra, err := b.fetch(uint(lengthExtraBits[i]))
		if err != nil {
			return err
		}
		length := int(lengthBase[i]) + int(extra)

		dsym, err := dist.decodeSymbol(b)
		if err != nil {
			return err
		}
		if int(dsym) >= len(distExtraBits) {
			return &CorruptInputError{Offset: b.consumed, Reason: "distance symbol out of range"}
		}
		dextra, err := b.fetch(uint(distExtraBits[dsym]))
		if err != nil {
			return err
		}
		distance := int(distBase[dsym]) + int(dextra)

		if err := win.copy(length, distance); err != nil {
			return err
		}
	}
}

// blockFixed decodes a block using the prebuilt fixed Huffman tables
// (RFC 1951, section 3.2.6).
func blockFixed(b *bitReader, win *slidingWindow) error {
	return inflateLoop(b, win, &fixedLitLenTable, &fixedDistTable)
}

// blockDynamic builds the per-block dynamic tables then decodes using
// them.
func blockDynamic(b *bitReader, win *slidingWindow, cls, litLen, dist *huffmanTable) error {
	if err := buildDynamicTables(b, cls, litLen, dist); err != nil {
		return err
	}
	return inflateLoop(b, win, litLen, dist)
}
