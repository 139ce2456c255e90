package inflate

import "testing"

// TestBitReaderFetchLSBFirst checks that ordinary (non-Huffman) fields
// are read least-significant-bit first (RFC 1951, section 3.1.1): byte
// 0xB4 (binary 10110100) yields low-to-high bit groups 0,0,1,0,1,1,0,1.
func TestBitReaderFetchLSBFirst(t *testing.T) {
	in := &fakeInput{buf: []byte{0xB4}}
	var b bitReader
	b.init(in)

	want := []uint32{0, 0, 1, 0, 1, 1, 0, 1}
	for i, w := range want {
		got, err := b.fetch(1)
		if err != nil {
			t.Fatalf("bit %d: fetch: %v", i, err)
		}
		if got != w {
			t.Errorf("bit %d = %d, want %d", i, got, w)
		}
	}
}

// TestBitReaderMultiBitFetch checks that a multi-bit fetch returns the
// same value as the equivalent sequence of single-bit fetches would
// assemble (value = sum of bit_i << i).
func TestBitReaderMultiBitFetch(t *testing.T) {
	in := &fakeInput{buf: []byte{0xB4}}
	var b bitReader
	b.init(in)

	got, err := b.fetch(4)
	if err != nil {
		t.Fatalf("fetch(4): %v", err)
	}
	// Low nibble of 0xB4 is 0x4.
	if got != 0x4 {
		t.Errorf("fetch(4) = %#x, want 0x4", got)
	}

	got, err = b.fetch(4)
	if err != nil {
		t.Fatalf("fetch(4): %v", err)
	}
	if got != 0xB {
		t.Errorf("fetch(4) = %#x, want 0xb", got)
	}
}

// TestBitReaderSpansByteBoundary checks that a fetch requesting more
// bits than currently buffered pulls additional bytes from the input
// and assembles them correctly, with the second byte's bits appended
// above the first's.
func TestBitReaderSpansByteBoundary(t *testing.T) {
	in := &fakeInput{buf: []byte{0xFF, 0x01}}
	var b bitReader
	b.init(in)

	if _, err := b.fetch(6); err != nil {
		t.Fatalf("fetch(6): %v", err)
	}
	// 2 bits remain from byte 0 (both 1, the low bits of the
	// accumulator), topped up with byte 1 (0x01) shifted above them:
	// combined accumulator = 0b11 | (0x01 << 2) = 0b0000000111.
	got, err := b.fetch(10)
	if err != nil {
		t.Fatalf("fetch(10): %v", err)
	}
	if got != 0x007 {
		t.Errorf("fetch(10) across byte boundary = %#x, want 0x007", got)
	}
	if in.pos != 2 {
		t.Errorf("consumed %d input bytes, want 2", in.pos)
	}
}

// TestBitReaderFetchRejectsOverlong checks the documented contract that
// fetch only ever accepts n in [0, 15].
func TestBitReaderFetchRejectsOverlong(t *testing.T) {
	in := &fakeInput{buf: []byte{0x00, 0x00, 0x00}}
	var b bitReader
	b.init(in)

	if _, err := b.fetch(16); err == nil {
		t.Fatal("expected an error for fetch(16)")
	} else if Kind(err) != ErrInternal {
		t.Errorf("Kind(err) = %v, want ErrInternal", Kind(err))
	}
}

// TestBitReaderFetch16 checks the dedicated 16-bit helper used for the
// stored-block LEN/NLEN fields, which combines two byte-sized fetches
// little-endian.
func TestBitReaderFetch16(t *testing.T) {
	in := &fakeInput{buf: []byte{0x34, 0x12}}
	var b bitReader
	b.init(in)

	got, err := b.fetch16()
	if err != nil {
		t.Fatalf("fetch16: %v", err)
	}
	if got != 0x1234 {
		t.Errorf("fetch16 = %#x, want 0x1234", got)
	}
}

// TestBitReaderDiscardToByte checks that discardToByte drops any
// partially-consumed byte so the next fetch starts at the following
// byte boundary. Rejection of 8 or more buffered bits is checked by
// TestBitReaderDiscardToByteRejectsFullByte.
func TestBitReaderDiscardToByte(t *testing.T) {
	in := &fakeInput{buf: []byte{0xFF, 0xAB}}
	var b bitReader
	b.init(in)

	if _, err := b.fetch(3); err != nil {
		t.Fatalf("fetch(3): %v", err)
	}
	if err := b.discardToByte(); err != nil {
		t.Fatalf("discardToByte: %v", err)
	}
	got, err := b.fetch(8)
	if err != nil {
		t.Fatalf("fetch(8): %v", err)
	}
	if got != 0xAB {
		t.Errorf("fetch(8) after discard = %#x, want 0xab", got)
	}
}

// TestBitReaderDiscardToByteRejectsFullByte checks the InternalError
// guard in discardToByte. A single fetch() call can never itself leave
// 8 or more buffered bits (it always pulls just enough whole bytes to
// satisfy the request), so the violation is injected directly on the
// unexported accumulator to exercise the guard.
func TestBitReaderDiscardToByteRejectsFullByte(t *testing.T) {
	in := &fakeInput{buf: []byte{0xFF}}
	var b bitReader
	b.init(in)
	b.accum = 0xFF
	b.nbits = 8

	if err := b.discardToByte(); err == nil {
		t.Fatal("expected an error discarding with 8 buffered bits")
	} else if Kind(err) != ErrInternal {
		t.Errorf("Kind(err) = %v, want ErrInternal", Kind(err))
	}
}
