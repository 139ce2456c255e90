// Package inflate implements decompression of raw DEFLATE-encoded data
// (RFC 1951), the compressed-data payload carried inside ZIP, gzip, and
// zlib streams. It does not parse any of those container formats itself:
// callers hand it a pre-framed DEFLATE bitstream and consume the
// resulting byte stream and CRC-32.
//
// For example, to decompress a raw DEFLATE stream held in memory:
//
//	r, err := inflate.NewReader(bytes.NewReader(compressed))
//	io.Copy(os.Stdout, r)
package inflate

// Decoder is a single-stream DEFLATE decoder: the bit accumulator, the
// sliding window, and the three per-stream Huffman tables, bundled
// together. Each Decode call decompresses one stream and reinitializes
// the bit reader and window first, so a Decoder can be reused for the
// next stream after a successful Decode; after a failed Decode it must
// be Reset before it decodes again.
type Decoder struct {
	bits bitReader
	win  slidingWindow

	litLen huffmanTable
	dist   huffmanTable
	cls    huffmanTable

	err error
}

// Result carries the bytes-consumed and CRC-32 totals reported at the
// end of a decode.
type Result struct {
	BytesConsumed uint64
	CRC32         uint32
}

// NewDecoder allocates a Decoder ready to have Decode called on it.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.litLen.decode = make([]int16, 0, maxLitLen)
	d.dist.decode = make([]int16, 0, maxDist)
	d.cls.decode = make([]int16, 0, maxCodeLen)
	return d
}

// Reset returns a used Decoder to its initial state so it can be used
// for a new stream. Only needed after a Decode call returns an error:
// Decode already reinitializes the bit reader and window on every
// call, so a Decoder that has only ever decoded successfully can be
// handed straight to the next stream without calling Reset.
func (d *Decoder) Reset() {
	d.bits = bitReader{}
	d.win = slidingWindow{}
	d.err = nil
}

// Decode runs the top-level decode driver: it reads block headers,
// dispatches to the appropriate processor, flushes, and finalizes the
// CRC. Errors are sticky — once d.err is set every subsequent call to
// Decode on the same Decoder returns it immediately, until Reset.
func (d *Decoder) Decode(in inputAdapter, out outputAdapter) (Result, error) {
	if d.err != nil {
		return Result{}, d.err
	}

	d.bits.init(in)
	d.win.init(out)

	if err := d.run(); err != nil {
		d.err = err
		return Result{}, err
	}

	return Result{
		BytesConsumed: d.bits.consumed,
		CRC32:         d.win.crc,
	}, nil
}

func (d *Decoder) run() error {
	for {
		bfinal, err := d.bits.fetch(1)
		if err != nil {
			return err
		}
		btype, err := d.bits.fetch(2)
		if err != nil {
			return err
		}

		switch btype {
		case 0:
			if err := blockStored(&d.bits, &d.win); err != nil {
				return err
			}
		case 1:
			if err := blockFixed(&d.bits, &d.win); err != nil {
				return err
			}
		case 2:
			if err := blockDynamic(&d.bits, &d.win, &d.cls, &d.litLen, &d.dist); err != nil {
				return err
			}
		default:
			return &CorruptInputError{Offset: d.bits.consumed, Reason: "invalid block type 11"}
		}

		if bfinal != 0 {
			break
		}
	}
	return d.win.flush()
}
