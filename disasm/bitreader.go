package disasm

import (
	"fmt"

	"github.com/sarchlab/irasm/ir"
)

// bitReader is the inverse of ir.BitWriter: fields are read MSB-first and a
// partially consumed byte is skipped on align.
type bitReader struct {
	code []byte
	pos  int
	used uint
}

func (r *bitReader) truncated(what string) error {
	return fmt.Errorf("%w: truncated %s at offset %d", ir.ErrUnsupportedEncoding, what, r.pos)
}

func (r *bitReader) readBits(width uint, what string) (uint64, error) {
	var v uint64
	for i := uint(0); i < width; i++ {
		if r.pos >= len(r.code) {
			return 0, r.truncated(what)
		}
		bit := (r.code[r.pos] >> (7 - r.used)) & 1
		v = v<<1 | uint64(bit)
		r.used++
		if r.used == 8 {
			r.pos++
			r.used = 0
		}
	}
	return v, nil
}

func (r *bitReader) free() uint {
	return 8 - r.used
}

func (r *bitReader) align() {
	if r.used > 0 {
		r.pos++
		r.used = 0
	}
}

func (r *bitReader) readBytes(n int, what string) ([]byte, error) {
	if r.used != 0 {
		panic("bitreader: unaligned byte read")
	}
	if n < 0 || r.pos+n > len(r.code) {
		return nil, r.truncated(what)
	}
	b := r.code[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}
