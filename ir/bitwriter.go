package ir

// BitWriter packs fields MSB-first into a scratch byte and flushes every
// full byte to its buffer.
type BitWriter struct {
	buf     []byte
	scratch byte
	used    uint
}

// WriteBits appends the low width bits of v, most significant bit first.
func (w *BitWriter) WriteBits(v uint64, width uint) {
	for i := width; i > 0; i-- {
		bit := byte(v>>(i-1)) & 1
		w.scratch |= bit << (7 - w.used)
		w.used++
		if w.used == 8 {
			w.flush()
		}
	}
}

// Free returns how many bits are left in the scratch byte.
func (w *BitWriter) Free() uint {
	return 8 - w.used
}

// Aligned reports whether the scratch byte is empty.
func (w *BitWriter) Aligned() bool {
	return w.used == 0
}

// Align flushes a partially filled scratch byte, zero-padding its low bits.
func (w *BitWriter) Align() {
	if w.used > 0 {
		w.flush()
	}
}

// WriteBytes appends whole bytes. The writer must be aligned.
func (w *BitWriter) WriteBytes(b []byte) {
	if w.used != 0 {
		panic("bitwriter: unaligned byte write")
	}
	w.buf = append(w.buf, b...)
}

// Len returns the number of flushed bytes.
func (w *BitWriter) Len() int {
	return len(w.buf)
}

// Bytes aligns the writer and returns the buffer.
func (w *BitWriter) Bytes() []byte {
	w.Align()
	return w.buf
}

func (w *BitWriter) flush() {
	w.buf = append(w.buf, w.scratch)
	w.scratch = 0
	w.used = 0
}
