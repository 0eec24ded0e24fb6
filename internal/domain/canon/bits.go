package canon

import (
	"fmt"

	"github.com/turtacn/MolCanon/pkg/errors"
)

// bitWriter accumulates big-endian bit fields into a byte buffer.
type bitWriter struct {
	buf  []byte
	free uint // unused bits in the last byte
}

func (w *bitWriter) write(v uint64, bits uint) {
	if bits < 64 && v>>bits != 0 {
		panic(fmt.Sprintf("bitWriter: value %d exceeds %d-bit field", v, bits))
	}
	for bits > 0 {
		if w.free == 0 {
			w.buf = append(w.buf, 0)
			w.free = 8
		}
		take := bits
		if take > w.free {
			take = w.free
		}
		chunk := (v >> (bits - take)) & ((1 << take) - 1)
		w.buf[len(w.buf)-1] |= byte(chunk << (w.free - take))
		w.free -= take
		bits -= take
	}
}

func (w *bitWriter) bytes() []byte { return w.buf }

// bitReader consumes big-endian bit fields from a byte buffer.
type bitReader struct {
	buf []byte
	pos uint // bit position
}

func (r *bitReader) read(bits uint) (uint64, error) {
	if r.pos+bits > uint(len(r.buf))*8 {
		return 0, errors.New(errors.ErrCodeIDCodeInvalid, "truncated bit stream").
			WithDetailf("pos=%d want=%d len=%d", r.pos, bits, len(r.buf)*8)
	}
	var v uint64
	for bits > 0 {
		byteIdx := r.pos / 8
		bitIdx := r.pos % 8
		avail := 8 - bitIdx
		take := bits
		if take > avail {
			take = avail
		}
		chunk := uint64(r.buf[byteIdx]>>(avail-take)) & ((1 << take) - 1)
		v = v<<take | chunk
		r.pos += take
		bits -= take
	}
	return v, nil
}

// bitsNeeded returns the field width covering values 0..n-1, at least 1.
func bitsNeeded(n int) uint {
	bits := uint(1)
	for (1 << bits) < n {
		bits++
	}
	return bits
}
