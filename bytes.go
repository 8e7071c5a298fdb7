package gtirb

import (
	"encoding/binary"
	"fmt"
	"math"

	"fortio.org/safecast"
)

// Scalar enumerates the element types the typed byte accessors support.
type Scalar interface {
	uint8 | uint16 | uint32 | uint64 |
		int8 | int16 | int32 | int64 |
		float32 | float64
}

// BytesAs decodes the interval's bytes as a slice of T, interpreting the
// stored bytes in the given order. OrderUndefined falls back to the
// interval's declared order, then to little-endian. Bytes past the payload
// read as zero; a trailing partial element is dropped.
func BytesAs[T Scalar](bi *ByteInterval, order ByteOrder) ([]T, error) {
	return decodeScalars[T](bi, 0, bi.Size(), order)
}

// BlockBytesAs decodes a block's bytes as a slice of T. The block must be
// attached to an interval.
func BlockBytesAs[T Scalar](b ByteBlock, order ByteOrder) ([]T, error) {
	bi := b.Interval()
	if bi == nil {
		return nil, fmt.Errorf("%w: block %s has no interval", ErrUsage, b.UUID())
	}
	return decodeScalars[T](bi, b.Offset(), b.Size(), order)
}

// SetBytesAt encodes vals at byte offset off of the interval, writing in
// the given order (with the same fallbacks as BytesAs). The payload is
// extended with zeros as needed; writing past the allocated size is a
// usage error.
func SetBytesAt[T Scalar](bi *ByteInterval, off uint64, vals []T, order ByteOrder) error {
	es := uint64(scalarSize[T]())
	end := off + es*uint64(len(vals))
	if end > bi.Size() {
		return fmt.Errorf("%w: write [%d, %d) outside interval of size %d",
			ErrUsage, off, end, bi.Size())
	}
	if uint64(len(bi.contents)) < end {
		grown := make([]byte, end)
		copy(grown, bi.contents)
		bi.contents = grown
	}
	bo := stdOrder(bi.effectiveOrder(order))
	for i, v := range vals {
		putScalar(bi.contents[off+uint64(i)*es:], bo, v)
	}
	return nil
}

func decodeScalars[T Scalar](bi *ByteInterval, off, size uint64, order ByteOrder) ([]T, error) {
	es := uint64(scalarSize[T]())
	if off+size > bi.Size() {
		return nil, fmt.Errorf("%w: range [%d, %d) outside interval of size %d",
			ErrUsage, off, off+size, bi.Size())
	}
	raw, err := bi.ReadBytes(off, size)
	if err != nil {
		return nil, err
	}
	count, err := safecast.Conv[int](size / es)
	if err != nil {
		return nil, fmt.Errorf("%w: element count: %v", ErrUsage, err)
	}
	bo := stdOrder(bi.effectiveOrder(order))
	out := make([]T, count)
	for i := range out {
		out[i] = getScalar[T](raw[uint64(i)*es:], bo)
	}
	return out, nil
}

// effectiveOrder resolves an explicit order against the interval's declared
// order, defaulting to little-endian.
func (bi *ByteInterval) effectiveOrder(o ByteOrder) ByteOrder {
	if o != OrderUndefined {
		return o
	}
	if bi.order != OrderUndefined {
		return bi.order
	}
	return OrderLittle
}

func stdOrder(o ByteOrder) binary.ByteOrder {
	if o == OrderBig {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func scalarSize[T Scalar]() int {
	var z T
	switch any(z).(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32, float32:
		return 4
	default:
		return 8
	}
}

func getScalar[T Scalar](b []byte, o binary.ByteOrder) T {
	var z T
	switch any(z).(type) {
	case uint8:
		return T(b[0])
	case int8:
		return T(int8(b[0]))
	case uint16:
		return T(o.Uint16(b))
	case int16:
		return T(int16(o.Uint16(b)))
	case uint32:
		return T(o.Uint32(b))
	case int32:
		return T(int32(o.Uint32(b)))
	case uint64:
		return T(o.Uint64(b))
	case int64:
		return T(int64(o.Uint64(b)))
	case float32:
		return T(math.Float32frombits(o.Uint32(b)))
	default:
		return T(math.Float64frombits(o.Uint64(b)))
	}
}

func putScalar[T Scalar](b []byte, o binary.ByteOrder, v T) {
	switch x := any(v).(type) {
	case uint8:
		b[0] = x
	case int8:
		b[0] = byte(x)
	case uint16:
		o.PutUint16(b, x)
	case int16:
		o.PutUint16(b, uint16(x))
	case uint32:
		o.PutUint32(b, x)
	case int32:
		o.PutUint32(b, uint32(x))
	case uint64:
		o.PutUint64(b, x)
	case int64:
		o.PutUint64(b, uint64(x))
	case float32:
		o.PutUint32(b, math.Float32bits(x))
	default:
		o.PutUint64(b, math.Float64bits(x.(float64)))
	}
}
