package gtirb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"fortio.org/safecast"
	"github.com/google/uuid"
)

// Variant is the runtime value of a variant-typed AuxData field: the
// zero-based alternative index and the value of that alternative.
type Variant struct {
	Tag   uint64
	Value any
}

// EncodeAuxValue serializes v according to t. The wire is little-endian
// throughout; set elements and mapping keys are written in ascending order
// of their encoded form, with duplicates rejected.
func EncodeAuxValue(t *AuxType, v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, t, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeAuxValue deserializes a payload according to t. Decoding is
// strict: trailing bytes, missing bytes, out-of-range variant tags, and
// duplicate set elements or mapping keys are all errors.
func DecodeAuxValue(t *AuxType, raw []byte) (any, error) {
	r := &auxReader{buf: raw}
	v, err := decodeValue(r, t)
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.buf) {
		return nil, fmt.Errorf("%w: %d trailing bytes after %s value",
			ErrAuxDataType, len(r.buf)-r.pos, t)
	}
	return v, nil
}

func encodeValue(buf *bytes.Buffer, t *AuxType, v any) error {
	switch t.Kind {
	case TBool:
		b, ok := v.(bool)
		if !ok {
			return typeMismatch(t, v)
		}
		if b {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case TInt8:
		x, ok := v.(int8)
		if !ok {
			return typeMismatch(t, v)
		}
		buf.WriteByte(byte(x))
	case TUint8:
		x, ok := v.(uint8)
		if !ok {
			return typeMismatch(t, v)
		}
		buf.WriteByte(x)
	case TInt16:
		x, ok := v.(int16)
		if !ok {
			return typeMismatch(t, v)
		}
		putU16(buf, uint16(x))
	case TUint16:
		x, ok := v.(uint16)
		if !ok {
			return typeMismatch(t, v)
		}
		putU16(buf, x)
	case TInt32:
		x, ok := v.(int32)
		if !ok {
			return typeMismatch(t, v)
		}
		putU32(buf, uint32(x))
	case TUint32:
		x, ok := v.(uint32)
		if !ok {
			return typeMismatch(t, v)
		}
		putU32(buf, x)
	case TInt64:
		x, ok := v.(int64)
		if !ok {
			return typeMismatch(t, v)
		}
		putU64(buf, uint64(x))
	case TUint64:
		x, ok := v.(uint64)
		if !ok {
			return typeMismatch(t, v)
		}
		putU64(buf, x)
	case TFloat:
		x, ok := v.(float32)
		if !ok {
			return typeMismatch(t, v)
		}
		putU32(buf, math.Float32bits(x))
	case TDouble:
		x, ok := v.(float64)
		if !ok {
			return typeMismatch(t, v)
		}
		putU64(buf, math.Float64bits(x))
	case TString:
		x, ok := v.(string)
		if !ok {
			return typeMismatch(t, v)
		}
		putU64(buf, uint64(len(x)))
		buf.WriteString(x)
	case TUUID:
		x, ok := v.(uuid.UUID)
		if !ok {
			return typeMismatch(t, v)
		}
		buf.Write(x[:])
	case TAddr:
		x, ok := v.(Addr)
		if !ok {
			return typeMismatch(t, v)
		}
		putU64(buf, uint64(x))
	case TOffset:
		x, ok := v.(Offset)
		if !ok {
			return typeMismatch(t, v)
		}
		buf.Write(x.ElementID[:])
		putU64(buf, x.Displacement)
	case TSequence:
		xs, ok := v.([]any)
		if !ok {
			return typeMismatch(t, v)
		}
		putU64(buf, uint64(len(xs)))
		for _, x := range xs {
			if err := encodeValue(buf, t.Args[0], x); err != nil {
				return err
			}
		}
	case TSet:
		xs, ok := v.([]any)
		if !ok {
			return typeMismatch(t, v)
		}
		encoded := make([][]byte, len(xs))
		for i, x := range xs {
			b, err := EncodeAuxValue(t.Args[0], x)
			if err != nil {
				return err
			}
			encoded[i] = b
		}
		sort.Slice(encoded, func(i, j int) bool { return bytes.Compare(encoded[i], encoded[j]) < 0 })
		for i := 1; i < len(encoded); i++ {
			if bytes.Equal(encoded[i-1], encoded[i]) {
				return fmt.Errorf("%w: %w: duplicate set element in %s", ErrAuxDataType, ErrUsage, t)
			}
		}
		putU64(buf, uint64(len(encoded)))
		for _, b := range encoded {
			buf.Write(b)
		}
	case TMapping:
		kvs, err := encodeMapEntries(t, v)
		if err != nil {
			return err
		}
		putU64(buf, uint64(len(kvs)))
		for _, kv := range kvs {
			buf.Write(kv.key)
			buf.Write(kv.val)
		}
	case TTuple:
		xs, ok := v.([]any)
		if !ok || len(xs) != len(t.Args) {
			return typeMismatch(t, v)
		}
		for i, x := range xs {
			if err := encodeValue(buf, t.Args[i], x); err != nil {
				return err
			}
		}
	case TVariant:
		x, ok := v.(Variant)
		if !ok {
			return typeMismatch(t, v)
		}
		if x.Tag >= uint64(len(t.Args)) {
			return fmt.Errorf("%w: variant tag %d out of range for %s", ErrAuxDataType, x.Tag, t)
		}
		putU64(buf, x.Tag)
		if err := encodeValue(buf, t.Args[x.Tag], x.Value); err != nil {
			return err
		}
	}
	return nil
}

type mapEntry struct {
	key, val []byte
}

func encodeMapEntries(t *AuxType, v any) ([]mapEntry, error) {
	m, ok := v.(map[any]any)
	if !ok {
		return nil, typeMismatch(t, v)
	}
	kvs := make([]mapEntry, 0, len(m))
	for k, val := range m {
		kb, err := EncodeAuxValue(t.Args[0], k)
		if err != nil {
			return nil, err
		}
		vb, err := EncodeAuxValue(t.Args[1], val)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, mapEntry{key: kb, val: vb})
	}
	sort.Slice(kvs, func(i, j int) bool { return bytes.Compare(kvs[i].key, kvs[j].key) < 0 })
	for i := 1; i < len(kvs); i++ {
		if bytes.Equal(kvs[i-1].key, kvs[i].key) {
			return nil, fmt.Errorf("%w: duplicate mapping key in %s", ErrAuxDataType, t)
		}
	}
	return kvs, nil
}

func decodeValue(r *auxReader, t *AuxType) (any, error) {
	switch t.Kind {
	case TBool:
		b, err := r.byte()
		if err != nil {
			return nil, err
		}
		switch b {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, fmt.Errorf("%w: bool byte 0x%02x", ErrAuxDataType, b)
	case TInt8:
		b, err := r.byte()
		return int8(b), err
	case TUint8:
		b, err := r.byte()
		return b, err
	case TInt16:
		x, err := r.u16()
		return int16(x), err
	case TUint16:
		return r.u16()
	case TInt32:
		x, err := r.u32()
		return int32(x), err
	case TUint32:
		return r.u32()
	case TInt64:
		x, err := r.u64()
		return int64(x), err
	case TUint64:
		return r.u64()
	case TFloat:
		x, err := r.u32()
		return math.Float32frombits(x), err
	case TDouble:
		x, err := r.u64()
		return math.Float64frombits(x), err
	case TString:
		n, err := r.u64()
		if err != nil {
			return nil, err
		}
		b, err := r.bytes(n)
		return string(b), err
	case TUUID:
		b, err := r.bytes(16)
		if err != nil {
			return nil, err
		}
		var id uuid.UUID
		copy(id[:], b)
		return id, nil
	case TAddr:
		x, err := r.u64()
		return Addr(x), err
	case TOffset:
		b, err := r.bytes(16)
		if err != nil {
			return nil, err
		}
		var o Offset
		copy(o.ElementID[:], b)
		o.Displacement, err = r.u64()
		return o, err
	case TSequence:
		n, err := r.count()
		if err != nil {
			return nil, err
		}
		xs := make([]any, 0, min(n, 4096))
		for i := 0; i < n; i++ {
			x, err := decodeValue(r, t.Args[0])
			if err != nil {
				return nil, err
			}
			xs = append(xs, x)
		}
		return xs, nil
	case TSet:
		n, err := r.count()
		if err != nil {
			return nil, err
		}
		xs := make([]any, 0, min(n, 4096))
		seen := make(map[string]struct{}, min(n, 4096))
		for i := 0; i < n; i++ {
			start := r.pos
			x, err := decodeValue(r, t.Args[0])
			if err != nil {
				return nil, err
			}
			enc := string(r.buf[start:r.pos])
			if _, dup := seen[enc]; dup {
				return nil, fmt.Errorf("%w: %w: duplicate set element in %s", ErrAuxDataType, ErrUsage, t)
			}
			seen[enc] = struct{}{}
			xs = append(xs, x)
		}
		return xs, nil
	case TMapping:
		if !t.Args[0].isLeaf() {
			return nil, fmt.Errorf("%w: mapping key type %s is not a leaf", ErrAuxDataType, t.Args[0])
		}
		n, err := r.count()
		if err != nil {
			return nil, err
		}
		m := make(map[any]any, min(n, 4096))
		for i := 0; i < n; i++ {
			k, err := decodeValue(r, t.Args[0])
			if err != nil {
				return nil, err
			}
			if _, dup := m[k]; dup {
				return nil, fmt.Errorf("%w: duplicate mapping key in %s", ErrAuxDataType, t)
			}
			v, err := decodeValue(r, t.Args[1])
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	case TTuple:
		xs := make([]any, len(t.Args))
		for i, at := range t.Args {
			x, err := decodeValue(r, at)
			if err != nil {
				return nil, err
			}
			xs[i] = x
		}
		return xs, nil
	case TVariant:
		tag, err := r.u64()
		if err != nil {
			return nil, err
		}
		if tag >= uint64(len(t.Args)) {
			return nil, fmt.Errorf("%w: variant tag %d out of range for %s", ErrAuxDataType, tag, t)
		}
		x, err := decodeValue(r, t.Args[tag])
		if err != nil {
			return nil, err
		}
		return Variant{Tag: tag, Value: x}, nil
	}
	return nil, fmt.Errorf("%w: unhandled type kind %d", ErrAuxDataType, t.Kind)
}

func typeMismatch(t *AuxType, v any) error {
	return fmt.Errorf("%w: value of type %T does not match %s", ErrAuxDataType, v, t)
}

func putU16(buf *bytes.Buffer, x uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], x)
	buf.Write(b[:])
}

func putU32(buf *bytes.Buffer, x uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], x)
	buf.Write(b[:])
}

func putU64(buf *bytes.Buffer, x uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	buf.Write(b[:])
}

// auxReader is a strict little-endian cursor over a payload.
type auxReader struct {
	buf []byte
	pos int
}

func (r *auxReader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, r.truncated(1)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *auxReader) bytes(n uint64) ([]byte, error) {
	rem := uint64(len(r.buf) - r.pos)
	if n > rem {
		return nil, r.truncated(n)
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *auxReader) u16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *auxReader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *auxReader) u64() (uint64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// count reads a uint64 element count and bounds it against the remaining
// payload so a corrupt count cannot drive allocation.
func (r *auxReader) count() (int, error) {
	x, err := r.u64()
	if err != nil {
		return 0, err
	}
	if x > uint64(len(r.buf)-r.pos) {
		return 0, fmt.Errorf("%w: count %d exceeds %d remaining bytes", ErrAuxDataType, x, len(r.buf)-r.pos)
	}
	n, err := safecast.Conv[int](x)
	if err != nil {
		return 0, fmt.Errorf("%w: count %d: %v", ErrAuxDataType, x, err)
	}
	return n, nil
}

func (r *auxReader) truncated(n uint64) error {
	return fmt.Errorf("%w: need %d bytes, %d remaining", ErrAuxDataType, n, len(r.buf)-r.pos)
}
