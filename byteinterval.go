package gtirb

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ByteInterval is one contiguous byte range, the unit of ownership for
// bytes. Its address is optional; an interval with no address is floating
// and its blocks have no addresses either.
//
// The byte payload may be shorter than the allocated size; reads past the
// payload yield zero bytes.
type ByteInterval struct {
	node
	section  *Section
	hasAddr  bool
	addr     Addr
	size     uint64
	contents []byte
	order    ByteOrder
	blocks   []ByteBlock // sorted by offset, ties in insertion order
	symExprs map[uint64]SymbolicExpression
}

// NewByteInterval creates a detached, floating interval of the given size.
func NewByteInterval(c *Context, size uint64) *ByteInterval {
	bi := &ByteInterval{
		node:     c.newNode(),
		size:     size,
		symExprs: make(map[uint64]SymbolicExpression),
	}
	c.register(bi)
	return bi
}

// NewByteIntervalAt creates a detached interval with a fixed address.
func NewByteIntervalAt(c *Context, addr Addr, size uint64) *ByteInterval {
	bi := NewByteInterval(c, size)
	bi.hasAddr = true
	bi.addr = addr
	return bi
}

func newByteIntervalWithUUID(c *Context, id uuid.UUID) *ByteInterval {
	bi := &ByteInterval{
		node:     c.newNodeWithUUID(id),
		symExprs: make(map[uint64]SymbolicExpression),
	}
	c.register(bi)
	return bi
}

func (bi *ByteInterval) Kind() Kind        { return KindByteInterval }
func (bi *ByteInterval) Section() *Section { return bi.section }

// Address returns the interval's fixed address, if set.
func (bi *ByteInterval) Address() (Addr, bool) { return bi.addr, bi.hasAddr }

// SetAddress pins the interval at a fixed address and reindexes every
// containing collection.
func (bi *ByteInterval) SetAddress(a Addr) {
	if bi.hasAddr && bi.addr == a {
		return
	}
	bi.hasAddr = true
	bi.addr = a
	if bi.section != nil {
		bi.section.intervalMoved(bi)
	}
}

// ClearAddress makes the interval floating again.
func (bi *ByteInterval) ClearAddress() {
	if !bi.hasAddr {
		return
	}
	bi.hasAddr = false
	bi.addr = 0
	if bi.section != nil {
		bi.section.intervalMoved(bi)
	}
}

// Size returns the allocated size in bytes.
func (bi *ByteInterval) Size() uint64 { return bi.size }

// SetSize changes the allocated size. Shrinking below any block's extent or
// below any symbolic expression offset is a usage error and changes
// nothing. Shrinking truncates the byte payload.
func (bi *ByteInterval) SetSize(n uint64) error {
	if n == bi.size {
		return nil
	}
	for _, b := range bi.blocks {
		if b.Offset()+b.Size() > n {
			return fmt.Errorf("%w: block %s extent [%d, %d) exceeds new size %d",
				ErrUsage, b.UUID(), b.Offset(), b.Offset()+b.Size(), n)
		}
	}
	for off := range bi.symExprs {
		if off >= n {
			return fmt.Errorf("%w: symbolic expression at offset %d exceeds new size %d",
				ErrUsage, off, n)
		}
	}
	bi.size = n
	if uint64(len(bi.contents)) > n {
		bi.contents = bi.contents[:n]
	}
	if bi.section != nil {
		bi.section.intervalMoved(bi)
	}
	return nil
}

// Order returns the interval's declared endianness.
func (bi *ByteInterval) Order() ByteOrder     { return bi.order }
func (bi *ByteInterval) SetOrder(o ByteOrder) { bi.order = o }

// Contents returns the interval's byte payload. The slice is the interval's
// own storage; mutate through SetContents or the typed writers.
func (bi *ByteInterval) Contents() []byte { return bi.contents }

// SetContents replaces the byte payload, growing the allocated size if the
// payload is longer.
func (bi *ByteInterval) SetContents(b []byte) {
	bi.contents = b
	if uint64(len(b)) > bi.size {
		bi.size = uint64(len(b))
		if bi.section != nil {
			bi.section.intervalMoved(bi)
		}
	}
}

// ReadBytes copies n bytes starting at off, zero-extending past the end of
// the payload. Reading past the allocated size is a usage error.
func (bi *ByteInterval) ReadBytes(off, n uint64) ([]byte, error) {
	if off+n > bi.size {
		return nil, fmt.Errorf("%w: read [%d, %d) outside interval of size %d",
			ErrUsage, off, off+n, bi.size)
	}
	out := make([]byte, n)
	if off < uint64(len(bi.contents)) {
		copy(out, bi.contents[off:])
	}
	return out, nil
}

// AddBlock inserts or moves a block into this interval at the given offset.
// A block whose extent would fall outside [0, size) is rejected. A block
// already present at the same offset is a no-change. A block owned by
// another interval is detached from it first.
func (bi *ByteInterval) AddBlock(off uint64, b ByteBlock) ChangeStatus {
	if off+b.Size() > bi.size {
		return Rejected
	}
	if b.Interval() == bi {
		if b.Offset() == off {
			return NoChange
		}
		b.setOffset(off)
		bi.resortBlocks()
		bi.blocksMoved()
		return Accepted
	}
	if prev := b.Interval(); prev != nil {
		prev.RemoveBlock(b)
	}
	b.setInterval(bi)
	b.setOffset(off)
	bi.blocks = append(bi.blocks, b)
	bi.resortBlocks()
	if bi.section != nil && bi.section.module != nil {
		bi.section.module.blockAttached(b)
	}
	return Accepted
}

// RemoveBlock detaches a block from this interval. Incident CFG edges are
// left in place for the caller to reconcile.
func (bi *ByteInterval) RemoveBlock(b ByteBlock) ChangeStatus {
	if b.Interval() != bi {
		return NoChange
	}
	for i, cur := range bi.blocks {
		if cur == b {
			bi.blocks = append(bi.blocks[:i], bi.blocks[i+1:]...)
			break
		}
	}
	b.setInterval(nil)
	b.setOffset(0)
	if bi.section != nil && bi.section.module != nil {
		bi.section.module.blockDetached(b)
	}
	return Accepted
}

// Blocks returns the interval's blocks in ascending offset order.
func (bi *ByteInterval) Blocks() []ByteBlock {
	out := make([]ByteBlock, len(bi.blocks))
	copy(out, bi.blocks)
	return out
}

// BlockCount reports the number of owned blocks.
func (bi *ByteInterval) BlockCount() int { return len(bi.blocks) }

// SetSymbolicExpression anchors an expression at the given offset. The
// offset must be strictly less than the interval's size.
func (bi *ByteInterval) SetSymbolicExpression(off uint64, e SymbolicExpression) error {
	if off >= bi.size {
		return fmt.Errorf("%w: symbolic expression offset %d not below interval size %d",
			ErrUsage, off, bi.size)
	}
	bi.symExprs[off] = e
	return nil
}

// SymbolicExpression returns the expression at the given offset, if any.
func (bi *ByteInterval) SymbolicExpression(off uint64) (SymbolicExpression, bool) {
	e, ok := bi.symExprs[off]
	return e, ok
}

// RemoveSymbolicExpression deletes the expression at the given offset.
func (bi *ByteInterval) RemoveSymbolicExpression(off uint64) ChangeStatus {
	if _, ok := bi.symExprs[off]; !ok {
		return NoChange
	}
	delete(bi.symExprs, off)
	return Accepted
}

// SymExprAt pairs a symbolic expression with its anchor offset.
type SymExprAt struct {
	Offset uint64
	Expr   SymbolicExpression
}

// SymbolicExpressions returns every expression in ascending offset order.
func (bi *ByteInterval) SymbolicExpressions() []SymExprAt {
	out := make([]SymExprAt, 0, len(bi.symExprs))
	for off, e := range bi.symExprs {
		out = append(out, SymExprAt{Offset: off, Expr: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// blocksOn returns owned blocks whose extent contains address a.
func (bi *ByteInterval) blocksOn(a Addr) []ByteBlock {
	base, ok := bi.Address()
	if !ok || a < base || Addr(uint64(base)+bi.size) <= a {
		return nil
	}
	off := uint64(a - base)
	var out []ByteBlock
	for _, b := range bi.blocks {
		if b.Offset() <= off && off < b.Offset()+b.Size() {
			out = append(out, b)
		}
	}
	return out
}

// blocksAt returns owned blocks whose address lies in [lo, hi).
func (bi *ByteInterval) blocksAt(lo, hi Addr) []ByteBlock {
	base, ok := bi.Address()
	if !ok || hi <= lo {
		return nil
	}
	var out []ByteBlock
	for _, b := range bi.blocks {
		a := base + Addr(b.Offset())
		if lo <= a && a < hi {
			out = append(out, b)
		}
	}
	return out
}

func (bi *ByteInterval) resortBlocks() {
	sort.SliceStable(bi.blocks, func(i, j int) bool {
		return bi.blocks[i].Offset() < bi.blocks[j].Offset()
	})
}

// blocksMoved reindexes symbols that resolve through this interval's blocks
// after an offset change.
func (bi *ByteInterval) blocksMoved() {
	if bi.section != nil && bi.section.module != nil {
		m := bi.section.module
		for _, b := range bi.blocks {
			m.reindexSymbolsFor(b)
		}
	}
}
