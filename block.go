package gtirb

import (
	"fmt"

	"github.com/google/uuid"
)

// DecodeMode selects the instruction decode mode for a CodeBlock.
type DecodeMode uint8

const (
	DecodeDefault DecodeMode = iota
	DecodeThumb
)

func (d DecodeMode) String() string {
	if d == DecodeThumb {
		return "thumb"
	}
	return "default"
}

// blockBase is the containment state shared by CodeBlock and DataBlock.
type blockBase struct {
	node
	size     uint64
	offset   uint64
	interval *ByteInterval
}

func (b *blockBase) Offset() uint64          { return b.offset }
func (b *blockBase) Size() uint64            { return b.size }
func (b *blockBase) Interval() *ByteInterval { return b.interval }

func (b *blockBase) setOffset(off uint64)         { b.offset = off }
func (b *blockBase) setInterval(bi *ByteInterval) { b.interval = bi }

// Address returns interval.address + offset when the owning interval has a
// fixed address.
func (b *blockBase) Address() (Addr, bool) {
	if b.interval == nil {
		return 0, false
	}
	base, ok := b.interval.Address()
	if !ok {
		return 0, false
	}
	return base + Addr(b.offset), true
}

// setSize validates the new extent against the owning interval before
// committing. An extent that would overrun the interval is a usage error
// and leaves the block unchanged. At-end symbols resolve past the block's
// extent, so the module's address index is refreshed after a resize.
func (b *blockBase) setSize(n uint64) error {
	if b.interval != nil && b.offset+n > b.interval.Size() {
		return fmt.Errorf("%w: block extent [%d, %d) exceeds interval size %d",
			ErrUsage, b.offset, b.offset+n, b.interval.Size())
	}
	b.size = n
	if b.interval != nil && b.interval.section != nil && b.interval.section.module != nil {
		b.interval.section.module.reindexSymbolsByUUID(b.id)
	}
	return nil
}

// CodeBlock is a basic block of executable bytes.
type CodeBlock struct {
	blockBase
	decodeMode DecodeMode
}

// NewCodeBlock creates a detached CodeBlock of the given size.
func NewCodeBlock(c *Context, size uint64) *CodeBlock {
	b := &CodeBlock{blockBase: blockBase{node: c.newNode(), size: size}}
	c.register(b)
	return b
}

func newCodeBlockWithUUID(c *Context, id uuid.UUID, size uint64) *CodeBlock {
	b := &CodeBlock{blockBase: blockBase{node: c.newNodeWithUUID(id), size: size}}
	c.register(b)
	return b
}

func (b *CodeBlock) Kind() Kind              { return KindCodeBlock }
func (b *CodeBlock) DecodeMode() DecodeMode  { return b.decodeMode }
func (b *CodeBlock) SetDecodeMode(m DecodeMode) { b.decodeMode = m }
func (b *CodeBlock) SetSize(n uint64) error  { return b.setSize(n) }
func (b *CodeBlock) cfgNode()                {}

// DataBlock is an addressable data object.
type DataBlock struct {
	blockBase
}

// NewDataBlock creates a detached DataBlock of the given size.
func NewDataBlock(c *Context, size uint64) *DataBlock {
	b := &DataBlock{blockBase: blockBase{node: c.newNode(), size: size}}
	c.register(b)
	return b
}

func newDataBlockWithUUID(c *Context, id uuid.UUID, size uint64) *DataBlock {
	b := &DataBlock{blockBase: blockBase{node: c.newNodeWithUUID(id), size: size}}
	c.register(b)
	return b
}

func (b *DataBlock) Kind() Kind             { return KindDataBlock }
func (b *DataBlock) SetSize(n uint64) error { return b.setSize(n) }

// ProxyBlock is a bodyless block used as a CFG endpoint for control flow
// that leaves the IR.
type ProxyBlock struct {
	node
	module *Module
}

// NewProxyBlock creates a detached ProxyBlock.
func NewProxyBlock(c *Context) *ProxyBlock {
	b := &ProxyBlock{node: c.newNode()}
	c.register(b)
	return b
}

func newProxyBlockWithUUID(c *Context, id uuid.UUID) *ProxyBlock {
	b := &ProxyBlock{node: c.newNodeWithUUID(id)}
	c.register(b)
	return b
}

func (b *ProxyBlock) Kind() Kind      { return KindProxyBlock }
func (b *ProxyBlock) Module() *Module { return b.module }
func (b *ProxyBlock) cfgNode()        {}
