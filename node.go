package gtirb

import "github.com/google/uuid"

// Kind identifies the concrete type of a Node.
type Kind uint8

const (
	KindIR Kind = iota
	KindModule
	KindSection
	KindByteInterval
	KindCodeBlock
	KindDataBlock
	KindProxyBlock
	KindSymbol
)

func (k Kind) String() string {
	switch k {
	case KindIR:
		return "IR"
	case KindModule:
		return "Module"
	case KindSection:
		return "Section"
	case KindByteInterval:
		return "ByteInterval"
	case KindCodeBlock:
		return "CodeBlock"
	case KindDataBlock:
		return "DataBlock"
	case KindProxyBlock:
		return "ProxyBlock"
	case KindSymbol:
		return "Symbol"
	default:
		return "Unknown"
	}
}

// Node is any element of the IR graph. All nodes are created through a
// Context and keep their identity for the lifetime of that Context, even
// after being detached from their parent container.
type Node interface {
	UUID() uuid.UUID
	Kind() Kind
	context() *Context
}

// node is the common state embedded in every concrete node type.
type node struct {
	id  uuid.UUID
	ctx *Context
}

func (n *node) UUID() uuid.UUID   { return n.id }
func (n *node) context() *Context { return n.ctx }

// Context returns the arena that owns this node.
func (n *node) Context() *Context { return n.ctx }

// CFGNode is a node that may appear as a CFG vertex: a CodeBlock or a
// ProxyBlock.
type CFGNode interface {
	Node
	cfgNode()
}

// ByteBlock is a block owned by a ByteInterval: a CodeBlock or a DataBlock.
type ByteBlock interface {
	Node
	// Offset is the block's displacement from the start of its interval.
	Offset() uint64
	// Size is the block's extent in bytes.
	Size() uint64
	// Interval returns the owning ByteInterval, or nil if detached.
	Interval() *ByteInterval
	// Address returns the block's address if its interval has one.
	Address() (Addr, bool)

	setOffset(uint64)
	setInterval(*ByteInterval)
}
