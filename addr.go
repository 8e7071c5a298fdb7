// Package gtirb is an in-memory, mutable representation of disassembled
// binary images together with a deterministic on-disk serialization.
//
// An IR is a tree: IR owns Modules, a Module owns Sections, a Section owns
// ByteIntervals, and a ByteInterval owns code and data blocks plus the
// symbolic expressions anchored inside it. Every node is allocated from a
// Context and carries a stable UUID. Secondary indices (by address, by name,
// by referent) are maintained incrementally as the graph mutates.
package gtirb

import (
	"fmt"

	"github.com/google/uuid"
)

// Addr is a virtual address inside a binary image.
type Addr uint64

func (a Addr) String() string { return fmt.Sprintf("0x%x", uint64(a)) }

// Offset names a location inside a specific node: a displacement in bytes
// relative to the start of the node identified by ElementID.
type Offset struct {
	ElementID    uuid.UUID
	Displacement uint64
}

func (o Offset) String() string {
	return fmt.Sprintf("%s+0x%x", o.ElementID, o.Displacement)
}

// ByteOrder tags the endianness of a module or byte interval.
type ByteOrder uint8

const (
	OrderUndefined ByteOrder = iota
	OrderLittle
	OrderBig
)

func (b ByteOrder) String() string {
	switch b {
	case OrderLittle:
		return "little"
	case OrderBig:
		return "big"
	default:
		return "undefined"
	}
}
