// Package proto defines the structured messages of the GTIRB payload and
// their binary form. Messages are encoded with protobuf wire semantics via
// protowire: length-delimited, field-tagged, varint scalars. Zero-valued
// scalar fields are omitted and fields are written in field-number order,
// so a marshal of an unmarshalled message reproduces the input bytes exactly
// when the input was itself written by Marshal; explicitly encoded zero
// scalars or out-of-order fields in other input are not reproduced.
package proto

import "google.golang.org/protobuf/encoding/protowire"

// IR is the top-level payload message.
type IR struct {
	UUID    []byte          // 1
	Modules []*Module       // 2
	AuxData []*AuxDataEntry // 3, sorted by key on the wire
	Version uint32          // 4
	CFG     *CFG            // 5
}

// AuxDataEntry is one name→table pair of an AuxData map.
type AuxDataEntry struct {
	Key   string   // 1
	Value *AuxData // 2
}

// AuxData carries a type expression and its serialized payload.
type AuxData struct {
	TypeName string // 1
	Data     []byte // 2
}

type Module struct {
	UUID          []byte          // 1
	BinaryPath    string          // 2
	PreferredAddr uint64          // 3
	RebaseDelta   int64           // 4
	FileFormat    uint32          // 5
	ISA           uint32          // 6
	Name          string          // 7
	Sections      []*Section      // 8
	Symbols       []*Symbol       // 9
	Proxies       []*ProxyBlock   // 10
	AuxData       []*AuxDataEntry // 11
	EntryPoint    []byte          // 12, empty means unset
	ByteOrder     uint32          // 13
}

type Section struct {
	UUID          []byte          // 1
	Name          string          // 2
	ByteIntervals []*ByteInterval // 3
	Flags         []uint32        // 4, one varint field per flag
}

type ByteInterval struct {
	UUID       []byte          // 1
	Blocks     []*Block        // 2
	SymExprs   []*SymExprEntry // 3, sorted by key on the wire
	HasAddress bool            // 4
	Address    uint64          // 5
	Size       uint64          // 6
	Contents   []byte          // 7
	ByteOrder  uint32          // 8
}

// Block wraps a code or data block with its offset; exactly one of Code
// and Data is set.
type Block struct {
	Offset uint64     // 1
	Code   *CodeBlock // 2
	Data   *DataBlock // 3
}

type CodeBlock struct {
	UUID       []byte // 1
	Size       uint64 // 2
	DecodeMode uint32 // 3
}

type DataBlock struct {
	UUID []byte // 1
	Size uint64 // 2
}

type ProxyBlock struct {
	UUID []byte // 1
}

// Symbol's payload is a oneof: HasValue selects the address value,
// a non-empty Referent selects the node reference.
type Symbol struct {
	UUID       []byte // 1
	Value      uint64 // 2
	Referent   []byte // 3
	Name       string // 4
	AtEnd      bool   // 5
	Visibility uint32 // 6
	HasValue   bool   // 7
}

// SymExprEntry is one offset→expression pair of a ByteInterval's
// symbolic expression map.
type SymExprEntry struct {
	Key   uint64              // 1
	Value *SymbolicExpression // 2
}

// SymbolicExpression is a oneof over the three variants plus attributes.
type SymbolicExpression struct {
	AddrConst  *SymAddrConst  // 1
	AddrAddr   *SymAddrAddr   // 2
	StackConst *SymStackConst // 3
	Attrs      []uint32       // 4
}

type SymAddrConst struct {
	Offset int64  // 1
	Symbol []byte // 2
}

type SymAddrAddr struct {
	Scale   int64  // 1
	Offset  int64  // 2
	Symbol1 []byte // 3
	Symbol2 []byte // 4
}

type SymStackConst struct {
	Offset int64  // 1
	Symbol []byte // 2
}

type CFG struct {
	Vertices [][]byte // 1
	Edges    []*Edge  // 2
}

type Edge struct {
	Source []byte     // 1
	Target []byte     // 2
	Label  *EdgeLabel // 3
}

type EdgeLabel struct {
	Conditional bool   // 1
	Direct      bool   // 2
	Type        uint32 // 3
}

// Marshal helpers. Scalars at their zero value are skipped, matching
// proto3 presence rules.

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt(b []byte, num protowire.Number, v int64) []byte {
	return appendUint(b, num, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	return appendBytes(b, num, []byte(v))
}

func appendMsg(b []byte, num protowire.Number, sub []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

func (m *IR) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	for _, x := range m.Modules {
		b = appendMsg(b, 2, x.Marshal())
	}
	for _, x := range m.AuxData {
		b = appendMsg(b, 3, x.Marshal())
	}
	b = appendUint(b, 4, uint64(m.Version))
	if m.CFG != nil {
		b = appendMsg(b, 5, m.CFG.Marshal())
	}
	return b
}

func (m *AuxDataEntry) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Key)
	if m.Value != nil {
		b = appendMsg(b, 2, m.Value.Marshal())
	}
	return b
}

func (m *AuxData) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.TypeName)
	b = appendBytes(b, 2, m.Data)
	return b
}

func (m *Module) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendString(b, 2, m.BinaryPath)
	b = appendUint(b, 3, m.PreferredAddr)
	b = appendInt(b, 4, m.RebaseDelta)
	b = appendUint(b, 5, uint64(m.FileFormat))
	b = appendUint(b, 6, uint64(m.ISA))
	b = appendString(b, 7, m.Name)
	for _, x := range m.Sections {
		b = appendMsg(b, 8, x.Marshal())
	}
	for _, x := range m.Symbols {
		b = appendMsg(b, 9, x.Marshal())
	}
	for _, x := range m.Proxies {
		b = appendMsg(b, 10, x.Marshal())
	}
	for _, x := range m.AuxData {
		b = appendMsg(b, 11, x.Marshal())
	}
	b = appendBytes(b, 12, m.EntryPoint)
	b = appendUint(b, 13, uint64(m.ByteOrder))
	return b
}

func (m *Section) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendString(b, 2, m.Name)
	for _, x := range m.ByteIntervals {
		b = appendMsg(b, 3, x.Marshal())
	}
	for _, f := range m.Flags {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f))
	}
	return b
}

func (m *ByteInterval) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	for _, x := range m.Blocks {
		b = appendMsg(b, 2, x.Marshal())
	}
	for _, x := range m.SymExprs {
		b = appendMsg(b, 3, x.Marshal())
	}
	b = appendBool(b, 4, m.HasAddress)
	b = appendUint(b, 5, m.Address)
	b = appendUint(b, 6, m.Size)
	b = appendBytes(b, 7, m.Contents)
	b = appendUint(b, 8, uint64(m.ByteOrder))
	return b
}

func (m *Block) Marshal() []byte {
	var b []byte
	b = appendUint(b, 1, m.Offset)
	if m.Code != nil {
		b = appendMsg(b, 2, m.Code.Marshal())
	}
	if m.Data != nil {
		b = appendMsg(b, 3, m.Data.Marshal())
	}
	return b
}

func (m *CodeBlock) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendUint(b, 2, m.Size)
	b = appendUint(b, 3, uint64(m.DecodeMode))
	return b
}

func (m *DataBlock) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendUint(b, 2, m.Size)
	return b
}

func (m *ProxyBlock) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	return b
}

func (m *Symbol) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.UUID)
	b = appendUint(b, 2, m.Value)
	b = appendBytes(b, 3, m.Referent)
	b = appendString(b, 4, m.Name)
	b = appendBool(b, 5, m.AtEnd)
	b = appendUint(b, 6, uint64(m.Visibility))
	b = appendBool(b, 7, m.HasValue)
	return b
}

func (m *SymExprEntry) Marshal() []byte {
	var b []byte
	b = appendUint(b, 1, m.Key)
	if m.Value != nil {
		b = appendMsg(b, 2, m.Value.Marshal())
	}
	return b
}

func (m *SymbolicExpression) Marshal() []byte {
	var b []byte
	if m.AddrConst != nil {
		b = appendMsg(b, 1, m.AddrConst.Marshal())
	}
	if m.AddrAddr != nil {
		b = appendMsg(b, 2, m.AddrAddr.Marshal())
	}
	if m.StackConst != nil {
		b = appendMsg(b, 3, m.StackConst.Marshal())
	}
	for _, a := range m.Attrs {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(a))
	}
	return b
}

func (m *SymAddrConst) Marshal() []byte {
	var b []byte
	b = appendInt(b, 1, m.Offset)
	b = appendBytes(b, 2, m.Symbol)
	return b
}

func (m *SymAddrAddr) Marshal() []byte {
	var b []byte
	b = appendInt(b, 1, m.Scale)
	b = appendInt(b, 2, m.Offset)
	b = appendBytes(b, 3, m.Symbol1)
	b = appendBytes(b, 4, m.Symbol2)
	return b
}

func (m *SymStackConst) Marshal() []byte {
	var b []byte
	b = appendInt(b, 1, m.Offset)
	b = appendBytes(b, 2, m.Symbol)
	return b
}

func (m *CFG) Marshal() []byte {
	var b []byte
	for _, v := range m.Vertices {
		b = appendBytes(b, 1, v)
	}
	for _, e := range m.Edges {
		b = appendMsg(b, 2, e.Marshal())
	}
	return b
}

func (m *Edge) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.Source)
	b = appendBytes(b, 2, m.Target)
	if m.Label != nil {
		b = appendMsg(b, 3, m.Label.Marshal())
	}
	return b
}

func (m *EdgeLabel) Marshal() []byte {
	var b []byte
	b = appendBool(b, 1, m.Conditional)
	b = appendBool(b, 2, m.Direct)
	b = appendUint(b, 3, uint64(m.Type))
	return b
}
