// Package v0 reads the version-0 payload schema and translates it to the
// current schema. Version 0 kept module bytes in a dense image byte map
// and its blocks in flat per-module tables with absolute addresses; the
// adapter rewrites those into per-section byte intervals with nested
// blocks, preserving every node UUID, symbol relationship, and AuxData
// payload.
package v0

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// IR is the version-0 top-level message.
type IR struct {
	UUID    []byte          // 1
	Modules []*Module       // 2
	AuxData []*AuxDataEntry // 3
	Version uint32          // 4
}

type AuxDataEntry struct {
	Key   string   // 1
	Value *AuxData // 2
}

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
	ImageByteMap  *ImageByteMap   // 8
	Sections      []*Section      // 9
	Symbols       []*Symbol       // 10
	Blocks        []*Block        // 11, flat, absolute addresses
	DataObjects   []*DataObject   // 12, flat, absolute addresses
	Proxies       []*ProxyBlock   // 13
	CFG           *CFG            // 14
	AuxData       []*AuxDataEntry // 15
	EntryPoint    []byte          // 16
}

// ImageByteMap is the dense address→byte table of version 0, partitioned
// into contiguous regions.
type ImageByteMap struct {
	Regions []*Region // 1
}

type Region struct {
	Address uint64 // 1
	Data    []byte // 2
}

type Section struct {
	UUID    []byte   // 1
	Name    string   // 2
	Address uint64   // 3
	Size    uint64   // 4
	Flags   []uint32 // 5
}

// StorageKind is the version-0 symbol storage classification, replaced by
// visibility in the current schema.
const (
	StorageUndefined = 0
	StorageNormal    = 1
	StorageStatic    = 2
	StorageExtern    = 3
	StorageLocal     = 4
)

type Symbol struct {
	UUID        []byte // 1
	Value       uint64 // 2
	Referent    []byte // 3
	Name        string // 4
	StorageKind uint32 // 5
	AtEnd       bool   // 6
	HasValue    bool   // 7
}

// Block is a version-0 code block with an absolute address.
type Block struct {
	UUID       []byte // 1
	Address    uint64 // 2
	Size       uint64 // 3
	DecodeMode uint32 // 4
}

// DataObject is a version-0 data block with an absolute address.
type DataObject struct {
	UUID    []byte // 1
	Address uint64 // 2
	Size    uint64 // 3
}

type ProxyBlock struct {
	UUID []byte // 1
}

// CFG stores edge labels in arrays parallel to the edge list.
type CFG struct {
	Vertices     [][]byte // 1
	Edges        []*Edge  // 2
	Types        []uint32 // 3
	Conditionals []uint32 // 4
	Directs      []uint32 // 5
}

type Edge struct {
	Source []byte // 1
	Target []byte // 2
}

// dec is a strict protowire field cursor.
type dec struct {
	b []byte
}

func (d *dec) done() bool { return len(d.b) == 0 }

func (d *dec) tag() (protowire.Number, protowire.Type, error) {
	num, typ, n := protowire.ConsumeTag(d.b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	d.b = d.b[n:]
	return num, typ, nil
}

func (d *dec) varint(typ protowire.Type) (uint64, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("v0: expected varint, got wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(d.b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	d.b = d.b[n:]
	return v, nil
}

func (d *dec) bytes(typ protowire.Type) ([]byte, error) {
	if typ != protowire.BytesType {
		return nil, fmt.Errorf("v0: expected bytes, got wire type %d", typ)
	}
	v, n := protowire.ConsumeBytes(d.b)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	d.b = d.b[n:]
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (d *dec) unknown(num protowire.Number, typ protowire.Type) error {
	return fmt.Errorf("v0: unexpected field %d (wire type %d)", num, typ)
}

func (m *IR) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.UUID, err = d.bytes(typ); err != nil {
				return err
			}
		case 2:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &Module{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Modules = append(m.Modules, x)
		case 3:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &AuxDataEntry{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.AuxData = append(m.AuxData, x)
		case 4:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Version = uint32(v)
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *AuxDataEntry) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Key = string(v)
		case 2:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Value = &AuxData{}
			if err := m.Value.Unmarshal(sub); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *AuxData) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.TypeName = string(v)
		case 2:
			if m.Data, err = d.bytes(typ); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *Module) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.UUID, err = d.bytes(typ); err != nil {
				return err
			}
		case 2:
			v, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.BinaryPath = string(v)
		case 3:
			if m.PreferredAddr, err = d.varint(typ); err != nil {
				return err
			}
		case 4:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.RebaseDelta = int64(v)
		case 5:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.FileFormat = uint32(v)
		case 6:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.ISA = uint32(v)
		case 7:
			v, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Name = string(v)
		case 8:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.ImageByteMap = &ImageByteMap{}
			if err := m.ImageByteMap.Unmarshal(sub); err != nil {
				return err
			}
		case 9:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &Section{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Sections = append(m.Sections, x)
		case 10:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &Symbol{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Symbols = append(m.Symbols, x)
		case 11:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &Block{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Blocks = append(m.Blocks, x)
		case 12:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &DataObject{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.DataObjects = append(m.DataObjects, x)
		case 13:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &ProxyBlock{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Proxies = append(m.Proxies, x)
		case 14:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.CFG = &CFG{}
			if err := m.CFG.Unmarshal(sub); err != nil {
				return err
			}
		case 15:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &AuxDataEntry{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.AuxData = append(m.AuxData, x)
		case 16:
			if m.EntryPoint, err = d.bytes(typ); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *ImageByteMap) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &Region{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Regions = append(m.Regions, x)
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *Region) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.Address, err = d.varint(typ); err != nil {
				return err
			}
		case 2:
			if m.Data, err = d.bytes(typ); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *Section) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.UUID, err = d.bytes(typ); err != nil {
				return err
			}
		case 2:
			v, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Name = string(v)
		case 3:
			if m.Address, err = d.varint(typ); err != nil {
				return err
			}
		case 4:
			if m.Size, err = d.varint(typ); err != nil {
				return err
			}
		case 5:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Flags = append(m.Flags, uint32(v))
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *Symbol) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.UUID, err = d.bytes(typ); err != nil {
				return err
			}
		case 2:
			if m.Value, err = d.varint(typ); err != nil {
				return err
			}
		case 3:
			if m.Referent, err = d.bytes(typ); err != nil {
				return err
			}
		case 4:
			v, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Name = string(v)
		case 5:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.StorageKind = uint32(v)
		case 6:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.AtEnd = v != 0
		case 7:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.HasValue = v != 0
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *Block) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.UUID, err = d.bytes(typ); err != nil {
				return err
			}
		case 2:
			if m.Address, err = d.varint(typ); err != nil {
				return err
			}
		case 3:
			if m.Size, err = d.varint(typ); err != nil {
				return err
			}
		case 4:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.DecodeMode = uint32(v)
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *DataObject) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.UUID, err = d.bytes(typ); err != nil {
				return err
			}
		case 2:
			if m.Address, err = d.varint(typ); err != nil {
				return err
			}
		case 3:
			if m.Size, err = d.varint(typ); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *ProxyBlock) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.UUID, err = d.bytes(typ); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *CFG) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Vertices = append(m.Vertices, v)
		case 2:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &Edge{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Edges = append(m.Edges, x)
		case 3:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Types = append(m.Types, uint32(v))
		case 4:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Conditionals = append(m.Conditionals, uint32(v))
		case 5:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Directs = append(m.Directs, uint32(v))
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *Edge) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.Source, err = d.bytes(typ); err != nil {
				return err
			}
		case 2:
			if m.Target, err = d.bytes(typ); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}
