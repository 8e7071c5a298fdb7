package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// dec is a strict field cursor: unknown field numbers and unexpected wire
// types are errors rather than being skipped.
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
		return 0, fmt.Errorf("proto: expected varint, got wire type %d", typ)
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
		return nil, fmt.Errorf("proto: expected bytes, got wire type %d", typ)
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
	return fmt.Errorf("proto: unexpected field %d (wire type %d)", num, typ)
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
		case 5:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.CFG = &CFG{}
			if err := m.CFG.Unmarshal(sub); err != nil {
				return err
			}
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
			x := &Section{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Sections = append(m.Sections, x)
		case 9:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &Symbol{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Symbols = append(m.Symbols, x)
		case 10:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &ProxyBlock{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Proxies = append(m.Proxies, x)
		case 11:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &AuxDataEntry{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.AuxData = append(m.AuxData, x)
		case 12:
			if m.EntryPoint, err = d.bytes(typ); err != nil {
				return err
			}
		case 13:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.ByteOrder = uint32(v)
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
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &ByteInterval{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.ByteIntervals = append(m.ByteIntervals, x)
		case 4:
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

func (m *ByteInterval) Unmarshal(b []byte) error {
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
			x := &Block{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.Blocks = append(m.Blocks, x)
		case 3:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			x := &SymExprEntry{}
			if err := x.Unmarshal(sub); err != nil {
				return err
			}
			m.SymExprs = append(m.SymExprs, x)
		case 4:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.HasAddress = v != 0
		case 5:
			if m.Address, err = d.varint(typ); err != nil {
				return err
			}
		case 6:
			if m.Size, err = d.varint(typ); err != nil {
				return err
			}
		case 7:
			if m.Contents, err = d.bytes(typ); err != nil {
				return err
			}
		case 8:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.ByteOrder = uint32(v)
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
			if m.Offset, err = d.varint(typ); err != nil {
				return err
			}
		case 2:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Code = &CodeBlock{}
			if err := m.Code.Unmarshal(sub); err != nil {
				return err
			}
		case 3:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Data = &DataBlock{}
			if err := m.Data.Unmarshal(sub); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *CodeBlock) Unmarshal(b []byte) error {
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
			if m.Size, err = d.varint(typ); err != nil {
				return err
			}
		case 3:
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

func (m *DataBlock) Unmarshal(b []byte) error {
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
			m.AtEnd = v != 0
		case 6:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Visibility = uint32(v)
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

func (m *SymExprEntry) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			if m.Key, err = d.varint(typ); err != nil {
				return err
			}
		case 2:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Value = &SymbolicExpression{}
			if err := m.Value.Unmarshal(sub); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *SymbolicExpression) Unmarshal(b []byte) error {
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
			m.AddrConst = &SymAddrConst{}
			if err := m.AddrConst.Unmarshal(sub); err != nil {
				return err
			}
		case 2:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.AddrAddr = &SymAddrAddr{}
			if err := m.AddrAddr.Unmarshal(sub); err != nil {
				return err
			}
		case 3:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.StackConst = &SymStackConst{}
			if err := m.StackConst.Unmarshal(sub); err != nil {
				return err
			}
		case 4:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Attrs = append(m.Attrs, uint32(v))
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *SymAddrConst) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Offset = int64(v)
		case 2:
			if m.Symbol, err = d.bytes(typ); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *SymAddrAddr) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Scale = int64(v)
		case 2:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Offset = int64(v)
		case 3:
			if m.Symbol1, err = d.bytes(typ); err != nil {
				return err
			}
		case 4:
			if m.Symbol2, err = d.bytes(typ); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *SymStackConst) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Offset = int64(v)
		case 2:
			if m.Symbol, err = d.bytes(typ); err != nil {
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
		case 3:
			sub, err := d.bytes(typ)
			if err != nil {
				return err
			}
			m.Label = &EdgeLabel{}
			if err := m.Label.Unmarshal(sub); err != nil {
				return err
			}
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}

func (m *EdgeLabel) Unmarshal(b []byte) error {
	d := &dec{b: b}
	for !d.done() {
		num, typ, err := d.tag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Conditional = v != 0
		case 2:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Direct = v != 0
		case 3:
			v, err := d.varint(typ)
			if err != nil {
				return err
			}
			m.Type = uint32(v)
		default:
			return d.unknown(num, typ)
		}
	}
	return nil
}
