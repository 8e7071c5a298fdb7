package gtirb

import (
	"github.com/google/uuid"

	"gtirb/internal/proto"
)

// Wire codes for section flags, 0 meaning undefined.
var sectionFlagWire = []struct {
	flag SectionFlags
	code uint32
}{
	{FlagReadable, 1},
	{FlagWritable, 2},
	{FlagExecutable, 3},
	{FlagLoaded, 4},
	{FlagInitialized, 5},
	{FlagThreadLocal, 6},
}

// Wire codes for symbolic expression attributes.
var symAttrWire = []struct {
	attr SymAttrs
	code uint32
}{
	{AttrGOTRelative, 1},
	{AttrPLTRelative, 2},
	{AttrTLSRelative, 3},
	{AttrPageRelative, 4},
	{AttrLo12, 5},
	{AttrHi20, 6},
}

func (ir *IR) toProto() *proto.IR {
	p := &proto.IR{
		UUID:    uuidBytes(ir.id),
		Version: uint32(CurrentVersion),
		AuxData: auxToProto(&ir.AuxDataContainer),
		CFG:     cfgToProto(ir.cfg),
	}
	for _, m := range ir.modules {
		p.Modules = append(p.Modules, moduleToProto(m))
	}
	return p
}

func moduleToProto(m *Module) *proto.Module {
	p := &proto.Module{
		UUID:          uuidBytes(m.id),
		BinaryPath:    m.binaryPath,
		PreferredAddr: uint64(m.preferredAddr),
		RebaseDelta:   m.rebaseDelta,
		FileFormat:    uint32(m.fileFormat),
		ISA:           uint32(m.isa),
		Name:          m.name,
		AuxData:       auxToProto(&m.AuxDataContainer),
		ByteOrder:     uint32(m.order),
	}
	if m.entryPoint != nil {
		p.EntryPoint = uuidBytes(m.entryPoint.id)
	}
	for _, s := range m.sections {
		p.Sections = append(p.Sections, sectionToProto(s))
	}
	for _, s := range m.symbols {
		p.Symbols = append(p.Symbols, symbolToProto(s))
	}
	for _, b := range m.proxies {
		p.Proxies = append(p.Proxies, &proto.ProxyBlock{UUID: uuidBytes(b.id)})
	}
	return p
}

func sectionToProto(s *Section) *proto.Section {
	p := &proto.Section{UUID: uuidBytes(s.id), Name: s.name}
	for _, bi := range s.intervals {
		p.ByteIntervals = append(p.ByteIntervals, intervalToProto(bi))
	}
	for _, fw := range sectionFlagWire {
		if s.flags&fw.flag != 0 {
			p.Flags = append(p.Flags, fw.code)
		}
	}
	return p
}

func intervalToProto(bi *ByteInterval) *proto.ByteInterval {
	p := &proto.ByteInterval{
		UUID:       uuidBytes(bi.id),
		HasAddress: bi.hasAddr,
		Address:    uint64(bi.addr),
		Size:       bi.size,
		Contents:   bi.contents,
		ByteOrder:  uint32(bi.order),
	}
	for _, b := range bi.blocks {
		pb := &proto.Block{Offset: b.Offset()}
		switch x := b.(type) {
		case *CodeBlock:
			pb.Code = &proto.CodeBlock{
				UUID:       uuidBytes(x.id),
				Size:       x.size,
				DecodeMode: uint32(x.decodeMode),
			}
		case *DataBlock:
			pb.Data = &proto.DataBlock{UUID: uuidBytes(x.id), Size: x.size}
		}
		p.Blocks = append(p.Blocks, pb)
	}
	for _, se := range bi.SymbolicExpressions() {
		p.SymExprs = append(p.SymExprs, &proto.SymExprEntry{
			Key:   se.Offset,
			Value: symExprToProto(se.Expr),
		})
	}
	return p
}

func symbolToProto(s *Symbol) *proto.Symbol {
	p := &proto.Symbol{
		UUID:       uuidBytes(s.id),
		Name:       s.name,
		AtEnd:      s.atEnd,
		Visibility: uint32(s.visibility),
	}
	if s.hasValue {
		p.HasValue = true
		p.Value = uint64(s.value)
	} else if s.referent != nil {
		p.Referent = uuidBytes(s.referent.UUID())
	}
	return p
}

func symExprToProto(e SymbolicExpression) *proto.SymbolicExpression {
	p := &proto.SymbolicExpression{}
	switch x := e.(type) {
	case SymAddrConst:
		p.AddrConst = &proto.SymAddrConst{Offset: x.Offset, Symbol: symUUIDBytes(x.Sym)}
	case SymAddrAddr:
		p.AddrAddr = &proto.SymAddrAddr{
			Scale:   x.Scale,
			Offset:  x.Offset,
			Symbol1: symUUIDBytes(x.Sym1),
			Symbol2: symUUIDBytes(x.Sym2),
		}
	case SymStackConst:
		p.StackConst = &proto.SymStackConst{Offset: x.Offset, Symbol: symUUIDBytes(x.Sym)}
	}
	for _, aw := range symAttrWire {
		if e.Attributes()&aw.attr != 0 {
			p.Attrs = append(p.Attrs, aw.code)
		}
	}
	return p
}

func cfgToProto(g *CFG) *proto.CFG {
	p := &proto.CFG{}
	for _, v := range g.Vertices() {
		p.Vertices = append(p.Vertices, uuidBytes(v))
	}
	for _, e := range g.Edges() {
		p.Edges = append(p.Edges, &proto.Edge{
			Source: uuidBytes(e.Source),
			Target: uuidBytes(e.Target),
			Label: &proto.EdgeLabel{
				Conditional: e.Label.Conditional,
				Direct:      e.Label.Direct,
				Type:        uint32(e.Label.Type),
			},
		})
	}
	return p
}

// auxToProto emits the container's tables sorted by name so output is
// deterministic.
func auxToProto(c *AuxDataContainer) []*proto.AuxDataEntry {
	var out []*proto.AuxDataEntry
	for _, name := range c.AuxDataNames() {
		a := c.tables[name]
		out = append(out, &proto.AuxDataEntry{
			Key:   name,
			Value: &proto.AuxData{TypeName: a.typeName, Data: a.raw},
		})
	}
	return out
}

func uuidBytes(id uuid.UUID) []byte {
	b := make([]byte, 16)
	copy(b, id[:])
	return b
}

func symUUIDBytes(s *Symbol) []byte {
	if s == nil {
		return nil
	}
	return uuidBytes(s.id)
}
