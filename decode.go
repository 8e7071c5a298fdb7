package gtirb

import (
	"fmt"

	"github.com/google/uuid"

	"gtirb/internal/proto"
)

// decoder materializes a proto.IR into the node graph. Pass one allocates
// every node and registers its UUID; pass two resolves cross-references,
// accumulating integrity warnings for references that do not resolve.
type decoder struct {
	ctx   *Context
	diags Diags
}

func (d *decoder) uuid(b []byte, what string) (uuid.UUID, error) {
	var id uuid.UUID
	if len(b) != 16 {
		return id, fmt.Errorf("%w: %s UUID has %d bytes", ErrDecode, what, len(b))
	}
	copy(id[:], b)
	if _, exists := d.ctx.nodes[id]; exists {
		return id, fmt.Errorf("%w: duplicate UUID %s", ErrDecode, id)
	}
	return id, nil
}

func (d *decoder) decodeIR(p *proto.IR) (*IR, error) {
	id, err := d.uuid(p.UUID, "IR")
	if err != nil {
		return nil, err
	}
	ir := newIRWithUUID(d.ctx, id)
	for _, pm := range p.Modules {
		m, err := d.allocModule(pm)
		if err != nil {
			return nil, err
		}
		ir.AddModule(m)
	}
	installAux(&ir.AuxDataContainer, p.AuxData)

	// Pass two: everything is allocated, resolve references.
	for i, pm := range p.Modules {
		if err := d.resolveModule(ir.modules[i], pm); err != nil {
			return nil, err
		}
	}
	if p.CFG != nil {
		if err := d.resolveCFG(ir.cfg, p.CFG); err != nil {
			return nil, err
		}
	}
	return ir, nil
}

func (d *decoder) allocModule(p *proto.Module) (*Module, error) {
	id, err := d.uuid(p.UUID, "module")
	if err != nil {
		return nil, err
	}
	m := newModuleWithUUID(d.ctx, id, p.Name)
	m.binaryPath = p.BinaryPath
	m.preferredAddr = Addr(p.PreferredAddr)
	m.rebaseDelta = p.RebaseDelta
	m.fileFormat = FileFormat(p.FileFormat)
	m.isa = ISA(p.ISA)
	m.order = ByteOrder(p.ByteOrder)
	installAux(&m.AuxDataContainer, p.AuxData)

	for _, ps := range p.Sections {
		s, err := d.allocSection(ps)
		if err != nil {
			return nil, err
		}
		m.AddSection(s)
	}
	for _, pb := range p.Proxies {
		id, err := d.uuid(pb.UUID, "proxy block")
		if err != nil {
			return nil, err
		}
		m.AddProxyBlock(newProxyBlockWithUUID(d.ctx, id))
	}
	for _, ps := range p.Symbols {
		id, err := d.uuid(ps.UUID, "symbol")
		if err != nil {
			return nil, err
		}
		s := newSymbolWithUUID(d.ctx, id, ps.Name)
		s.atEnd = ps.AtEnd
		s.visibility = Visibility(ps.Visibility)
		m.AddSymbol(s)
	}
	return m, nil
}

func (d *decoder) allocSection(p *proto.Section) (*Section, error) {
	id, err := d.uuid(p.UUID, "section")
	if err != nil {
		return nil, err
	}
	s := newSectionWithUUID(d.ctx, id, p.Name)
	for _, code := range p.Flags {
		for _, fw := range sectionFlagWire {
			if fw.code == code {
				s.flags |= fw.flag
			}
		}
	}
	for _, pbi := range p.ByteIntervals {
		bi, err := d.allocInterval(pbi)
		if err != nil {
			return nil, err
		}
		s.AddByteInterval(bi)
	}
	return s, nil
}

func (d *decoder) allocInterval(p *proto.ByteInterval) (*ByteInterval, error) {
	id, err := d.uuid(p.UUID, "byte interval")
	if err != nil {
		return nil, err
	}
	bi := newByteIntervalWithUUID(d.ctx, id)
	bi.hasAddr = p.HasAddress
	bi.addr = Addr(p.Address)
	bi.size = p.Size
	bi.contents = p.Contents
	bi.order = ByteOrder(p.ByteOrder)
	if uint64(len(bi.contents)) > bi.size {
		return nil, fmt.Errorf("%w: interval %s payload %d exceeds size %d",
			ErrDecode, id, len(bi.contents), bi.size)
	}
	for _, pb := range p.Blocks {
		var blk ByteBlock
		switch {
		case pb.Code != nil && pb.Data == nil:
			bid, err := d.uuid(pb.Code.UUID, "code block")
			if err != nil {
				return nil, err
			}
			cb := newCodeBlockWithUUID(d.ctx, bid, pb.Code.Size)
			cb.decodeMode = DecodeMode(pb.Code.DecodeMode)
			blk = cb
		case pb.Data != nil && pb.Code == nil:
			bid, err := d.uuid(pb.Data.UUID, "data block")
			if err != nil {
				return nil, err
			}
			blk = newDataBlockWithUUID(d.ctx, bid, pb.Data.Size)
		default:
			return nil, fmt.Errorf("%w: interval %s block is neither code nor data", ErrDecode, id)
		}
		if bi.AddBlock(pb.Offset, blk) == Rejected {
			return nil, fmt.Errorf("%w: block extent [%d, %d) outside interval %s of size %d",
				ErrDecode, pb.Offset, pb.Offset+blk.Size(), id, bi.size)
		}
	}
	return bi, nil
}

func (d *decoder) resolveModule(m *Module, p *proto.Module) error {
	if len(p.EntryPoint) != 0 {
		if cb, ok := findAs[*CodeBlock](d, p.EntryPoint); ok {
			m.entryPoint = cb
		} else {
			d.diags.Addf(m.id, DiagDanglingEntryPoint, "entry point %x not found", p.EntryPoint)
		}
	}
	for i, ps := range p.Symbols {
		s := m.symbols[i]
		switch {
		case ps.HasValue:
			s.SetValue(Addr(ps.Value))
		case len(ps.Referent) != 0:
			if n, ok := d.find(ps.Referent); ok {
				s.SetReferent(n)
			} else {
				d.diags.Addf(s.id, DiagDanglingSymbolRef, "referent %x not found", ps.Referent)
			}
		}
	}
	for si, ps := range p.Sections {
		s := m.sections[si]
		for bii, pbi := range ps.ByteIntervals {
			bi := s.intervals[bii]
			for _, pe := range pbi.SymExprs {
				expr, err := d.symExprFromProto(bi.id, pe.Value)
				if err != nil {
					return err
				}
				if err := bi.SetSymbolicExpression(pe.Key, expr); err != nil {
					return fmt.Errorf("%w: %v", ErrDecode, err)
				}
			}
		}
	}
	return nil
}

func (d *decoder) resolveCFG(g *CFG, p *proto.CFG) error {
	for _, vb := range p.Vertices {
		n, ok := d.find(vb)
		if !ok {
			d.diags.Addf(uuid.UUID{}, DiagDanglingCFGEdge, "CFG vertex %x not found", vb)
			continue
		}
		cn, ok := n.(CFGNode)
		if !ok {
			return fmt.Errorf("%w: CFG vertex %s is a %s", ErrDecode, n.UUID(), n.Kind())
		}
		g.AddVertex(cn)
	}
	for _, pe := range p.Edges {
		src, sok := d.find(pe.Source)
		tgt, tok := d.find(pe.Target)
		if !sok || !tok {
			d.diags.Addf(uuid.UUID{}, DiagDanglingCFGEdge,
				"edge %x -> %x endpoint not found, edge dropped", pe.Source, pe.Target)
			continue
		}
		scn, sok := src.(CFGNode)
		tcn, tok := tgt.(CFGNode)
		if !sok || !tok {
			return fmt.Errorf("%w: CFG edge endpoint is not a block", ErrDecode)
		}
		label := EdgeLabel{}
		if pe.Label != nil {
			label = EdgeLabel{
				Conditional: pe.Label.Conditional,
				Direct:      pe.Label.Direct,
				Type:        EdgeType(pe.Label.Type),
			}
		}
		g.AddEdge(scn, tcn, label)
	}
	return nil
}

func (d *decoder) symExprFromProto(owner uuid.UUID, p *proto.SymbolicExpression) (SymbolicExpression, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: empty symbolic expression", ErrDecode)
	}
	attrs := SymAttrs(0)
	for _, code := range p.Attrs {
		for _, aw := range symAttrWire {
			if aw.code == code {
				attrs |= aw.attr
			}
		}
	}
	switch {
	case p.AddrConst != nil:
		return SymAddrConst{
			Offset: p.AddrConst.Offset,
			Sym:    d.symbolRef(owner, p.AddrConst.Symbol),
			Attrs:  attrs,
		}, nil
	case p.AddrAddr != nil:
		return SymAddrAddr{
			Scale:  p.AddrAddr.Scale,
			Offset: p.AddrAddr.Offset,
			Sym1:   d.symbolRef(owner, p.AddrAddr.Symbol1),
			Sym2:   d.symbolRef(owner, p.AddrAddr.Symbol2),
			Attrs:  attrs,
		}, nil
	case p.StackConst != nil:
		return SymStackConst{
			Offset: p.StackConst.Offset,
			Sym:    d.symbolRef(owner, p.StackConst.Symbol),
			Attrs:  attrs,
		}, nil
	}
	return nil, fmt.Errorf("%w: symbolic expression has no variant", ErrDecode)
}

// symbolRef resolves a symbol UUID, recording a warning when it dangles.
func (d *decoder) symbolRef(owner uuid.UUID, b []byte) *Symbol {
	if len(b) == 0 {
		return nil
	}
	if s, ok := findAs[*Symbol](d, b); ok {
		return s
	}
	d.diags.Addf(owner, DiagDanglingExprSym, "symbol %x not found", b)
	return nil
}

func findAs[T Node](d *decoder, b []byte) (T, bool) {
	var zero T
	n, ok := d.find(b)
	if !ok {
		return zero, false
	}
	t, ok := n.(T)
	return t, ok
}

func (d *decoder) find(b []byte) (Node, bool) {
	if len(b) != 16 {
		return nil, false
	}
	var id uuid.UUID
	copy(id[:], b)
	return d.ctx.FindNode(id)
}

func installAux(c *AuxDataContainer, entries []*proto.AuxDataEntry) {
	for _, e := range entries {
		if e.Value == nil {
			c.setRawAuxData(e.Key, "", nil)
			continue
		}
		c.setRawAuxData(e.Key, e.Value.TypeName, e.Value.Data)
	}
}
