// Package callgraph converts an IR's control-flow graph into lattice
// graphs for rendering and reachability tooling.
package callgraph

import (
	"fmt"

	"github.com/zboralski/lattice"

	"gtirb"
)

// BuildGraph constructs a lattice.Graph from an IR's CFG: one node per
// CFG vertex, one caller/callee edge per call-type edge. Vertices are
// named after the first symbol referring to them, falling back to their
// address, then their UUID.
func BuildGraph(ir *gtirb.IR) *lattice.Graph {
	g := &lattice.Graph{}
	cfg := ir.CFG()
	for _, v := range cfg.Vertices() {
		n, ok := ir.Context().FindNode(v)
		if !ok {
			continue
		}
		g.Nodes = append(g.Nodes, vertexName(ir, n))
	}
	for _, e := range cfg.Edges() {
		if e.Label.Type != gtirb.EdgeCall {
			continue
		}
		src, ok1 := ir.Context().FindNode(e.Source)
		tgt, ok2 := ir.Context().FindNode(e.Target)
		if !ok1 || !ok2 {
			continue
		}
		g.Edges = append(g.Edges, lattice.Edge{
			Caller: vertexName(ir, src),
			Callee: vertexName(ir, tgt),
		})
	}
	g.Dedup()
	return g
}

// BuildCFG converts a module's blocks and intra-module control flow into a
// lattice.FuncCFG wrapped in a CFGGraph, one entry per module.
func BuildCFG(ir *gtirb.IR) *lattice.CFGGraph {
	cg := &lattice.CFGGraph{}
	for _, m := range ir.Modules() {
		cg.Funcs = append(cg.Funcs, moduleCFG(ir, m))
	}
	return cg
}

func moduleCFG(ir *gtirb.IR, m *gtirb.Module) *lattice.FuncCFG {
	lcfg := &lattice.FuncCFG{Name: m.Name()}

	var codeBlocks []*gtirb.CodeBlock
	idx := make(map[[16]byte]int)
	for _, b := range m.Blocks() {
		if cb, ok := b.(*gtirb.CodeBlock); ok {
			idx[cb.UUID()] = len(codeBlocks)
			codeBlocks = append(codeBlocks, cb)
		}
	}

	cfg := ir.CFG()
	for i, cb := range codeBlocks {
		lb := &lattice.BasicBlock{ID: i, Start: i, End: i + 1}
		outs := cfg.OutEdges(cb)
		if len(outs) == 0 {
			lb.Term = true
		}
		for _, e := range outs {
			switch e.Label.Type {
			case gtirb.EdgeCall:
				callee := "?"
				if n, ok := ir.Context().FindNode(e.Target); ok {
					callee = vertexName(ir, n)
				}
				lb.Calls = append(lb.Calls, lattice.CallSite{Offset: i, Callee: callee})
			case gtirb.EdgeReturn, gtirb.EdgeSysret:
				lb.Term = true
			default:
				tid, ok := idx[e.Target]
				if !ok {
					continue
				}
				cond := ""
				if e.Label.Conditional {
					cond = "T"
				} else if e.Label.Type == gtirb.EdgeFallthrough {
					cond = "F"
				}
				lb.Succs = append(lb.Succs, lattice.Successor{BlockID: tid, Cond: cond})
			}
		}
		lcfg.Blocks = append(lcfg.Blocks, lb)
	}
	return lcfg
}

// vertexName names a CFG vertex for display.
func vertexName(ir *gtirb.IR, n gtirb.Node) string {
	for _, m := range ir.Modules() {
		if syms := m.FindSymbolsByReferent(n); len(syms) > 0 {
			return syms[0].Name()
		}
	}
	if bb, ok := n.(gtirb.ByteBlock); ok {
		if a, ok := bb.Address(); ok {
			return fmt.Sprintf("0x%x", uint64(a))
		}
	}
	return n.UUID().String()
}
