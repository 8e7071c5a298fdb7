package callgraph

import (
	"testing"

	"gtirb"
)

func buildTwoFunctionIR(t *testing.T) (*gtirb.IR, *gtirb.CodeBlock, *gtirb.CodeBlock) {
	t.Helper()
	ctx := gtirb.NewContext()
	ir := gtirb.NewIR(ctx)
	m := gtirb.NewModule(ctx, "app")
	ir.AddModule(m)
	sec := gtirb.NewSection(ctx, ".text")
	m.AddSection(sec)
	bi := gtirb.NewByteIntervalAt(ctx, 0x1000, 0x20)
	sec.AddByteInterval(bi)

	caller := gtirb.NewCodeBlock(ctx, 8)
	callee := gtirb.NewCodeBlock(ctx, 8)
	bi.AddBlock(0, caller)
	bi.AddBlock(8, callee)

	for name, b := range map[string]*gtirb.CodeBlock{"main": caller, "helper": callee} {
		s := gtirb.NewSymbol(ctx, name)
		m.AddSymbol(s)
		s.SetReferent(b)
	}

	ir.CFG().AddEdge(caller, callee, gtirb.EdgeLabel{Type: gtirb.EdgeCall, Direct: true})
	ir.CFG().AddEdge(caller, callee, gtirb.EdgeLabel{Type: gtirb.EdgeFallthrough})
	return ir, caller, callee
}

func TestBuildGraph(t *testing.T) {
	ir, _, _ := buildTwoFunctionIR(t)
	g := BuildGraph(ir)

	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %v", g.Nodes)
	}
	found := false
	for _, e := range g.Edges {
		if e.Caller == "main" && e.Callee == "helper" {
			found = true
		}
	}
	if !found {
		t.Errorf("call edge missing from %v", g.Edges)
	}
	// The fallthrough edge must not appear as a call.
	if len(g.Edges) != 1 {
		t.Errorf("edges = %v", g.Edges)
	}
}

func TestBuildCFG(t *testing.T) {
	ir, _, _ := buildTwoFunctionIR(t)
	cg := BuildCFG(ir)

	if len(cg.Funcs) != 1 {
		t.Fatalf("funcs = %d", len(cg.Funcs))
	}
	f := cg.Funcs[0]
	if f.Name != "app" || len(f.Blocks) != 2 {
		t.Fatalf("func = %q with %d blocks", f.Name, len(f.Blocks))
	}

	first := f.Blocks[0]
	if len(first.Calls) != 1 || first.Calls[0].Callee != "helper" {
		t.Errorf("calls = %v", first.Calls)
	}
	if len(first.Succs) != 1 || first.Succs[0].BlockID != 1 || first.Succs[0].Cond != "F" {
		t.Errorf("succs = %v", first.Succs)
	}

	last := f.Blocks[1]
	if !last.Term {
		t.Error("block with no out-edges is not terminal")
	}
}
