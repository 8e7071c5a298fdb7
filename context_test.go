package gtirb

import "testing"

func TestContextFindNode(t *testing.T) {
	ctx := NewContext()
	ir := NewIR(ctx)
	m := NewModule(ctx, "m")
	s := NewSection(ctx, ".text")
	bi := NewByteIntervalAt(ctx, 0x1000, 16)
	cb := NewCodeBlock(ctx, 4)
	db := NewDataBlock(ctx, 8)
	pb := NewProxyBlock(ctx)
	sym := NewSymbol(ctx, "main")

	nodes := []Node{ir, m, s, bi, cb, db, pb, sym}
	for _, n := range nodes {
		got, ok := ctx.FindNode(n.UUID())
		if !ok || got != n {
			t.Errorf("FindNode(%s %s) = %v, %v", n.Kind(), n.UUID(), got, ok)
		}
	}
	if ctx.NodeCount() != len(nodes) {
		t.Errorf("NodeCount = %d, want %d", ctx.NodeCount(), len(nodes))
	}
}

func TestDetachedHandleStaysValid(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")
	sym := NewSymbol(ctx, "f")
	m.AddSymbol(sym)
	m.RemoveSymbol(sym)

	got, ok := ctx.FindNode(sym.UUID())
	if !ok || got != sym {
		t.Fatal("detached symbol no longer resolvable")
	}
	if sym.Module() != nil {
		t.Error("detached symbol keeps module back-reference")
	}
}

func TestUUIDsAreDistinct(t *testing.T) {
	ctx := NewContext()
	a := NewCodeBlock(ctx, 1)
	b := NewCodeBlock(ctx, 1)
	if a.UUID() == b.UUID() {
		t.Error("two nodes share a UUID")
	}
}
