package gtirb

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadBytesZeroExtended(t *testing.T) {
	ctx := NewContext()
	bi := NewByteIntervalAt(ctx, 0x1000, 8)
	bi.SetContents([]byte{1, 2, 3})

	got, err := bi.ReadBytes(0, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 0, 0, 0, 0, 0}) {
		t.Errorf("ReadBytes = %v", got)
	}

	got, err = bi.ReadBytes(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{3, 0, 0}) {
		t.Errorf("ReadBytes(2,3) = %v", got)
	}

	if _, err := bi.ReadBytes(4, 8); !errors.Is(err, ErrUsage) {
		t.Errorf("out-of-bounds read: got %v", err)
	}
}

func TestSetContentsGrowsSize(t *testing.T) {
	ctx := NewContext()
	bi := NewByteInterval(ctx, 2)
	bi.SetContents([]byte{1, 2, 3, 4})
	if bi.Size() != 4 {
		t.Errorf("size = %d after oversized payload", bi.Size())
	}
}

func TestAddBlockRejectedLeavesStateUnchanged(t *testing.T) {
	ctx := NewContext()
	bi := NewByteIntervalAt(ctx, 0x1000, 8)
	b := NewCodeBlock(ctx, 16)

	if got := bi.AddBlock(0, b); got != Rejected {
		t.Fatalf("oversized block add = %v", got)
	}
	if b.Interval() != nil {
		t.Error("rejected block gained a parent")
	}
	if bi.BlockCount() != 0 {
		t.Error("rejected block appears in collection")
	}
}

func TestAddBlockTriState(t *testing.T) {
	ctx := NewContext()
	bi := NewByteIntervalAt(ctx, 0x1000, 16)
	b := NewCodeBlock(ctx, 4)

	if got := bi.AddBlock(0, b); got != Accepted {
		t.Fatalf("add = %v", got)
	}
	if got := bi.AddBlock(0, b); got != NoChange {
		t.Fatalf("repeat add = %v", got)
	}
	if got := bi.AddBlock(8, b); got != Accepted {
		t.Fatalf("move within interval = %v", got)
	}
	if b.Offset() != 8 {
		t.Errorf("offset = %d after move", b.Offset())
	}
	if a, ok := b.Address(); !ok || a != 0x1008 {
		t.Errorf("address = %v, %v", a, ok)
	}

	other := NewByteIntervalAt(ctx, 0x2000, 16)
	if got := other.AddBlock(0, b); got != Accepted {
		t.Fatalf("move across intervals = %v", got)
	}
	if bi.BlockCount() != 0 || other.BlockCount() != 1 {
		t.Error("block counted in wrong interval after move")
	}
	if got := bi.RemoveBlock(b); got != NoChange {
		t.Errorf("remove from non-owner = %v", got)
	}
	if got := other.RemoveBlock(b); got != Accepted {
		t.Errorf("remove = %v", got)
	}
	if b.Interval() != nil {
		t.Error("removed block keeps parent")
	}
}

func TestBlockResizeAgainstInterval(t *testing.T) {
	ctx := NewContext()
	bi := NewByteIntervalAt(ctx, 0x1000, 8)
	b := NewCodeBlock(ctx, 4)
	bi.AddBlock(2, b)

	if err := b.SetSize(6); err != nil {
		t.Errorf("in-bounds resize: %v", err)
	}
	if err := b.SetSize(7); !errors.Is(err, ErrUsage) {
		t.Errorf("overrunning resize: got %v", err)
	}
	if b.Size() != 6 {
		t.Errorf("size = %d after rejected resize", b.Size())
	}
}

func TestIntervalSetSizeGuards(t *testing.T) {
	ctx := NewContext()
	bi := NewByteIntervalAt(ctx, 0x1000, 16)
	bi.SetContents(make([]byte, 16))
	b := NewCodeBlock(ctx, 4)
	bi.AddBlock(8, b)

	if err := bi.SetSize(12); err != nil {
		t.Fatalf("shrink to block boundary: %v", err)
	}
	if len(bi.Contents()) != 12 {
		t.Errorf("payload = %d bytes after shrink", len(bi.Contents()))
	}
	if err := bi.SetSize(11); !errors.Is(err, ErrUsage) {
		t.Errorf("shrink through block: got %v", err)
	}

	if err := bi.SetSymbolicExpression(11, SymAddrConst{Offset: 1}); err != nil {
		t.Fatal(err)
	}
	bi.RemoveBlock(b)
	if err := bi.SetSize(11); !errors.Is(err, ErrUsage) {
		t.Errorf("shrink through symbolic expression: got %v", err)
	}
}

func TestSymbolicExpressionOffsetRule(t *testing.T) {
	ctx := NewContext()
	bi := NewByteIntervalAt(ctx, 0x1000, 4)
	sym := NewSymbol(ctx, "ref")

	if err := bi.SetSymbolicExpression(3, SymAddrConst{Sym: sym, Offset: -4}); err != nil {
		t.Fatal(err)
	}
	if err := bi.SetSymbolicExpression(4, SymAddrConst{Sym: sym}); !errors.Is(err, ErrUsage) {
		t.Errorf("offset == size: got %v", err)
	}

	e, ok := bi.SymbolicExpression(3)
	if !ok {
		t.Fatal("expression not stored")
	}
	if ac, ok := e.(SymAddrConst); !ok || ac.Sym != sym || ac.Offset != -4 {
		t.Errorf("stored expression = %#v", e)
	}

	if got := bi.RemoveSymbolicExpression(3); got != Accepted {
		t.Errorf("remove = %v", got)
	}
	if got := bi.RemoveSymbolicExpression(3); got != NoChange {
		t.Errorf("second remove = %v", got)
	}
}

func TestTypedByteAccess(t *testing.T) {
	ctx := NewContext()
	bi := NewByteIntervalAt(ctx, 0x1000, 8)
	bi.SetOrder(OrderLittle)
	bi.SetContents([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	le, err := BytesAs[uint16](bi, OrderLittle)
	if err != nil {
		t.Fatal(err)
	}
	if le[0] != 0x0201 || le[3] != 0x0807 {
		t.Errorf("little-endian u16 = %04x ... %04x", le[0], le[3])
	}

	be, err := BytesAs[uint16](bi, OrderBig)
	if err != nil {
		t.Fatal(err)
	}
	if be[0] != 0x0102 {
		t.Errorf("big-endian u16 = %04x", be[0])
	}

	u32, err := BytesAs[uint32](bi, OrderUndefined) // falls back to interval order
	if err != nil {
		t.Fatal(err)
	}
	if u32[0] != 0x04030201 {
		t.Errorf("u32 = %08x", u32[0])
	}

	if err := SetBytesAt(bi, 0, []uint32{0xAABBCCDD}, OrderBig); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bi.Contents()[:4], []byte{0xAA, 0xBB, 0xCC, 0xDD}) {
		t.Errorf("big-endian write = %x", bi.Contents()[:4])
	}
	if err := SetBytesAt(bi, 6, []uint32{1}, OrderLittle); !errors.Is(err, ErrUsage) {
		t.Errorf("out-of-bounds write: got %v", err)
	}
}

func TestBlockBytes(t *testing.T) {
	ctx := NewContext()
	bi := NewByteIntervalAt(ctx, 0x1000, 6)
	bi.SetContents([]byte{0x90, 0x90, 0x90, 0xC3, 0x00, 0x00})
	b := NewCodeBlock(ctx, 4)
	bi.AddBlock(0, b)

	got, err := BlockBytesAs[uint8](b, OrderUndefined)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x90, 0x90, 0x90, 0xC3}) {
		t.Errorf("block bytes = %x", got)
	}

	detached := NewCodeBlock(ctx, 4)
	if _, err := BlockBytesAs[uint8](detached, OrderUndefined); !errors.Is(err, ErrUsage) {
		t.Errorf("detached block bytes: got %v", err)
	}
}
