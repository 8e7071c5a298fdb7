package gtirb

import (
	"testing"
)

// checkSymbolIndices verifies the name, referent, and address indices
// against a linear scan of the symbol collection.
func checkSymbolIndices(t *testing.T, m *Module) {
	t.Helper()
	byName := make(map[string]int)
	byAddr := 0
	for _, s := range m.symbols {
		byName[s.name]++
		if _, ok := s.Address(); ok {
			byAddr++
		}
	}
	for name, want := range byName {
		if got := len(m.FindSymbols(name)); got != want {
			t.Errorf("FindSymbols(%q) = %d, scan says %d", name, got, want)
		}
	}
	if len(m.symAddrIdx) != byAddr {
		t.Errorf("address index has %d entries, scan says %d", len(m.symAddrIdx), byAddr)
	}
	for _, s := range m.symbols {
		if ref, ok := s.Referent(); ok {
			found := false
			for _, rs := range m.FindSymbolsByReferent(ref) {
				if rs == s {
					found = true
				}
			}
			if !found {
				t.Errorf("symbol %q missing from referent index", s.Name())
			}
		}
	}
}

func TestFindSymbolsByName(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")

	s1 := NewSymbol(ctx, "start")
	s2 := NewSymbol(ctx, "main")
	s3 := NewSymbol(ctx, "start")
	m.AddSymbol(s1)
	m.AddSymbol(s2)
	m.AddSymbol(s3)

	if got := len(m.FindSymbols("start")); got != 2 {
		t.Errorf(`FindSymbols("start") = %d symbols, want 2`, got)
	}
	if got := len(m.FindSymbols("main")); got != 1 {
		t.Errorf(`FindSymbols("main") = %d symbols, want 1`, got)
	}
	if got := len(m.FindSymbols("_nonexistent")); got != 0 {
		t.Errorf(`FindSymbols("_nonexistent") = %d symbols, want 0`, got)
	}
	checkSymbolIndices(t, m)
}

func TestSymbolRenameUpdatesIndex(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")
	s := NewSymbol(ctx, "old")
	m.AddSymbol(s)

	s.SetName("new")
	if len(m.FindSymbols("old")) != 0 {
		t.Error("old name still indexed")
	}
	got := m.FindSymbols("new")
	if len(got) != 1 || got[0] != s {
		t.Error("new name not indexed")
	}
	checkSymbolIndices(t, m)
}

func TestSymbolReferentIndex(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")
	sec := NewSection(ctx, ".text")
	m.AddSection(sec)
	bi := NewByteIntervalAt(ctx, 0x1000, 16)
	sec.AddByteInterval(bi)
	cb := NewCodeBlock(ctx, 4)
	bi.AddBlock(0, cb)

	s := NewSymbol(ctx, "f")
	m.AddSymbol(s)
	s.SetReferent(cb)

	got := m.FindSymbolsByReferent(cb)
	if len(got) != 1 || got[0] != s {
		t.Fatal("referent index missing symbol")
	}
	if a, ok := s.Address(); !ok || a != 0x1000 {
		t.Errorf("symbol address = %v, %v", a, ok)
	}
	if got := m.FindSymbolsAt(0x1000); len(got) != 1 || got[0] != s {
		t.Error("address index missing symbol")
	}

	// Retargeting the symbol moves it between index buckets.
	db := NewDataBlock(ctx, 8)
	bi.AddBlock(8, db)
	s.SetReferent(db)
	if len(m.FindSymbolsByReferent(cb)) != 0 {
		t.Error("stale referent entry")
	}
	if got := m.FindSymbolsAt(0x1008); len(got) != 1 {
		t.Error("address index not refreshed after retarget")
	}
	checkSymbolIndices(t, m)
}

func TestSymbolValueAndAtEnd(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")
	s := NewSymbol(ctx, "v")
	m.AddSymbol(s)
	s.SetValue(0x2000)

	if a, ok := s.Address(); !ok || a != 0x2000 {
		t.Errorf("value symbol address = %v, %v", a, ok)
	}
	if got := m.FindSymbolsAt(0x2000); len(got) != 1 {
		t.Error("value symbol not in address index")
	}

	sec := NewSection(ctx, ".data")
	m.AddSection(sec)
	bi := NewByteIntervalAt(ctx, 0x3000, 32)
	sec.AddByteInterval(bi)
	db := NewDataBlock(ctx, 8)
	bi.AddBlock(0, db)

	e := NewSymbol(ctx, "end")
	e.SetAtEnd(true)
	m.AddSymbol(e)
	e.SetReferent(db)
	if a, ok := e.Address(); !ok || a != 0x3008 {
		t.Errorf("at-end symbol address = %v, %v", a, ok)
	}
	if got := m.FindSymbolsAt(0x3008); len(got) != 1 || got[0] != e {
		t.Error("at-end symbol not in address index")
	}

	// Resizing the referent shifts the at-end address.
	if err := db.SetSize(16); err != nil {
		t.Fatal(err)
	}
	if got := m.FindSymbolsAt(0x3010); len(got) != 1 || got[0] != e {
		t.Error("address index not refreshed after block resize")
	}
	checkSymbolIndices(t, m)
}

func TestIntervalMoveReindexesSymbols(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")
	sec := NewSection(ctx, ".text")
	m.AddSection(sec)
	bi := NewByteIntervalAt(ctx, 0x1000, 16)
	sec.AddByteInterval(bi)
	cb := NewCodeBlock(ctx, 4)
	bi.AddBlock(4, cb)

	s := NewSymbol(ctx, "f")
	m.AddSymbol(s)
	s.SetReferent(cb)

	bi.SetAddress(0x9000)
	if len(m.FindSymbolsAt(0x1004)) != 0 {
		t.Error("stale address entry after interval move")
	}
	if got := m.FindSymbolsAt(0x9004); len(got) != 1 || got[0] != s {
		t.Error("symbol not reindexed after interval move")
	}

	bi.ClearAddress()
	if len(m.FindSymbolsBetween(0, ^Addr(0))) != 0 {
		t.Error("floating interval still yields symbol addresses")
	}
	checkSymbolIndices(t, m)
}

func TestFindSymbolsBetween(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")
	for i, a := range []Addr{0x100, 0x200, 0x300} {
		s := NewSymbol(ctx, string(rune('a'+i)))
		m.AddSymbol(s)
		s.SetValue(a)
	}
	if got := m.FindSymbolsBetween(0x100, 0x300); len(got) != 2 {
		t.Errorf("half-open range returned %d symbols, want 2", len(got))
	}
	if got := m.FindSymbolsBetween(0x300, 0x100); got != nil {
		t.Errorf("inverted range returned %v", got)
	}
}

func TestSectionOverlapQueries(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")

	s1 := NewSection(ctx, ".a")
	m.AddSection(s1)
	s1.AddByteInterval(NewByteIntervalAt(ctx, 0x1000, 0x100))

	s2 := NewSection(ctx, ".b")
	m.AddSection(s2)
	s2.AddByteInterval(NewByteIntervalAt(ctx, 0x1080, 0x100))

	if got := m.FindSectionsOn(0x1090); len(got) != 2 {
		t.Errorf("FindSectionsOn(0x1090) = %d sections, want 2", len(got))
	}
	on := m.FindSectionsOn(0x1000)
	if len(on) != 1 || on[0] != s1 {
		t.Errorf("FindSectionsOn(0x1000) = %v", on)
	}
	at := m.FindSectionsBetween(0x1080, 0x1180)
	if len(at) != 1 || at[0] != s2 {
		t.Errorf("FindSectionsBetween(0x1080, 0x1180) = %v", at)
	}
	if got := m.FindSectionsOn(0x1180); len(got) != 0 {
		t.Errorf("FindSectionsOn past both ends = %d sections", len(got))
	}
}

func TestFindSectionsByName(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")
	a := NewSection(ctx, ".text")
	b := NewSection(ctx, ".text")
	c := NewSection(ctx, ".data")
	m.AddSection(a)
	m.AddSection(b)
	m.AddSection(c)

	if got := len(m.FindSections(".text")); got != 2 {
		t.Errorf("FindSections(.text) = %d, want 2", got)
	}
	c.SetName(".bss")
	if len(m.FindSections(".data")) != 0 {
		t.Error("renamed section still under old name")
	}
	if len(m.FindSections(".bss")) != 1 {
		t.Error("renamed section not under new name")
	}
}

func TestModuleBlockQueries(t *testing.T) {
	ctx := NewContext()
	m := NewModule(ctx, "m")
	sec := NewSection(ctx, ".text")
	m.AddSection(sec)

	bi1 := NewByteIntervalAt(ctx, 0x1000, 0x10)
	sec.AddByteInterval(bi1)
	b1 := NewCodeBlock(ctx, 8)
	bi1.AddBlock(0, b1)
	b2 := NewCodeBlock(ctx, 8)
	bi1.AddBlock(8, b2)

	bi2 := NewByteIntervalAt(ctx, 0x2000, 0x10)
	sec.AddByteInterval(bi2)
	b3 := NewDataBlock(ctx, 16)
	bi2.AddBlock(0, b3)

	all := m.Blocks()
	if len(all) != 3 {
		t.Fatalf("Blocks() = %d blocks", len(all))
	}
	for i := 1; i < len(all); i++ {
		ap, _ := all[i-1].Address()
		ac, _ := all[i].Address()
		if ap > ac {
			t.Error("Blocks() not ascending by address")
		}
	}

	on := m.FindBlocksOn(0x1009)
	if len(on) != 1 || on[0] != ByteBlock(b2) {
		t.Errorf("FindBlocksOn(0x1009) = %v", on)
	}
	at := m.FindBlocksAt(0x2000)
	if len(at) != 1 || at[0] != ByteBlock(b3) {
		t.Errorf("FindBlocksAt(0x2000) = %v", at)
	}
	between := m.FindBlocksBetween(0x1000, 0x2000)
	if len(between) != 2 {
		t.Errorf("FindBlocksBetween = %d blocks, want 2", len(between))
	}
}

func TestMoveSymbolBetweenModules(t *testing.T) {
	ctx := NewContext()
	m1 := NewModule(ctx, "a")
	m2 := NewModule(ctx, "b")
	s := NewSymbol(ctx, "shared")

	if got := m1.AddSymbol(s); got != Accepted {
		t.Fatalf("first add = %v", got)
	}
	if got := m1.AddSymbol(s); got != NoChange {
		t.Fatalf("second add = %v", got)
	}
	if got := m2.AddSymbol(s); got != Accepted {
		t.Fatalf("move = %v", got)
	}
	if len(m1.FindSymbols("shared")) != 0 {
		t.Error("symbol still indexed in old module")
	}
	if s.Module() != m2 {
		t.Error("parent back-reference not updated")
	}
}
