package gtirb

import "testing"

func TestSectionExtentDerivation(t *testing.T) {
	ctx := NewContext()
	s := NewSection(ctx, ".text")

	if _, ok := s.Address(); ok {
		t.Error("empty section has an address")
	}

	bi1 := NewByteIntervalAt(ctx, 0x1000, 0x10)
	s.AddByteInterval(bi1)
	bi2 := NewByteIntervalAt(ctx, 0x1040, 0x20)
	s.AddByteInterval(bi2)

	if a, ok := s.Address(); !ok || a != 0x1000 {
		t.Errorf("address = %v, %v", a, ok)
	}
	if sz, ok := s.Size(); !ok || sz != 0x60 {
		t.Errorf("size = %v, %v", sz, ok)
	}

	// A floating interval voids the derived extent.
	float := NewByteInterval(ctx, 8)
	s.AddByteInterval(float)
	if _, ok := s.Address(); ok {
		t.Error("section with floating interval still has an address")
	}
	s.RemoveByteInterval(float)
	if a, ok := s.Address(); !ok || a != 0x1000 {
		t.Errorf("address after removal = %v, %v", a, ok)
	}

	bi1.SetAddress(0x2000)
	if a, ok := s.Address(); !ok || a != 0x1040 {
		t.Errorf("address after interval move = %v, %v", a, ok)
	}
}

func TestSectionIntervalQueries(t *testing.T) {
	ctx := NewContext()
	s := NewSection(ctx, ".data")
	bi1 := NewByteIntervalAt(ctx, 0x1000, 0x10)
	bi2 := NewByteIntervalAt(ctx, 0x1010, 0x10)
	s.AddByteInterval(bi1)
	s.AddByteInterval(bi2)

	on := s.FindByteIntervalsOn(0x1008)
	if len(on) != 1 || on[0] != bi1 {
		t.Errorf("FindByteIntervalsOn = %v", on)
	}
	at := s.FindByteIntervalsAt(0x1010)
	if len(at) != 1 || at[0] != bi2 {
		t.Errorf("FindByteIntervalsAt = %v", at)
	}
	between := s.FindByteIntervalsBetween(0x1000, 0x1020)
	if len(between) != 2 {
		t.Errorf("FindByteIntervalsBetween = %d intervals", len(between))
	}
	if got := s.FindByteIntervalsBetween(0x1020, 0x1000); got != nil {
		t.Errorf("inverted range = %v", got)
	}
}

func TestSectionFlags(t *testing.T) {
	ctx := NewContext()
	s := NewSection(ctx, ".text")
	s.AddFlag(FlagReadable)
	s.AddFlag(FlagExecutable)

	if !s.IsFlagSet(FlagReadable) || !s.IsFlagSet(FlagExecutable) {
		t.Error("flags not set")
	}
	if s.IsFlagSet(FlagWritable) {
		t.Error("unset flag reads as set")
	}
	s.RemoveFlag(FlagExecutable)
	if s.IsFlagSet(FlagExecutable) {
		t.Error("flag not removed")
	}
}

func TestSectionMoveBetweenModules(t *testing.T) {
	ctx := NewContext()
	m1 := NewModule(ctx, "a")
	m2 := NewModule(ctx, "b")
	s := NewSection(ctx, ".text")
	bi := NewByteIntervalAt(ctx, 0x1000, 8)
	s.AddByteInterval(bi)

	m1.AddSection(s)
	if got := m2.AddSection(s); got != Accepted {
		t.Fatalf("move = %v", got)
	}
	if len(m1.FindSections(".text")) != 0 {
		t.Error("section still indexed in old module")
	}
	if s.Module() != m2 {
		t.Error("parent back-reference not updated")
	}
	if len(m2.FindSectionsOn(0x1004)) != 1 {
		t.Error("interval not visible through new module")
	}
}
