package gtirb

import (
	"sort"

	"github.com/google/uuid"
)

// SectionFlags is the set of flags on a section, stored as a bitmask.
type SectionFlags uint8

const (
	FlagReadable SectionFlags = 1 << iota
	FlagWritable
	FlagExecutable
	FlagLoaded
	FlagInitialized
	FlagThreadLocal
)

// Section is a named region of a module: an ordered collection of
// ByteIntervals. Its address and size are derived from the intervals and
// are only defined when every interval has a fixed address.
type Section struct {
	node
	name      string
	flags     SectionFlags
	module    *Module
	intervals []*ByteInterval // insertion order

	// derived extent; valid only while every interval is fixed
	extentOK bool
	lo, hi   Addr
}

// NewSection creates a detached Section with the given name.
func NewSection(c *Context, name string) *Section {
	s := &Section{node: c.newNode(), name: name}
	c.register(s)
	return s
}

func newSectionWithUUID(c *Context, id uuid.UUID, name string) *Section {
	s := &Section{node: c.newNodeWithUUID(id), name: name}
	c.register(s)
	return s
}

func (s *Section) Kind() Kind      { return KindSection }
func (s *Section) Name() string    { return s.name }
func (s *Section) Module() *Module { return s.module }

// SetName renames the section, updating the owning module's name index
// before the new name becomes visible.
func (s *Section) SetName(name string) {
	if s.name == name {
		return
	}
	if s.module != nil {
		s.module.sectionNameChanging(s, s.name, name)
	}
	s.name = name
}

func (s *Section) Flags() SectionFlags          { return s.flags }
func (s *Section) AddFlag(f SectionFlags)       { s.flags |= f }
func (s *Section) RemoveFlag(f SectionFlags)    { s.flags &^= f }
func (s *Section) IsFlagSet(f SectionFlags) bool { return s.flags&f == f }

// Address returns the lowest interval address, defined only when every
// interval in the section has a fixed address.
func (s *Section) Address() (Addr, bool) {
	if !s.extentOK {
		return 0, false
	}
	return s.lo, true
}

// Size returns the span from the lowest interval address to the end of the
// highest interval, under the same conditions as Address.
func (s *Section) Size() (uint64, bool) {
	if !s.extentOK {
		return 0, false
	}
	return uint64(s.hi - s.lo), true
}

// AddByteInterval inserts or moves an interval into this section.
func (s *Section) AddByteInterval(bi *ByteInterval) ChangeStatus {
	if bi.section == s {
		return NoChange
	}
	if bi.section != nil {
		bi.section.RemoveByteInterval(bi)
	}
	bi.section = s
	s.intervals = append(s.intervals, bi)
	s.recomputeExtent()
	if s.module != nil {
		s.module.intervalAttached(bi)
	}
	return Accepted
}

// RemoveByteInterval detaches an interval from this section.
func (s *Section) RemoveByteInterval(bi *ByteInterval) ChangeStatus {
	if bi.section != s {
		return NoChange
	}
	for i, cur := range s.intervals {
		if cur == bi {
			s.intervals = append(s.intervals[:i], s.intervals[i+1:]...)
			break
		}
	}
	bi.section = nil
	s.recomputeExtent()
	if s.module != nil {
		s.module.intervalDetached(bi)
	}
	return Accepted
}

// ByteIntervals returns the section's intervals in insertion order.
func (s *Section) ByteIntervals() []*ByteInterval {
	out := make([]*ByteInterval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

// FindByteIntervalsOn returns the fixed intervals whose extent contains a.
func (s *Section) FindByteIntervalsOn(a Addr) []*ByteInterval {
	var out []*ByteInterval
	for _, bi := range s.intervals {
		if base, ok := bi.Address(); ok && base <= a && a < base+Addr(bi.Size()) {
			out = append(out, bi)
		}
	}
	sortIntervalsByAddr(out)
	return out
}

// FindByteIntervalsAt returns the fixed intervals that start at a.
func (s *Section) FindByteIntervalsAt(a Addr) []*ByteInterval {
	return s.FindByteIntervalsBetween(a, a+1)
}

// FindByteIntervalsBetween returns the fixed intervals that start in the
// half-open range [lo, hi).
func (s *Section) FindByteIntervalsBetween(lo, hi Addr) []*ByteInterval {
	if hi <= lo {
		return nil
	}
	var out []*ByteInterval
	for _, bi := range s.intervals {
		if base, ok := bi.Address(); ok && lo <= base && base < hi {
			out = append(out, bi)
		}
	}
	sortIntervalsByAddr(out)
	return out
}

// Blocks returns every block in the section in ascending address order,
// floating intervals last in insertion order. Ties are unspecified.
func (s *Section) Blocks() []ByteBlock {
	seqs := make([][]ByteBlock, 0, len(s.intervals))
	for _, bi := range s.intervals {
		seqs = append(seqs, bi.Blocks())
	}
	return mergeBlocks(seqs)
}

// intervalMoved is the observer hook for address, size, and payload-growth
// changes on an owned interval. Indices derived from the extent are
// refreshed here, then the change propagates to the module.
func (s *Section) intervalMoved(bi *ByteInterval) {
	s.recomputeExtent()
	if s.module != nil {
		s.module.intervalMoved(bi)
	}
}

func (s *Section) recomputeExtent() {
	s.extentOK = len(s.intervals) > 0
	first := true
	for _, bi := range s.intervals {
		base, ok := bi.Address()
		if !ok {
			s.extentOK = false
			break
		}
		end := base + Addr(bi.Size())
		if first || base < s.lo {
			s.lo = base
		}
		if first || end > s.hi {
			s.hi = end
		}
		first = false
	}
	if !s.extentOK {
		s.lo, s.hi = 0, 0
	}
}

func sortIntervalsByAddr(bis []*ByteInterval) {
	sort.SliceStable(bis, func(i, j int) bool {
		ai, _ := bis[i].Address()
		aj, _ := bis[j].Address()
		return ai < aj
	})
}
