package gtirb

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// FileFormat identifies the container format of a module's binary image.
type FileFormat uint8

const (
	FormatUndefined FileFormat = iota
	FormatCOFF
	FormatELF
	FormatPE
	FormatIdaProDb32
	FormatIdaProDb64
	FormatXCOFF
	FormatMachO
	FormatRAW
)

func (f FileFormat) String() string {
	switch f {
	case FormatCOFF:
		return "COFF"
	case FormatELF:
		return "ELF"
	case FormatPE:
		return "PE"
	case FormatIdaProDb32:
		return "IdaProDb32"
	case FormatIdaProDb64:
		return "IdaProDb64"
	case FormatXCOFF:
		return "XCOFF"
	case FormatMachO:
		return "MachO"
	case FormatRAW:
		return "RAW"
	default:
		return "undefined"
	}
}

// ISA identifies the instruction set architecture of a module.
type ISA uint8

const (
	ISAUndefined ISA = iota
	ISAIA32
	ISAPPC32
	ISAX64
	ISAARM
	ISAValidButUnsupported
	ISAPPC64
	ISAARM64
	ISAMIPS32
	ISAMIPS64
)

func (i ISA) String() string {
	switch i {
	case ISAIA32:
		return "IA32"
	case ISAPPC32:
		return "PPC32"
	case ISAX64:
		return "X64"
	case ISAARM:
		return "ARM"
	case ISAValidButUnsupported:
		return "ValidButUnsupported"
	case ISAPPC64:
		return "PPC64"
	case ISAARM64:
		return "ARM64"
	case ISAMIPS32:
		return "MIPS32"
	case ISAMIPS64:
		return "MIPS64"
	default:
		return "undefined"
	}
}

// Module represents one binary image inside an IR. It owns sections,
// symbols, and proxy blocks, and keeps the secondary indices that make
// lookups by name, address, and referent fast under mutation.
type Module struct {
	node
	AuxDataContainer

	ir            *IR
	name          string
	binaryPath    string
	preferredAddr Addr
	rebaseDelta   int64
	fileFormat    FileFormat
	isa           ISA
	order         ByteOrder
	entryPoint    *CodeBlock

	sections       []*Section // insertion order
	sectionsByName map[string]map[*Section]struct{}

	proxies []*ProxyBlock // insertion order

	symbols       []*Symbol // insertion order
	symbolsByName map[string]map[*Symbol]struct{}
	symbolsByRef  map[uuid.UUID]map[*Symbol]struct{}
	symAddr       map[*Symbol]Addr // symbols with a resolvable address
	symAddrIdx    []symAddrEnt     // sorted ascending by addr
}

type symAddrEnt struct {
	addr Addr
	sym  *Symbol
}

// NewModule creates a detached Module with the given name.
func NewModule(c *Context, name string) *Module {
	m := &Module{node: c.newNode(), name: name}
	m.init()
	c.register(m)
	return m
}

func newModuleWithUUID(c *Context, id uuid.UUID, name string) *Module {
	m := &Module{node: c.newNodeWithUUID(id), name: name}
	m.init()
	c.register(m)
	return m
}

func (m *Module) init() {
	m.AuxDataContainer.init()
	m.sectionsByName = make(map[string]map[*Section]struct{})
	m.symbolsByName = make(map[string]map[*Symbol]struct{})
	m.symbolsByRef = make(map[uuid.UUID]map[*Symbol]struct{})
	m.symAddr = make(map[*Symbol]Addr)
}

func (m *Module) Kind() Kind { return KindModule }
func (m *Module) IR() *IR    { return m.ir }

func (m *Module) Name() string        { return m.name }
func (m *Module) SetName(n string)    { m.name = n }
func (m *Module) BinaryPath() string  { return m.binaryPath }
func (m *Module) SetBinaryPath(p string) { m.binaryPath = p }

func (m *Module) PreferredAddr() Addr     { return m.preferredAddr }
func (m *Module) SetPreferredAddr(a Addr) { m.preferredAddr = a }
func (m *Module) RebaseDelta() int64      { return m.rebaseDelta }
func (m *Module) SetRebaseDelta(d int64)  { m.rebaseDelta = d }

func (m *Module) FileFormat() FileFormat     { return m.fileFormat }
func (m *Module) SetFileFormat(f FileFormat) { m.fileFormat = f }
func (m *Module) ISA() ISA                   { return m.isa }
func (m *Module) SetISA(i ISA)               { m.isa = i }
func (m *Module) Order() ByteOrder           { return m.order }
func (m *Module) SetOrder(o ByteOrder)       { m.order = o }

// EntryPoint returns the module's entry code block, if set.
func (m *Module) EntryPoint() *CodeBlock      { return m.entryPoint }
func (m *Module) SetEntryPoint(b *CodeBlock)  { m.entryPoint = b }

// AddSection inserts or moves a section into this module.
func (m *Module) AddSection(s *Section) ChangeStatus {
	if s.module == m {
		return NoChange
	}
	if s.module != nil {
		s.module.RemoveSection(s)
	}
	s.module = m
	m.sections = append(m.sections, s)
	addToNameIndex(m.sectionsByName, s.name, s)
	for _, bi := range s.intervals {
		m.intervalAttached(bi)
	}
	return Accepted
}

// RemoveSection detaches a section from this module.
func (m *Module) RemoveSection(s *Section) ChangeStatus {
	if s.module != m {
		return NoChange
	}
	for i, cur := range m.sections {
		if cur == s {
			m.sections = append(m.sections[:i], m.sections[i+1:]...)
			break
		}
	}
	removeFromNameIndex(m.sectionsByName, s.name, s)
	for _, bi := range s.intervals {
		m.intervalDetached(bi)
	}
	s.module = nil
	return Accepted
}

// Sections returns the module's sections in insertion order.
func (m *Module) Sections() []*Section {
	out := make([]*Section, len(m.sections))
	copy(out, m.sections)
	return out
}

// FindSections returns the sections with the given name. Order among
// same-named sections follows UUID byte order.
func (m *Module) FindSections(name string) []*Section {
	set := m.sectionsByName[name]
	out := make([]*Section, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sortNodesByUUID(out)
	return out
}

// FindSectionsOn returns every section whose derived extent contains a.
// Sections may overlap in address space; all overlapping sections are
// returned, ascending by start address.
func (m *Module) FindSectionsOn(a Addr) []*Section {
	var out []*Section
	for _, s := range m.sections {
		if s.extentOK && s.lo <= a && a < s.hi {
			out = append(out, s)
		}
	}
	sortSectionsByExtent(out)
	return out
}

// FindSectionsAt returns the sections whose derived extent starts at a.
func (m *Module) FindSectionsAt(a Addr) []*Section {
	return m.FindSectionsBetween(a, a+1)
}

// FindSectionsBetween returns the sections whose derived extent starts in
// the half-open range [lo, hi).
func (m *Module) FindSectionsBetween(lo, hi Addr) []*Section {
	if hi <= lo {
		return nil
	}
	var out []*Section
	for _, s := range m.sections {
		if s.extentOK && lo <= s.lo && s.lo < hi {
			out = append(out, s)
		}
	}
	sortSectionsByExtent(out)
	return out
}

// AddProxyBlock inserts a proxy block into this module.
func (m *Module) AddProxyBlock(b *ProxyBlock) ChangeStatus {
	if b.module == m {
		return NoChange
	}
	if b.module != nil {
		b.module.RemoveProxyBlock(b)
	}
	b.module = m
	m.proxies = append(m.proxies, b)
	return Accepted
}

// RemoveProxyBlock detaches a proxy block from this module. Incident CFG
// edges are left for the caller to reconcile.
func (m *Module) RemoveProxyBlock(b *ProxyBlock) ChangeStatus {
	if b.module != m {
		return NoChange
	}
	for i, cur := range m.proxies {
		if cur == b {
			m.proxies = append(m.proxies[:i], m.proxies[i+1:]...)
			break
		}
	}
	b.module = nil
	return Accepted
}

// ProxyBlocks returns the module's proxy blocks in insertion order.
func (m *Module) ProxyBlocks() []*ProxyBlock {
	out := make([]*ProxyBlock, len(m.proxies))
	copy(out, m.proxies)
	return out
}

// AddSymbol inserts or moves a symbol into this module, indexing it by
// name, referent, and address.
func (m *Module) AddSymbol(s *Symbol) ChangeStatus {
	if s.module == m {
		return NoChange
	}
	if s.module != nil {
		s.module.RemoveSymbol(s)
	}
	s.module = m
	m.symbols = append(m.symbols, s)
	addToNameIndex(m.symbolsByName, s.name, s)
	m.indexSymbolPayload(s)
	return Accepted
}

// RemoveSymbol detaches a symbol from this module and drops it from every
// index. Symbolic expressions referencing the symbol keep their reference,
// which dangles.
func (m *Module) RemoveSymbol(s *Symbol) ChangeStatus {
	if s.module != m {
		return NoChange
	}
	for i, cur := range m.symbols {
		if cur == s {
			m.symbols = append(m.symbols[:i], m.symbols[i+1:]...)
			break
		}
	}
	removeFromNameIndex(m.symbolsByName, s.name, s)
	m.unindexSymbolPayload(s)
	s.module = nil
	return Accepted
}

// Symbols returns the module's symbols in insertion order.
func (m *Module) Symbols() []*Symbol {
	out := make([]*Symbol, len(m.symbols))
	copy(out, m.symbols)
	return out
}

// FindSymbols returns the symbols with the given name, in UUID byte order.
func (m *Module) FindSymbols(name string) []*Symbol {
	set := m.symbolsByName[name]
	out := make([]*Symbol, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sortNodesByUUID(out)
	return out
}

// FindSymbolsByReferent returns the symbols whose referent is n, in UUID
// byte order.
func (m *Module) FindSymbolsByReferent(n Node) []*Symbol {
	set := m.symbolsByRef[n.UUID()]
	out := make([]*Symbol, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sortNodesByUUID(out)
	return out
}

// FindSymbolsAt returns the symbols that resolve to address a.
func (m *Module) FindSymbolsAt(a Addr) []*Symbol {
	return m.FindSymbolsBetween(a, a+1)
}

// FindSymbolsBetween returns the symbols whose resolved address lies in the
// half-open range [lo, hi), ascending by address.
func (m *Module) FindSymbolsBetween(lo, hi Addr) []*Symbol {
	if hi <= lo {
		return nil
	}
	i := sort.Search(len(m.symAddrIdx), func(i int) bool { return m.symAddrIdx[i].addr >= lo })
	var out []*Symbol
	for ; i < len(m.symAddrIdx) && m.symAddrIdx[i].addr < hi; i++ {
		out = append(out, m.symAddrIdx[i].sym)
	}
	return out
}

// Blocks returns every block in the module in ascending address order.
func (m *Module) Blocks() []ByteBlock {
	seqs := make([][]ByteBlock, 0, len(m.sections))
	for _, s := range m.sections {
		seqs = append(seqs, s.Blocks())
	}
	return mergeBlocks(seqs)
}

// FindBlocksOn returns the blocks whose extent contains a, ascending.
func (m *Module) FindBlocksOn(a Addr) []ByteBlock {
	var seqs [][]ByteBlock
	for _, s := range m.sections {
		for _, bi := range s.intervals {
			if bs := bi.blocksOn(a); len(bs) > 0 {
				seqs = append(seqs, bs)
			}
		}
	}
	return mergeBlocks(seqs)
}

// FindBlocksAt returns the blocks whose address is exactly a.
func (m *Module) FindBlocksAt(a Addr) []ByteBlock {
	return m.FindBlocksBetween(a, a+1)
}

// FindBlocksBetween returns the blocks whose address lies in [lo, hi),
// ascending.
func (m *Module) FindBlocksBetween(lo, hi Addr) []ByteBlock {
	var seqs [][]ByteBlock
	for _, s := range m.sections {
		for _, bi := range s.intervals {
			if bs := bi.blocksAt(lo, hi); len(bs) > 0 {
				seqs = append(seqs, bs)
			}
		}
	}
	return mergeBlocks(seqs)
}

// FindByteIntervalsOn returns the intervals across all sections whose
// extent contains a.
func (m *Module) FindByteIntervalsOn(a Addr) []*ByteInterval {
	var out []*ByteInterval
	for _, s := range m.sections {
		out = append(out, s.FindByteIntervalsOn(a)...)
	}
	sortIntervalsByAddr(out)
	return out
}

// Observer hooks. Each runs to completion before the triggering mutation
// is visible to callers.

func (m *Module) sectionNameChanging(s *Section, old, next string) {
	removeFromNameIndex(m.sectionsByName, old, s)
	addToNameIndex(m.sectionsByName, next, s)
}

func (m *Module) symbolNameChanging(s *Symbol, old, next string) {
	removeFromNameIndex(m.symbolsByName, old, s)
	addToNameIndex(m.symbolsByName, next, s)
}

func (m *Module) symbolPayloadChanging(s *Symbol) {
	m.unindexSymbolPayload(s)
}

func (m *Module) symbolPayloadChanged(s *Symbol) {
	m.indexSymbolPayload(s)
}

func (m *Module) intervalAttached(bi *ByteInterval) {
	for _, b := range bi.blocks {
		m.blockAttached(b)
	}
}

func (m *Module) intervalDetached(bi *ByteInterval) {
	for _, b := range bi.blocks {
		m.blockDetached(b)
	}
}

func (m *Module) intervalMoved(bi *ByteInterval) {
	for _, b := range bi.blocks {
		m.reindexSymbolsFor(b)
	}
}

func (m *Module) blockAttached(b ByteBlock) {
	m.reindexSymbolsFor(b)
}

func (m *Module) blockDetached(b ByteBlock) {
	m.reindexSymbolsFor(b)
}

// reindexSymbolsFor refreshes the address index entries of every symbol
// whose referent is b.
func (m *Module) reindexSymbolsFor(b ByteBlock) {
	m.reindexSymbolsByUUID(b.UUID())
}

func (m *Module) reindexSymbolsByUUID(id uuid.UUID) {
	for s := range m.symbolsByRef[id] {
		m.removeSymAddr(s)
		if a, ok := s.Address(); ok {
			m.insertSymAddr(s, a)
		}
	}
}

func (m *Module) indexSymbolPayload(s *Symbol) {
	if s.referent != nil {
		set := m.symbolsByRef[s.referent.UUID()]
		if set == nil {
			set = make(map[*Symbol]struct{})
			m.symbolsByRef[s.referent.UUID()] = set
		}
		set[s] = struct{}{}
	}
	if a, ok := s.Address(); ok {
		m.insertSymAddr(s, a)
	}
}

func (m *Module) unindexSymbolPayload(s *Symbol) {
	if s.referent != nil {
		set := m.symbolsByRef[s.referent.UUID()]
		delete(set, s)
		if len(set) == 0 {
			delete(m.symbolsByRef, s.referent.UUID())
		}
	}
	m.removeSymAddr(s)
}

func (m *Module) insertSymAddr(s *Symbol, a Addr) {
	m.symAddr[s] = a
	i := sort.Search(len(m.symAddrIdx), func(i int) bool { return m.symAddrIdx[i].addr > a })
	m.symAddrIdx = append(m.symAddrIdx, symAddrEnt{})
	copy(m.symAddrIdx[i+1:], m.symAddrIdx[i:])
	m.symAddrIdx[i] = symAddrEnt{addr: a, sym: s}
}

func (m *Module) removeSymAddr(s *Symbol) {
	a, ok := m.symAddr[s]
	if !ok {
		return
	}
	delete(m.symAddr, s)
	i := sort.Search(len(m.symAddrIdx), func(i int) bool { return m.symAddrIdx[i].addr >= a })
	for ; i < len(m.symAddrIdx) && m.symAddrIdx[i].addr == a; i++ {
		if m.symAddrIdx[i].sym == s {
			m.symAddrIdx = append(m.symAddrIdx[:i], m.symAddrIdx[i+1:]...)
			return
		}
	}
}

func addToNameIndex[N comparable](idx map[string]map[N]struct{}, name string, n N) {
	set := idx[name]
	if set == nil {
		set = make(map[N]struct{})
		idx[name] = set
	}
	set[n] = struct{}{}
}

func removeFromNameIndex[N comparable](idx map[string]map[N]struct{}, name string, n N) {
	set := idx[name]
	delete(set, n)
	if len(set) == 0 {
		delete(idx, name)
	}
}

func sortNodesByUUID[N Node](ns []N) {
	sort.Slice(ns, func(i, j int) bool {
		a, b := ns[i].UUID(), ns[j].UUID()
		return bytes.Compare(a[:], b[:]) < 0
	})
}

func sortSectionsByExtent(ss []*Section) {
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].lo < ss[j].lo })
}
