package gtirb

import "github.com/google/uuid"

// Visibility classifies how a symbol is visible to the linker and loader.
type Visibility uint8

const (
	VisUndefined Visibility = iota
	VisDefault
	VisLocal
	VisExtern
	VisHidden
)

func (v Visibility) String() string {
	switch v {
	case VisDefault:
		return "default"
	case VisLocal:
		return "local"
	case VisExtern:
		return "extern"
	case VisHidden:
		return "hidden"
	default:
		return "undefined"
	}
}

// Symbol binds a name to an address or to a node. The value and the
// referent are mutually exclusive; setting one clears the other.
type Symbol struct {
	node
	name       string
	hasValue   bool
	value      Addr
	referent   Node
	atEnd      bool
	visibility Visibility
	module     *Module
}

// NewSymbol creates a detached Symbol with the given name and no payload.
func NewSymbol(c *Context, name string) *Symbol {
	s := &Symbol{node: c.newNode(), name: name}
	c.register(s)
	return s
}

func newSymbolWithUUID(c *Context, id uuid.UUID, name string) *Symbol {
	s := &Symbol{node: c.newNodeWithUUID(id), name: name}
	c.register(s)
	return s
}

func (s *Symbol) Kind() Kind      { return KindSymbol }
func (s *Symbol) Name() string    { return s.name }
func (s *Symbol) Module() *Module { return s.module }

// SetName renames the symbol, updating the owning module's name index
// before the new name becomes visible.
func (s *Symbol) SetName(name string) {
	if s.name == name {
		return
	}
	if s.module != nil {
		s.module.symbolNameChanging(s, s.name, name)
	}
	s.name = name
}

// Value returns the symbol's address payload, if it has one.
func (s *Symbol) Value() (Addr, bool) { return s.value, s.hasValue }

// Referent returns the symbol's referent node, if it has one.
func (s *Symbol) Referent() (Node, bool) {
	if s.referent == nil {
		return nil, false
	}
	return s.referent, true
}

// SetValue makes the symbol's payload an address, clearing any referent.
func (s *Symbol) SetValue(a Addr) {
	if s.module != nil {
		s.module.symbolPayloadChanging(s)
	}
	s.referent = nil
	s.hasValue = true
	s.value = a
	if s.module != nil {
		s.module.symbolPayloadChanged(s)
	}
}

// SetReferent makes the symbol's payload a node reference, clearing any
// address value. A nil referent clears the payload entirely.
func (s *Symbol) SetReferent(n Node) {
	if s.module != nil {
		s.module.symbolPayloadChanging(s)
	}
	s.hasValue = false
	s.value = 0
	s.referent = n
	if s.module != nil {
		s.module.symbolPayloadChanged(s)
	}
}

func (s *Symbol) AtEnd() bool { return s.atEnd }

// SetAtEnd flips the at-end flag, which shifts the symbol's resolved
// address past its referent's extent; the address index follows.
func (s *Symbol) SetAtEnd(v bool) {
	if s.atEnd == v {
		return
	}
	if s.module != nil {
		s.module.symbolPayloadChanging(s)
	}
	s.atEnd = v
	if s.module != nil {
		s.module.symbolPayloadChanged(s)
	}
}
func (s *Symbol) Visibility() Visibility   { return s.visibility }
func (s *Symbol) SetVisibility(v Visibility) { s.visibility = v }

// Address resolves the symbol to an address: the value payload if present,
// otherwise the referent block's address. AtEnd shifts the result past the
// referent's extent.
func (s *Symbol) Address() (Addr, bool) {
	if s.hasValue {
		return s.value, true
	}
	bb, ok := s.referent.(ByteBlock)
	if !ok {
		return 0, false
	}
	a, ok := bb.Address()
	if !ok {
		return 0, false
	}
	if s.atEnd {
		a += Addr(bb.Size())
	}
	return a, true
}
