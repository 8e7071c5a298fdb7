package gtirb

import (
	"fmt"
	"strings"
)

// TypeKind enumerates the nodes of the AuxData type grammar.
type TypeKind uint8

const (
	TBool TypeKind = iota
	TInt8
	TInt16
	TInt32
	TInt64
	TUint8
	TUint16
	TUint32
	TUint64
	TFloat
	TDouble
	TString
	TUUID
	TAddr
	TOffset
	TSequence
	TSet
	TMapping
	TTuple
	TVariant
)

var typeNames = map[TypeKind]string{
	TBool: "bool", TInt8: "int8", TInt16: "int16", TInt32: "int32", TInt64: "int64",
	TUint8: "uint8", TUint16: "uint16", TUint32: "uint32", TUint64: "uint64",
	TFloat: "float", TDouble: "double", TString: "string",
	TUUID: "UUID", TAddr: "Addr", TOffset: "Offset",
	TSequence: "sequence", TSet: "set", TMapping: "mapping",
	TTuple: "tuple", TVariant: "variant",
}

var typeKinds = func() map[string]TypeKind {
	m := make(map[string]TypeKind, len(typeNames))
	for k, n := range typeNames {
		m[n] = k
	}
	return m
}()

// AuxType is a structural type expression describing the shape of an
// AuxData payload. Leaves have no arguments; sequence and set take one,
// mapping takes two, tuple and variant take one or more.
type AuxType struct {
	Kind TypeKind
	Args []*AuxType
}

// String prints the canonical form: constructors as name<child,child>.
func (t *AuxType) String() string {
	var sb strings.Builder
	t.print(&sb)
	return sb.String()
}

func (t *AuxType) print(sb *strings.Builder) {
	sb.WriteString(typeNames[t.Kind])
	if len(t.Args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		a.print(sb)
	}
	sb.WriteByte('>')
}

// Equal reports tree equality.
func (t *AuxType) Equal(o *AuxType) bool {
	if t.Kind != o.Kind || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// isLeaf reports whether the type has no constructor arguments.
func (t *AuxType) isLeaf() bool { return t.Kind <= TOffset }

// ParseAuxType parses a type expression in canonical form. Whitespace
// around names and punctuation is tolerated.
func ParseAuxType(s string) (*AuxType, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: trailing characters at %d in %q", ErrAuxDataType, p.pos, s)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) parse() (*AuxType, error) {
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("%w: expected type name at %d in %q", ErrAuxDataType, p.pos, p.src)
	}
	kind, ok := typeKinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type name %q", ErrAuxDataType, name)
	}
	t := &AuxType{Kind: kind}
	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parse()
			if err != nil {
				return nil, err
			}
			t.Args = append(t.Args, arg)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return nil, fmt.Errorf("%w: expected ',' or '>' at %d in %q", ErrAuxDataType, p.pos, p.src)
			}
			break
		}
	}
	return t, checkArity(t)
}

func checkArity(t *AuxType) error {
	n := len(t.Args)
	switch t.Kind {
	case TSequence, TSet:
		if n != 1 {
			return arityError(t, "exactly one argument")
		}
	case TMapping:
		if n != 2 {
			return arityError(t, "exactly two arguments")
		}
	case TTuple, TVariant:
		if n < 1 {
			return arityError(t, "at least one argument")
		}
	default:
		if n != 0 {
			return arityError(t, "no arguments")
		}
	}
	return nil
}

func arityError(t *AuxType, want string) error {
	return fmt.Errorf("%w: %s takes %s, got %d", ErrAuxDataType, typeNames[t.Kind], want, len(t.Args))
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}
