package gtirb

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// EdgeType classifies a control-flow edge.
type EdgeType uint8

const (
	EdgeBranch EdgeType = iota
	EdgeCall
	EdgeFallthrough
	EdgeReturn
	EdgeSyscall
	EdgeSysret
)

func (t EdgeType) String() string {
	switch t {
	case EdgeBranch:
		return "branch"
	case EdgeCall:
		return "call"
	case EdgeFallthrough:
		return "fallthrough"
	case EdgeReturn:
		return "return"
	case EdgeSyscall:
		return "syscall"
	case EdgeSysret:
		return "sysret"
	default:
		return "unknown"
	}
}

// EdgeLabel carries the typed annotation of a CFG edge.
type EdgeLabel struct {
	Type        EdgeType
	Conditional bool
	Direct      bool
}

// Edge is one labeled edge of the CFG. Endpoints are UUIDs of CodeBlock or
// ProxyBlock nodes; resolve them through the Context when the node is
// needed.
type Edge struct {
	Source uuid.UUID
	Target uuid.UUID
	Label  EdgeLabel
}

// CFG is a directed multigraph over the CodeBlock and ProxyBlock nodes of
// one IR. An edge's identity is the (source, target, label) triple; adding
// the same triple twice is a no-op.
//
// Removing a block from its ByteInterval does not remove incident edges;
// callers reconcile the CFG themselves when restructuring.
type CFG struct {
	vertices map[uuid.UUID]struct{}
	out      map[uuid.UUID]map[Edge]struct{}
	in       map[uuid.UUID]map[Edge]struct{}
	count    int
}

func newCFG() *CFG {
	return &CFG{
		vertices: make(map[uuid.UUID]struct{}),
		out:      make(map[uuid.UUID]map[Edge]struct{}),
		in:       make(map[uuid.UUID]map[Edge]struct{}),
	}
}

// AddVertex registers a block as a CFG vertex.
func (g *CFG) AddVertex(n CFGNode) ChangeStatus {
	id := n.UUID()
	if _, ok := g.vertices[id]; ok {
		return NoChange
	}
	g.vertices[id] = struct{}{}
	return Accepted
}

// RemoveVertex removes a vertex with no incident edges. A vertex that still
// has edges is rejected.
func (g *CFG) RemoveVertex(n CFGNode) ChangeStatus {
	id := n.UUID()
	if _, ok := g.vertices[id]; !ok {
		return NoChange
	}
	if len(g.out[id]) > 0 || len(g.in[id]) > 0 {
		return Rejected
	}
	delete(g.vertices, id)
	return Accepted
}

// HasVertex reports whether the UUID is a vertex of the graph.
func (g *CFG) HasVertex(id uuid.UUID) bool {
	_, ok := g.vertices[id]
	return ok
}

// AddEdge inserts a labeled edge, adding endpoints to the vertex set as
// needed.
func (g *CFG) AddEdge(src, tgt CFGNode, label EdgeLabel) ChangeStatus {
	e := Edge{Source: src.UUID(), Target: tgt.UUID(), Label: label}
	return g.addEdge(e)
}

func (g *CFG) addEdge(e Edge) ChangeStatus {
	if _, ok := g.out[e.Source][e]; ok {
		return NoChange
	}
	g.vertices[e.Source] = struct{}{}
	g.vertices[e.Target] = struct{}{}
	if g.out[e.Source] == nil {
		g.out[e.Source] = make(map[Edge]struct{})
	}
	if g.in[e.Target] == nil {
		g.in[e.Target] = make(map[Edge]struct{})
	}
	g.out[e.Source][e] = struct{}{}
	g.in[e.Target][e] = struct{}{}
	g.count++
	return Accepted
}

// RemoveEdge deletes the edge with the exact (source, target, label) triple.
func (g *CFG) RemoveEdge(src, tgt CFGNode, label EdgeLabel) ChangeStatus {
	e := Edge{Source: src.UUID(), Target: tgt.UUID(), Label: label}
	if _, ok := g.out[e.Source][e]; !ok {
		return NoChange
	}
	delete(g.out[e.Source], e)
	delete(g.in[e.Target], e)
	g.count--
	return Accepted
}

// EdgeCount reports the number of edges.
func (g *CFG) EdgeCount() int { return g.count }

// OutEdges returns the edges leaving n, sorted by (target, label).
func (g *CFG) OutEdges(n CFGNode) []Edge {
	return sortedEdges(g.out[n.UUID()])
}

// InEdges returns the edges entering n, sorted by (source, label).
func (g *CFG) InEdges(n CFGNode) []Edge {
	return sortedEdges(g.in[n.UUID()])
}

// Edges returns every edge, sorted by (source, target, label).
func (g *CFG) Edges() []Edge {
	all := make(map[Edge]struct{}, g.count)
	for _, es := range g.out {
		for e := range es {
			all[e] = struct{}{}
		}
	}
	return sortedEdges(all)
}

// Vertices returns every vertex UUID in ascending byte order.
func (g *CFG) Vertices() []uuid.UUID {
	vs := make([]uuid.UUID, 0, len(g.vertices))
	for v := range g.vertices {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool {
		return bytes.Compare(vs[i][:], vs[j][:]) < 0
	})
	return vs
}

// Equal reports set equality of labeled edges and vertex sets,
// order-independent.
func (g *CFG) Equal(o *CFG) bool {
	if g.count != o.count || len(g.vertices) != len(o.vertices) {
		return false
	}
	for v := range g.vertices {
		if _, ok := o.vertices[v]; !ok {
			return false
		}
	}
	for src, es := range g.out {
		for e := range es {
			if _, ok := o.out[src][e]; !ok {
				return false
			}
		}
	}
	return true
}

func sortedEdges(set map[Edge]struct{}) []Edge {
	es := make([]Edge, 0, len(set))
	for e := range set {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return edgeLess(es[i], es[j]) })
	return es
}

func edgeLess(a, b Edge) bool {
	if c := bytes.Compare(a.Source[:], b.Source[:]); c != 0 {
		return c < 0
	}
	if c := bytes.Compare(a.Target[:], b.Target[:]); c != 0 {
		return c < 0
	}
	if a.Label.Type != b.Label.Type {
		return a.Label.Type < b.Label.Type
	}
	if a.Label.Conditional != b.Label.Conditional {
		return b.Label.Conditional
	}
	if a.Label.Direct != b.Label.Direct {
		return b.Label.Direct
	}
	return false
}
