package gtirb

import (
	"fmt"

	"github.com/google/uuid"
)

// DiagKind classifies a non-fatal issue found while loading an IR.
type DiagKind string

const (
	// DiagDanglingSymbolRef marks a symbol whose referent UUID did not
	// resolve; the symbol is loaded with no referent.
	DiagDanglingSymbolRef DiagKind = "dangling_symbol_ref"
	// DiagDanglingCFGEdge marks a CFG edge whose endpoint did not resolve;
	// the edge is dropped.
	DiagDanglingCFGEdge DiagKind = "dangling_cfg_edge"
	// DiagDanglingExprSym marks a symbolic expression referencing a symbol
	// UUID that did not resolve; the expression is kept and the reference
	// dangles.
	DiagDanglingExprSym DiagKind = "dangling_expr_sym"
	// DiagDanglingEntryPoint marks a module entry point that did not
	// resolve to a code block; the entry point is left unset.
	DiagDanglingEntryPoint DiagKind = "dangling_entry_point"
)

// Diag records one integrity warning attached to a successful load.
type Diag struct {
	Node uuid.UUID // node the warning is about; zero if unknown
	Kind DiagKind
	Msg  string
}

func (d Diag) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Node, d.Msg)
}

// Diags accumulates integrity warnings during a load.
type Diags struct {
	items []Diag
}

func (d *Diags) Add(node uuid.UUID, kind DiagKind, msg string) {
	d.items = append(d.items, Diag{Node: node, Kind: kind, Msg: msg})
}

func (d *Diags) Addf(node uuid.UUID, kind DiagKind, format string, args ...any) {
	d.items = append(d.items, Diag{Node: node, Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func (d *Diags) Items() []Diag { return d.items }
func (d *Diags) Len() int      { return len(d.items) }
