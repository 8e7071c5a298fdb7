package gtirb

import "github.com/google/uuid"

// CurrentVersion is the schema version this library reads and writes
// natively. Older versions are migrated forward on read.
const CurrentVersion uint8 = 1

// IR is the root of the graph: an ordered set of modules, one CFG spanning
// all of them, and an AuxData table.
type IR struct {
	node
	AuxDataContainer

	version uint8
	modules []*Module // insertion order
	cfg     *CFG
}

// NewIR creates an empty IR at the current schema version.
func NewIR(c *Context) *IR {
	ir := &IR{node: c.newNode(), version: CurrentVersion, cfg: newCFG()}
	ir.AuxDataContainer.init()
	c.register(ir)
	return ir
}

func newIRWithUUID(c *Context, id uuid.UUID) *IR {
	ir := &IR{node: c.newNodeWithUUID(id), version: CurrentVersion, cfg: newCFG()}
	ir.AuxDataContainer.init()
	c.register(ir)
	return ir
}

func (ir *IR) Kind() Kind { return KindIR }

// Version returns the IR's schema version. This is always CurrentVersion:
// IRs read from older files are upgraded on load.
func (ir *IR) Version() uint8 { return ir.version }

// CFG returns the IR's control-flow graph.
func (ir *IR) CFG() *CFG { return ir.cfg }

// AddModule inserts or moves a module into this IR.
func (ir *IR) AddModule(m *Module) ChangeStatus {
	if m.ir == ir {
		return NoChange
	}
	if m.ir != nil {
		m.ir.RemoveModule(m)
	}
	m.ir = ir
	ir.modules = append(ir.modules, m)
	return Accepted
}

// RemoveModule detaches a module from this IR.
func (ir *IR) RemoveModule(m *Module) ChangeStatus {
	if m.ir != ir {
		return NoChange
	}
	for i, cur := range ir.modules {
		if cur == m {
			ir.modules = append(ir.modules[:i], ir.modules[i+1:]...)
			break
		}
	}
	m.ir = nil
	return Accepted
}

// Modules returns the IR's modules in insertion order.
func (ir *IR) Modules() []*Module {
	out := make([]*Module, len(ir.modules))
	copy(out, ir.modules)
	return out
}

// ModulesWithName returns the modules with the given name, in insertion
// order.
func (ir *IR) ModulesWithName(name string) []*Module {
	var out []*Module
	for _, m := range ir.modules {
		if m.name == name {
			out = append(out, m)
		}
	}
	return out
}
