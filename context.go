package gtirb

import "github.com/google/uuid"

// Context is the arena that owns every node of one IR. Nodes are registered
// under their UUID at creation and remain resolvable until the Context is
// dropped; detaching a node from its parent never unregisters it.
//
// A Context is not safe for concurrent mutation. Handles from one Context
// must not be mixed into another.
type Context struct {
	nodes map[uuid.UUID]Node
}

// NewContext creates an empty arena.
func NewContext() *Context {
	return &Context{nodes: make(map[uuid.UUID]Node)}
}

// FindNode resolves a UUID to its node.
func (c *Context) FindNode(id uuid.UUID) (Node, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// NodeCount reports the number of registered nodes.
func (c *Context) NodeCount() int { return len(c.nodes) }

// register binds a node under its UUID. A colliding UUID replaces the old
// registration; collisions do not occur for freshly generated IDs.
func (c *Context) register(n Node) {
	c.nodes[n.UUID()] = n
}

// newNode allocates common node state with a fresh UUID.
func (c *Context) newNode() node {
	return node{id: uuid.New(), ctx: c}
}

// newNodeWithUUID allocates common node state under a caller-supplied UUID.
// The deserializer uses this to rebuild nodes with their persisted identity.
func (c *Context) newNodeWithUUID(id uuid.UUID) node {
	return node{id: id, ctx: c}
}
