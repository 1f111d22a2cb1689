package fs

import (
	"metafs/internal/logging"
)

var (
	regLogger = logging.GetLogger().WithPrefix("registry")
)

// Registry owns the node tree. It is the single source of truth for the
// path-to-node mapping: a node is reachable both through the flat map
// and through its parent's children, and the two views are kept in sync
// by insert/remove. The Registry does no locking of its own; the engine
// serializes access.
type Registry struct {
	nodes map[string]*Node
}

// newRegistry creates a registry holding only the given root directory
// node at "/". The root is never removed.
func newRegistry(root *Node) *Registry {
	return &Registry{
		nodes: map[string]*Node{"/": root},
	}
}

// resolve returns the node at p, or ErrNotFound. Missing ancestors and
// ancestors that are not directories both fail resolution.
func (r *Registry) resolve(p Path) (*Node, error) {
	n, ok := r.nodes[p.String()]
	if !ok {
		regLogger.Trace("Path not found: %q", p)
		return nil, ErrNotFound
	}
	return n, nil
}

// insert attaches node under parent as name. The caller supplies a
// fully initialized node; insert only wires it into the tree.
func (r *Registry) insert(parent Path, name string, node *Node) error {
	p, err := r.resolve(parent)
	if err != nil {
		return err
	}
	if !p.IsDir() {
		return ErrNotDirectory
	}
	if _, taken := p.children[name]; taken {
		return ErrExists
	}

	child := parent.Child(name)
	p.children[name] = node
	r.nodes[child.String()] = node
	if node.IsDir() {
		p.nlink++
	}
	regLogger.Debug("Inserted %q (kind=%d), tree now has %d nodes",
		child, node.kind, len(r.nodes))
	return nil
}

// remove detaches the node at p from the tree. Directories must be
// empty; the root is never removable.
func (r *Registry) remove(p Path) error {
	if p.IsRoot() {
		return ErrInvalidArgument
	}
	node, err := r.resolve(p)
	if err != nil {
		return err
	}
	if node.IsDir() && len(node.children) > 0 {
		regLogger.Trace("Refusing to remove non-empty directory %q", p)
		return ErrNotEmpty
	}

	parentPath, name := p.Split()
	parent, err := r.resolve(parentPath)
	if err != nil {
		// Unreachable while invariants hold: every registered
		// non-root node has a registered parent.
		return err
	}
	delete(parent.children, name)
	delete(r.nodes, p.String())
	if node.IsDir() {
		parent.nlink--
	}
	regLogger.Debug("Removed %q, tree now has %d nodes", p, len(r.nodes))
	return nil
}

// parentOf resolves the directory containing p, distinguishing a
// missing parent (ErrNotFound) from a parent that is not a directory
// (ErrNotDirectory).
func (r *Registry) parentOf(p Path) (*Node, error) {
	parent, err := r.resolve(p.Parent())
	if err != nil {
		return nil, err
	}
	if !parent.IsDir() {
		return nil, ErrNotDirectory
	}
	return parent, nil
}

// count returns the number of registered nodes, including the root.
func (r *Registry) count() int {
	return len(r.nodes)
}
