package ontology

import "fmt"

// Link is a directed edge from a parent entry to a child entry. Endpoints
// are stored as tids and resolved through the container on every read.
type Link interface {
	Entry
	SetParent(parent Entry) error
	SetChild(child Entry) error
	GetParent() (Entry, error)
	GetChild() (Entry, error)
	ParentID() string
	ChildID() string
}

// BaseLink implements Link for parents of type P and children of type C.
// Concrete link kinds embed it and add a Kind method.
type BaseLink[P, C Entry] struct {
	BaseEntry
	parentID string
	childID  string
}

// Connect sets whichever of parent and child is non-nil. Constructors call
// it right after Init so endpoint failures surface as construction failures.
func (l *BaseLink[P, C]) Connect(parent, child Entry) error {
	if parent != nil {
		if err := l.SetParent(parent); err != nil {
			return err
		}
	}
	if child != nil {
		if err := l.SetChild(child); err != nil {
			return err
		}
	}
	return nil
}

// SetParent stores the tid of parent.
// Returns ErrMemberType if parent is nil or not a P, ErrUnassigned if it has
// no tid yet, and ErrUnresolved if the link's container does not hold this
// very entry. A same-tid entry of another container does not count.
func (l *BaseLink[P, C]) SetParent(parent Entry) error {
	if _, ok := parent.(P); !ok || isNilEntry(parent) {
		return l.endpointTypeError("parent", typeName[P](), parent)
	}
	tid, err := l.checkEndpoint("parent", parent)
	if err != nil {
		return err
	}
	l.parentID = tid
	return nil
}

// SetChild stores the tid of child. Errors as for SetParent.
func (l *BaseLink[P, C]) SetChild(child Entry) error {
	if _, ok := child.(C); !ok || isNilEntry(child) {
		return l.endpointTypeError("child", typeName[C](), child)
	}
	tid, err := l.checkEndpoint("child", child)
	if err != nil {
		return err
	}
	l.childID = tid
	return nil
}

// ParentID returns the stored parent tid, or "" if unset.
func (l *BaseLink[P, C]) ParentID() string {
	return l.parentID
}

// ChildID returns the stored child tid, or "" if unset.
func (l *BaseLink[P, C]) ChildID() string {
	return l.childID
}

// GetParent resolves the parent through the container.
// Returns ErrDetached, ErrEndpointUnset or ErrUnresolved.
func (l *BaseLink[P, C]) GetParent() (Entry, error) {
	return l.resolve("parent", l.parentID)
}

// GetChild resolves the child through the container.
func (l *BaseLink[P, C]) GetChild() (Entry, error) {
	return l.resolve("child", l.childID)
}

// Parent is GetParent narrowed to P.
func (l *BaseLink[P, C]) Parent() (P, error) {
	var zero P
	e, err := l.GetParent()
	if err != nil {
		return zero, err
	}
	p, ok := e.(P)
	if !ok {
		return zero, l.endpointTypeError("parent", typeName[P](), e)
	}
	return p, nil
}

// Child is GetChild narrowed to C.
func (l *BaseLink[P, C]) Child() (C, error) {
	var zero C
	e, err := l.GetChild()
	if err != nil {
		return zero, err
	}
	c, ok := e.(C)
	if !ok {
		return zero, l.endpointTypeError("child", typeName[C](), e)
	}
	return c, nil
}

func (l *BaseLink[P, C]) checkEndpoint(role string, e Entry) (string, error) {
	if l.container == nil {
		return "", fmt.Errorf("%w: cannot set %s of %s", ErrDetached, role, l)
	}
	tid := e.TID()
	if tid == "" {
		return "", fmt.Errorf("%w: %s %s of %s", ErrUnassigned, role, e.Kind(), l)
	}
	held, err := l.container.GetEntry(tid)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s of %s: %w", ErrUnresolved, role, tid, l, err)
	}
	if held != e {
		return "", fmt.Errorf("%w: %s %s of %s belongs to another container", ErrUnresolved, role, tid, l)
	}
	return tid, nil
}

func (l *BaseLink[P, C]) resolve(role, tid string) (Entry, error) {
	if l.container == nil {
		return nil, fmt.Errorf("%w: cannot resolve %s of %s", ErrDetached, role, l)
	}
	if tid == "" {
		return nil, fmt.Errorf("%w: %s of %s", ErrEndpointUnset, role, l)
	}
	e, err := l.container.GetEntry(tid)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s of %s: %w", ErrUnresolved, role, tid, l, err)
	}
	return e, nil
}

func (l *BaseLink[P, C]) endpointTypeError(role, want string, got Entry) error {
	return fmt.Errorf("%w: %s of %s must be %s, got %s", ErrMemberType, role, l, want, kindOf(got))
}

// LinkIdentity is the comparable identity of a link: its kind and the keys
// of its resolved endpoints. An unset endpoint contributes a zero EntryKey.
type LinkIdentity struct {
	Kind   string
	Parent EntryKey
	Child  EntryKey
}

// LinkKey resolves both endpoints of l and returns its identity. It fails if
// l is detached or either stored endpoint no longer resolves.
func LinkKey(l Link) (LinkIdentity, error) {
	id := LinkIdentity{Kind: l.Kind()}
	if l.ParentID() != "" {
		p, err := l.GetParent()
		if err != nil {
			return LinkIdentity{}, err
		}
		id.Parent = p.Key()
	}
	if l.ChildID() != "" {
		c, err := l.GetChild()
		if err != nil {
			return LinkIdentity{}, err
		}
		id.Child = c.Key()
	}
	return id, nil
}

// LinksEqual reports whether a and b have the same kind and resolve to the
// same endpoints.
func LinksEqual(a, b Link) (bool, error) {
	ka, err := LinkKey(a)
	if err != nil {
		return false, err
	}
	kb, err := LinkKey(b)
	if err != nil {
		return false, err
	}
	return ka == kb, nil
}
