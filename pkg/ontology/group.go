package ontology

import (
	"fmt"
	"slices"
	"strings"
)

// Group is an unordered, deduplicated set of entries of one member kind.
// Members are stored as tids and resolved through the container.
type Group interface {
	Entry
	AddMember(member Entry) error
	AddMembers(members ...Entry) error
	Members() []string
	GetMembers() ([]Entry, error)
	MemberKind() string
	Len() int
}

// BaseGroup implements Group for members of type M. Concrete group kinds
// embed it and add a Kind method.
type BaseGroup[M Entry] struct {
	BaseEntry
	members map[string]struct{}
}

// AddMember adds one entry to the group.
func (g *BaseGroup[M]) AddMember(member Entry) error {
	return g.AddMembers(member)
}

// AddMembers adds entries to the group. Either all of them are added or none
// is: every candidate is checked before the set changes.
// Returns ErrMemberType if a candidate is nil or not an M, ErrUnassigned if a
// candidate has no tid, ErrDetached if the group has no container, and
// ErrUnresolved if the group's container does not hold the candidate itself.
// Adding an existing member is a no-op.
func (g *BaseGroup[M]) AddMembers(members ...Entry) error {
	tids := make([]string, 0, len(members))
	for _, m := range members {
		if _, ok := m.(M); !ok || isNilEntry(m) {
			return fmt.Errorf("%w: members of %s must be %s, got %s", ErrMemberType, g, g.MemberKind(), kindOf(m))
		}
		tid := m.TID()
		if tid == "" {
			return fmt.Errorf("%w: %s member of %s", ErrUnassigned, m.Kind(), g)
		}
		if g.container == nil {
			return fmt.Errorf("%w: cannot add members to %s", ErrDetached, g)
		}
		held, err := g.container.GetEntry(tid)
		if err != nil {
			return fmt.Errorf("%w: member %s of %s: %w", ErrUnresolved, tid, g, err)
		}
		if held != m {
			return fmt.Errorf("%w: member %s of %s belongs to another container", ErrUnresolved, tid, g)
		}
		tids = append(tids, tid)
	}

	if g.members == nil {
		g.members = make(map[string]struct{}, len(tids))
	}
	for _, tid := range tids {
		g.members[tid] = struct{}{}
	}
	return nil
}

// Members returns the sorted member tids. Use GetMembers for the entries.
func (g *BaseGroup[M]) Members() []string {
	tids := make([]string, 0, len(g.members))
	for tid := range g.members {
		tids = append(tids, tid)
	}
	slices.Sort(tids)
	return tids
}

// Len returns the number of members.
func (g *BaseGroup[M]) Len() int {
	return len(g.members)
}

// MemberKind names the type every member must satisfy.
func (g *BaseGroup[M]) MemberKind() string {
	return typeName[M]()
}

// GetMembers resolves every member through the container, ordered by tid.
// Returns ErrDetached if the group has no container and ErrUnresolved if a
// member tid no longer resolves.
func (g *BaseGroup[M]) GetMembers() ([]Entry, error) {
	if g.container == nil {
		return nil, fmt.Errorf("%w: cannot get members of %s", ErrDetached, g)
	}
	entries := make([]Entry, 0, len(g.members))
	for _, tid := range g.Members() {
		e, err := g.container.GetEntry(tid)
		if err != nil {
			return nil, fmt.Errorf("%w: member %s of %s: %w", ErrUnresolved, tid, g, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// TypedMembers is GetMembers narrowed to M.
func (g *BaseGroup[M]) TypedMembers() ([]M, error) {
	entries, err := g.GetMembers()
	if err != nil {
		return nil, err
	}
	typed := make([]M, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(M)
		if !ok {
			return nil, fmt.Errorf("%w: member %s of %s is %s", ErrMemberType, e.TID(), g, e.Kind())
		}
		typed = append(typed, m)
	}
	return typed, nil
}

// GroupIdentity is the comparable identity of a group: its kind and member
// set.
type GroupIdentity struct {
	Kind    string
	Members string
}

// GroupKey returns the identity of g.
func GroupKey(g Group) GroupIdentity {
	return GroupIdentity{Kind: g.Kind(), Members: strings.Join(g.Members(), "\x1f")}
}

// GroupsEqual reports whether a and b have the same kind and members.
func GroupsEqual(a, b Group) bool {
	return GroupKey(a) == GroupKey(b)
}
