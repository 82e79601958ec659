package ontology

import (
	"errors"
	"fmt"
	"slices"
)

// Entry is the contract every annotation object implements. Concrete kinds
// embed BaseEntry (or BaseLink / BaseGroup) and add a Kind method.
type Entry interface {
	// Kind returns the package-qualified kind name, e.g. "onto.Token".
	Kind() string

	TID() string
	IndexKey() string
	Component() string
	SetComponent(name string)

	// AssignID is called by the container to give the entry its tid.
	AssignID(raw string) error

	// Pack returns the container the entry is attached to, or nil once the
	// container has detached it.
	Pack() Container

	// Detach is called by the container when it drops the entry.
	Detach()

	SetFields(values map[string]any) error
	ModifiedFields() []string

	Key() EntryKey

	base() *BaseEntry
}

// EntryKey is the identity of an entry: two entries are the same entry iff
// their keys are equal. It is comparable and usable as a map key.
type EntryKey struct {
	Kind string
	TID  string
}

// BaseEntry carries the state shared by all kinds: tid, component, the set of
// modified fields and the container back reference.
type BaseEntry struct {
	self      Entry
	container Container
	tid       string
	component string
	modified  map[string]struct{}
	detached  bool
}

// Init attaches the entry under construction to c. self must be the entry
// that embeds b. The container validates self before it is attached; when
// validation fails the error wraps ErrValidation and the constructor must
// not hand the entry out.
func (b *BaseEntry) Init(self Entry, c Container) error {
	if self == nil || self.base() != b {
		return fmt.Errorf("%w: entry does not embed this base", ErrValidation)
	}
	if b.self != nil || b.detached {
		return fmt.Errorf("%w: %s is already initialized", ErrValidation, self.Kind())
	}
	if c == nil {
		return fmt.Errorf("%w: %s has no container", ErrValidation, self.Kind())
	}
	if err := c.Validate(self); err != nil {
		if errors.Is(err, ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrValidation, self.Kind(), err)
	}
	b.self = self
	b.container = c
	return nil
}

func (b *BaseEntry) base() *BaseEntry {
	return b
}

// TID returns the kind-qualified identifier, or "" before the container
// assigns one.
func (b *BaseEntry) TID() string {
	return b.tid
}

// IndexKey is the key the container indexes the entry under.
func (b *BaseEntry) IndexKey() string {
	return b.tid
}

// Component returns the name of the reader or processor that created the
// entry.
func (b *BaseEntry) Component() string {
	return b.component
}

// SetComponent records the creator of the entry. Callers that need
// once-only semantics enforce it themselves.
func (b *BaseEntry) SetComponent(name string) {
	b.component = name
}

// AssignID stores Qualify(kind, raw) as the tid.
// Returns ErrDetached if the entry is not attached and ErrAssigned if a tid
// was already assigned.
func (b *BaseEntry) AssignID(raw string) error {
	if b.container == nil {
		return ErrDetached
	}
	if b.tid != "" {
		return fmt.Errorf("%w: %s", ErrAssigned, b.tid)
	}
	b.tid = Qualify(b.self.Kind(), raw)
	return nil
}

// Pack returns the owning container, or nil once detached.
func (b *BaseEntry) Pack() Container {
	return b.container
}

// Detach drops the container reference. Detachment is terminal: Init
// refuses a detached entry and resolution fails with ErrDetached.
func (b *BaseEntry) Detach() {
	b.container = nil
	b.detached = true
}

// Detached reports whether the container has dropped the entry.
func (b *BaseEntry) Detached() bool {
	return b.detached
}

// SetFields assigns each named value to the field of the same name and
// records the names as modified. The call is all or nothing: every name and
// value is checked first, and if any is rejected nothing is changed.
// Returns ErrUnknownField for names the kind does not declare and
// ErrFieldType for values of the wrong type.
func (b *BaseEntry) SetFields(values map[string]any) error {
	if b.self == nil {
		return ErrDetached
	}
	table := fieldTable(b.self)
	names := sortedKeys(values)
	apply := make([]func(), 0, len(names))
	for _, name := range names {
		f, ok := table[name]
		if !ok {
			return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, b.self.Kind(), name)
		}
		set, err := f.assign(values[name])
		if err != nil {
			return fmt.Errorf("%s: %w", b.self.Kind(), err)
		}
		apply = append(apply, set)
	}

	if b.modified == nil {
		b.modified = make(map[string]struct{}, len(names))
	}
	for i, set := range apply {
		set()
		b.modified[names[i]] = struct{}{}
	}
	return nil
}

// ModifiedFields returns the sorted names of fields changed by SetFields.
func (b *BaseEntry) ModifiedFields() []string {
	names := make([]string, 0, len(b.modified))
	for name := range b.modified {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Key returns the (kind, tid) identity of the entry.
func (b *BaseEntry) Key() EntryKey {
	if b.self == nil {
		return EntryKey{TID: b.tid}
	}
	return EntryKey{Kind: b.self.Kind(), TID: b.tid}
}

func (b *BaseEntry) String() string {
	if b.tid == "" && b.self != nil {
		return b.self.Kind()
	}
	return b.tid
}

// Qualify builds a tid from a kind name and a container-local raw id.
func Qualify(kind, raw string) string {
	return kind + "." + raw
}

// SameEntry reports whether a and b have the same kind and tid.
func SameEntry(a, b Entry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// Identity returns the comparable identity e is hashed by: a LinkIdentity
// for links, a GroupIdentity for groups and the EntryKey otherwise. Link
// identities need resolution and can fail.
func Identity(e Entry) (any, error) {
	switch v := e.(type) {
	case Link:
		return LinkKey(v)
	case Group:
		return GroupKey(v), nil
	default:
		return e.Key(), nil
	}
}
