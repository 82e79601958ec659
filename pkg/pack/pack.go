// Package pack provides the reference ontology.Container: an in-memory arena
// that owns entries by tid, assigns their identifiers and resolves tids back
// to entries.
//
// A Pack is not safe for concurrent mutation; callers serialize access.
package pack

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/annopack/pkg/ontology"
)

var _ ontology.Container = (*Pack)(nil)

// Pack holds the text of one document and the entries annotating it.
type Pack struct {
	id        string
	name      string
	text      string
	poison    bool
	entries   map[string]ontology.Entry
	order     []string
	nextID    int
	kinds     map[string]bool
	component string
	logger    *slog.Logger
}

// Option configures a Pack.
type Option func(*Pack)

// WithName sets the human-readable pack name.
func WithName(name string) Option {
	return func(p *Pack) { p.name = name }
}

// WithText sets the document text.
func WithText(text string) Option {
	return func(p *Pack) { p.text = text }
}

// WithKinds restricts the pack to the given kinds. With no kinds every kind
// is accepted.
func WithKinds(kinds ...string) Option {
	return func(p *Pack) {
		for _, k := range kinds {
			p.kinds[k] = true
		}
	}
}

// WithLogger sets the logger used for entry lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pack) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates an empty pack with a fresh UUID v7 id.
func New(opts ...Option) *Pack {
	p := &Pack{
		id:      generateUUID(),
		entries: make(map[string]ontology.Entry),
		kinds:   make(map[string]bool),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poison returns the end-of-stream marker pack. Processors skip it and it
// accepts no entries.
func Poison() *Pack {
	p := New(WithName("poison"))
	p.poison = true
	return p
}

// IsPoison reports whether p is an end-of-stream marker.
func (p *Pack) IsPoison() bool {
	return p.poison
}

// ID returns the pack id.
func (p *Pack) ID() string {
	return p.id
}

// Name returns the pack name.
func (p *Pack) Name() string {
	return p.name
}

// Text returns the document text annotations index into.
func (p *Pack) Text() string {
	return p.text
}

// SetText replaces the document text. Existing annotations are not
// revalidated.
func (p *Pack) SetText(text string) {
	p.text = text
}

// SetWorkingComponent names the reader or processor currently producing
// entries. Add stamps it on entries that have no component. An empty name
// clears it.
func (p *Pack) SetWorkingComponent(name string) {
	p.component = name
}

// WorkingComponent returns the name set by SetWorkingComponent.
func (p *Pack) WorkingComponent() string {
	return p.component
}

// Validate decides whether e may be constructed against this pack.
// Rejections wrap ontology.ErrValidation.
func (p *Pack) Validate(e ontology.Entry) error {
	if e == nil {
		return fmt.Errorf("%w: nil entry", ontology.ErrValidation)
	}
	if p.poison {
		return fmt.Errorf("%w: %s", ErrPoisonPack, e.Kind())
	}
	kind := e.Kind()
	if kind == "" {
		return fmt.Errorf("%w: entry has no kind", ontology.ErrValidation)
	}
	if len(p.kinds) > 0 && !p.kinds[kind] {
		return fmt.Errorf("%w: %s", ErrKindNotAccepted, kind)
	}
	if owner := e.Pack(); owner != nil && owner != ontology.Container(p) {
		return fmt.Errorf("%w: %s", ErrForeignEntry, kind)
	}
	if s, ok := e.(Spanned); ok {
		if err := p.checkSpan(s.Span()); err != nil {
			return fmt.Errorf("%w: %s", err, kind)
		}
	}
	return nil
}

func (p *Pack) checkSpan(s ontology.Span) error {
	if s.Begin < 0 || s.End < s.Begin || s.End > len(p.text) {
		return fmt.Errorf("%w: %s outside text of length %d", ErrSpanOutOfRange, s, len(p.text))
	}
	return nil
}

// Add registers an entry constructed against this pack and assigns its tid.
// Adding an entry that is already held returns its tid unchanged.
// Returns ErrForeignEntry for entries constructed against another container
// and ontology.ErrAssigned for entries that carry a tid this pack does not
// hold.
func (p *Pack) Add(e ontology.Entry) (string, error) {
	if e == nil {
		return "", fmt.Errorf("%w: nil entry", ontology.ErrValidation)
	}
	if e.Pack() != ontology.Container(p) {
		return "", fmt.Errorf("%w: %s", ErrForeignEntry, e.Kind())
	}
	if tid := e.TID(); tid != "" {
		if held, ok := p.entries[tid]; ok && held == e {
			return tid, nil
		}
		return "", fmt.Errorf("%w: %s", ontology.ErrAssigned, tid)
	}

	p.nextID++
	if err := e.AssignID(strconv.Itoa(p.nextID)); err != nil {
		return "", err
	}
	if e.Component() == "" && p.component != "" {
		e.SetComponent(p.component)
	}
	p.insert(e)
	return e.TID(), nil
}

func (p *Pack) insert(e ontology.Entry) {
	p.entries[e.TID()] = e
	p.order = append(p.order, e.TID())
	p.logger.Debug("entry added", "pack", p.id, "tid", e.TID(), "component", e.Component())
}

// GetEntry returns the entry with the given tid.
// Returns ontology.ErrNotFound if the pack does not hold it.
func (p *Pack) GetEntry(tid string) (ontology.Entry, error) {
	e, ok := p.entries[tid]
	if !ok {
		return nil, fmt.Errorf("%w: %s in pack %s", ontology.ErrNotFound, tid, p.id)
	}
	return e, nil
}

// Remove drops the entry with the given tid and detaches it. Links and
// groups that still reference the tid fail to resolve afterwards.
// Returns ontology.ErrNotFound if the pack does not hold it.
func (p *Pack) Remove(tid string) error {
	e, ok := p.entries[tid]
	if !ok {
		return fmt.Errorf("%w: %s in pack %s", ontology.ErrNotFound, tid, p.id)
	}
	delete(p.entries, tid)
	p.order = slices.DeleteFunc(p.order, func(t string) bool { return t == tid })
	e.Detach()
	p.logger.Debug("entry removed", "pack", p.id, "tid", tid)
	return nil
}

// Entries returns every held entry in the order it was added.
func (p *Pack) Entries() []ontology.Entry {
	out := make([]ontology.Entry, 0, len(p.order))
	for _, tid := range p.order {
		out = append(out, p.entries[tid])
	}
	return out
}

// Len returns the number of held entries.
func (p *Pack) Len() int {
	return len(p.entries)
}

// generateUUID generates a new UUID v7 for pack ids.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
