package pack

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/mesh-intelligence/annopack/pkg/ontology"
)

// Spanned is implemented by entries that cover a span of the pack text.
type Spanned interface {
	Span() ontology.Span
}

// Meta describes a pack independently of its entries.
type Meta struct {
	ID   string `json:"pack_id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// Record is the storage-neutral form of one entry.
type Record struct {
	TID       string                     `json:"tid"`
	Kind      string                     `json:"kind"`
	Component string                     `json:"component,omitempty"`
	Span      *ontology.Span             `json:"span,omitempty"`
	Fields    map[string]json.RawMessage `json:"fields,omitempty"`
	Parent    string                     `json:"parent,omitempty"`
	Child     string                     `json:"child,omitempty"`
	Members   []string                   `json:"members,omitempty"`
}

// NewFunc constructs an empty entry of one kind against p. Link and group
// kinds are constructed without endpoints or members; Restore fills those in
// once every entry exists. span is the zero Span for kinds without one.
type NewFunc func(p *Pack, span ontology.Span) (ontology.Entry, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]NewFunc)
)

// RegisterKind makes a kind restorable. Kind packages call it from init.
func RegisterKind(kind string, fn NewFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = fn
}

// RegisteredKinds returns the sorted names of restorable kinds.
func RegisteredKinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func lookupKind(kind string) (NewFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[kind]
	return fn, ok
}

// Meta returns the pack id, name and text.
func (p *Pack) Meta() Meta {
	return Meta{ID: p.id, Name: p.name, Text: p.text}
}

// Records flattens every entry, in insertion order.
func (p *Pack) Records() ([]Record, error) {
	records := make([]Record, 0, len(p.order))
	for _, e := range p.Entries() {
		rec := Record{
			TID:       e.TID(),
			Kind:      e.Kind(),
			Component: e.Component(),
		}
		if s, ok := e.(Spanned); ok {
			span := s.Span()
			rec.Span = &span
		}
		if values := ontology.FieldValues(e); len(values) > 0 {
			rec.Fields = make(map[string]json.RawMessage, len(values))
			for name, v := range values {
				data, err := json.Marshal(v)
				if err != nil {
					return nil, fmt.Errorf("encoding %s field %s: %w", e.TID(), name, err)
				}
				rec.Fields[name] = data
			}
		}
		switch v := e.(type) {
		case ontology.Link:
			rec.Parent = v.ParentID()
			rec.Child = v.ChildID()
		case ontology.Group:
			rec.Members = v.Members()
		}
		records = append(records, rec)
	}
	return records, nil
}

// Restore rebuilds a pack from its meta and records. Tids are kept verbatim
// and the raw id counter resumes after the largest numeric raw id. Every
// kind must have been registered with RegisterKind.
func Restore(meta Meta, records []Record, opts ...Option) (*Pack, error) {
	p := New(opts...)
	if meta.ID != "" {
		p.id = meta.ID
	}
	p.name = meta.Name
	p.text = meta.Text

	built := make([]ontology.Entry, len(records))
	for i, rec := range records {
		e, err := p.restoreEntry(rec)
		if err != nil {
			return nil, err
		}
		built[i] = e
	}

	for i, rec := range records {
		if err := p.restoreRefs(built[i], rec); err != nil {
			return nil, err
		}
	}
	p.logger.Debug("pack restored", "pack", p.id, "entries", len(records))
	return p, nil
}

func (p *Pack) restoreEntry(rec Record) (ontology.Entry, error) {
	fn, ok := lookupKind(rec.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, rec.Kind)
	}
	raw, ok := strings.CutPrefix(rec.TID, rec.Kind+".")
	if !ok || raw == "" {
		return nil, fmt.Errorf("%w: tid %q does not match kind %s", ErrInvalidRecord, rec.TID, rec.Kind)
	}
	if _, dup := p.entries[rec.TID]; dup {
		return nil, fmt.Errorf("%w: duplicate tid %s", ErrInvalidRecord, rec.TID)
	}

	var span ontology.Span
	if rec.Span != nil {
		span = *rec.Span
	}
	e, err := fn(p, span)
	if err != nil {
		return nil, fmt.Errorf("restoring %s: %w", rec.TID, err)
	}
	if err := e.AssignID(raw); err != nil {
		return nil, fmt.Errorf("restoring %s: %w", rec.TID, err)
	}
	e.SetComponent(rec.Component)
	if err := ontology.RestoreFields(e, rec.Fields); err != nil {
		return nil, fmt.Errorf("restoring %s: %w", rec.TID, err)
	}
	if n, err := strconv.Atoi(raw); err == nil && n > p.nextID {
		p.nextID = n
	}
	p.insert(e)
	return e, nil
}

func (p *Pack) restoreRefs(e ontology.Entry, rec Record) error {
	switch v := e.(type) {
	case ontology.Link:
		if rec.Parent != "" {
			parent, err := p.GetEntry(rec.Parent)
			if err != nil {
				return fmt.Errorf("restoring parent of %s: %w", rec.TID, err)
			}
			if err := v.SetParent(parent); err != nil {
				return fmt.Errorf("restoring parent of %s: %w", rec.TID, err)
			}
		}
		if rec.Child != "" {
			child, err := p.GetEntry(rec.Child)
			if err != nil {
				return fmt.Errorf("restoring child of %s: %w", rec.TID, err)
			}
			if err := v.SetChild(child); err != nil {
				return fmt.Errorf("restoring child of %s: %w", rec.TID, err)
			}
		}
	case ontology.Group:
		members := make([]ontology.Entry, 0, len(rec.Members))
		for _, tid := range rec.Members {
			m, err := p.GetEntry(tid)
			if err != nil {
				return fmt.Errorf("restoring members of %s: %w", rec.TID, err)
			}
			members = append(members, m)
		}
		if err := v.AddMembers(members...); err != nil {
			return fmt.Errorf("restoring members of %s: %w", rec.TID, err)
		}
	default:
		if rec.Parent != "" || rec.Child != "" || len(rec.Members) > 0 {
			return fmt.Errorf("%w: %s is neither a link nor a group", ErrInvalidRecord, rec.TID)
		}
	}
	return nil
}
