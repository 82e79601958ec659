package processor

import (
	"context"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/annopack/pkg/pack"
)

// MaskerName is the component name of the AttributeMasker.
const MaskerName = "processor.attribute_masker"

// AttributeMasker resets chosen fields of chosen kinds to their zero values.
type AttributeMasker struct {
	fields map[string][]string
}

// NewAttributeMasker masks, for every kind in fields, the listed field
// names.
func NewAttributeMasker(fields map[string][]string) *AttributeMasker {
	m := &AttributeMasker{fields: make(map[string][]string, len(fields))}
	for kind, names := range fields {
		m.fields[kind] = slices.Clone(names)
	}
	return m
}

// Name returns MaskerName.
func (m *AttributeMasker) Name() string {
	return MaskerName
}

// Process clears the configured fields on every matching entry of p. An
// unknown field name fails the whole call before the failing entry is
// touched.
func (m *AttributeMasker) Process(ctx context.Context, p *pack.Pack) error {
	for _, e := range p.Entries() {
		names, ok := m.fields[e.Kind()]
		if !ok || len(names) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		values := make(map[string]any, len(names))
		for _, name := range names {
			values[name] = nil
		}
		if err := e.SetFields(values); err != nil {
			return fmt.Errorf("masking %s: %w", e.TID(), err)
		}
	}
	return nil
}
