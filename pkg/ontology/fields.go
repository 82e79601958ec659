package ontology

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Field is one entry attribute that SetFields may change. Kinds declare their
// settable attributes with Var in a Fields method; anything not declared is
// unknown to SetFields.
type Field struct {
	name   string
	value  func() any
	assign func(v any) (func(), error)
	decode func(data []byte) (func(), error)
}

// Fielded is implemented by kinds that expose settable fields.
type Fielded interface {
	Fields() []Field
}

// Var declares a field named name stored at dst. A nil value assigns the zero
// value of T; any other value must have dynamic type T.
func Var[T any](name string, dst *T) Field {
	return Field{
		name:  name,
		value: func() any { return *dst },
		assign: func(v any) (func(), error) {
			if v == nil {
				var zero T
				return func() { *dst = zero }, nil
			}
			t, ok := v.(T)
			if !ok {
				return nil, fmt.Errorf("%w: field %q wants %s, got %T", ErrFieldType, name, typeName[T](), v)
			}
			return func() { *dst = t }, nil
		},
		decode: func(data []byte) (func(), error) {
			var t T
			if err := json.Unmarshal(data, &t); err != nil {
				return nil, fmt.Errorf("%w: field %q: %w", ErrFieldType, name, err)
			}
			return func() { *dst = t }, nil
		},
	}
}

// Name returns the field name.
func (f Field) Name() string {
	return f.name
}

// Value returns the current value of the field.
func (f Field) Value() any {
	return f.value()
}

// FieldNames returns the sorted names of the fields e declares.
func FieldNames(e Entry) []string {
	table := fieldTable(e)
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FieldValues returns the current value of every declared field of e.
func FieldValues(e Entry) map[string]any {
	table := fieldTable(e)
	values := make(map[string]any, len(table))
	for name, f := range table {
		values[name] = f.Value()
	}
	return values
}

// RestoreFields decodes JSON-encoded field values into e. Unlike SetFields
// it does not mark the fields as modified; it is meant for containers
// rebuilding entries from storage. Unknown names are rejected, and nothing
// is applied unless every value decodes.
func RestoreFields(e Entry, raw map[string]json.RawMessage) error {
	table := fieldTable(e)
	names := sortedKeys(raw)
	apply := make([]func(), 0, len(names))
	for _, name := range names {
		f, ok := table[name]
		if !ok {
			return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, e.Kind(), name)
		}
		set, err := f.decode(raw[name])
		if err != nil {
			return err
		}
		apply = append(apply, set)
	}
	for _, set := range apply {
		set()
	}
	return nil
}

func fieldTable(e Entry) map[string]Field {
	fe, ok := e.(Fielded)
	if !ok {
		return nil
	}
	fields := fe.Fields()
	table := make(map[string]Field, len(fields))
	for _, f := range fields {
		table[f.name] = f
	}
	return table
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// typeName renders T the way kinds name themselves, e.g. "onto.Token" for
// *onto.Token.
func typeName[T any]() string {
	return strings.TrimPrefix(reflect.TypeFor[T]().String(), "*")
}

// isNilEntry reports whether e is nil or a typed nil pointer. Calling any
// BaseEntry method through a typed nil panics.
func isNilEntry(e Entry) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// kindOf names e for error messages.
func kindOf(e Entry) string {
	if isNilEntry(e) {
		return "<nil>"
	}
	return e.Kind()
}
