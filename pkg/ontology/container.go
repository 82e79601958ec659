package ontology

// Container is the store that owns entries. It is the sole assigner of tids
// and the sole resolver of tids to entries.
type Container interface {
	// Validate is called once while an entry is being constructed. A non-nil
	// error aborts construction.
	Validate(e Entry) error

	// GetEntry returns the entry with the given tid.
	// Returns ErrNotFound if no such entry is held.
	GetEntry(tid string) (Entry, error)
}
