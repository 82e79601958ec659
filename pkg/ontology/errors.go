package ontology

import "errors"

// Attachment errors.
var (
	ErrValidation = errors.New("entry rejected by container")
	ErrDetached   = errors.New("entry is not attached to a container")
	ErrUnassigned = errors.New("entry has no identifier")
	ErrAssigned   = errors.New("entry already has an identifier")
)

// Lookup errors. Containers return ErrNotFound from GetEntry; link and group
// resolution wrap it in ErrUnresolved.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrUnresolved    = errors.New("identifier does not resolve")
	ErrEndpointUnset = errors.New("link endpoint is not set")
)

// Mutation errors.
var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldType    = errors.New("field value type mismatch")
	ErrMemberType   = errors.New("member type mismatch")
)
