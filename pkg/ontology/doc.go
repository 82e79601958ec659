// Package ontology defines the entry object model shared by every annotation
// kind: the Span value type, the Entry base contract, and the Link and Group
// specializations.
//
// Entries never hold pointers to one another. A Container owns them by tid
// and resolves tids back to entries on demand; entries keep only a
// non-owning back reference to the container they were constructed against.
package ontology
