// Package onto is the base ontology: the concrete annotation, link and group
// kinds readers and processors produce. Every kind registers itself with
// package pack so stored packs can be restored.
package onto
