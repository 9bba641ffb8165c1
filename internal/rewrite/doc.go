// Package rewrite provides tree-transformation passes over sqlir trees.
//
// Passes never mutate a tree. They call the nodes' Update operations
// with possibly-transformed children; a node whose children are
// reference-identical to the candidates returns itself, so an
// untouched subtree propagates the same reference all the way to the
// root and a no-op pass costs no allocation.
//
// Each run of the pass runner carries a time-sortable UUIDv7 token.
// When a run changes the tree, the token is recorded in a provenance
// annotation on the root, so downstream consumers can tell which run
// produced the shape they are looking at.
package rewrite
