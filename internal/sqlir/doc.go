// Package sqlir provides the immutable SQL expression-tree IR for tabula.
//
// The IR is built once per logical query, then repeatedly inspected,
// annotated, and non-destructively rewritten by passes before being
// rendered to SQL text by the sqlprint package.
//
// ARCHITECTURE:
//
//	[CUE query defs] → [sqlir tree] → [rewrite passes] → [SQL text]
//
// Every node is an immutable pointer value: once constructed, none of
// its fields change. "Writes" construct new nodes; unchanged subtrees
// are shared by reference. This makes published trees safe for
// concurrent reads without any synchronization.
//
// SEALED INTERFACES:
//
// TableExpr and ScalarExpr are sealed interfaces using the marker
// method pattern. Only types in this package implement them, which
// keeps type switches in the printer and rewrite passes exhaustive.
//
// IDENTITY VS EQUALITY:
//
// Reference identity (interface ==) is distinct from structural
// equality (Equal). The Update methods use reference identity to
// decide whether anything changed; Equal compares semantic fields and
// ignores annotations. Hash is consistent with Equal.
//
// Key design constraints:
//   - NO float literal values - use IntValue (determinism)
//   - Annotations are metadata: excluded from Equal and Hash
//   - Update with unchanged children returns the receiver, zero allocation
package sqlir
