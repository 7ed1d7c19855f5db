// Package ir defines the EAF-IPG graph model: nodes, layer-tagged edges,
// and the incidence records that join them.
//
// The representation is an incidence hypergraph. An Edge has no inherent
// arity; which nodes it touches, in which role, and in which position is
// expressed only through Incidence records. All cross-references are by
// string id into flat slices, so the structure is ownership-safe even for
// self-referential programs.
//
// Property and runtime values use the sealed Value union. Floats are
// forbidden throughout: graphs are content-addressed, and float formatting
// breaks deterministic hashing.
package ir
