// Package lower converts a validated multi-layer graph into a
// single-layer execution DAG.
//
// The pass maps each node to an abstract operation, projects the Data,
// Control, Memory, and Time layers into one dependency edge set, and
// synthesizes a capability-check node ahead of every security-sensitive
// operation. The result owns no references back into the source graph
// beyond copied ids and property values.
package lower
