// Package domain holds the pure data types of the tour graph: nodes, edges,
// answers, sessions and validation reports. It has no behavior beyond
// payload decoding and carries no dependencies on the algorithms that
// consume it.
package domain
