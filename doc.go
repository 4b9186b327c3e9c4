// Package aether implements a Maven-style dependency collector and
// conflict resolver: given a set of root artifact coordinates and a set of
// remote repositories, it builds a potentially cyclic dependency graph by
// recursively resolving version ranges and fetching artifact descriptors,
// then transforms that graph into a conflict-free tree under a pluggable
// policy (version selection, scope derivation, optionality, convergence).
//
// Transport, descriptor parsing, checksum algorithms and event dispatch are
// external collaborators, reached only through the interfaces in
// session.go and selector.go. Cross-process coordination for concurrent
// installs/deploys/resolves against a shared local cache lives in the
// sibling packages namedlock, namemapper and synccontext.
package aether
