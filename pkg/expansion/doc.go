// Package expansion tracks which tree nodes are expanded in a view.
//
// The tracker is a set of node identifiers, independent of the tree
// content and lifecycle: ids recurring across full reloads keep their
// expansion state, and an id not present in the current tree is simply
// inert. Top-level roots default to expanded the first time they are
// seen; every other node defaults to collapsed.
package expansion
