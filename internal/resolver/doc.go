// Package resolver orchestrates per-leaf resolution: loading the leaf
// fragment, evaluating its locals, resolving its includes recursively,
// merging inputs with leaf-over-include precedence, and inheriting the
// once-per-tree blocks (source, remote_state, generate) leaf-most first.
//
// Resolution is a pure, read-only computation over the tree. The only
// mutable state is the per-run fragment cache, which is populated once
// per fragment and read-only afterwards, so independent leaves can be
// resolved concurrently.
package resolver
