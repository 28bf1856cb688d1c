// Package fragment defines the structural model of one configuration
// unit and the loader that parses it from disk.
//
// Parsing is deliberately split from evaluation. A fragment's
// expressions (include paths, inputs, generate contents) cannot be
// evaluated until its locals and includes are resolved, and an included
// fragment must be loadable out-of-band, independent of any particular
// caller's position in the tree. The loader therefore produces raw
// expressions and leaves evaluation to the resolver.
package fragment
