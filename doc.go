// Package xnuimagetools provides analysis tooling for fuzzing image
// handling code.
//
// APIs are separated into subpackages, and documented accordingly.
// The pattern package generates cyclic pattern strings and recovers
// the offsets of crash fragments. The inject package finds injection
// strings hidden in the bit planes of fuzzed images.
//
// For scripting convenience, "OrExit" functions and methods are provided.
// Any errors encountered by these functions are treated as fatal. In such
// cases, an exit handler function is invoked.
package xnuimagetools
