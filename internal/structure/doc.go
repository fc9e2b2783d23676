// Package structure provides the object model of a co-simulation system
// structure: simulators, signal-processing functions, typed initial values
// and the connection graph linking them.
//
// This package contains the model and its canonical dictionary codec only.
// It imports nothing internal; compiler, store and cli build on it.
//
// Key design constraints:
//   - Every list that may be absent in the external schema is a List, which
//     is either absent or non-empty, never an empty slice
//   - Cross-references (endpoint -> simulator, endpoint -> function) are
//     checked by SystemStructure at the moment they are added
//   - A failed mutation leaves the structure exactly as it was
//   - A SystemStructure is not safe for concurrent mutation; callers that
//     share one must guard it with their own mutex
package structure
