// Package registry implements the named-data registry engine.
//
// A Registry loads an ordered set of records from a source.Source once at
// construction and serves them by key. Every record leaving the registry,
// through Lookup or ListAll, passes through the same transform.Func; there is
// no raw read path once a transform is configured.
//
// # Strict lookup
//
// Lookup fails with *UnknownKeyError (matching ErrUnknownKey) for any key the
// source did not declare. There is no default record and no implicit
// creation.
//
// # Reloading
//
// The loaded records live in an immutable snapshot referenced through an
// atomic pointer. Reload builds a complete new snapshot and swaps the pointer,
// so concurrent readers see either the old or the new data set, never a mix.
// Reloads are serialized. A failed reload leaves the current snapshot live.
//
// # Verification
//
// Match and Diff compare a produced value, such as a decoded HTTP response
// body, with the output record currently registered under a key.
package registry
