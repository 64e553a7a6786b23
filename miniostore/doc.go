// Package miniostore implements the catalog storage contract against a
// single named object in an S3-compatible object store.
//
// Every mutation is a whole-document read-modify-write: fetch the
// object, mutate the collection in memory, upload the full replacement.
// There is no cross-process coordination, so concurrent writers from
// different processes race with last-write-wins semantics; mutations
// within one Store instance are serialized by a mutex.
//
// Network and auth failures surface as catalog.ErrUnavailable and are
// never retried internally; retry policy belongs to the caller.
package miniostore
