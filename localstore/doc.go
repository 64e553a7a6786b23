// Package localstore implements the catalog storage contract against a
// JSON document in a local file.
//
// The whole collection lives in one file. Reads parse the entire file;
// writes replace it atomically (temp file + rename), so a crash
// mid-write can never leave a half-written document and concurrent
// readers always see a complete one. Mutations on one Store instance
// are serialized by a mutex.
//
// If the file does not exist on first access it is created from the
// configured seed dataset.
package localstore
