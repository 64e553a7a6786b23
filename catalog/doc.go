// Package catalog defines the service catalog data model and the
// storage contract shared by all backends.
//
// A catalog is a single ordered collection of records persisted as one
// JSON document:
//
//	{
//	    "records": [
//	        {"name": "...", "category": "...", "description": "..."}
//	    ]
//	}
//
// Backends implement the [Store] interface. Every mutation rewrites and
// persists the whole document before returning; there is no write-behind.
// Failures are reported via the sentinel errors in this package
// (ErrNotFound, ErrDuplicateName, ...) and matched with errors.Is.
package catalog
