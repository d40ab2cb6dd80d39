// Package types defines the Store interface, entity types, settings keys,
// and standard errors for the tlog activity tracker.
//
// The store owns topics, notes and problems. Notes and problems reference a
// topic by ID and never outlive it.
package types
