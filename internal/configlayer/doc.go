// Package configlayer propagates the default configuration bundle through
// the system and user tiers, backing up any pre-existing file at each tier
// before overwrite. Backups accumulate; nothing here deletes prior content.
//
// Overwrite-with-backup is deliberate: config schemas may change between
// daemon versions, and a full reset with recoverable history is simpler and
// safer than field-level merging.
package configlayer
