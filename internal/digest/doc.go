// Package digest computes content-addressed identities for event logs.
//
// Values are serialised as canonical JSON (RFC 8785 key order, NFC strings,
// no floats, no null) and hashed with SHA-256 under a versioned domain
// prefix. Two logs with the same cases and events always get the same ID,
// whatever file format or row order they were read from.
package digest
