// Package fixture persists benchmark inputs and timing results.
//
// Fixtures are YAML lists of inputs with base64url keys and signatures.
// Results are JSON arrays of per-trial nanoseconds, one file per flush
// mode and run index, next to a manifest describing the sweep.
//
// Loading is all or nothing: any malformed record fails the whole file
// with ErrFixture.
package fixture
