// Package input builds the signature/message/key triples fed to the
// verification routine under test.
//
// # Constructors
//
// There are two families of constructors and they must not be confused:
//
//   - [Random] and [New] produce inputs whose signature verifies. [Random]
//     draws a fresh Ed25519 keypair and signs [Message]; [New] checks that
//     caller-supplied bytes verify before accepting them.
//
//   - [NewUnvalidated], [Parse] and [Forged] assemble inputs from raw bytes
//     without any cryptographic check. The result is byte-decodable but a
//     correct verifier may reject it. These exist for adversarial and corner
//     case measurements only.
//
// Every input carries the same constant [Message] so that timing comparisons
// between inputs hold the message fixed.
//
// # Reproducibility
//
// [NewSeededReader] expands a seed into a deterministic byte stream using
// HKDF-SHA-512. Passing it to [Random] makes fixture generation repeatable.
package input
