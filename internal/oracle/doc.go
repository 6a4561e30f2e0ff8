// Package oracle is the verification collaborator measured by the harness.
//
// [Ed25519] exposes three entry points over a (public key, message,
// signature) triple:
//
//   - Verify: ordinary Ed25519 verification, the routine whose timing is
//     studied.
//   - ByzScore: a deterministic integer estimating how much work a
//     variable-time verification performs for the triple. It counts the
//     non-zero digits of the width-5 NAF of the challenge scalar k and of the
//     width-8 NAF of s, i.e. the point additions a double-base
//     multiplication [k](-A) + [s]B takes with those window sizes.
//     Undecodable inputs score 0.
//   - VerifyTimed: verification split into decode, challenge, multiply and
//     compare phases, each timed.
//
// Consumers treat the score as an opaque deterministic function; the only
// property they rely on is that identical inputs give identical scores.
package oracle
